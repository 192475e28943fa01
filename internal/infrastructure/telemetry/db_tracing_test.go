package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint
	Name string
}

func newTracedDB(t *testing.T, cfg DBTracingConfig) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, RegisterDBTracing(db, cfg, zap.NewNop()))
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func TestRegisterDBTracing_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	db := newTracedDB(t, DBTracingConfig{
		Enabled:        true,
		DBSystem:       "sqlite",
		TracerProvider: provider,
	})

	require.NoError(t, db.WithContext(context.Background()).Create(&tracedRow{Name: "soap"}).Error)
	var rows []tracedRow
	require.NoError(t, db.WithContext(context.Background()).Find(&rows).Error)

	assert.NotEmpty(t, recorder.Ended())
}

func TestRegisterDBTracing_Disabled(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	db := newTracedDB(t, DBTracingConfig{Enabled: false, TracerProvider: provider})
	require.NoError(t, db.Create(&tracedRow{Name: "soap"}).Error)

	assert.Empty(t, recorder.Ended())
}

func TestSlowQueryCallback(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, span := provider.Tracer("test").Start(context.Background(), "query")
	ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-time.Second))

	db := &gorm.DB{Statement: &gorm.Statement{Context: ctx, Table: "sales", DB: &gorm.DB{RowsAffected: 3}}}
	slowQueryCallback(100 * time.Millisecond)(db)
	span.End()

	attrs := recorder.Ended()[0].Attributes()
	assert.Contains(t, attrs, attribute.String("db.sql.table", "sales"))
	assert.Contains(t, attrs, attribute.Int64("db.rows_affected", 3))
	assert.Contains(t, attrs, attribute.Bool("db.slow_query", true))
}
