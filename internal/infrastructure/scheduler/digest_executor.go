package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	reportapp "github.com/shopmgmt/backend/internal/application/report"
	"github.com/shopmgmt/backend/internal/domain/report"
	"go.uber.org/zap"
)

// StockAlerter lists the products at or below their minimum stock level
type StockAlerter interface {
	StockAlerts(ctx context.Context, tenantID uuid.UUID) ([]report.StockAlert, error)
}

// DailySalesReporter builds the day-by-day sales report
type DailySalesReporter interface {
	DailySales(ctx context.Context, tenantID uuid.UUID, filter reportapp.PeriodFilter) (*reportapp.DailySalesResponse, error)
}

// DigestExecutor produces the per-shop daily digests and writes them to the log
type DigestExecutor struct {
	alerts  StockAlerter
	reports DailySalesReporter
	logger  *zap.Logger
}

// NewDigestExecutor creates a new DigestExecutor
func NewDigestExecutor(alerts StockAlerter, reports DailySalesReporter, logger *zap.Logger) *DigestExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DigestExecutor{alerts: alerts, reports: reports, logger: logger}
}

// Execute implements JobExecutor
func (e *DigestExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Type {
	case JobTypeStockAlerts:
		return e.stockAlerts(ctx, job)
	case JobTypeDailySales:
		return e.dailySales(ctx, job)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownJobType, job.Type)
	}
}

func (e *DigestExecutor) stockAlerts(ctx context.Context, job *Job) error {
	alerts, err := e.alerts.StockAlerts(ctx, job.TenantID)
	if err != nil {
		return err
	}
	if len(alerts) == 0 {
		return nil
	}

	outOfStock := 0
	products := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		if alert.AlertType == report.AlertTypeOutOfStock {
			outOfStock++
		}
		products = append(products, alert.ProductName)
	}
	e.logger.Warn("Stock alert digest",
		zap.String("tenant_id", job.TenantID.String()),
		zap.Int("alerts", len(alerts)),
		zap.Int("out_of_stock", outOfStock),
		zap.Strings("products", products),
	)
	return nil
}

func (e *DigestExecutor) dailySales(ctx context.Context, job *Job) error {
	daily, err := e.reports.DailySales(ctx, job.TenantID, reportapp.PeriodFilter{
		StartDate: job.Day,
		EndDate:   job.Day,
	})
	if err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("tenant_id", job.TenantID.String()),
		zap.String("day", job.Day.Format("2006-01-02")),
	}
	if len(daily.Days) == 0 {
		e.logger.Info("Daily sales digest", append(fields, zap.Int64("transactions", 0))...)
		return nil
	}
	day := daily.Days[0]
	fields = append(fields,
		zap.Int64("transactions", day.TotalTransactions),
		zap.String("total_sales", day.TotalSales.StringFixed(2)),
		zap.String("total_profit", day.TotalProfit.StringFixed(2)),
	)
	if len(day.TopProducts) > 0 {
		fields = append(fields, zap.String("top_product", day.TopProducts[0].ProductName))
	}
	e.logger.Info("Daily sales digest", fields...)
	return nil
}
