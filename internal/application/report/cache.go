package report

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Cache stores serialized report results.
// Get returns found=false on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func cacheKey(tenantID uuid.UUID, kind string, period shared.DateRange, extra ...any) string {
	key := fmt.Sprintf("report:%s:%s:%d-%d", tenantID, kind, period.Start.Unix(), period.End.Unix())
	for _, e := range extra {
		key += fmt.Sprintf(":%v", e)
	}
	return key
}

// cached serves key from the cache or computes it once for all concurrent
// callers. Cache failures are logged and never fail the report.
func cached[T any](ctx context.Context, s *ReportService, key string, compute func(context.Context) (T, error)) (T, error) {
	if s.cache != nil {
		if raw, found, err := s.cache.Get(ctx, key); err != nil {
			logger.L(ctx).Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		} else if found {
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				return v, nil
			}
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		result, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			if raw, err := json.Marshal(result); err == nil {
				if err := s.cache.Set(ctx, key, raw, s.ttl); err != nil {
					logger.L(ctx).Warn("report cache write failed", zap.String("key", key), zap.Error(err))
				}
			}
		}
		return result, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
