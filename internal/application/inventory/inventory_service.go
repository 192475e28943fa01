package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/catalog"
	"github.com/shopmgmt/backend/internal/domain/report"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// InventoryService answers stock level questions. Every figure covers
// active products only.
type InventoryService struct {
	reportRepo  report.InventoryReportRepository
	productRepo catalog.ProductRepository
	metrics     *telemetry.BusinessMetrics
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(reportRepo report.InventoryReportRepository, productRepo catalog.ProductRepository) *InventoryService {
	return &InventoryService{
		reportRepo:  reportRepo,
		productRepo: productRepo,
	}
}

// SetBusinessMetrics makes every summary refresh the stock health gauges
func (s *InventoryService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// Summary counts products and values current stock
func (s *InventoryService) Summary(ctx context.Context, tenantID uuid.UUID) (*report.InventorySummary, error) {
	summary, err := s.reportRepo.GetInventorySummary(ctx, tenantID)
	if err != nil {
		return nil, shared.WrapPersistence("failed to load inventory summary", err)
	}
	if s.metrics != nil {
		s.metrics.RecordStockHealth(ctx, tenantID, summary.LowStockItems, summary.OutOfStockItems)
	}
	return summary, nil
}

// StockAlerts lists products at or below their minimum level, out of stock first
func (s *InventoryService) StockAlerts(ctx context.Context, tenantID uuid.UUID) ([]report.StockAlert, error) {
	alerts, err := s.reportRepo.GetStockAlerts(ctx, tenantID)
	if err != nil {
		return nil, shared.WrapPersistence("failed to load stock alerts", err)
	}
	return alerts, nil
}

// CategoryInventory values stock per category, highest value first
func (s *InventoryService) CategoryInventory(ctx context.Context, tenantID uuid.UUID) ([]report.CategoryInventory, error) {
	categories, err := s.reportRepo.GetCategoryInventory(ctx, tenantID)
	if err != nil {
		return nil, shared.WrapPersistence("failed to load category inventory", err)
	}
	return categories, nil
}

// Overview loads the summary, alerts and category figures concurrently
func (s *InventoryService) Overview(ctx context.Context, tenantID uuid.UUID) (*OverviewResponse, error) {
	var (
		out OverviewResponse
		g   errgroup.Group
	)
	g.Go(func() error {
		summary, err := s.Summary(ctx, tenantID)
		if err != nil {
			return err
		}
		out.Summary = *summary
		return nil
	})
	g.Go(func() error {
		alerts, err := s.StockAlerts(ctx, tenantID)
		out.Alerts = alerts
		return err
	})
	g.Go(func() error {
		categories, err := s.CategoryInventory(ctx, tenantID)
		out.Categories = categories
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// RestockList lists active products at or below their minimum level, lowest
// stock first
func (s *InventoryService) RestockList(ctx context.Context, tenantID uuid.UUID) ([]RestockItem, error) {
	products, err := s.productRepo.FindLowStock(ctx, tenantID)
	if err != nil {
		return nil, shared.WrapPersistence("failed to load restock list", err)
	}
	return ToRestockItems(products), nil
}

// Turnover divides the cost of goods sold in [start, end) by the current
// stock value at buying price. The ratio is zero when either side is zero.
func (s *InventoryService) Turnover(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (*TurnoverResponse, error) {
	period, err := shared.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}

	var (
		cogs    decimal.Decimal
		summary *report.InventorySummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cogs, err = s.reportRepo.GetCostOfGoodsSold(gctx, tenantID, period.Start, period.End)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = s.reportRepo.GetInventorySummary(gctx, tenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, shared.WrapPersistence("failed to compute stock turnover", err)
	}

	ratio := decimal.Zero
	if cogs.IsPositive() && summary.TotalInvestment.IsPositive() {
		ratio = cogs.Div(summary.TotalInvestment).Round(2)
	}
	return &TurnoverResponse{
		StartDate: period.Start,
		EndDate:   period.End,
		StockTurnover: report.StockTurnover{
			CostOfGoodsSold: cogs,
			InventoryValue:  summary.TotalInvestment,
			TurnoverRatio:   ratio,
		},
	}, nil
}
