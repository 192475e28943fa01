package report

import (
	"context"
	"io"
	"sort"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/report"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

var hundred = decimal.NewFromInt(100)

// ReportService provides profit and sales reports
type ReportService struct {
	salesRepo report.SalesReportRepository
	cache     Cache
	ttl       time.Duration
	group     singleflight.Group
}

// Option configures a ReportService
type Option func(*ReportService)

// WithCache serves repeated reports from cache for ttl
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *ReportService) {
		s.cache = cache
		s.ttl = ttl
	}
}

// NewReportService creates a new ReportService
func NewReportService(salesRepo report.SalesReportRepository, opts ...Option) *ReportService {
	s := &ReportService{
		salesRepo: salesRepo,
		ttl:       time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProfitLoss returns revenue, cost and gross profit for the period with a
// per-category breakdown
func (s *ReportService) ProfitLoss(ctx context.Context, tenantID uuid.UUID, filter PeriodFilter) (*report.ProfitLossReport, error) {
	period, err := filter.dateRange()
	if err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "profit_loss")
	defer span.End()

	result, err := cached(ctx, s, cacheKey(tenantID, "profit-loss", period), func(ctx context.Context) (*report.ProfitLossReport, error) {
		domainFilter := report.SalesReportFilter{TenantID: tenantID, StartDate: period.Start, EndDate: period.End}

		var (
			totals     *report.SalesTotals
			categories []report.CategorySales
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			totals, err = s.salesRepo.GetSalesTotals(gctx, domainFilter)
			return err
		})
		g.Go(func() error {
			var err error
			categories, err = s.salesRepo.GetCategorySales(gctx, domainFilter)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, shared.WrapPersistence("failed to build profit and loss report", err)
		}

		return &report.ProfitLossReport{
			StartDate:         period.Start,
			EndDate:           period.End,
			TotalRevenue:      totals.TotalRevenue,
			TotalCost:         totals.TotalCost,
			GrossProfit:       totals.TotalProfit,
			GrossProfitMargin: percentage(totals.TotalProfit, totals.TotalRevenue),
			CategoryBreakdown: categories,
		}, nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return result, nil
}

// TopProducts ranks products by sales amount over the period
func (s *ReportService) TopProducts(ctx context.Context, tenantID uuid.UUID, filter PeriodFilter) (*TopProductsResponse, error) {
	period, err := filter.dateRange()
	if err != nil {
		return nil, err
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultTopProducts
	}

	return cached(ctx, s, cacheKey(tenantID, "top-products", period, limit), func(ctx context.Context) (*TopProductsResponse, error) {
		products, err := s.salesRepo.GetTopProducts(ctx, report.SalesReportFilter{
			TenantID:  tenantID,
			StartDate: period.Start,
			EndDate:   period.End,
			TopN:      limit,
		})
		if err != nil {
			return nil, shared.WrapPersistence("failed to rank products", err)
		}
		return &TopProductsResponse{StartDate: period.Start, EndDate: period.End, Products: products}, nil
	})
}

// DailySales summarizes each UTC day of the period that had sales,
// newest day first, with the day's best selling products
func (s *ReportService) DailySales(ctx context.Context, tenantID uuid.UUID, filter PeriodFilter) (*DailySalesResponse, error) {
	period, err := filter.dateRange()
	if err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "daily_sales")
	defer span.End()

	result, err := cached(ctx, s, cacheKey(tenantID, "daily-sales", period), func(ctx context.Context) (*DailySalesResponse, error) {
		domainFilter := report.SalesReportFilter{TenantID: tenantID, StartDate: period.Start, EndDate: period.End}

		var (
			headers []report.SaleHeader
			lines   []report.SaleLine
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			headers, err = s.salesRepo.GetSaleHeaders(gctx, domainFilter)
			return err
		})
		g.Go(func() error {
			var err error
			lines, err = s.salesRepo.GetSaleLines(gctx, domainFilter)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, shared.WrapPersistence("failed to build daily sales report", err)
		}

		return &DailySalesResponse{
			StartDate: period.Start,
			EndDate:   period.End,
			Days:      groupByDay(headers, lines),
		}, nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return result, nil
}

// ExportDailySalesCSV writes the daily sales report as CSV
func (s *ReportService) ExportDailySalesCSV(ctx context.Context, tenantID uuid.UUID, filter PeriodFilter, w io.Writer) error {
	daily, err := s.DailySales(ctx, tenantID, filter)
	if err != nil {
		return err
	}
	return gocsv.Marshal(toCSVRows(daily.Days), w)
}

func groupByDay(headers []report.SaleHeader, lines []report.SaleLine) []report.DailySales {
	days := make(map[time.Time]*report.DailySales)
	for _, h := range headers {
		day := dayOf(h.SaleTime)
		d, ok := days[day]
		if !ok {
			d = &report.DailySales{Date: day}
			days[day] = d
		}
		d.TotalSales = d.TotalSales.Add(h.TotalAmount)
		d.TotalProfit = d.TotalProfit.Add(h.TotalProfit)
		d.TotalTransactions++
	}

	products := make(map[time.Time]map[uuid.UUID]*report.ProductSales)
	for _, l := range lines {
		day := dayOf(l.SaleTime)
		if products[day] == nil {
			products[day] = make(map[uuid.UUID]*report.ProductSales)
		}
		p, ok := products[day][l.ProductID]
		if !ok {
			p = &report.ProductSales{ProductID: l.ProductID, ProductName: l.ProductName}
			products[day][l.ProductID] = p
		}
		p.QuantitySold += l.Quantity
		p.TotalSales = p.TotalSales.Add(l.TotalAmount)
		p.TotalProfit = p.TotalProfit.Add(l.TotalProfit)
	}

	out := make([]report.DailySales, 0, len(days))
	for day, d := range days {
		d.TopProducts = topN(products[day], DailyTopProducts)
		d.TotalSales = d.TotalSales.Round(2)
		d.TotalProfit = d.TotalProfit.Round(2)
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func topN(byProduct map[uuid.UUID]*report.ProductSales, n int) []report.ProductSales {
	ranked := make([]report.ProductSales, 0, len(byProduct))
	for _, p := range byProduct {
		ranked = append(ranked, *p)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if c := ranked[i].TotalSales.Cmp(ranked[j].TotalSales); c != 0 {
			return c > 0
		}
		if ranked[i].QuantitySold != ranked[j].QuantitySold {
			return ranked[i].QuantitySold > ranked[j].QuantitySold
		}
		return ranked[i].ProductName < ranked[j].ProductName
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func percentage(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}
