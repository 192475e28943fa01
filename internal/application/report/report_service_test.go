package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopmgmt/backend/internal/domain/report"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSalesReportRepo struct {
	mock.Mock
}

func (m *mockSalesReportRepo) GetSalesTotals(ctx context.Context, filter report.SalesReportFilter) (*report.SalesTotals, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.(*report.SalesTotals), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSalesReportRepo) GetCategorySales(ctx context.Context, filter report.SalesReportFilter) ([]report.CategorySales, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]report.CategorySales), args.Error(1)
}

func (m *mockSalesReportRepo) GetTopProducts(ctx context.Context, filter report.SalesReportFilter) ([]report.ProductSales, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]report.ProductSales), args.Error(1)
}

func (m *mockSalesReportRepo) GetSaleLines(ctx context.Context, filter report.SalesReportFilter) ([]report.SaleLine, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]report.SaleLine), args.Error(1)
}

func (m *mockSalesReportRepo) GetSaleHeaders(ctx context.Context, filter report.SalesReportFilter) ([]report.SaleHeader, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]report.SaleHeader), args.Error(1)
}

var (
	periodStart = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC)
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func period() PeriodFilter {
	return PeriodFilter{StartDate: periodStart, EndDate: periodEnd}
}

func TestReportService_ProfitLoss(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(mockSalesReportRepo)
	categories := []report.CategorySales{
		{CategoryID: uuid.New(), CategoryName: "Drinks", TotalSales: d("300"), TotalProfit: d("120"), ProfitMargin: d("40")},
		{CategoryID: uuid.New(), CategoryName: "Snacks", TotalSales: decimal.Zero, TotalProfit: decimal.Zero, ProfitMargin: decimal.Zero},
	}
	repo.On("GetSalesTotals", mock.Anything, mock.MatchedBy(func(f report.SalesReportFilter) bool {
		return f.TenantID == tenantID && f.StartDate.Equal(periodStart) && f.EndDate.Equal(periodEnd.AddDate(0, 0, 1))
	})).Return(&report.SalesTotals{TotalRevenue: d("300"), TotalCost: d("180"), TotalProfit: d("120"), TotalTransactions: 2}, nil)
	repo.On("GetCategorySales", mock.Anything, mock.Anything).Return(categories, nil)

	result, err := NewReportService(repo).ProfitLoss(ctx, tenantID, period())
	require.NoError(t, err)
	assert.True(t, result.TotalRevenue.Equal(d("300")))
	assert.True(t, result.TotalCost.Equal(d("180")))
	assert.True(t, result.GrossProfit.Equal(d("120")))
	assert.Equal(t, "40", result.GrossProfitMargin.String())
	assert.Len(t, result.CategoryBreakdown, 2)
	repo.AssertExpectations(t)
}

func TestReportService_ProfitLossWithoutSales(t *testing.T) {
	repo := new(mockSalesReportRepo)
	repo.On("GetSalesTotals", mock.Anything, mock.Anything).Return(&report.SalesTotals{}, nil)
	repo.On("GetCategorySales", mock.Anything, mock.Anything).Return([]report.CategorySales{}, nil)

	result, err := NewReportService(repo).ProfitLoss(context.Background(), uuid.New(), period())
	require.NoError(t, err)
	assert.True(t, result.GrossProfitMargin.IsZero())
}

func TestReportService_RejectsBadRange(t *testing.T) {
	repo := new(mockSalesReportRepo)
	service := NewReportService(repo)
	ctx := context.Background()

	_, err := service.DailySales(ctx, uuid.New(), PeriodFilter{StartDate: periodEnd, EndDate: periodStart})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	_, err = service.TopProducts(ctx, uuid.New(), PeriodFilter{StartDate: periodStart.AddDate(-2, 0, 0), EndDate: periodEnd})
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))

	repo.AssertNotCalled(t, "GetSaleHeaders", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "GetTopProducts", mock.Anything, mock.Anything)
}

func TestReportService_TopProductsDefaultLimit(t *testing.T) {
	repo := new(mockSalesReportRepo)
	repo.On("GetTopProducts", mock.Anything, mock.MatchedBy(func(f report.SalesReportFilter) bool {
		return f.TopN == DefaultTopProducts
	})).Return([]report.ProductSales{{ProductName: "Cola", QuantitySold: 3, TotalSales: d("30")}}, nil)

	result, err := NewReportService(repo).TopProducts(context.Background(), uuid.New(), period())
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "Cola", result.Products[0].ProductName)
	repo.AssertExpectations(t)
}

func TestReportService_RepositoryFailure(t *testing.T) {
	repo := new(mockSalesReportRepo)
	repo.On("GetTopProducts", mock.Anything, mock.Anything).Return([]report.ProductSales(nil), errors.New("connection refused"))

	_, err := NewReportService(repo).TopProducts(context.Background(), uuid.New(), period())
	assert.Equal(t, shared.KindPersistence, shared.KindOf(err))
}

func dailyFixture(repo *mockSalesReportRepo) {
	day1 := time.Date(2024, 5, 2, 9, 30, 0, 0, time.UTC)
	day2 := time.Date(2024, 5, 3, 23, 59, 0, 0, time.UTC)
	saleA, saleB, saleC := uuid.New(), uuid.New(), uuid.New()

	headers := []report.SaleHeader{
		{SaleID: saleA, SaleTime: day1, TotalAmount: d("50"), TotalProfit: d("20")},
		{SaleID: saleB, SaleTime: day1.Add(time.Hour), TotalAmount: d("25"), TotalProfit: d("5")},
		{SaleID: saleC, SaleTime: day2, TotalAmount: d("70"), TotalProfit: d("30")},
	}

	var lines []report.SaleLine
	products := make([]uuid.UUID, 7)
	for i := range products {
		products[i] = uuid.New()
	}
	lines = append(lines,
		report.SaleLine{SaleID: saleA, SaleTime: day1, ProductID: products[0], ProductName: "Tea", Quantity: 2, TotalAmount: d("30"), TotalProfit: d("12")},
		report.SaleLine{SaleID: saleA, SaleTime: day1, ProductID: products[1], ProductName: "Bread", Quantity: 1, TotalAmount: d("20"), TotalProfit: d("8")},
		report.SaleLine{SaleID: saleB, SaleTime: day1.Add(time.Hour), ProductID: products[1], ProductName: "Bread", Quantity: 1, TotalAmount: d("25"), TotalProfit: d("5")},
	)
	for i := 0; i < 7; i++ {
		lines = append(lines, report.SaleLine{
			SaleID:      saleC,
			SaleTime:    day2,
			ProductID:   products[i],
			ProductName: []string{"Tea", "Bread", "Milk", "Eggs", "Rice", "Soap", "Salt"}[i],
			Quantity:    1,
			TotalAmount: decimal.NewFromInt(int64(16 - 2*i)),
			TotalProfit: decimal.NewFromInt(int64(4)),
		})
	}

	repo.On("GetSaleHeaders", mock.Anything, mock.Anything).Return(headers, nil)
	repo.On("GetSaleLines", mock.Anything, mock.Anything).Return(lines, nil)
}

func TestReportService_DailySales(t *testing.T) {
	repo := new(mockSalesReportRepo)
	dailyFixture(repo)

	result, err := NewReportService(repo).DailySales(context.Background(), uuid.New(), period())
	require.NoError(t, err)
	require.Len(t, result.Days, 2)

	newest := result.Days[0]
	assert.Equal(t, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), newest.Date)
	assert.Equal(t, int64(1), newest.TotalTransactions)
	require.Len(t, newest.TopProducts, DailyTopProducts)
	assert.Equal(t, "Tea", newest.TopProducts[0].ProductName)
	assert.Equal(t, "Rice", newest.TopProducts[4].ProductName)

	oldest := result.Days[1]
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), oldest.Date)
	assert.Equal(t, int64(2), oldest.TotalTransactions)
	assert.Equal(t, "75", oldest.TotalSales.String())
	assert.Equal(t, "25", oldest.TotalProfit.String())
	require.Len(t, oldest.TopProducts, 2)
	assert.Equal(t, "Bread", oldest.TopProducts[0].ProductName)
	assert.Equal(t, int64(2), oldest.TopProducts[0].QuantitySold)
	assert.Equal(t, "45", oldest.TopProducts[0].TotalSales.String())
}

func TestReportService_ExportDailySalesCSV(t *testing.T) {
	repo := new(mockSalesReportRepo)
	dailyFixture(repo)

	var buf bytes.Buffer
	err := NewReportService(repo).ExportDailySalesCSV(context.Background(), uuid.New(), period(), &buf)
	require.NoError(t, err)

	rows := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, rows, 3)
	assert.Equal(t, "date,total_sales,total_profit,transactions,top_product,top_product_sales", rows[0])
	assert.Equal(t, "2024-05-03,70.00,30.00,1,Tea,16.00", rows[1])
	assert.Equal(t, "2024-05-02,75.00,25.00,2,Bread,45.00", rows[2])
}

func TestReportService_CachesResults(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := new(mockSalesReportRepo)
	repo.On("GetTopProducts", mock.Anything, mock.Anything).
		Return([]report.ProductSales{{ProductName: "Cola", QuantitySold: 3, TotalSales: d("30.5")}}, nil).
		Once()
	service := NewReportService(repo, WithCache(cache.NewRedisReportCache(client), time.Minute))

	first, err := service.TopProducts(ctx, tenantID, period())
	require.NoError(t, err)
	second, err := service.TopProducts(ctx, tenantID, period())
	require.NoError(t, err)

	assert.True(t, second.Products[0].TotalSales.Equal(first.Products[0].TotalSales))
	repo.AssertNumberOfCalls(t, "GetTopProducts", 1)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "report:"+tenantID.String()+":top-products:"))
	assert.True(t, strings.HasSuffix(keys[0], ":10"))

	mr.FastForward(2 * time.Minute)
	repo.On("GetTopProducts", mock.Anything, mock.Anything).Return([]report.ProductSales{}, nil).Once()
	third, err := service.TopProducts(ctx, tenantID, period())
	require.NoError(t, err)
	assert.Empty(t, third.Products)
}

func TestReportService_CacheOutageFallsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	repo := new(mockSalesReportRepo)
	repo.On("GetTopProducts", mock.Anything, mock.Anything).Return([]report.ProductSales{{ProductName: "Cola"}}, nil)
	service := NewReportService(repo, WithCache(cache.NewRedisReportCache(client), time.Minute))

	result, err := service.TopProducts(context.Background(), uuid.New(), period())
	require.NoError(t, err)
	assert.Len(t, result.Products, 1)
}

func TestPeriodFilter_EndDateIsInclusive(t *testing.T) {
	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	r, err := PeriodFilter{StartDate: day, EndDate: day}.dateRange()
	require.NoError(t, err)
	assert.Equal(t, day, r.Start)
	assert.Equal(t, day.AddDate(0, 0, 1), r.End)
	assert.True(t, r.Contains(day.Add(23*time.Hour)))

	_, err = PeriodFilter{StartDate: day.AddDate(0, 0, 1), EndDate: day}.dateRange()
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
}
