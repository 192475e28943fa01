package trade_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	apptrade "github.com/shopmgmt/backend/internal/application/trade"
	"github.com/shopmgmt/backend/internal/domain/catalog"
	"github.com/shopmgmt/backend/internal/domain/inventory"
	"github.com/shopmgmt/backend/internal/domain/partner"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/infrastructure/persistence"
	"github.com/shopmgmt/backend/internal/infrastructure/persistence/models"
	"github.com/shopmgmt/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type saleFixture struct {
	db        *gorm.DB
	service   *apptrade.SaleService
	products  *persistence.GormProductRepository
	customers *persistence.GormCustomerRepository
	history   *persistence.GormProductHistoryRepository
	tenantID  uuid.UUID
	userID    uuid.UUID
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return newSaleFixtureWithScope(t, db, persistence.NewGormSaleTransactionScope(db))
}

func newSaleFixtureWithScope(t *testing.T, db *gorm.DB, scope apptrade.TransactionScope) *saleFixture {
	t.Helper()
	return &saleFixture{
		db:        db,
		service:   apptrade.NewSaleService(scope, persistence.NewGormSaleRepository(db)),
		products:  persistence.NewGormProductRepository(db),
		customers: persistence.NewGormCustomerRepository(db),
		history:   persistence.NewGormProductHistoryRepository(db),
		tenantID:  testutil.TestTenantID(),
		userID:    testutil.TestTenantID(),
	}
}

func (f *saleFixture) seedProduct(t *testing.T, tenantID uuid.UUID, name string, stock int, buying, selling int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(tenantID, name, testutil.NewTestUUID("category"), decimal.NewFromInt(buying), decimal.NewFromInt(selling))
	require.NoError(t, err)
	require.NoError(t, product.SetInitialStock(stock))
	require.NoError(t, product.SetMinStockLevel(5))
	require.NoError(t, f.products.Create(context.Background(), product))
	return product
}

func (f *saleFixture) seedCustomer(t *testing.T, tenantID uuid.UUID, name string) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(tenantID, name)
	require.NoError(t, err)
	require.NoError(t, customer.SetContact("555-0100", "", ""))
	require.NoError(t, f.customers.Create(context.Background(), customer))
	return customer
}

func (f *saleFixture) stock(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	var model models.ProductModel
	require.NoError(t, f.db.First(&model, "id = ?", productID).Error)
	return model.CurrentStock
}

func (f *saleFixture) historyFor(t *testing.T, productID uuid.UUID) []inventory.ProductHistory {
	t.Helper()
	entries, err := f.history.FindByProduct(context.Background(), f.tenantID, productID, shared.Filter{Page: 1, PageSize: 100})
	require.NoError(t, err)
	return entries
}

func (f *saleFixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}

func line(productID uuid.UUID, quantity int, price int64) apptrade.CreateSaleItemInput {
	return apptrade.CreateSaleItemInput{
		ProductID:        productID,
		Quantity:         quantity,
		UnitSellingPrice: decimal.NewFromInt(price),
	}
}

func assertErrorCode(t *testing.T, err error, kind shared.ErrorKind, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %T: %v", err, err)
	assert.Equal(t, kind, de.Kind)
	assert.Equal(t, code, de.Code)
}

func TestCreateSale_DeductsStockAndRecordsLedger(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, f.tenantID, "Widget", 10, 60, 100)

	resp, err := f.service.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
		PaymentMethod: "cash",
		Items:         []apptrade.CreateSaleItemInput{line(product.ID, 3, 100)},
	})
	require.NoError(t, err)

	assert.Equal(t, 7, f.stock(t, product.ID))
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(300)))
	assert.True(t, resp.TotalCost.Equal(decimal.NewFromInt(180)))
	assert.True(t, resp.TotalProfit.Equal(decimal.NewFromInt(120)))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Widget", resp.Items[0].ProductName)
	assert.True(t, resp.Items[0].UnitBuyingPrice.Equal(decimal.NewFromInt(60)))

	entries := f.historyFor(t, product.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, inventory.TransactionTypeSale, entries[0].TransactionType)
	assert.Equal(t, -3, entries[0].QuantityChanged)
	assert.Equal(t, 10, entries[0].StockBefore)
	assert.Equal(t, 7, entries[0].StockAfter)
	require.NotNil(t, entries[0].SourceID)
	assert.Equal(t, resp.ID, *entries[0].SourceID)
}

func TestCreateSale_InsufficientStockChangesNothing(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, f.tenantID, "Widget", 10, 60, 100)

	_, err := f.service.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
		PaymentMethod: "cash",
		Items:         []apptrade.CreateSaleItemInput{line(product.ID, 15, 100)},
	})
	assertErrorCode(t, err, shared.KindConflict, "INSUFFICIENT_STOCK")

	assert.Equal(t, 10, f.stock(t, product.ID))
	assert.Empty(t, f.historyFor(t, product.ID))
	assert.Zero(t, f.count(t, &models.SaleModel{}))
}

func TestDeleteSale_RestoresStockAndCustomer(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, f.tenantID, "Widget", 10, 60, 100)
	customer := f.seedCustomer(t, f.tenantID, "Alice")

	resp, err := f.service.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
		CustomerID:    &customer.ID,
		PaymentMethod: "card",
		Items:         []apptrade.CreateSaleItemInput{line(product.ID, 3, 100)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", resp.CustomerName)
	assert.Equal(t, "555-0100", resp.CustomerPhone)

	stored, err := f.customers.FindByIDForTenant(ctx, f.tenantID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalTransactions)
	assert.True(t, stored.TotalPurchases.Equal(decimal.NewFromInt(300)))
	assert.NotNil(t, stored.LastPurchaseAt)

	found, err := f.service.DeleteSale(ctx, f.tenantID, f.userID, resp.ID)
	require.NoError(t, err)
	assert.True(t, found)

	assert.Equal(t, 10, f.stock(t, product.ID))
	entries := f.historyFor(t, product.ID)
	require.Len(t, entries, 2)
	var cancellation *inventory.ProductHistory
	for i := range entries {
		if entries[i].TransactionType == inventory.TransactionTypeSaleCancellation {
			cancellation = &entries[i]
		}
	}
	require.NotNil(t, cancellation)
	assert.Equal(t, 3, cancellation.QuantityChanged)
	assert.Equal(t, 7, cancellation.StockBefore)
	assert.Equal(t, 10, cancellation.StockAfter)

	stored, err = f.customers.FindByIDForTenant(ctx, f.tenantID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.TotalTransactions)
	assert.True(t, stored.TotalPurchases.IsZero())

	assert.Zero(t, f.count(t, &models.SaleModel{}))
	assert.Zero(t, f.count(t, &models.SaleItemModel{}))

	_, err = f.service.GetSale(ctx, f.tenantID, resp.ID)
	assertErrorCode(t, err, shared.KindNotFound, "SALE_NOT_FOUND")
}

func TestCreateSale_ForeignProductFailsWholeSale(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	own := f.seedProduct(t, f.tenantID, "Own", 10, 60, 100)
	foreign := f.seedProduct(t, testutil.OtherTenantID(), "Foreign", 10, 60, 100)

	_, err := f.service.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
		PaymentMethod: "cash",
		Items: []apptrade.CreateSaleItemInput{
			line(own.ID, 2, 100),
			line(foreign.ID, 1, 100),
		},
	})
	assertErrorCode(t, err, shared.KindValidation, "PRODUCT_NOT_FOUND")

	assert.Equal(t, 10, f.stock(t, own.ID))
	assert.Equal(t, 10, f.stock(t, foreign.ID))
	assert.Zero(t, f.count(t, &models.SaleModel{}))
	assert.Zero(t, f.count(t, &models.ProductHistoryModel{}))
}

func TestCreateSale_Validation(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, f.tenantID, "Widget", 10, 60, 100)
	inactive := f.seedProduct(t, f.tenantID, "Retired", 10, 60, 100)
	inactive.Deactivate()
	require.NoError(t, f.products.Update(ctx, inactive))
	missingCustomer := uuid.New()
	foreignCustomer := f.seedCustomer(t, testutil.OtherTenantID(), "Mallory")

	tests := []struct {
		name string
		req  apptrade.CreateSaleRequest
		kind shared.ErrorKind
		code string
	}{
		{
			name: "no items",
			req:  apptrade.CreateSaleRequest{PaymentMethod: "cash"},
			kind: shared.KindValidation,
			code: "NO_ITEMS",
		},
		{
			name: "zero quantity",
			req:  apptrade.CreateSaleRequest{PaymentMethod: "cash", Items: []apptrade.CreateSaleItemInput{line(product.ID, 0, 100)}},
			kind: shared.KindValidation,
			code: "INVALID_QUANTITY",
		},
		{
			name: "zero price",
			req:  apptrade.CreateSaleRequest{PaymentMethod: "cash", Items: []apptrade.CreateSaleItemInput{line(product.ID, 1, 0)}},
			kind: shared.KindValidation,
			code: "INVALID_PRICE",
		},
		{
			name: "unknown payment method",
			req:  apptrade.CreateSaleRequest{PaymentMethod: "barter", Items: []apptrade.CreateSaleItemInput{line(product.ID, 1, 100)}},
			kind: shared.KindValidation,
			code: "INVALID_PAYMENT_METHOD",
		},
		{
			name: "missing product",
			req:  apptrade.CreateSaleRequest{PaymentMethod: "cash", Items: []apptrade.CreateSaleItemInput{line(uuid.New(), 1, 100)}},
			kind: shared.KindValidation,
			code: "PRODUCT_NOT_FOUND",
		},
		{
			name: "inactive product",
			req:  apptrade.CreateSaleRequest{PaymentMethod: "cash", Items: []apptrade.CreateSaleItemInput{line(inactive.ID, 1, 100)}},
			kind: shared.KindValidation,
			code: "PRODUCT_INACTIVE",
		},
		{
			name: "missing customer",
			req:  apptrade.CreateSaleRequest{CustomerID: &missingCustomer, PaymentMethod: "cash", Items: []apptrade.CreateSaleItemInput{line(product.ID, 1, 100)}},
			kind: shared.KindValidation,
			code: "CUSTOMER_NOT_FOUND",
		},
		{
			name: "customer of another tenant",
			req:  apptrade.CreateSaleRequest{CustomerID: &foreignCustomer.ID, PaymentMethod: "cash", Items: []apptrade.CreateSaleItemInput{line(product.ID, 1, 100)}},
			kind: shared.KindValidation,
			code: "CUSTOMER_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.CreateSale(ctx, f.tenantID, f.userID, tt.req)
			assertErrorCode(t, err, tt.kind, tt.code)
			assert.Equal(t, 10, f.stock(t, product.ID))
			assert.Zero(t, f.count(t, &models.SaleModel{}))
		})
	}
}

func TestCreateSale_PricesMustBeWholeCents(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, f.tenantID, "Gum", 10, 0, 1)

	halfCent := decimal.RequireFromString("0.005")
	req := apptrade.CreateSaleRequest{PaymentMethod: "cash", Items: []apptrade.CreateSaleItemInput{
		{ProductID: product.ID, Quantity: 1, UnitSellingPrice: halfCent},
		{ProductID: product.ID, Quantity: 1, UnitSellingPrice: halfCent},
	}}
	_, err := f.service.CreateSale(ctx, f.tenantID, f.userID, req)
	assertErrorCode(t, err, shared.KindValidation, "INVALID_PRICE")
	assert.Equal(t, 10, f.stock(t, product.ID))
	assert.Zero(t, f.count(t, &models.SaleModel{}))

	// Trailing zeros carry no extra precision
	sale, err := f.service.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
		PaymentMethod: "cash",
		Items: []apptrade.CreateSaleItemInput{
			{ProductID: product.ID, Quantity: 3, UnitSellingPrice: decimal.RequireFromString("1.250")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "3.75", sale.TotalAmount.StringFixed(2))
	assert.True(t, sale.TotalAmount.Equal(sale.Items[0].TotalAmount))
}

func TestCreateSale_DuplicateProductLinesShareStock(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, f.tenantID, "Widget", 5, 60, 100)

	_, err := f.service.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
		PaymentMethod: "cash",
		Items:         []apptrade.CreateSaleItemInput{line(product.ID, 3, 100), line(product.ID, 3, 90)},
	})
	assertErrorCode(t, err, shared.KindConflict, "INSUFFICIENT_STOCK")
	assert.Equal(t, 5, f.stock(t, product.ID))

	resp, err := f.service.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
		PaymentMethod: "cash",
		Items:         []apptrade.CreateSaleItemInput{line(product.ID, 2, 100), line(product.ID, 3, 90)},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(470)))
	assert.Equal(t, 0, f.stock(t, product.ID))

	entries, err := f.history.FindBySource(ctx, f.tenantID, resp.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	transitions := map[int]int{}
	for _, entry := range entries {
		transitions[entry.StockBefore] = entry.StockAfter
	}
	assert.Equal(t, map[int]int{5: 3, 3: 0}, transitions)
}

func TestCreateSale_TotalsAreSumOfLines(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	a := f.seedProduct(t, f.tenantID, "Apple", 50, 2, 3)
	b := f.seedProduct(t, f.tenantID, "Bread", 50, 4, 7)

	resp, err := f.service.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
		PaymentMethod: "mobile",
		Notes:         "  weekend promo  ",
		Items: []apptrade.CreateSaleItemInput{
			{ProductID: a.ID, Quantity: 4, UnitSellingPrice: decimal.RequireFromString("2.75")},
			{ProductID: b.ID, Quantity: 2, UnitSellingPrice: decimal.NewFromInt(7)},
		},
	})
	require.NoError(t, err)

	amount, cost := decimal.Zero, decimal.Zero
	for _, item := range resp.Items {
		amount = amount.Add(item.TotalAmount)
		cost = cost.Add(item.TotalCost)
		assert.True(t, item.TotalProfit.Equal(item.TotalAmount.Sub(item.TotalCost)))
	}
	assert.True(t, resp.TotalAmount.Equal(amount))
	assert.True(t, resp.TotalCost.Equal(cost))
	assert.True(t, resp.TotalProfit.Equal(amount.Sub(cost)))
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, "weekend promo", resp.Notes)
	assert.Equal(t, 6, resp.TotalQuantity)
}

func TestSales_TenantIsolation(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, f.tenantID, "Widget", 10, 60, 100)

	resp, err := f.service.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
		PaymentMethod: "cash",
		Items:         []apptrade.CreateSaleItemInput{line(product.ID, 1, 100)},
	})
	require.NoError(t, err)

	other := testutil.OtherTenantID()
	_, err = f.service.GetSale(ctx, other, resp.ID)
	assertErrorCode(t, err, shared.KindNotFound, "SALE_NOT_FOUND")

	found, err := f.service.DeleteSale(ctx, other, other, resp.ID)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 9, f.stock(t, product.ID))

	sales, total, err := f.service.ListSales(ctx, other, apptrade.SaleListFilter{})
	require.NoError(t, err)
	assert.Empty(t, sales)
	assert.Zero(t, total)
}

func TestDeleteSale_NotFound(t *testing.T) {
	f := newSaleFixture(t)

	found, err := f.service.DeleteSale(context.Background(), f.tenantID, f.userID, uuid.New())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDeleteSale_SkipsRemovedCustomer(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, f.tenantID, "Widget", 10, 60, 100)
	customer := f.seedCustomer(t, f.tenantID, "Bob")

	resp, err := f.service.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
		CustomerID:    &customer.ID,
		PaymentMethod: "cash",
		Items:         []apptrade.CreateSaleItemInput{line(product.ID, 4, 100)},
	})
	require.NoError(t, err)
	require.NoError(t, f.customers.DeleteForTenant(ctx, f.tenantID, customer.ID))

	found, err := f.service.DeleteSale(ctx, f.tenantID, f.userID, resp.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 10, f.stock(t, product.ID))
}

func TestSales_StockConservation(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, f.tenantID, "Widget", 40, 60, 100)

	var saleIDs []uuid.UUID
	for _, qty := range []int{3, 5, 7} {
		resp, err := f.service.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
			PaymentMethod: "cash",
			Items:         []apptrade.CreateSaleItemInput{line(product.ID, qty, 100)},
		})
		require.NoError(t, err)
		saleIDs = append(saleIDs, resp.ID)
	}
	_, err := f.service.DeleteSale(ctx, f.tenantID, f.userID, saleIDs[1])
	require.NoError(t, err)

	net := 0
	for _, entry := range f.historyFor(t, product.ID) {
		net += entry.QuantityChanged
	}
	assert.Equal(t, 40+net, f.stock(t, product.ID))
	assert.Equal(t, 30, f.stock(t, product.ID))
}

func TestCreateSale_ConcurrentSalesNeverOversell(t *testing.T) {
	f := newSaleFixture(t)
	product := f.seedProduct(t, f.tenantID, "Widget", 10, 60, 100)

	const buyers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.CreateSale(context.Background(), f.tenantID, f.userID, apptrade.CreateSaleRequest{
				PaymentMethod: "cash",
				Items:         []apptrade.CreateSaleItemInput{line(product.ID, 1, 100)},
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.Equal(t, shared.KindConflict, shared.KindOf(err))
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, f.stock(t, product.ID))
	assert.Equal(t, int64(10), f.count(t, &models.SaleModel{}))
}

// failingHistoryScope runs the real transaction but fails the ledger write,
// after the sale and stock rows have been written.
type failingHistoryScope struct {
	inner apptrade.TransactionScope
}

func (s failingHistoryScope) Execute(ctx context.Context, fn func(apptrade.TransactionalRepositories) error) error {
	return s.inner.Execute(ctx, func(repos apptrade.TransactionalRepositories) error {
		return fn(failingHistoryRepos{TransactionalRepositories: repos})
	})
}

type failingHistoryRepos struct {
	apptrade.TransactionalRepositories
}

func (failingHistoryRepos) HistoryRepo() inventory.ProductHistoryRepository {
	return failingHistoryRepo{}
}

type failingHistoryRepo struct {
	inventory.ProductHistoryRepository
}

func (failingHistoryRepo) CreateBatch(context.Context, []*inventory.ProductHistory) error {
	return errors.New("disk full")
}

func TestCreateSale_RollsBackOnStoreFailure(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	f := newSaleFixtureWithScope(t, db, failingHistoryScope{inner: persistence.NewGormSaleTransactionScope(db)})
	product := f.seedProduct(t, f.tenantID, "Widget", 10, 60, 100)

	_, err := f.service.CreateSale(context.Background(), f.tenantID, f.userID, apptrade.CreateSaleRequest{
		PaymentMethod: "cash",
		Items:         []apptrade.CreateSaleItemInput{line(product.ID, 3, 100)},
	})
	assertErrorCode(t, err, shared.KindPersistence, "PERSISTENCE_ERROR")
	assert.ErrorContains(t, err, "disk full")

	assert.Equal(t, 10, f.stock(t, product.ID))
	assert.Zero(t, f.count(t, &models.SaleModel{}))
	assert.Zero(t, f.count(t, &models.SaleItemModel{}))
}

func TestListSales(t *testing.T) {
	f := newSaleFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, f.tenantID, "Widget", 100, 60, 100)
	customer := f.seedCustomer(t, f.tenantID, "Carol")

	for i := 0; i < 3; i++ {
		_, err := f.service.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
			PaymentMethod: "cash",
			Items:         []apptrade.CreateSaleItemInput{line(product.ID, 1, 100)},
		})
		require.NoError(t, err)
	}
	_, err := f.service.CreateSale(ctx, f.tenantID, f.userID, apptrade.CreateSaleRequest{
		CustomerID:    &customer.ID,
		PaymentMethod: "card",
		Items:         []apptrade.CreateSaleItemInput{line(product.ID, 1, 100)},
	})
	require.NoError(t, err)

	t.Run("pages newest first", func(t *testing.T) {
		sales, total, err := f.service.ListSales(ctx, f.tenantID, apptrade.SaleListFilter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, sales, 2)
		assert.False(t, sales[0].DateTime.Before(sales[1].DateTime))
	})

	t.Run("filters by payment method and customer", func(t *testing.T) {
		sales, total, err := f.service.ListSales(ctx, f.tenantID, apptrade.SaleListFilter{PaymentMethod: "card"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, sales, 1)
		assert.Equal(t, &customer.ID, sales[0].CustomerID)

		_, total, err = f.service.ListSales(ctx, f.tenantID, apptrade.SaleListFilter{CustomerID: &customer.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("end date is inclusive", func(t *testing.T) {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		_, total, err := f.service.ListSales(ctx, f.tenantID, apptrade.SaleListFilter{StartDate: &today, EndDate: &today})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)

		yesterday := today.AddDate(0, 0, -1)
		_, total, err = f.service.ListSales(ctx, f.tenantID, apptrade.SaleListFilter{EndDate: &yesterday})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("rejects inverted range", func(t *testing.T) {
		start := time.Now().UTC().AddDate(0, 0, 5)
		end := time.Now().UTC()
		_, _, err := f.service.ListSales(ctx, f.tenantID, apptrade.SaleListFilter{StartDate: &start, EndDate: &end})
		assertErrorCode(t, err, shared.KindValidation, "INVALID_DATE_RANGE")
	})

	t.Run("today", func(t *testing.T) {
		sales, total, err := f.service.TodaySales(ctx, f.tenantID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, sales, 4)
	})
}
