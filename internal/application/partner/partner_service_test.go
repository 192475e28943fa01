package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/catalog"
	"github.com/shopmgmt/backend/internal/domain/partner"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCustomerRepo struct {
	mock.Mock
	partner.CustomerRepository
}

func (m *mockCustomerRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if c := args.Get(0); c != nil {
		return c.(*partner.Customer), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCustomerRepo) Create(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *mockCustomerRepo) Update(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *mockCustomerRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type mockSaleRepo struct {
	mock.Mock
	trade.SaleRepository
}

func (m *mockSaleRepo) CountByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, customerID)
	return args.Get(0).(int64), args.Error(1)
}

type mockSupplierRepo struct {
	mock.Mock
	partner.SupplierRepository
}

func (m *mockSupplierRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	args := m.Called(ctx, tenantID, id)
	if s := args.Get(0); s != nil {
		return s.(*partner.Supplier), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSupplierRepo) Save(ctx context.Context, supplier *partner.Supplier) error {
	return m.Called(ctx, supplier).Error(0)
}

func (m *mockSupplierRepo) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type mockProductRepo struct {
	mock.Mock
	catalog.ProductRepository
}

func (m *mockProductRepo) CountBySupplier(ctx context.Context, tenantID, supplierID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, supplierID)
	return args.Get(0).(int64), args.Error(1)
}

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(mockCustomerRepo)
	service := NewCustomerService(repo, new(mockSaleRepo))

	repo.On("Create", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

	resp, err := service.Create(ctx, tenantID, tenantID, CreateCustomerRequest{
		Name:  "Alice",
		Phone: "+1 555 0100",
		Email: "Alice@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", resp.Name)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.True(t, resp.TotalPurchases.IsZero())
	repo.AssertExpectations(t)
}

func TestCustomerService_CreateRejectsBadPhone(t *testing.T) {
	repo := new(mockCustomerRepo)
	service := NewCustomerService(repo, new(mockSaleRepo))

	_, err := service.Create(context.Background(), uuid.New(), uuid.New(), CreateCustomerRequest{Name: "Bob", Phone: "call me"})
	require.Error(t, err)
	assert.Equal(t, shared.KindValidation, shared.KindOf(err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCustomerService_UpdateKeepsTotals(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	existing, err := partner.NewCustomer(tenantID, "Alice")
	require.NoError(t, err)
	existing.TotalTransactions = 4

	repo := new(mockCustomerRepo)
	repo.On("FindByIDForTenant", ctx, tenantID, existing.ID).Return(existing, nil)
	repo.On("Update", ctx, existing).Return(nil)
	service := NewCustomerService(repo, new(mockSaleRepo))

	name := "Alice Smith"
	resp, err := service.Update(ctx, tenantID, existing.ID, UpdateCustomerRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", resp.Name)
	assert.Equal(t, 4, resp.TotalTransactions)
}

func TestCustomerService_UpdateConflict(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	existing, err := partner.NewCustomer(tenantID, "Alice")
	require.NoError(t, err)

	repo := new(mockCustomerRepo)
	repo.On("FindByIDForTenant", ctx, tenantID, existing.ID).Return(existing, nil)
	repo.On("Update", ctx, existing).Return(shared.ErrConcurrencyConflict)
	service := NewCustomerService(repo, new(mockSaleRepo))

	_, err = service.Update(ctx, tenantID, existing.ID, UpdateCustomerRequest{})
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))
}

func TestCustomerService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	customer, err := partner.NewCustomer(tenantID, "Alice")
	require.NoError(t, err)

	t.Run("blocked by sales", func(t *testing.T) {
		repo := new(mockCustomerRepo)
		sales := new(mockSaleRepo)
		repo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		sales.On("CountByCustomer", ctx, tenantID, customer.ID).Return(int64(2), nil)

		err := NewCustomerService(repo, sales).Delete(ctx, tenantID, customer.ID)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "HAS_DEPENDENTS", de.Code)
		repo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockCustomerRepo)
		repo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(nil, shared.ErrNotFound)

		err := NewCustomerService(repo, new(mockSaleRepo)).Delete(ctx, tenantID, customer.ID)
		assert.Equal(t, shared.KindNotFound, shared.KindOf(err))
	})

	t.Run("store failure", func(t *testing.T) {
		repo := new(mockCustomerRepo)
		sales := new(mockSaleRepo)
		repo.On("FindByIDForTenant", ctx, tenantID, customer.ID).Return(customer, nil)
		sales.On("CountByCustomer", ctx, tenantID, customer.ID).Return(int64(0), nil)
		repo.On("DeleteForTenant", ctx, tenantID, customer.ID).Return(errors.New("connection reset"))

		err := NewCustomerService(repo, sales).Delete(ctx, tenantID, customer.ID)
		assert.Equal(t, shared.KindPersistence, shared.KindOf(err))
		assert.ErrorContains(t, err, "connection reset")
	})
}

func TestSupplierService(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("create", func(t *testing.T) {
		repo := new(mockSupplierRepo)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Supplier")).Return(nil)

		resp, err := NewSupplierService(repo, new(mockProductRepo)).Create(ctx, tenantID, tenantID, CreateSupplierRequest{
			Name:          "Farm Co",
			ContactPerson: "Dana",
			Email:         "orders@farm.example",
		})
		require.NoError(t, err)
		assert.Equal(t, "Farm Co", resp.Name)
		assert.True(t, resp.IsActive)
	})

	t.Run("deactivate", func(t *testing.T) {
		supplier, err := partner.NewSupplier(tenantID, "Farm Co")
		require.NoError(t, err)
		repo := new(mockSupplierRepo)
		repo.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)
		repo.On("Save", ctx, supplier).Return(nil)

		inactive := false
		resp, err := NewSupplierService(repo, new(mockProductRepo)).Update(ctx, tenantID, supplier.ID, UpdateSupplierRequest{IsActive: &inactive})
		require.NoError(t, err)
		assert.False(t, resp.IsActive)
	})

	t.Run("delete blocked by products", func(t *testing.T) {
		supplier, err := partner.NewSupplier(tenantID, "Farm Co")
		require.NoError(t, err)
		repo := new(mockSupplierRepo)
		products := new(mockProductRepo)
		repo.On("FindByIDForTenant", ctx, tenantID, supplier.ID).Return(supplier, nil)
		products.On("CountBySupplier", ctx, tenantID, supplier.ID).Return(int64(1), nil)

		err = NewSupplierService(repo, products).Delete(ctx, tenantID, supplier.ID)
		assert.Equal(t, shared.KindConflict, shared.KindOf(err))
	})

	t.Run("unknown supplier", func(t *testing.T) {
		repo := new(mockSupplierRepo)
		id := uuid.New()
		repo.On("FindByIDForTenant", ctx, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := NewSupplierService(repo, new(mockProductRepo)).GetByID(ctx, tenantID, id)
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "SUPPLIER_NOT_FOUND", de.Code)
	})
}
