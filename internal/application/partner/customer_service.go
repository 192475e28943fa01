package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/partner"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/domain/trade"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
	saleRepo     trade.SaleRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, saleRepo trade.SaleRepository) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		saleRepo:     saleRepo,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	customer.SetCreatedBy(userID)
	if err := customer.SetContact(req.Phone, req.Email, req.Address); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, shared.WrapPersistence("failed to create customer", err)
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers matching the search on name, phone or email
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]CustomerResponse, int64, error) {
	filter = filter.withDefaults()
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}

	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, shared.WrapPersistence("failed to list customers", err)
	}
	total, err := s.customerRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, shared.WrapPersistence("failed to count customers", err)
	}
	return ToCustomerResponses(customers), total, nil
}

// Update updates a customer's name and contact details
func (s *CustomerService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := customer.Update(*req.Name); err != nil {
			return nil, err
		}
	}
	phone, email, address := customer.Phone, customer.Email, customer.Address
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Address != nil {
		address = *req.Address
	}
	if err := customer.SetContact(phone, email, address); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, shared.WrapPersistence("failed to update customer", err)
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete deletes a customer that no sale references
func (s *CustomerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.find(ctx, tenantID, id); err != nil {
		return err
	}

	count, err := s.saleRepo.CountByCustomer(ctx, tenantID, id)
	if err != nil {
		return shared.WrapPersistence("failed to check customer sales", err)
	}
	if count > 0 {
		return shared.NewConflictError("HAS_DEPENDENTS", "Cannot delete a customer with sales")
	}

	if err := s.customerRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return shared.WrapPersistence("failed to delete customer", err)
	}
	return nil
}

func (s *CustomerService) find(ctx context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	customer, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewNotFoundError("CUSTOMER_NOT_FOUND", "Customer not found")
	}
	if err != nil {
		return nil, shared.WrapPersistence("failed to load customer", err)
	}
	return customer, nil
}
