package partner

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/catalog"
	"github.com/shopmgmt/backend/internal/domain/partner"
	"github.com/shopmgmt/backend/internal/domain/shared"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	supplierRepo partner.SupplierRepository
	productRepo  catalog.ProductRepository
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo partner.SupplierRepository, productRepo catalog.ProductRepository) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
	}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := partner.NewSupplier(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	supplier.SetCreatedBy(userID)
	supplier.Notes = req.Notes
	if err := supplier.SetContact(req.ContactPerson, req.Phone, req.Email, req.Address); err != nil {
		return nil, err
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, shared.WrapPersistence("failed to create supplier", err)
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// GetByID retrieves a supplier by ID
func (s *SupplierService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// List retrieves a paginated list of suppliers
func (s *SupplierService) List(ctx context.Context, tenantID uuid.UUID, filter ListFilter) ([]SupplierResponse, int64, error) {
	filter = filter.withDefaults()
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}

	suppliers, err := s.supplierRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, shared.WrapPersistence("failed to list suppliers", err)
	}
	total, err := s.supplierRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, shared.WrapPersistence("failed to count suppliers", err)
	}
	return ToSupplierResponses(suppliers), total, nil
}

// Update updates a supplier
func (s *SupplierService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name, notes := supplier.Name, supplier.Notes
	if req.Name != nil {
		name = *req.Name
	}
	if req.Notes != nil {
		notes = *req.Notes
	}
	if err := supplier.Update(name, notes); err != nil {
		return nil, err
	}

	contact, phone, email, address := supplier.ContactPerson, supplier.Phone, supplier.Email, supplier.Address
	if req.ContactPerson != nil {
		contact = *req.ContactPerson
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Address != nil {
		address = *req.Address
	}
	if err := supplier.SetContact(contact, phone, email, address); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		if *req.IsActive {
			supplier.Activate()
		} else {
			supplier.Deactivate()
		}
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, shared.WrapPersistence("failed to update supplier", err)
	}
	response := ToSupplierResponse(supplier)
	return &response, nil
}

// Delete deletes a supplier that no product references
func (s *SupplierService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.find(ctx, tenantID, id); err != nil {
		return err
	}

	count, err := s.productRepo.CountBySupplier(ctx, tenantID, id)
	if err != nil {
		return shared.WrapPersistence("failed to check supplier products", err)
	}
	if count > 0 {
		return shared.NewConflictError("HAS_DEPENDENTS", "Cannot delete a supplier linked to products")
	}

	if err := s.supplierRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return shared.WrapPersistence("failed to delete supplier", err)
	}
	return nil
}

func (s *SupplierService) find(ctx context.Context, tenantID, id uuid.UUID) (*partner.Supplier, error) {
	supplier, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewNotFoundError("SUPPLIER_NOT_FOUND", "Supplier not found")
	}
	if err != nil {
		return nil, shared.WrapPersistence("failed to load supplier", err)
	}
	return supplier, nil
}
