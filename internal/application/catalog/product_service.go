package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/catalog"
	"github.com/shopmgmt/backend/internal/domain/partner"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/domain/trade"
	"github.com/shopmgmt/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	supplierRepo partner.SupplierRepository
	saleRepo     trade.SaleRepository
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	supplierRepo partner.SupplierRepository,
	saleRepo trade.SaleRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		supplierRepo: supplierRepo,
		saleRepo:     saleRepo,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if err := s.checkCategory(ctx, tenantID, req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.checkSupplier(ctx, tenantID, req.SupplierID); err != nil {
		return nil, err
	}
	if err := s.checkBarcode(ctx, tenantID, req.Barcode, nil); err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(tenantID, req.Name, req.CategoryID, req.BuyingPrice, req.SellingPrice)
	if err != nil {
		return nil, err
	}
	product.SetCreatedBy(userID)
	if err := product.SetBarcode(req.Barcode); err != nil {
		return nil, err
	}
	product.SetSupplier(req.SupplierID)
	if err := product.SetInitialStock(req.InitialStock); err != nil {
		return nil, err
	}
	if req.MinStockLevel != nil {
		if err := product.SetMinStockLevel(*req.MinStockLevel); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, shared.WrapPersistence("failed to create product", err)
	}
	logger.L(ctx).Info("product created", zap.String("product_id", product.ID.String()))

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.find(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves a paginated list of products
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := catalog.ProductListFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		CategoryID:   filter.CategoryID,
		SupplierID:   filter.SupplierID,
		IsActive:     filter.IsActive,
		LowStockOnly: filter.LowStockOnly,
	}

	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, shared.WrapPersistence("failed to list products", err)
	}
	total, err := s.productRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, shared.WrapPersistence("failed to count products", err)
	}
	return ToProductResponses(products), total, nil
}

// LowStock lists active products at or below their minimum stock level
func (s *ProductService) LowStock(ctx context.Context, tenantID uuid.UUID) ([]ProductResponse, error) {
	products, err := s.productRepo.FindLowStock(ctx, tenantID)
	if err != nil {
		return nil, shared.WrapPersistence("failed to list low stock products", err)
	}
	return ToProductResponses(products), nil
}

// Update updates a product's descriptive fields, prices and thresholds.
// The write is rejected with CONCURRENCY_CONFLICT if a sale changed the
// product after it was read.
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.find(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := product.Update(*req.Name, product.Barcode); err != nil {
			return nil, err
		}
	}
	if req.Barcode != nil && *req.Barcode != product.Barcode {
		if err := s.checkBarcode(ctx, tenantID, *req.Barcode, &product.ID); err != nil {
			return nil, err
		}
		if err := product.SetBarcode(*req.Barcode); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil && *req.CategoryID != product.CategoryID {
		if err := s.checkCategory(ctx, tenantID, *req.CategoryID); err != nil {
			return nil, err
		}
		if err := product.SetCategory(*req.CategoryID); err != nil {
			return nil, err
		}
	}
	switch {
	case req.ClearSupplier:
		product.SetSupplier(nil)
	case req.SupplierID != nil:
		if err := s.checkSupplier(ctx, tenantID, req.SupplierID); err != nil {
			return nil, err
		}
		product.SetSupplier(req.SupplierID)
	}
	if req.BuyingPrice != nil || req.SellingPrice != nil {
		buying, selling := product.BuyingPrice, product.SellingPrice
		if req.BuyingPrice != nil {
			buying = *req.BuyingPrice
		}
		if req.SellingPrice != nil {
			selling = *req.SellingPrice
		}
		if err := product.SetPrices(buying, selling); err != nil {
			return nil, err
		}
	}
	if req.MinStockLevel != nil {
		if err := product.SetMinStockLevel(*req.MinStockLevel); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		if *req.IsActive {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, shared.WrapPersistence("failed to update product", err)
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product that no sale references. Its ledger entries stay.
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	if _, err := s.find(ctx, tenantID, productID); err != nil {
		return err
	}

	count, err := s.saleRepo.CountByProduct(ctx, tenantID, productID)
	if err != nil {
		return shared.WrapPersistence("failed to check product sales", err)
	}
	if count > 0 {
		return shared.NewConflictError("HAS_DEPENDENTS", "Cannot delete a product that appears in sales; deactivate it instead")
	}

	if err := s.productRepo.DeleteForTenant(ctx, tenantID, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return shared.WrapPersistence("failed to delete product", err)
	}
	logger.L(ctx).Info("product deleted", zap.String("product_id", productID.String()))
	return nil
}

func (s *ProductService) find(ctx context.Context, tenantID, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewNotFoundError("PRODUCT_NOT_FOUND", "Product not found")
	}
	if err != nil {
		return nil, shared.WrapPersistence("failed to load product", err)
	}
	return product, nil
}

func (s *ProductService) checkCategory(ctx context.Context, tenantID, categoryID uuid.UUID) error {
	_, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, categoryID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewValidationError("CATEGORY_NOT_FOUND", "Category not found")
	}
	return shared.WrapPersistence("failed to load category", err)
}

func (s *ProductService) checkSupplier(ctx context.Context, tenantID uuid.UUID, supplierID *uuid.UUID) error {
	if supplierID == nil {
		return nil
	}
	_, err := s.supplierRepo.FindByIDForTenant(ctx, tenantID, *supplierID)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewValidationError("SUPPLIER_NOT_FOUND", "Supplier not found")
	}
	return shared.WrapPersistence("failed to load supplier", err)
}

func (s *ProductService) checkBarcode(ctx context.Context, tenantID uuid.UUID, barcode string, excludeID *uuid.UUID) error {
	exists, err := s.productRepo.ExistsByBarcode(ctx, tenantID, barcode, excludeID)
	if err != nil {
		return shared.WrapPersistence("failed to check barcode", err)
	}
	if exists {
		return shared.NewConflictError("BARCODE_EXISTS", "A product with this barcode already exists")
	}
	return nil
}
