package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/catalog"
	"github.com/shopmgmt/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, productRepo catalog.ProductRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	if err := s.checkName(ctx, tenantID, req.Name, nil); err != nil {
		return nil, err
	}

	category, err := catalog.NewCategory(tenantID, req.Name)
	if err != nil {
		return nil, err
	}
	category.SetCreatedBy(userID)
	category.Description = req.Description
	if err := category.SetProfitMarginTarget(req.ProfitMarginTarget); err != nil {
		return nil, err
	}
	if req.ParentID != nil {
		if err := s.checkParent(ctx, tenantID, category.ID, *req.ParentID); err != nil {
			return nil, err
		}
		if err := category.SetParent(req.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, shared.WrapPersistence("failed to create category", err)
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// List retrieves a paginated list of categories
func (s *CategoryService) List(ctx context.Context, tenantID uuid.UUID, filter CategoryListFilter) ([]CategoryResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}

	categories, err := s.categoryRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, shared.WrapPersistence("failed to list categories", err)
	}
	total, err := s.categoryRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, shared.WrapPersistence("failed to count categories", err)
	}
	return ToCategoryResponses(categories), total, nil
}

// GetTree returns every category nested under its parent
func (s *CategoryService) GetTree(ctx context.Context, tenantID uuid.UUID) ([]CategoryTreeNode, error) {
	categories, err := s.categoryRepo.FindAllUnpaged(ctx, tenantID)
	if err != nil {
		return nil, shared.WrapPersistence("failed to load categories", err)
	}
	return buildCategoryTree(categories), nil
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	name, description := category.Name, category.Description
	if req.Name != nil {
		if err := s.checkName(ctx, tenantID, *req.Name, &category.ID); err != nil {
			return nil, err
		}
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if err := category.Update(name, description); err != nil {
		return nil, err
	}
	switch {
	case req.MoveToRoot:
		if err := category.SetParent(nil); err != nil {
			return nil, err
		}
	case req.ParentID != nil:
		if err := s.checkParent(ctx, tenantID, category.ID, *req.ParentID); err != nil {
			return nil, err
		}
		if err := category.SetParent(req.ParentID); err != nil {
			return nil, err
		}
	}
	if req.ProfitMarginTarget != nil {
		if err := category.SetProfitMarginTarget(req.ProfitMarginTarget); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, shared.WrapPersistence("failed to update category", err)
	}
	response := ToCategoryResponse(category)
	return &response, nil
}

// Delete deletes a category that has no products and no subcategories
func (s *CategoryService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.find(ctx, tenantID, id); err != nil {
		return err
	}

	children, err := s.categoryRepo.CountChildren(ctx, tenantID, id)
	if err != nil {
		return shared.WrapPersistence("failed to check subcategories", err)
	}
	if children > 0 {
		return shared.NewConflictError("HAS_DEPENDENTS", "Cannot delete a category with subcategories")
	}
	products, err := s.productRepo.CountByCategory(ctx, tenantID, id)
	if err != nil {
		return shared.WrapPersistence("failed to check category products", err)
	}
	if products > 0 {
		return shared.NewConflictError("HAS_DEPENDENTS", "Cannot delete a category with products")
	}

	if err := s.categoryRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return shared.WrapPersistence("failed to delete category", err)
	}
	return nil
}

func (s *CategoryService) find(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Category, error) {
	category, err := s.categoryRepo.FindByIDForTenant(ctx, tenantID, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewNotFoundError("CATEGORY_NOT_FOUND", "Category not found")
	}
	if err != nil {
		return nil, shared.WrapPersistence("failed to load category", err)
	}
	return category, nil
}

func (s *CategoryService) checkName(ctx context.Context, tenantID uuid.UUID, name string, excludeID *uuid.UUID) error {
	exists, err := s.categoryRepo.ExistsByName(ctx, tenantID, name, excludeID)
	if err != nil {
		return shared.WrapPersistence("failed to check category name", err)
	}
	if exists {
		return shared.NewConflictError("CATEGORY_EXISTS", "A category with this name already exists")
	}
	return nil
}

// checkParent verifies that parentID exists in the tenant and that placing
// categoryID under it does not create a cycle.
func (s *CategoryService) checkParent(ctx context.Context, tenantID, categoryID, parentID uuid.UUID) error {
	if parentID == categoryID {
		return shared.NewValidationError("INVALID_PARENT", "Category cannot be its own parent")
	}
	categories, err := s.categoryRepo.FindAllUnpaged(ctx, tenantID)
	if err != nil {
		return shared.WrapPersistence("failed to load categories", err)
	}
	parents := make(map[uuid.UUID]*uuid.UUID, len(categories))
	for _, c := range categories {
		parents[c.ID] = c.ParentID
	}
	if _, ok := parents[parentID]; !ok {
		return shared.NewValidationError("PARENT_NOT_FOUND", "Parent category not found")
	}
	for cur := &parentID; cur != nil; cur = parents[*cur] {
		if *cur == categoryID {
			return shared.NewValidationError("INVALID_PARENT", "Category cannot be moved under its own subcategory")
		}
	}
	return nil
}

// buildCategoryTree nests a flat list of categories. Categories whose parent
// is missing are treated as roots.
func buildCategoryTree(categories []catalog.Category) []CategoryTreeNode {
	known := make(map[uuid.UUID]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}

	children := make(map[uuid.UUID][]catalog.Category)
	var roots []catalog.Category
	for _, c := range categories {
		if c.ParentID == nil || !known[*c.ParentID] {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	var build func(nodes []catalog.Category) []CategoryTreeNode
	build = func(nodes []catalog.Category) []CategoryTreeNode {
		result := make([]CategoryTreeNode, len(nodes))
		for i := range nodes {
			result[i] = CategoryTreeNode{
				CategoryResponse: ToCategoryResponse(&nodes[i]),
				Children:         build(children[nodes[i].ID]),
			}
		}
		return result
	}
	return build(roots)
}
