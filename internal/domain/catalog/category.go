package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Category groups products. Categories may nest one under another.
type Category struct {
	shared.TenantAggregateRoot
	Name               string
	Description        string
	ParentID           *uuid.UUID
	ProfitMarginTarget *decimal.Decimal
}

// NewCategory creates a new category
func NewCategory(tenantID uuid.UUID, name string) (*Category, error) {
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	return &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
	}, nil
}

// Update updates name and description
func (c *Category) Update(name, description string) error {
	if err := validateCategoryName(name); err != nil {
		return err
	}
	c.Name = strings.TrimSpace(name)
	c.Description = description
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// SetParent moves the category under parentID, or to the root when nil
func (c *Category) SetParent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == c.ID {
		return shared.NewValidationError("INVALID_PARENT", "Category cannot be its own parent")
	}
	c.ParentID = parentID
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// SetProfitMarginTarget sets the target margin percentage (0 to 100), or clears it
func (c *Category) SetProfitMarginTarget(target *decimal.Decimal) error {
	if target != nil && (target.IsNegative() || target.GreaterThan(hundred)) {
		return shared.NewValidationError("INVALID_MARGIN_TARGET", "Profit margin target must be between 0 and 100")
	}
	c.ProfitMarginTarget = target
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// IsRoot returns true if the category has no parent
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

func validateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewValidationError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	return nil
}
