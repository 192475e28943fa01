package models

import (
	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	TenantAggregateModel
	Name          string          `gorm:"type:varchar(255);not null"`
	Barcode       *string         `gorm:"type:varchar(100)"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID    *uuid.UUID      `gorm:"type:uuid;index"`
	BuyingPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CurrentStock  int             `gorm:"not null;default:0"`
	MinStockLevel int             `gorm:"not null;default:10"`
	IsActive      bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		CategoryID:          m.CategoryID,
		SupplierID:          m.SupplierID,
		BuyingPrice:         m.BuyingPrice,
		SellingPrice:        m.SellingPrice,
		CurrentStock:        m.CurrentStock,
		MinStockLevel:       m.MinStockLevel,
		IsActive:            m.IsActive,
	}
	if m.Barcode != nil {
		p.Barcode = *m.Barcode
	}
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
// An empty barcode is stored as NULL so that the per-tenant unique index
// only applies to products that have one.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.Name = p.Name
	m.Barcode = nil
	if p.Barcode != "" {
		barcode := p.Barcode
		m.Barcode = &barcode
	}
	m.CategoryID = p.CategoryID
	m.SupplierID = p.SupplierID
	m.BuyingPrice = p.BuyingPrice
	m.SellingPrice = p.SellingPrice
	m.CurrentStock = p.CurrentStock
	m.MinStockLevel = p.MinStockLevel
	m.IsActive = p.IsActive
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	TenantAggregateModel
	Name               string           `gorm:"type:varchar(100);not null"`
	Description        string           `gorm:"type:text"`
	ParentID           *uuid.UUID       `gorm:"type:uuid;index"`
	ProfitMarginTarget *decimal.Decimal `gorm:"type:decimal(5,2)"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Description:         m.Description,
		ParentID:            m.ParentID,
		ProfitMarginTarget:  m.ProfitMarginTarget,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Description = c.Description
	m.ParentID = c.ParentID
	m.ProfitMarginTarget = c.ProfitMarginTarget
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}
