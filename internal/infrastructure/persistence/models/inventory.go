package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// ProductHistoryModel is the persistence model for the ProductHistory ledger entry.
// Rows are inserted once and never updated, so there is no UpdatedAt or Version.
type ProductHistoryModel struct {
	ID              uuid.UUID                 `gorm:"type:uuid;primary_key"`
	TenantID        uuid.UUID                 `gorm:"type:uuid;not null;index:idx_product_history_tenant_product,priority:1"`
	ProductID       uuid.UUID                 `gorm:"type:uuid;not null;index:idx_product_history_tenant_product,priority:2"`
	TransactionType inventory.TransactionType `gorm:"type:varchar(30);not null"`
	QuantityChanged int                       `gorm:"not null"`
	StockBefore     int                       `gorm:"not null"`
	StockAfter      int                       `gorm:"not null"`
	UnitPrice       *decimal.Decimal          `gorm:"type:decimal(15,2)"`
	TotalValue      *decimal.Decimal          `gorm:"type:decimal(15,2)"`
	SourceID        *uuid.UUID                `gorm:"type:uuid;index"`
	Notes           string                    `gorm:"type:text"`
	CreatedBy       *uuid.UUID                `gorm:"type:uuid"`
	CreatedAt       time.Time                 `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ProductHistoryModel) TableName() string {
	return "product_histories"
}

// ToDomain converts the persistence model to a domain ProductHistory entry.
func (m *ProductHistoryModel) ToDomain() *inventory.ProductHistory {
	return &inventory.ProductHistory{
		ID:              m.ID,
		TenantID:        m.TenantID,
		ProductID:       m.ProductID,
		TransactionType: m.TransactionType,
		QuantityChanged: m.QuantityChanged,
		StockBefore:     m.StockBefore,
		StockAfter:      m.StockAfter,
		UnitPrice:       m.UnitPrice,
		TotalValue:      m.TotalValue,
		SourceID:        m.SourceID,
		Notes:           m.Notes,
		CreatedBy:       m.CreatedBy,
		CreatedAt:       m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain ProductHistory entry.
func (m *ProductHistoryModel) FromDomain(h *inventory.ProductHistory) {
	m.ID = h.ID
	m.TenantID = h.TenantID
	m.ProductID = h.ProductID
	m.TransactionType = h.TransactionType
	m.QuantityChanged = h.QuantityChanged
	m.StockBefore = h.StockBefore
	m.StockAfter = h.StockAfter
	m.UnitPrice = h.UnitPrice
	m.TotalValue = h.TotalValue
	m.SourceID = h.SourceID
	m.Notes = h.Notes
	m.CreatedBy = h.CreatedBy
	m.CreatedAt = h.CreatedAt
}

// ProductHistoryModelFromDomain creates a new persistence model from a domain ProductHistory entry.
func ProductHistoryModelFromDomain(h *inventory.ProductHistory) *ProductHistoryModel {
	m := &ProductHistoryModel{}
	m.FromDomain(h)
	return m
}
