package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate root.
type SaleModel struct {
	TenantAggregateModel
	SaleTime      time.Time           `gorm:"not null;index"`
	CustomerID    *uuid.UUID          `gorm:"type:uuid;index"`
	CustomerName  string              `gorm:"type:varchar(255)"`
	CustomerPhone string              `gorm:"type:varchar(20)"`
	PaymentMethod trade.PaymentMethod `gorm:"type:varchar(20);not null;default:'cash'"`
	Notes         string              `gorm:"type:text"`
	TotalAmount   decimal.Decimal     `gorm:"type:decimal(15,2);not null"`
	TotalCost     decimal.Decimal     `gorm:"type:decimal(15,2);not null"`
	TotalProfit   decimal.Decimal     `gorm:"type:decimal(15,2);not null"`
	Items         []SaleItemModel     `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale aggregate.
func (m *SaleModel) ToDomain() *trade.Sale {
	s := &trade.Sale{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		SaleTime:            m.SaleTime,
		CustomerID:          m.CustomerID,
		CustomerName:        m.CustomerName,
		CustomerPhone:       m.CustomerPhone,
		PaymentMethod:       m.PaymentMethod,
		Notes:               m.Notes,
		TotalAmount:         m.TotalAmount,
		TotalCost:           m.TotalCost,
		TotalProfit:         m.TotalProfit,
		Items:               make([]trade.SaleItem, len(m.Items)),
	}
	for i := range m.Items {
		s.Items[i] = *m.Items[i].ToDomain()
	}
	return s
}

// FromDomain populates the persistence model from a domain Sale aggregate.
func (m *SaleModel) FromDomain(s *trade.Sale) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.SaleTime = s.SaleTime
	m.CustomerID = s.CustomerID
	m.CustomerName = s.CustomerName
	m.CustomerPhone = s.CustomerPhone
	m.PaymentMethod = s.PaymentMethod
	m.Notes = s.Notes
	m.TotalAmount = s.TotalAmount
	m.TotalCost = s.TotalCost
	m.TotalProfit = s.TotalProfit
	m.Items = make([]SaleItemModel, len(s.Items))
	for i := range s.Items {
		m.Items[i].FromDomain(&s.Items[i])
	}
}

// SaleModelFromDomain creates a new persistence model from a domain Sale aggregate.
func SaleModelFromDomain(s *trade.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}

// SaleItemModel is the persistence model for one line of a sale.
type SaleItemModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName      string          `gorm:"type:varchar(255);not null"`
	Quantity         int             `gorm:"not null"`
	UnitBuyingPrice  decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	UnitSellingPrice decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalCost        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalProfit      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain SaleItem.
func (m *SaleItemModel) ToDomain() *trade.SaleItem {
	return &trade.SaleItem{
		ID:               m.ID,
		SaleID:           m.SaleID,
		ProductID:        m.ProductID,
		ProductName:      m.ProductName,
		Quantity:         m.Quantity,
		UnitBuyingPrice:  m.UnitBuyingPrice,
		UnitSellingPrice: m.UnitSellingPrice,
		TotalAmount:      m.TotalAmount,
		TotalCost:        m.TotalCost,
		TotalProfit:      m.TotalProfit,
		CreatedAt:        m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain SaleItem.
func (m *SaleItemModel) FromDomain(item *trade.SaleItem) {
	m.ID = item.ID
	m.SaleID = item.SaleID
	m.ProductID = item.ProductID
	m.ProductName = item.ProductName
	m.Quantity = item.Quantity
	m.UnitBuyingPrice = item.UnitBuyingPrice
	m.UnitSellingPrice = item.UnitSellingPrice
	m.TotalAmount = item.TotalAmount
	m.TotalCost = item.TotalCost
	m.TotalProfit = item.TotalProfit
	m.CreatedAt = item.CreatedAt
}
