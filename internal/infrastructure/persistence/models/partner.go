package models

import (
	"time"

	"github.com/shopmgmt/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	TenantAggregateModel
	Name              string          `gorm:"type:varchar(255);not null"`
	Phone             string          `gorm:"type:varchar(20);index"`
	Email             string          `gorm:"type:varchar(255)"`
	Address           string          `gorm:"type:text"`
	TotalPurchases    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	TotalTransactions int             `gorm:"not null;default:0"`
	LastPurchaseAt    *time.Time
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		Phone:               m.Phone,
		Email:               m.Email,
		Address:             m.Address,
		TotalPurchases:      m.TotalPurchases,
		TotalTransactions:   m.TotalTransactions,
		LastPurchaseAt:      m.LastPurchaseAt,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.Phone = c.Phone
	m.Email = c.Email
	m.Address = c.Address
	m.TotalPurchases = c.TotalPurchases
	m.TotalTransactions = c.TotalTransactions
	m.LastPurchaseAt = c.LastPurchaseAt
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// SupplierModel is the persistence model for the Supplier domain entity.
type SupplierModel struct {
	TenantAggregateModel
	Name          string `gorm:"type:varchar(255);not null"`
	ContactPerson string `gorm:"type:varchar(255)"`
	Phone         string `gorm:"type:varchar(20)"`
	Email         string `gorm:"type:varchar(255)"`
	Address       string `gorm:"type:text"`
	Notes         string `gorm:"type:text"`
	IsActive      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier entity.
func (m *SupplierModel) ToDomain() *partner.Supplier {
	return &partner.Supplier{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		ContactPerson:       m.ContactPerson,
		Phone:               m.Phone,
		Email:               m.Email,
		Address:             m.Address,
		Notes:               m.Notes,
		IsActive:            m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Supplier entity.
func (m *SupplierModel) FromDomain(s *partner.Supplier) {
	m.FromDomainTenantAggregateRoot(s.TenantAggregateRoot)
	m.Name = s.Name
	m.ContactPerson = s.ContactPerson
	m.Phone = s.Phone
	m.Email = s.Email
	m.Address = s.Address
	m.Notes = s.Notes
	m.IsActive = s.IsActive
}

// SupplierModelFromDomain creates a new persistence model from a domain Supplier entity.
func SupplierModelFromDomain(s *partner.Supplier) *SupplierModel {
	m := &SupplierModel{}
	m.FromDomain(s)
	return m
}
