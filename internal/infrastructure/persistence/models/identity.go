package models

import (
	"time"

	"github.com/shopmgmt/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate root.
// A user is its own tenant, so TenantID always equals ID.
type UserModel struct {
	TenantAggregateModel
	Email                 string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name                  string `gorm:"type:varchar(100);not null"`
	Phone                 string `gorm:"type:varchar(20)"`
	ShopName              string `gorm:"type:varchar(200);not null"`
	PasswordHash          string `gorm:"type:varchar(255);not null"`
	IsActive              bool   `gorm:"not null;default:true"`
	IsEmailVerified       bool   `gorm:"not null;default:false"`
	RefreshTokenHash      string `gorm:"type:varchar(64)"`
	RefreshTokenExpiresAt *time.Time
	LastLoginAt           *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot:   m.ToTenantAggregateRoot(),
		Email:                 m.Email,
		Name:                  m.Name,
		Phone:                 m.Phone,
		ShopName:              m.ShopName,
		PasswordHash:          m.PasswordHash,
		IsActive:              m.IsActive,
		IsEmailVerified:       m.IsEmailVerified,
		RefreshTokenHash:      m.RefreshTokenHash,
		RefreshTokenExpiresAt: m.RefreshTokenExpiresAt,
		LastLoginAt:           m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Email = u.Email
	m.Name = u.Name
	m.Phone = u.Phone
	m.ShopName = u.ShopName
	m.PasswordHash = u.PasswordHash
	m.IsActive = u.IsActive
	m.IsEmailVerified = u.IsEmailVerified
	m.RefreshTokenHash = u.RefreshTokenHash
	m.RefreshTokenExpiresAt = u.RefreshTokenExpiresAt
	m.LastLoginAt = u.LastLoginAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
