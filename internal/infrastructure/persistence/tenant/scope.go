// Package tenant provides tenant scoping for GORM queries.
//
// Every repository query runs through Scope so that a row owned by another
// shop is indistinguishable from a missing row.
//
// Usage:
//
//	db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Find(&products)
//	db.Table("sales s").Scopes(tenant.ScopeTable("s", tenantID))
package tenant

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantIDRequired is returned when a scoped query is built without a tenant
var ErrTenantIDRequired = errors.New("tenant_id is required")

// Scope applies tenant filtering on the statement's own table
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}

// ScopeTable applies tenant filtering on an aliased table, for joins
func ScopeTable(alias string, tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where(alias+".tenant_id = ?", tenantID)
	}
}
