// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: base persistence models (BaseModel, TenantAggregateModel)
//   - identity.go: users (shop owners)
//   - catalog.go: products and categories
//   - partner.go: customers and suppliers
//   - trade.go: sales and sale items
//   - inventory.go: product history ledger
package models

// All returns every persistence model in dependency order. Tests use it with
// AutoMigrate; production schemas come from the SQL migrations.
func All() []any {
	return []any{
		&UserModel{},
		&CategoryModel{},
		&SupplierModel{},
		&ProductModel{},
		&CustomerModel{},
		&SaleModel{},
		&SaleItemModel{},
		&ProductHistoryModel{},
	}
}

// TenantUniqueIndexes are the per-tenant unique indexes. They are kept out of
// struct tags because the tenant column lives on the embedded model.
var TenantUniqueIndexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_tenant_barcode ON products (tenant_id, barcode)",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_tenant_name ON categories (tenant_id, name)",
}
