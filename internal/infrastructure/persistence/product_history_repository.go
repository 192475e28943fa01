package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/inventory"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/infrastructure/persistence/models"
	"github.com/shopmgmt/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormProductHistoryRepository implements ProductHistoryRepository using GORM.
// It only inserts and reads.
type GormProductHistoryRepository struct {
	db *gorm.DB
}

// NewGormProductHistoryRepository creates a new GormProductHistoryRepository
func NewGormProductHistoryRepository(db *gorm.DB) *GormProductHistoryRepository {
	return &GormProductHistoryRepository{db: db}
}

// Create appends one entry
func (r *GormProductHistoryRepository) Create(ctx context.Context, entry *inventory.ProductHistory) error {
	return r.db.WithContext(ctx).Create(models.ProductHistoryModelFromDomain(entry)).Error
}

// CreateBatch appends several entries in order
func (r *GormProductHistoryRepository) CreateBatch(ctx context.Context, entries []*inventory.ProductHistory) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*models.ProductHistoryModel, len(entries))
	for i, e := range entries {
		rows[i] = models.ProductHistoryModelFromDomain(e)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// FindByProduct lists entries for a product, newest first
func (r *GormProductHistoryRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]inventory.ProductHistory, error) {
	var rows []models.ProductHistoryModel
	query := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("product_id = ?", productID).
		Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return historyToDomain(rows), nil
}

// CountByProduct counts entries for a product
func (r *GormProductHistoryRepository) CountByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductHistoryModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindBySource lists entries caused by a document, oldest first
func (r *GormProductHistoryRepository) FindBySource(ctx context.Context, tenantID, sourceID uuid.UUID) ([]inventory.ProductHistory, error) {
	var rows []models.ProductHistoryModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("source_id = ?", sourceID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return historyToDomain(rows), nil
}

func historyToDomain(rows []models.ProductHistoryModel) []inventory.ProductHistory {
	entries := make([]inventory.ProductHistory, len(rows))
	for i := range rows {
		entries[i] = *rows[i].ToDomain()
	}
	return entries
}

// Ensure GormProductHistoryRepository implements ProductHistoryRepository
var _ inventory.ProductHistoryRepository = (*GormProductHistoryRepository)(nil)
