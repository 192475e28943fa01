package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/catalog"
	"github.com/shopmgmt/backend/internal/domain/inventory"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/infrastructure/logger"
	"github.com/shopmgmt/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// StockService records manual stock changes and reads the stock ledger
type StockService struct {
	txScope     TransactionScope
	productRepo catalog.ProductRepository
	historyRepo inventory.ProductHistoryRepository
}

// NewStockService creates a new StockService
func NewStockService(
	txScope TransactionScope,
	productRepo catalog.ProductRepository,
	historyRepo inventory.ProductHistoryRepository,
) *StockService {
	return &StockService{
		txScope:     txScope,
		productRepo: productRepo,
		historyRepo: historyRepo,
	}
}

// AdjustStock applies a signed stock change of a manual type (Purchase,
// Adjustment or Return) under the product row lock and appends the ledger
// entry in the same transaction.
func (s *StockService) AdjustStock(ctx context.Context, tenantID, userID, productID uuid.UUID, req AdjustStockRequest) (*StockAdjustmentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "adjust",
		attribute.String("tenant.id", tenantID.String()),
		attribute.String("product.id", productID.String()),
		attribute.Int("stock.delta", req.Quantity),
	)
	defer span.End()

	txType := inventory.TransactionType(req.TransactionType)
	if !txType.IsManual() {
		return nil, shared.NewValidationError("INVALID_TRANSACTION_TYPE", "Transaction type must be Purchase, Adjustment or Return")
	}
	if req.Quantity == 0 {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity change cannot be zero")
	}
	if req.UnitPrice != nil && req.UnitPrice.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if req.UnitPrice != nil && !shared.IsWholeCents(*req.UnitPrice) {
		return nil, shared.NewValidationError("INVALID_PRICE", "Unit price cannot have more than 2 decimal places")
	}

	var (
		stock int
		entry *inventory.ProductHistory
	)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.ProductRepo().FindByIDForUpdate(ctx, tenantID, productID)
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("PRODUCT_NOT_FOUND", "Product not found")
		}
		if err != nil {
			return err
		}

		before, after, err := product.AdjustStock(req.Quantity)
		if err != nil {
			return err
		}
		entry, err = inventory.NewProductHistory(tenantID, product.ID, txType, req.Quantity, before, after)
		if err != nil {
			return err
		}
		entry.WithOperator(userID).WithNotes(req.Notes)
		if req.UnitPrice != nil {
			entry.WithPricing(*req.UnitPrice)
		}

		if err := repos.ProductRepo().UpdateStock(ctx, product); err != nil {
			return err
		}
		if err := repos.HistoryRepo().Create(ctx, entry); err != nil {
			return err
		}
		stock = after
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		if shared.KindOf(err) == shared.KindPersistence {
			logger.L(ctx).Error("stock adjustment rolled back", zap.Error(err))
		}
		return nil, shared.WrapPersistence("failed to adjust stock", err)
	}

	logger.L(ctx).Info("stock adjusted",
		zap.String("product_id", productID.String()),
		zap.String("type", txType.String()),
		zap.Int("delta", req.Quantity),
		zap.Int("stock", stock),
	)
	return &StockAdjustmentResponse{
		ProductID:    productID,
		CurrentStock: stock,
		Entry:        ToProductHistoryResponse(entry),
	}, nil
}

// History lists a product's ledger entries, newest first
func (s *StockService) History(ctx context.Context, tenantID, productID uuid.UUID, filter HistoryFilter) ([]ProductHistoryResponse, int64, error) {
	if _, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, 0, shared.NewNotFoundError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return nil, 0, shared.WrapPersistence("failed to load product", err)
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}

	entries, err := s.historyRepo.FindByProduct(ctx, tenantID, productID, domainFilter)
	if err != nil {
		return nil, 0, shared.WrapPersistence("failed to list product history", err)
	}
	total, err := s.historyRepo.CountByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, 0, shared.WrapPersistence("failed to count product history", err)
	}
	return ToProductHistoryResponses(entries), total, nil
}
