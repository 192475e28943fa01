package trade

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/catalog"
	"github.com/shopmgmt/backend/internal/domain/inventory"
	"github.com/shopmgmt/backend/internal/domain/partner"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/domain/trade"
	"github.com/shopmgmt/backend/internal/infrastructure/logger"
	"github.com/shopmgmt/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SaleService creates, reverses and queries point-of-sale transactions.
//
// CreateSale and DeleteSale each run as a single unit of work: product rows
// are locked in a fixed order, every check happens before the first write,
// and any failure rolls the whole transaction back.
type SaleService struct {
	txScope  TransactionScope
	saleRepo trade.SaleRepository
	metrics  *telemetry.BusinessMetrics
	now      func() time.Time
}

// NewSaleService creates a new SaleService
func NewSaleService(txScope TransactionScope, saleRepo trade.SaleRepository) *SaleService {
	return &SaleService{
		txScope:  txScope,
		saleRepo: saleRepo,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetBusinessMetrics enables sale counters. Without it nothing is recorded.
func (s *SaleService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// CreateSale validates the checkout against current stock, records the sale,
// its items, the stock decrements, one ledger entry per line and the
// customer's running totals in one transaction, then returns the stored sale.
func (s *SaleService) CreateSale(ctx context.Context, tenantID, userID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "create",
		attribute.String("tenant.id", tenantID.String()),
		attribute.Int("sale.lines", len(req.Items)),
	)
	defer span.End()

	method, err := validateCreateSale(req)
	if err != nil {
		return nil, err
	}

	var saleID uuid.UUID
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := s.checkout(ctx, repos, tenantID, userID, method, req)
		if err != nil {
			return err
		}
		saleID = sale.ID
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		if shared.KindOf(err) == shared.KindPersistence {
			logger.L(ctx).Error("sale creation rolled back", zap.Error(err))
		}
		return nil, shared.WrapPersistence("failed to create sale", err)
	}

	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
	if err != nil {
		return nil, shared.WrapPersistence("failed to load created sale", err)
	}

	logger.L(ctx).Info("sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("total_amount", sale.TotalAmount.String()),
		zap.Int("lines", sale.ItemCount()),
	)
	if s.metrics != nil {
		s.metrics.RecordSaleCreated(ctx, tenantID, string(sale.PaymentMethod), sale.TotalAmount)
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// checkout performs CreateSale inside the transaction.
func (s *SaleService) checkout(
	ctx context.Context,
	repos TransactionalRepositories,
	tenantID, userID uuid.UUID,
	method trade.PaymentMethod,
	req CreateSaleRequest,
) (*trade.Sale, error) {
	// Demand is summed per product so a product listed twice is checked
	// against its total quantity.
	demand := make(map[uuid.UUID]int, len(req.Items))
	for _, line := range req.Items {
		demand[line.ProductID] += line.Quantity
	}

	products, err := lockProducts(ctx, repos.ProductRepo(), tenantID, demand)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Items {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, shared.NewValidationError("PRODUCT_NOT_FOUND",
				fmt.Sprintf("Product not found: %s", line.ProductID))
		}
		if !product.IsActive {
			return nil, shared.NewValidationError("PRODUCT_INACTIVE",
				fmt.Sprintf("Product is not available for sale: %s", product.Name))
		}
		if !product.CanSupply(demand[line.ProductID]) {
			return nil, shared.NewConflictError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Insufficient stock for product: %s (available %d, requested %d)",
					product.Name, product.CurrentStock, demand[line.ProductID]))
		}
	}

	var customer *partner.Customer
	if req.CustomerID != nil {
		customer, err = repos.CustomerRepo().FindByIDForUpdate(ctx, tenantID, *req.CustomerID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewValidationError("CUSTOMER_NOT_FOUND",
				fmt.Sprintf("Customer not found: %s", *req.CustomerID))
		}
		if err != nil {
			return nil, err
		}
	}

	sale, err := trade.NewSale(tenantID, userID, method)
	if err != nil {
		return nil, err
	}
	sale.SaleTime = s.now()
	sale.Notes = strings.TrimSpace(req.Notes)
	if customer != nil {
		sale.SetCustomer(&customer.ID, firstNonEmpty(req.CustomerName, customer.Name), firstNonEmpty(req.CustomerPhone, customer.Phone))
	} else {
		sale.SetCustomer(nil, req.CustomerName, req.CustomerPhone)
	}

	entries := make([]*inventory.ProductHistory, 0, len(req.Items))
	for _, line := range req.Items {
		product := products[line.ProductID]
		if _, err := sale.AddItem(product.ID, product.Name, line.Quantity, product.BuyingPrice, line.UnitSellingPrice); err != nil {
			return nil, err
		}
		before, after, err := product.DeductStock(line.Quantity)
		if err != nil {
			return nil, err
		}
		entry, err := inventory.NewProductHistory(tenantID, product.ID, inventory.TransactionTypeSale, -line.Quantity, before, after)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry.
			WithPricing(line.UnitSellingPrice).
			WithSource(sale.ID).
			WithOperator(userID).
			WithNotes(fmt.Sprintf("Sold %d x %s", line.Quantity, product.Name)))
	}
	if err := sale.Validate(); err != nil {
		return nil, err
	}

	if err := repos.SaleRepo().Create(ctx, sale); err != nil {
		return nil, err
	}
	for _, id := range sortedIDs(demand) {
		if err := repos.ProductRepo().UpdateStock(ctx, products[id]); err != nil {
			return nil, err
		}
	}
	if err := repos.HistoryRepo().CreateBatch(ctx, entries); err != nil {
		return nil, err
	}
	if customer != nil {
		customer.RecordPurchase(sale.TotalAmount, sale.SaleTime)
		if err := repos.CustomerRepo().Update(ctx, customer); err != nil {
			return nil, err
		}
	}
	return sale, nil
}

// DeleteSale reverses a sale: stock is restored, a cancellation entry is
// appended per line, the customer's totals are reduced and the sale is
// removed. It returns false without error when the sale does not exist in
// the tenant.
func (s *SaleService) DeleteSale(ctx context.Context, tenantID, userID, saleID uuid.UUID) (bool, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "delete",
		attribute.String("tenant.id", tenantID.String()),
		attribute.String("sale.id", saleID.String()),
	)
	defer span.End()

	var deleted *trade.Sale
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sale, err := repos.SaleRepo().FindByIDForTenant(ctx, tenantID, saleID)
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.reverse(ctx, repos, tenantID, userID, sale); err != nil {
			return err
		}
		deleted = sale
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		if shared.KindOf(err) == shared.KindPersistence {
			logger.L(ctx).Error("sale reversal rolled back", zap.Error(err))
		}
		return false, shared.WrapPersistence("failed to delete sale", err)
	}
	if deleted == nil {
		return false, nil
	}
	logger.L(ctx).Info("sale deleted", zap.String("sale_id", saleID.String()))
	if s.metrics != nil {
		s.metrics.RecordSaleCancelled(ctx, tenantID, string(deleted.PaymentMethod), deleted.TotalAmount)
	}
	return true, nil
}

// reverse undoes the stock, ledger and customer effects of sale and deletes it.
func (s *SaleService) reverse(ctx context.Context, repos TransactionalRepositories, tenantID, userID uuid.UUID, sale *trade.Sale) error {
	restock := make(map[uuid.UUID]int, len(sale.Items))
	for _, item := range sale.Items {
		restock[item.ProductID] += item.Quantity
	}

	products, err := lockProducts(ctx, repos.ProductRepo(), tenantID, restock)
	if err != nil {
		return err
	}

	entries := make([]*inventory.ProductHistory, 0, len(sale.Items))
	for _, item := range sale.Items {
		product, ok := products[item.ProductID]
		if !ok {
			// The product was removed after the sale; nothing to restock.
			continue
		}
		before, after, err := product.RestoreStock(item.Quantity)
		if err != nil {
			return err
		}
		entry, err := inventory.NewProductHistory(tenantID, product.ID, inventory.TransactionTypeSaleCancellation, item.Quantity, before, after)
		if err != nil {
			return err
		}
		entries = append(entries, entry.
			WithPricing(item.UnitSellingPrice).
			WithSource(sale.ID).
			WithOperator(userID).
			WithNotes(fmt.Sprintf("Sale cancelled, restored %d x %s", item.Quantity, product.Name)))
	}

	for _, id := range sortedIDs(restock) {
		if product, ok := products[id]; ok {
			if err := repos.ProductRepo().UpdateStock(ctx, product); err != nil {
				return err
			}
		}
	}
	if len(entries) > 0 {
		if err := repos.HistoryRepo().CreateBatch(ctx, entries); err != nil {
			return err
		}
	}

	if sale.CustomerID != nil {
		customer, err := repos.CustomerRepo().FindByIDForUpdate(ctx, tenantID, *sale.CustomerID)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			// Customer deleted since the sale; nothing to adjust.
		case err != nil:
			return err
		default:
			customer.ReversePurchase(sale.TotalAmount)
			if err := repos.CustomerRepo().Update(ctx, customer); err != nil {
				return err
			}
		}
	}

	return repos.SaleRepo().Delete(ctx, tenantID, sale.ID)
}

// GetSale returns a sale with its items
func (s *SaleService) GetSale(ctx context.Context, tenantID, saleID uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDForTenant(ctx, tenantID, saleID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewNotFoundError("SALE_NOT_FOUND", "Sale not found")
	}
	if err != nil {
		return nil, shared.WrapPersistence("failed to load sale", err)
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// ListSales lists sales, newest first
func (s *SaleService) ListSales(ctx context.Context, tenantID uuid.UUID, filter SaleListFilter) ([]SaleResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "sale_time"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := trade.SaleListFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		CustomerID: filter.CustomerID,
	}
	if filter.StartDate != nil {
		from := filter.StartDate.UTC()
		domainFilter.From = &from
	}
	if filter.EndDate != nil {
		// End date is inclusive: everything before the following midnight.
		to := filter.EndDate.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
		domainFilter.To = &to
	}
	if domainFilter.From != nil && domainFilter.To != nil && !domainFilter.From.Before(*domainFilter.To) {
		return nil, 0, shared.NewValidationError("INVALID_DATE_RANGE", "start date must not be after end date")
	}
	if filter.PaymentMethod != "" {
		method, err := trade.ParsePaymentMethod(filter.PaymentMethod)
		if err != nil {
			return nil, 0, err
		}
		domainFilter.PaymentMethod = &method
	}

	return s.list(ctx, tenantID, domainFilter)
}

// TodaySales lists the sales made since midnight UTC
func (s *SaleService) TodaySales(ctx context.Context, tenantID uuid.UUID) ([]SaleResponse, int64, error) {
	start := s.now().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, 1)
	return s.list(ctx, tenantID, trade.SaleListFilter{
		Filter: shared.Filter{Page: 1, PageSize: 1000, OrderBy: "sale_time", OrderDir: "desc"},
		From:   &start,
		To:     &end,
	})
}

func (s *SaleService) list(ctx context.Context, tenantID uuid.UUID, filter trade.SaleListFilter) ([]SaleResponse, int64, error) {
	sales, err := s.saleRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, shared.WrapPersistence("failed to list sales", err)
	}
	total, err := s.saleRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, shared.WrapPersistence("failed to count sales", err)
	}
	return ToSaleResponses(sales), total, nil
}

// lockProducts loads and row-locks every product in ids, in ascending id
// order so that concurrent sales over the same products cannot deadlock.
// Products that are missing or belong to another tenant are left out of the
// result.
func lockProducts(ctx context.Context, repo catalog.ProductRepository, tenantID uuid.UUID, ids map[uuid.UUID]int) (map[uuid.UUID]*catalog.Product, error) {
	products := make(map[uuid.UUID]*catalog.Product, len(ids))
	for _, id := range sortedIDs(ids) {
		product, err := repo.FindByIDForUpdate(ctx, tenantID, id)
		if errors.Is(err, shared.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		products[id] = product
	}
	return products, nil
}

func validateCreateSale(req CreateSaleRequest) (trade.PaymentMethod, error) {
	if len(req.Items) == 0 {
		return "", shared.NewValidationError("NO_ITEMS", "Sale must have at least one item")
	}
	for i, line := range req.Items {
		if line.ProductID == uuid.Nil {
			return "", shared.NewValidationError("INVALID_PRODUCT", fmt.Sprintf("Item %d: product ID is required", i+1))
		}
		if line.Quantity <= 0 {
			return "", shared.NewValidationError("INVALID_QUANTITY", fmt.Sprintf("Item %d: quantity must be positive", i+1))
		}
		if !line.UnitSellingPrice.IsPositive() {
			return "", shared.NewValidationError("INVALID_PRICE", fmt.Sprintf("Item %d: unit selling price must be positive", i+1))
		}
		if !shared.IsWholeCents(line.UnitSellingPrice) {
			return "", shared.NewValidationError("INVALID_PRICE", fmt.Sprintf("Item %d: unit selling price cannot have more than 2 decimal places", i+1))
		}
	}
	return trade.ParsePaymentMethod(req.PaymentMethod)
}

func sortedIDs(m map[uuid.UUID]int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
