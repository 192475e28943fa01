package telemetry

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics set is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

var centsPerUnit = decimal.NewFromInt(100)

// BusinessMetrics counts sales and tracks stock health per shop.
// Amounts are recorded in cents so the counters stay integral.
type BusinessMetrics struct {
	saleCreatedTotal   *Counter
	saleCancelledTotal *Counter
	saleAmountTotal    *Counter
	refundAmountTotal  *Counter
	lowStockCount      *Gauge
	outOfStockCount    *Gauge
}

// NewBusinessMetrics registers the shop instruments on meter.
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	bm := &BusinessMetrics{}
	var err error
	if bm.saleCreatedTotal, err = NewCounter(meter, "shop_sale_created_total",
		"Total number of sales recorded", "{sales}"); err != nil {
		return nil, err
	}
	if bm.saleCancelledTotal, err = NewCounter(meter, "shop_sale_cancelled_total",
		"Total number of sales deleted and restocked", "{sales}"); err != nil {
		return nil, err
	}
	if bm.saleAmountTotal, err = NewCounter(meter, "shop_sale_amount_total",
		"Total sale revenue in cents", "{cents}"); err != nil {
		return nil, err
	}
	if bm.refundAmountTotal, err = NewCounter(meter, "shop_sale_refund_amount_total",
		"Total revenue reversed by deleted sales in cents", "{cents}"); err != nil {
		return nil, err
	}
	if bm.lowStockCount, err = NewGauge(meter, "shop_inventory_low_stock_count",
		"Active products at or below their minimum stock level", "{products}"); err != nil {
		return nil, err
	}
	if bm.outOfStockCount, err = NewGauge(meter, "shop_inventory_out_of_stock_count",
		"Active products with no stock left", "{products}"); err != nil {
		return nil, err
	}
	return bm, nil
}

// RecordSaleCreated counts a completed checkout and adds its total.
func (bm *BusinessMetrics) RecordSaleCreated(ctx context.Context, tenantID uuid.UUID, paymentMethod string, amount decimal.Decimal) {
	tenant := AttrTenantID.String(tenantID.String())
	method := AttrPaymentMethod.String(paymentMethod)
	bm.saleCreatedTotal.Inc(ctx, tenant, method)
	bm.saleAmountTotal.Add(ctx, toCents(amount), tenant, method)
}

// RecordSaleCancelled counts a deleted sale and the revenue it gave back.
func (bm *BusinessMetrics) RecordSaleCancelled(ctx context.Context, tenantID uuid.UUID, paymentMethod string, amount decimal.Decimal) {
	tenant := AttrTenantID.String(tenantID.String())
	method := AttrPaymentMethod.String(paymentMethod)
	bm.saleCancelledTotal.Inc(ctx, tenant, method)
	bm.refundAmountTotal.Add(ctx, toCents(amount), tenant, method)
}

// RecordStockHealth sets the low and out of stock gauges for a shop.
func (bm *BusinessMetrics) RecordStockHealth(ctx context.Context, tenantID uuid.UUID, lowStock, outOfStock int64) {
	tenant := AttrTenantID.String(tenantID.String())
	bm.lowStockCount.Record(ctx, lowStock, tenant)
	bm.outOfStockCount.Record(ctx, outOfStock, tenant)
}

func toCents(amount decimal.Decimal) int64 {
	return amount.Mul(centsPerUnit).Round(0).IntPart()
}
