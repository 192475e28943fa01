package integration

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/interfaces/http/handler"
	"github.com/shopmgmt/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type idResponse struct {
	ID uuid.UUID `json:"id"`
}

func TestAPI_ShopFlow(t *testing.T) {
	app := newTestApp(t)

	w := testutil.PerformRequest(t, app.Engine, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":     "flow-" + uuid.NewString()[:8] + "@shop.test",
		"password":  "correct-horse-battery",
		"name":      "Flow Owner",
		"shop_name": "Flow Shop",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	login := testutil.DecodeData[handler.LoginResponse](t, w)
	auth := map[string]string{"Authorization": "Bearer " + login.Token.AccessToken}

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = testutil.PerformRequest(t, app.Engine, http.MethodPost, "/api/v1/catalog/categories",
		map[string]any{"name": "Beverages"}, auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	category := testutil.DecodeData[idResponse](t, w)

	w = testutil.PerformRequest(t, app.Engine, http.MethodPost, "/api/v1/catalog/products", map[string]any{
		"name":          "Cold Brew",
		"category_id":   category.ID,
		"buying_price":  "2.50",
		"selling_price": "4.00",
		"initial_stock": 12,
	}, auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := testutil.DecodeData[idResponse](t, w)

	saleBody := map[string]any{
		"customer_name":  "Walk-in",
		"payment_method": "card",
		"items": []map[string]any{
			{"product_id": product.ID, "quantity": 5, "unit_selling_price": "4.00"},
		},
	}
	saleHeaders := map[string]string{
		"Authorization":   auth["Authorization"],
		"Idempotency-Key": uuid.NewString(),
	}

	t.Run("sale with idempotency key", func(t *testing.T) {
		w := testutil.PerformRequest(t, app.Engine, http.MethodPost, "/api/v1/sales", saleBody, saleHeaders)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		replay := testutil.PerformRequest(t, app.Engine, http.MethodPost, "/api/v1/sales", saleBody, saleHeaders)
		testutil.AssertErrorResponse(t, replay, http.StatusConflict, "DUPLICATE_REQUEST")
	})

	t.Run("oversell is a conflict", func(t *testing.T) {
		body := map[string]any{
			"items": []map[string]any{
				{"product_id": product.ID, "quantity": 100, "unit_selling_price": "4.00"},
			},
		}
		w := testutil.PerformRequest(t, app.Engine, http.MethodPost, "/api/v1/sales", body, auth)
		testutil.AssertErrorResponse(t, w, http.StatusConflict, "INSUFFICIENT_STOCK")
	})

	t.Run("profit and loss covers today", func(t *testing.T) {
		today := time.Now().UTC().Format("2006-01-02")
		w := testutil.PerformRequest(t, app.Engine, http.MethodGet,
			"/api/v1/reports/profit-loss?start_date="+today+"&end_date="+today, nil, auth)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		report := testutil.DecodeData[struct {
			TotalRevenue decimal.Decimal `json:"total_revenue"`
			TotalCost    decimal.Decimal `json:"total_cost"`
			GrossProfit  decimal.Decimal `json:"gross_profit"`
		}](t, w)
		assert.True(t, report.TotalRevenue.Equal(decimal.NewFromInt(20)), report.TotalRevenue.String())
		assert.True(t, report.TotalCost.Equal(decimal.RequireFromString("12.5")), report.TotalCost.String())
		assert.True(t, report.GrossProfit.Equal(decimal.RequireFromString("7.5")), report.GrossProfit.String())
	})

	t.Run("other shops see nothing", func(t *testing.T) {
		other := app.registerShop(t)
		w := testutil.PerformRequest(t, app.Engine, http.MethodGet, "/api/v1/catalog/products/"+product.ID.String(), nil, other.headers())
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, "PRODUCT_NOT_FOUND")

		w = testutil.PerformRequest(t, app.Engine, http.MethodGet, "/api/v1/sales", nil, other.headers())
		require.Equal(t, http.StatusOK, w.Code)
		resp := testutil.DecodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Zero(t, resp.Meta.Total)
	})

	t.Run("delete sale", func(t *testing.T) {
		w := testutil.PerformRequest(t, app.Engine, http.MethodGet, "/api/v1/sales", nil, auth)
		require.Equal(t, http.StatusOK, w.Code)
		sales := testutil.DecodeData[[]idResponse](t, w)
		require.Len(t, sales, 1)

		w = testutil.PerformRequest(t, app.Engine, http.MethodDelete, "/api/v1/sales/"+sales[0].ID.String(), nil, auth)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = testutil.PerformRequest(t, app.Engine, http.MethodDelete, "/api/v1/sales/"+sales[0].ID.String(), nil, auth)
		testutil.AssertErrorResponse(t, w, http.StatusNotFound, "NOT_FOUND")

		w = testutil.PerformRequest(t, app.Engine, http.MethodGet, "/api/v1/catalog/products/"+product.ID.String(), nil, auth)
		require.Equal(t, http.StatusOK, w.Code)
		restored := testutil.DecodeData[struct {
			CurrentStock int `json:"current_stock"`
		}](t, w)
		assert.Equal(t, 12, restored.CurrentStock)
	})

	t.Run("logout revokes the access token", func(t *testing.T) {
		w := testutil.PerformRequest(t, app.Engine, http.MethodPost, "/api/v1/auth/logout", nil, auth)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = testutil.PerformRequest(t, app.Engine, http.MethodGet, "/api/v1/auth/me", nil, auth)
		testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "TOKEN_REVOKED")
	})
}

func TestAPI_RequiresAuthentication(t *testing.T) {
	app := newTestApp(t)

	w := testutil.PerformRequest(t, app.Engine, http.MethodGet, "/api/v1/sales", nil, nil)
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, "UNAUTHORIZED")

	w = testutil.PerformRequest(t, app.Engine, http.MethodGet, "/api/v1/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
