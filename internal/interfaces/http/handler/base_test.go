package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopmgmt/backend/internal/domain/shared"
	"github.com/shopmgmt/backend/internal/interfaces/http/middleware"
	"github.com/shopmgmt/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "validation error",
			err:        shared.NewValidationError("PRODUCT_NOT_FOUND", "Product 42 not found"),
			wantStatus: http.StatusBadRequest,
			wantCode:   "PRODUCT_NOT_FOUND",
			wantMsg:    "Product 42 not found",
		},
		{
			name:       "conflict error",
			err:        shared.NewConflictError("INSUFFICIENT_STOCK", "Only 2 left"),
			wantStatus: http.StatusConflict,
			wantCode:   "INSUFFICIENT_STOCK",
			wantMsg:    "Only 2 left",
		},
		{
			name:       "wrapped not found error",
			err:        fmt.Errorf("loading: %w", shared.NewNotFoundError("SALE_NOT_FOUND", "Sale not found")),
			wantStatus: http.StatusNotFound,
			wantCode:   "SALE_NOT_FOUND",
			wantMsg:    "Sale not found",
		},
		{
			name:       "persistence error hides the cause",
			err:        shared.WrapPersistence("failed to save sale", errors.New("pq: connection reset")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "PERSISTENCE_ERROR",
			wantMsg:    "An internal error occurred",
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
			wantMsg:    "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			tc := testutil.NewTestContext(t)

			h.HandleError(tc.Context, tt.err)

			testutil.AssertErrorResponse(t, tc.Recorder, tt.wantStatus, tt.wantCode)
			resp := testutil.DecodeResponse(t, tc.Recorder)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
		})
	}
}

func TestBaseHandler_Caller(t *testing.T) {
	h := &BaseHandler{}

	t.Run("authenticated", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		shop := testutil.TestTenantID()
		tc.Context.Set(middleware.JWTTenantIDKey, shop.String())
		tc.Context.Set(middleware.JWTUserIDKey, shop.String())

		tenantID, userID, ok := h.caller(tc.Context)
		require.True(t, ok)
		assert.Equal(t, shop, tenantID)
		assert.Equal(t, shop, userID)
	})

	t.Run("missing claims", func(t *testing.T) {
		tc := testutil.NewTestContext(t)

		_, _, ok := h.caller(tc.Context)
		assert.False(t, ok)
		testutil.AssertErrorResponse(t, tc.Recorder, http.StatusUnauthorized, "UNAUTHORIZED")
	})
}

func TestBaseHandler_PathID(t *testing.T) {
	h := &BaseHandler{}

	tc := testutil.NewTestContext(t)
	tc.Context.AddParam("id", "not-a-uuid")
	_, ok := h.pathID(tc.Context)
	assert.False(t, ok)
	testutil.AssertErrorResponse(t, tc.Recorder, http.StatusBadRequest, "VALIDATION_ERROR")

	tc = testutil.NewTestContext(t)
	want := uuid.New()
	tc.Context.AddParam("id", want.String())
	got, ok := h.pathID(tc.Context)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	h := &BaseHandler{}
	tc := testutil.NewTestContext(t)

	h.SuccessWithMeta(tc.Context, []string{"a", "b"}, 45, 2, 20)

	assert.Equal(t, http.StatusOK, tc.Recorder.Code)
	resp := testutil.DecodeResponse(t, tc.Recorder)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(45), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)
}
