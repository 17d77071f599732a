package handler

import (
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	appcart "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartHandler_Flow(t *testing.T) {
	env := newTestEnv(t)
	mug := env.addProduct(t, "mug", 5)
	cup := env.addProduct(t, "cup", 3)
	base := "/api/v1/stores/acme/cart"

	w := env.do(t, http.MethodPost, base+"/items", map[string]any{"product_id": "mug"})
	require.Equal(t, http.StatusCreated, w.Code)
	var added appcart.AddResult
	decode(t, w, &added)
	assert.Equal(t, 1, added.Line.Quantity)
	assert.Equal(t, 1, added.Badge)

	w = env.do(t, http.MethodPost, base+"/items", map[string]any{"product_id": cup.ID.String(), "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	var view appcart.View
	decode(t, env.do(t, http.MethodGet, base, nil), &view)
	require.Len(t, view.Items, 2)
	assert.Equal(t, mug.ID.String(), view.Items[0].ProductID)
	assert.Equal(t, 3, view.Summary.TotalItems)
	assert.True(t, decimal.NewFromInt(11).Equal(view.Summary.TotalPrice.Amount))

	w = env.do(t, http.MethodPut, base+"/items/"+mug.ID.String(), map[string]int{"quantity": 5})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &view)
	assert.Equal(t, 7, view.Summary.TotalItems)

	w = env.do(t, http.MethodPut, base+"/items/"+mug.ID.String(), map[string]int{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &view)
	require.Len(t, view.Items, 1)

	w = env.do(t, http.MethodPut, base+"/items/"+cup.ID.String(), map[string]int{"quantity": -5})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &view)
	assert.Empty(t, view.Items)

	w = env.do(t, http.MethodPost, base+"/items", map[string]any{"product_id": "cup"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.do(t, http.MethodDelete, base+"/items/"+cup.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &view)
	assert.Empty(t, view.Items)

	var summary appcart.Summary
	decode(t, env.do(t, http.MethodGet, base+"/total", nil), &summary)
	assert.Equal(t, 0, summary.TotalItems)
}

func TestCartHandler_Clear(t *testing.T) {
	env := newTestEnv(t)
	env.addProduct(t, "mug", 5)

	w := env.do(t, http.MethodPost, "/api/v1/stores/acme/cart/items", map[string]any{"product_id": "mug", "quantity": 3})
	require.Equal(t, http.StatusCreated, w.Code)

	var badge dto.BadgeResponse
	decode(t, env.do(t, http.MethodGet, "/api/v1/cart/badge", nil), &badge)
	assert.Equal(t, 3, badge.Count)

	w = env.do(t, http.MethodDelete, "/api/v1/stores/acme/cart", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	decode(t, env.do(t, http.MethodGet, "/api/v1/cart/badge", nil), &badge)
	assert.Equal(t, 0, badge.Count)
}

func TestCartHandler_Validation(t *testing.T) {
	env := newTestEnv(t)
	env.addProduct(t, "mug", 5)
	base := "/api/v1/stores/acme/cart/items"

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"missing product", map[string]any{"quantity": 1}, http.StatusBadRequest},
		{"negative quantity", map[string]any{"product_id": "mug", "quantity": -1}, http.StatusBadRequest},
		{"unknown product", map[string]any{"product_id": "teapot"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, env.do(t, http.MethodPost, base, tt.body).Code)
		})
	}

	w := env.do(t, http.MethodPut, base+"/whatever", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartHandler_CatalogOnlyStore(t *testing.T) {
	env := newTestEnv(t)
	env.addProduct(t, "mug", 5)
	env.tenant.SetCartEnabled(false)

	w := env.do(t, http.MethodPost, "/api/v1/stores/acme/cart/items", map[string]any{"product_id": "mug"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	e := decode(t, w, nil)
	assert.Equal(t, dto.ErrCodePurchaseSuppressed, e.Error.Code)
}
