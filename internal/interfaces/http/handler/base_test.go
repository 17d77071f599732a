package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	appcart "github.com/storefront/backend/internal/application/cart"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/application/session"
	appstorefront "github.com/storefront/backend/internal/application/storefront"
	apptenant "github.com/storefront/backend/internal/application/tenant"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/tenant"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/fallback"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	engine   *gin.Engine
	tenant   *tenant.Tenant
	products *fallback.ProductRepository
	prefs    *cache.InMemoryViewOnlyStore
	bus      *event.InMemoryEventBus
	registry *session.Registry
	tenants  *apptenant.Service
	carts    *appcart.Service
	deviceID string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	acme, err := tenant.NewTenant("acme", "Acme")
	require.NoError(t, err)

	products := fallback.NewProductRepository()
	prefs := cache.NewInMemoryViewOnlyStore()
	bus := event.NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	registry := session.NewRegistry(time.Hour, zap.NewNop())

	tenants := apptenant.NewService(nil, tenant.NewMapDirectory(tenant.SourceFallback, acme), prefs, bus, zap.NewNop())
	sources := appcatalog.NewSources(nil, products, nil, zap.NewNop())
	carts := appcart.NewService(sources, zap.NewNop())
	storefront := appstorefront.NewService(sources, carts, zap.NewNop())

	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Session(registry, middleware.SessionConfig{}))

	sh := NewStorefrontHandler(tenants, storefront)
	ch := NewCartHandler(tenants, carts)
	vh := NewViewOnlyHandler(tenants)

	api := engine.Group("/api/v1")
	api.GET("/resolve", sh.Resolve)
	api.GET("/cart/badge", ch.Badge)
	api.GET("/view-only", vh.Get)
	api.PUT("/view-only", vh.Set)

	store := api.Group("/stores/:slug", middleware.Storefront(tenants))
	store.GET("", sh.Store)
	store.GET("/products", sh.ListProducts)
	store.GET("/products/:product", sh.ProductDetail)
	store.POST("/products/:product/stepper/increment", sh.IncrementStepper)
	store.POST("/products/:product/stepper/decrement", sh.DecrementStepper)
	store.PUT("/products/:product/stepper", sh.SetStepper)
	store.POST("/products/:product/add-to-cart", sh.AddToCart)
	store.GET("/cart", ch.Get)
	store.GET("/cart/total", ch.Total)
	store.DELETE("/cart", ch.Clear)
	store.POST("/cart/items", ch.AddItem)
	store.PUT("/cart/items/:productId", ch.UpdateItem)
	store.DELETE("/cart/items/:productId", ch.RemoveItem)

	return &testEnv{
		engine:   engine,
		tenant:   acme,
		products: products,
		prefs:    prefs,
		bus:      bus,
		registry: registry,
		tenants:  tenants,
		carts:    carts,
		deviceID: uuid.NewString(),
	}
}

func (e *testEnv) addProduct(t *testing.T, slug string, price int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(e.tenant.ID, slug, slug, decimal.NewFromInt(price))
	require.NoError(t, err)
	require.NoError(t, e.products.Save(context.Background(), p))
	return p
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.DefaultSessionCookie, Value: e.deviceID})
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func TestBaseHandler_HandleDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"product not found", catalog.ErrProductNotFound, http.StatusNotFound, dto.ErrCodeProductNotFound},
		{"wrapped domain error", shared.ErrInvalidInput.WithCause(errors.New("bad")), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			h := &BaseHandler{}
			h.HandleDomainError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			env := decode(t, w, nil)
			assert.False(t, env.Success)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestBaseHandler_SuccessWithMeta(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	h := &BaseHandler{}
	h.SuccessWithMeta(c, []string{"a", "b"}, 5, 1, 2)

	env := decode(t, w, nil)
	assert.True(t, env.Success)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(5), env.Meta.Total)
	assert.Equal(t, 3, env.Meta.TotalPages)
}
