package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct(uuid.New(), "Espresso-Beans", "Espresso Beans", decimal.RequireFromString("12.50"))
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	t.Run("valid product", func(t *testing.T) {
		p := newTestProduct(t)
		assert.Equal(t, "espresso-beans", p.Slug)
		assert.True(t, p.Available)
		assert.Nil(t, p.Stock)
		assert.True(t, p.IsPurchasable())
	})

	tests := []struct {
		name     string
		tenantID uuid.UUID
		slug     string
		pname    string
		price    decimal.Decimal
		wantErr  error
	}{
		{"missing tenant", uuid.Nil, "beans", "Beans", decimal.NewFromInt(1), ErrMissingTenantRef},
		{"bad slug", uuid.New(), "beans/1", "Beans", decimal.NewFromInt(1), ErrInvalidSlug},
		{"empty name", uuid.New(), "beans", "", decimal.NewFromInt(1), ErrInvalidName},
		{"negative price", uuid.New(), "beans", "Beans", decimal.NewFromInt(-1), ErrNegativePrice},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProduct(tt.tenantID, tt.slug, tt.pname, tt.price)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProduct_IsPurchasable(t *testing.T) {
	p := newTestProduct(t)

	require.NoError(t, p.SetStock(0))
	assert.False(t, p.IsPurchasable())

	require.NoError(t, p.SetStock(3))
	assert.True(t, p.IsPurchasable())

	p.Available = false
	assert.False(t, p.IsPurchasable())

	assert.ErrorIs(t, p.SetStock(-1), ErrNegativeStock)
}

func TestProduct_SetWholesalePrices(t *testing.T) {
	p := newTestProduct(t)
	require.NoError(t, p.SetWholesalePrices([]WholesaleTier{
		{MinQuantity: 50, Price: decimal.RequireFromString("9.00")},
		{MinQuantity: 10, Price: decimal.RequireFromString("11.00")},
	}))

	require.Len(t, p.WholesalePrices, 2)
	assert.Equal(t, 10, p.WholesalePrices[0].MinQuantity)
	assert.Equal(t, 50, p.WholesalePrices[1].MinQuantity)
	assert.True(t, p.CartProduct("").Price.Equal(decimal.RequireFromString("12.50")), "carts snapshot the list price")

	err := p.SetWholesalePrices([]WholesaleTier{{MinQuantity: 1, Price: decimal.NewFromInt(1)}})
	assert.ErrorIs(t, err, ErrInvalidTier)
}

func TestProduct_CartProduct(t *testing.T) {
	p := newTestProduct(t)
	p.Images = []string{"products/beans.jpg", "products/beans-2.jpg"}

	assert.Equal(t, "products/beans.jpg", p.PrimaryImage())

	cp := p.CartProduct("https://cdn.example.com/products/beans.jpg")
	assert.Equal(t, p.ID.String(), cp.ID)
	assert.Equal(t, p.TenantID.String(), cp.TenantID)
	assert.Equal(t, "Espresso Beans", cp.Name)
	assert.Equal(t, "espresso-beans", cp.Slug)
	assert.Equal(t, "https://cdn.example.com/products/beans.jpg", cp.Image)
	assert.True(t, cp.Price.Equal(p.Price))
}
