// Package cart holds the per-tenant shopping cart store.
package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultQuantity is the quantity used when a caller adds a product without choosing one
const DefaultQuantity = 1

// Product is the product record handed to Add. Only these fields are copied into the cart.
type Product struct {
	ID       string
	TenantID string
	Name     string
	Slug     string
	Image    string
	Price    decimal.Decimal
}

// LineItem is one product line within one tenant's cart.
// UnitPrice and the display metadata are a snapshot taken when the product was first added.
type LineItem struct {
	ProductID string          `json:"product_id"`
	TenantID  string          `json:"tenant_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Image     string          `json:"image,omitempty"`
	AddedAt   time.Time       `json:"added_at"`
}

// Subtotal returns UnitPrice * Quantity
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Totals are the derived figures of one bucket
type Totals struct {
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func newLineItem(p Product, quantity int, now time.Time) LineItem {
	return LineItem{
		ProductID: p.ID,
		TenantID:  p.TenantID,
		UnitPrice: p.Price,
		Quantity:  quantity,
		Name:      p.Name,
		Slug:      p.Slug,
		Image:     p.Image,
		AddedAt:   now,
	}
}
