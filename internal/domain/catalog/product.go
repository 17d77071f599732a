// Package catalog holds the product records tenants publish.
package catalog

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
)

// Product errors
var (
	ErrProductNotFound  = shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	ErrInvalidSlug      = shared.NewDomainError("INVALID_PRODUCT_SLUG", "Product slug must be lowercase letters, digits or hyphens")
	ErrInvalidName      = shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name must be 1-200 characters")
	ErrNegativePrice    = shared.NewDomainError("NEGATIVE_PRICE", "Price cannot be negative")
	ErrInvalidTier      = shared.NewDomainError("INVALID_WHOLESALE_TIER", "Wholesale tiers need a minimum quantity above 1 and a non-negative price")
	ErrNegativeStock    = shared.NewDomainError("NEGATIVE_STOCK", "Stock cannot be negative")
	ErrMissingTenantRef = shared.NewDomainError("MISSING_TENANT", "Product must belong to a tenant")
)

var productSlugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,127}$`)

// WholesaleTier is a unit price that applies from MinQuantity upward
type WholesaleTier struct {
	MinQuantity int             `json:"minQuantity" mapstructure:"min_quantity"`
	Price       decimal.Decimal `json:"price" mapstructure:"price"`
}

// Product is one item in a tenant catalog
type Product struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	Slug            string
	Name            string
	Description     string
	Price           decimal.Decimal
	Images          []string
	Stock           *int // nil when the tenant does not track stock
	Available       bool
	WholesalePrices []WholesaleTier
	SortOrder       int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewProduct creates an available product with untracked stock
func NewProduct(tenantID uuid.UUID, slug, name string, price decimal.Decimal) (*Product, error) {
	if tenantID == uuid.Nil {
		return nil, ErrMissingTenantRef
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !productSlugPattern.MatchString(slug) {
		return nil, ErrInvalidSlug
	}
	if strings.TrimSpace(name) == "" || len(name) > 200 {
		return nil, ErrInvalidName
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}

	now := time.Now()
	return &Product{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Slug:      slug,
		Name:      name,
		Price:     price,
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetStock starts tracking stock
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return ErrNegativeStock
	}
	p.Stock = &stock
	p.UpdatedAt = time.Now()
	return nil
}

// SetWholesalePrices replaces the tier table, ordered by MinQuantity
func (p *Product) SetWholesalePrices(tiers []WholesaleTier) error {
	for _, tier := range tiers {
		if tier.MinQuantity < 2 || tier.Price.IsNegative() {
			return ErrInvalidTier
		}
	}
	sorted := make([]WholesaleTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinQuantity < sorted[j].MinQuantity })
	p.WholesalePrices = sorted
	p.UpdatedAt = time.Now()
	return nil
}

// IsPurchasable reports whether the product can go into a cart
func (p *Product) IsPurchasable() bool {
	if !p.Available {
		return false
	}
	return p.Stock == nil || *p.Stock > 0
}

// PrimaryImage returns the first image key, or empty
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// CartProduct converts the product into the snapshot the cart copies on add
func (p *Product) CartProduct(imageURL string) cart.Product {
	return cart.Product{
		ID:       p.ID.String(),
		TenantID: p.TenantID.String(),
		Name:     p.Name,
		Slug:     p.Slug,
		Image:    imageURL,
		Price:    p.Price,
	}
}
