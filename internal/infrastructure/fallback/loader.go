// Package fallback loads the static tenant and product data served when live data is unavailable.
package fallback

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/tenant"
)

// namespace seeds deterministic IDs for entries that do not carry one, so carts keyed by
// tenant ID survive a reload of the file.
var namespace = uuid.MustParse("8f1c7a52-4f0e-4b7e-9a43-2d1f6f0c9b11")

type fileData struct {
	Tenants []tenantEntry `mapstructure:"tenants"`
}

type tenantEntry struct {
	ID       string          `mapstructure:"id"`
	Slug     string          `mapstructure:"slug"`
	Name     string          `mapstructure:"name"`
	Plan     string          `mapstructure:"plan"`
	Status   string          `mapstructure:"status"`
	Currency string          `mapstructure:"currency"`
	OwnerID  string          `mapstructure:"owner_id"`
	Features tenant.Features `mapstructure:"features"`
	Products []productEntry  `mapstructure:"products"`
}

type productEntry struct {
	ID              string      `mapstructure:"id"`
	Slug            string      `mapstructure:"slug"`
	Name            string      `mapstructure:"name"`
	Description     string      `mapstructure:"description"`
	Price           string      `mapstructure:"price"`
	Images          []string    `mapstructure:"images"`
	Stock           *int        `mapstructure:"stock"`
	Available       *bool       `mapstructure:"available"`
	WholesalePrices []tierEntry `mapstructure:"wholesale_prices"`
}

type tierEntry struct {
	MinQuantity int    `mapstructure:"min_quantity"`
	Price       string `mapstructure:"price"`
}

// Data is the parsed fallback file
type Data struct {
	Directory *tenant.MapDirectory
	Products  *ProductRepository
}

// Empty returns fallback data with no tenants
func Empty() *Data {
	return &Data{
		Directory: tenant.NewMapDirectory(tenant.SourceFallback),
		Products:  NewProductRepository(),
	}
}

// Load reads a YAML, TOML or JSON file. An empty path yields Empty().
func Load(path string, defaultCurrency valueobject.Currency) (*Data, error) {
	if path == "" {
		return Empty(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read fallback file %s: %w", path, err)
	}

	var raw fileData
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("decode fallback file %s: %w", path, err)
	}

	return build(raw, defaultCurrency)
}

func build(raw fileData, defaultCurrency valueobject.Currency) (*Data, error) {
	tenants := make([]*tenant.Tenant, 0, len(raw.Tenants))
	products := NewProductRepository()

	for i, entry := range raw.Tenants {
		t, err := entry.toTenant(defaultCurrency)
		if err != nil {
			return nil, fmt.Errorf("tenants[%d]: %w", i, err)
		}
		tenants = append(tenants, t)

		for j, pe := range entry.Products {
			p, err := pe.toProduct(t.ID, t.Currency, j)
			if err != nil {
				return nil, fmt.Errorf("tenants[%d].products[%d]: %w", i, j, err)
			}
			products.put(*p)
		}
	}

	return &Data{
		Directory: tenant.NewMapDirectory(tenant.SourceFallback, tenants...),
		Products:  products,
	}, nil
}

func (e tenantEntry) toTenant(defaultCurrency valueobject.Currency) (*tenant.Tenant, error) {
	t, err := tenant.NewTenant(e.Slug, e.Name)
	if err != nil {
		return nil, err
	}

	t.ID, err = parseOrDerive(e.ID, namespace, "tenant:"+t.Slug)
	if err != nil {
		return nil, err
	}
	if e.Plan != "" {
		if err := t.SetPlan(tenant.Plan(strings.ToLower(e.Plan))); err != nil {
			return nil, err
		}
	}
	if e.Status != "" {
		t.Status = tenant.Status(strings.ToLower(e.Status))
	}
	t.Currency = defaultCurrency
	if e.Currency != "" {
		if t.Currency, err = valueobject.ParseCurrency(e.Currency); err != nil {
			return nil, err
		}
	}
	if e.OwnerID != "" {
		owner, err := uuid.Parse(e.OwnerID)
		if err != nil {
			return nil, fmt.Errorf("owner_id: %w", err)
		}
		t.OwnerID = &owner
	}
	t.Features = e.Features
	return t, nil
}

func (e productEntry) toProduct(tenantID uuid.UUID, cur valueobject.Currency, position int) (*catalog.Product, error) {
	price, err := valueobject.NewMoneyFromString(e.Price, cur)
	if err != nil {
		return nil, fmt.Errorf("price %q: %w", e.Price, err)
	}
	p, err := catalog.NewProduct(tenantID, e.Slug, e.Name, price.Amount())
	if err != nil {
		return nil, err
	}

	p.ID, err = parseOrDerive(e.ID, tenantID, "product:"+p.Slug)
	if err != nil {
		return nil, err
	}
	p.Description = e.Description
	p.Images = e.Images
	p.SortOrder = position
	if e.Available != nil {
		p.Available = *e.Available
	}
	if e.Stock != nil {
		if err := p.SetStock(*e.Stock); err != nil {
			return nil, err
		}
	}
	if len(e.WholesalePrices) > 0 {
		tiers := make([]catalog.WholesaleTier, 0, len(e.WholesalePrices))
		for _, te := range e.WholesalePrices {
			tp, err := valueobject.NewMoneyFromString(te.Price, cur)
			if err != nil {
				return nil, fmt.Errorf("wholesale price %q: %w", te.Price, err)
			}
			tiers = append(tiers, catalog.WholesaleTier{MinQuantity: te.MinQuantity, Price: tp.Amount()})
		}
		if err := p.SetWholesalePrices(tiers); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func parseOrDerive(id string, space uuid.UUID, name string) (uuid.UUID, error) {
	if id == "" {
		return uuid.NewSHA1(space, []byte(name)), nil
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("id %q: %w", id, err)
	}
	return parsed, nil
}
