// Package cart exposes the session cart of one tenant with prices rendered in the tenant currency.
package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/application/session"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/domain/tenant"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// ErrNoTenant is returned when a cart operation arrives without a resolved tenant
var ErrNoTenant = shared.NewDomainError("CART_NO_TENANT", "No storefront tenant for this cart")

// AddRecorder counts cart adds
type AddRecorder interface {
	RecordCartAdd(ctx context.Context, tenant, source string, quantity int)
	RecordSuppressedAdd(ctx context.Context, tenant, reason string)
}

// Price is an amount together with its localized rendering
type Price struct {
	Amount   decimal.Decimal      `json:"amount"`
	Currency valueobject.Currency `json:"currency"`
	Display  string               `json:"display"`
}

// Line is a cart line item with rendered prices
type Line struct {
	cart.LineItem
	UnitPriceDisplay string `json:"unit_price_display"`
	LineTotal        Price  `json:"subtotal"`
}

// Summary is the bucket totals with the rendered price
type Summary struct {
	TotalItems int   `json:"total_items"`
	TotalPrice Price `json:"total_price"`
}

// View is the full cart of one tenant
type View struct {
	TenantID   string  `json:"tenant_id"`
	TenantSlug string  `json:"tenant_slug"`
	Items      []Line  `json:"items"`
	Summary    Summary `json:"summary"`
}

// AddResult is the outcome of a successful add
type AddResult struct {
	Line    Line    `json:"line"`
	Summary Summary `json:"summary"`
	Badge   int     `json:"badge"`
}

// Service runs cart operations against a session's store
type Service struct {
	sources *appcatalog.Sources
	metrics AddRecorder
	locale  language.Tag
	logger  *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithMetrics records adds on m
func WithMetrics(m AddRecorder) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLocale sets the locale prices are rendered in
func WithLocale(tag language.Tag) Option {
	return func(s *Service) { s.locale = tag }
}

// NewService creates a cart service
func NewService(sources *appcatalog.Sources, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		sources: sources,
		locale:  language.English,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Locale returns the rendering locale
func (s *Service) Locale() language.Tag {
	return s.locale
}

// Cart returns the tenant's bucket. A missing tenant reads as an empty cart.
func (s *Service) Cart(sess *session.Session, ref *tenant.Ref) View {
	view := View{Items: []Line{}}
	total := valueobject.Zero(currencyOf(ref))
	count := 0
	if ref != nil {
		view.TenantID = ref.TenantID()
		view.TenantSlug = ref.Slug
		for _, item := range sess.Cart.Items(ref.TenantID()) {
			line, subtotal := s.line(item, ref)
			view.Items = append(view.Items, line)
			// every line is priced in the tenant currency
			total, _ = total.Add(subtotal)
			count += item.Quantity
		}
	}
	view.Summary = Summary{TotalItems: count, TotalPrice: s.render(total)}
	return view
}

// Total returns the bucket totals
func (s *Service) Total(sess *session.Session, ref *tenant.Ref) Summary {
	if ref == nil {
		return s.summary(cart.Totals{TotalPrice: decimal.Zero}, nil)
	}
	return s.summary(sess.Cart.Total(ref.TenantID()), ref)
}

// AddItem adds quantity units of a product after checking the purchase affordance.
// A zero quantity means cart.DefaultQuantity.
func (s *Service) AddItem(ctx context.Context, sess *session.Session, ref *tenant.Ref, viewer storefront.Viewer, productRef string, quantity int) (*AddResult, error) {
	if ref == nil {
		return nil, ErrNoTenant
	}
	if quantity == 0 {
		quantity = cart.DefaultQuantity
	}

	product, err := s.sources.Find(ctx, ref, productRef)
	if err != nil {
		if !errors.Is(err, catalog.ErrProductNotFound) {
			s.logger.Error("Failed to load product for cart",
				zap.String("tenant", ref.Slug),
				zap.String("product", productRef),
				zap.Error(err))
		}
		return nil, err
	}

	decision := storefront.Decide(ref.Tenant, viewer, product.IsPurchasable())
	if !decision.CanAdd() {
		if s.metrics != nil {
			s.metrics.RecordSuppressedAdd(ctx, ref.Slug, string(decision.Reason))
		}
		return nil, storefront.ErrPurchaseSuppressed.WithCause(errors.New(string(decision.Reason)))
	}

	if err := sess.Cart.Add(product.CartProduct(s.sources.Image(ctx, product.PrimaryImage())), quantity); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordCartAdd(ctx, ref.Slug, string(ref.Source), quantity)
	}

	s.logger.Debug("Added to cart",
		zap.String("session_id", sess.ID),
		zap.String("tenant", ref.Slug),
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", quantity))

	result := &AddResult{
		Summary: s.summary(sess.Cart.Total(ref.TenantID()), ref),
		Badge:   s.Badge(sess),
	}
	if line, ok := s.findLine(sess, ref, product.ID.String()); ok {
		result.Line = line
	}
	return result, nil
}

// UpdateItem sets an absolute quantity; quantity <= 0 removes the line
func (s *Service) UpdateItem(sess *session.Session, ref *tenant.Ref, productID string, quantity int) (View, error) {
	if ref == nil {
		return View{}, ErrNoTenant
	}
	sess.Cart.UpdateQuantity(ref.TenantID(), productID, quantity)
	return s.Cart(sess, ref), nil
}

// RemoveItem drops a line; removing an absent line is a no-op
func (s *Service) RemoveItem(sess *session.Session, ref *tenant.Ref, productID string) (View, error) {
	if ref == nil {
		return View{}, ErrNoTenant
	}
	sess.Cart.Remove(ref.TenantID(), productID)
	return s.Cart(sess, ref), nil
}

// Clear empties the tenant's bucket
func (s *Service) Clear(sess *session.Session, ref *tenant.Ref) error {
	if ref == nil {
		return ErrNoTenant
	}
	sess.Cart.Clear(ref.TenantID())
	return nil
}

// Badge is the item count across every tenant bucket of the session
func (s *Service) Badge(sess *session.Session) int {
	if sess == nil {
		return 0
	}
	return sess.Cart.TotalItems()
}

func (s *Service) findLine(sess *session.Session, ref *tenant.Ref, productID string) (Line, bool) {
	for _, item := range sess.Cart.Items(ref.TenantID()) {
		if item.ProductID == productID {
			line, _ := s.line(item, ref)
			return line, true
		}
	}
	return Line{}, false
}

// line renders an item and returns its subtotal
func (s *Service) line(item cart.LineItem, ref *tenant.Ref) (Line, valueobject.Money) {
	unit := valueobject.MustMoney(item.UnitPrice, currencyOf(ref))
	subtotal := unit.MultiplyByInt(int64(item.Quantity))
	return Line{
		LineItem:         item,
		UnitPriceDisplay: s.render(unit).Display,
		LineTotal:        s.render(subtotal),
	}, subtotal
}

func (s *Service) summary(totals cart.Totals, ref *tenant.Ref) Summary {
	return Summary{
		TotalItems: totals.TotalItems,
		TotalPrice: s.Price(totals.TotalPrice, ref),
	}
}

// Price renders amount in the tenant currency
func (s *Service) Price(amount decimal.Decimal, ref *tenant.Ref) Price {
	return s.render(valueobject.MustMoney(amount, currencyOf(ref)))
}

func (s *Service) render(m valueobject.Money) Price {
	return Price{
		Amount:   m.Amount().Round(m.Scale()),
		Currency: m.Currency(),
		Display:  m.Format(s.locale),
	}
}

func currencyOf(ref *tenant.Ref) valueobject.Currency {
	if ref != nil && ref.Tenant != nil && ref.Tenant.Currency != "" {
		return ref.Tenant.Currency
	}
	return valueobject.DefaultCurrency
}
