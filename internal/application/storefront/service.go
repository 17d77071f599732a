// Package storefront builds the consumer catalog views: product cards, detail pages,
// quantity steppers and the add-to-cart confirmation.
package storefront

import (
	"context"
	"errors"

	appcart "github.com/storefront/backend/internal/application/cart"
	appcatalog "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/application/session"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/domain/tenant"
	"go.uber.org/zap"
)

// ErrNoTenant is returned when a view is requested without a resolved tenant
var ErrNoTenant = shared.NewDomainError("STOREFRONT_NO_TENANT", "No storefront tenant for this request")

// StoreView is the tenant landing view
type StoreView struct {
	ID          string              `json:"id"`
	Slug        string              `json:"slug"`
	Name        string              `json:"name"`
	Source      tenant.Source       `json:"source"`
	Currency    string              `json:"currency"`
	CartEnabled bool                `json:"cart_enabled"`
	ViewOnly    bool                `json:"view_only"`
	Purchase    storefront.Decision `json:"purchase"`
	Badge       int                 `json:"badge"`
}

// Card is one product in a listing
type Card struct {
	ID        string              `json:"id"`
	Slug      string              `json:"slug"`
	Name      string              `json:"name"`
	Price     appcart.Price       `json:"price"`
	Image     string              `json:"image,omitempty"`
	Available bool                `json:"available"`
	Stepper   int                 `json:"stepper"`
	Purchase  storefront.Decision `json:"purchase"`
}

// Tier is a wholesale price row
type Tier struct {
	MinQuantity int           `json:"min_quantity"`
	Price       appcart.Price `json:"price"`
}

// Detail is the product page
type Detail struct {
	Card
	Description     string   `json:"description,omitempty"`
	Images          []string `json:"images"`
	Stock           *int     `json:"stock,omitempty"`
	WholesalePrices []Tier   `json:"wholesale_prices"`
}

// StepperView is the quantity shown next to a product
type StepperView struct {
	ProductID string `json:"product_id"`
	Value     int    `json:"value"`
}

// AddConfirmation is shown after a stepper add succeeds
type AddConfirmation struct {
	Message      string          `json:"message"`
	ProductID    string          `json:"product_id"`
	Added        int             `json:"added"`
	LineQuantity int             `json:"line_quantity"`
	Summary      appcart.Summary `json:"summary"`
	Badge        int             `json:"badge"`
	Stepper      int             `json:"stepper"`
}

// Service assembles storefront views for a session
type Service struct {
	sources *appcatalog.Sources
	carts   *appcart.Service
	logger  *zap.Logger
}

// NewService creates a storefront service
func NewService(sources *appcatalog.Sources, carts *appcart.Service, logger *zap.Logger) *Service {
	return &Service{sources: sources, carts: carts, logger: logger}
}

// Store returns the tenant view for the viewer
func (s *Service) Store(sess *session.Session, ref *tenant.Ref, viewer storefront.Viewer) (*StoreView, error) {
	if ref == nil {
		return nil, ErrNoTenant
	}
	view := &StoreView{
		ID:          ref.TenantID(),
		Slug:        ref.Slug,
		Name:        ref.Name,
		Source:      ref.Source,
		CartEnabled: tenant.CartEnabled(ref.Tenant),
		ViewOnly:    viewer.ViewOnly,
		Purchase:    storefront.DecideTenant(ref.Tenant, viewer),
		Badge:       s.carts.Badge(sess),
	}
	if ref.Tenant != nil {
		view.Currency = string(ref.Tenant.Currency)
	}
	return view, nil
}

// ListProducts returns a page of product cards. Catalog failures yield an empty page.
func (s *Service) ListProducts(ctx context.Context, sess *session.Session, ref *tenant.Ref, viewer storefront.Viewer, filter shared.Filter) (shared.Paginated[Card], error) {
	if ref == nil {
		return shared.Paginated[Card]{}, ErrNoTenant
	}
	page := s.sources.List(ctx, ref, filter)
	cards := make([]Card, 0, len(page.Items))
	for i := range page.Items {
		cards = append(cards, s.card(ctx, sess, ref, viewer, &page.Items[i]))
	}
	return shared.NewPaginated(cards, page.Total, page.Page, page.PageSize), nil
}

// ProductDetail returns the product page
func (s *Service) ProductDetail(ctx context.Context, sess *session.Session, ref *tenant.Ref, viewer storefront.Viewer, productRef string) (*Detail, error) {
	product, err := s.find(ctx, ref, productRef)
	if err != nil {
		return nil, err
	}
	detail := &Detail{
		Card:            s.card(ctx, sess, ref, viewer, product),
		Description:     product.Description,
		Images:          s.sources.Images(ctx, product.Images),
		Stock:           product.Stock,
		WholesalePrices: make([]Tier, 0, len(product.WholesalePrices)),
	}
	for _, tier := range product.WholesalePrices {
		detail.WholesalePrices = append(detail.WholesalePrices, Tier{
			MinQuantity: tier.MinQuantity,
			Price:       s.carts.Price(tier.Price, ref),
		})
	}
	return detail, nil
}

// Increment raises the product's stepper by one
func (s *Service) Increment(ctx context.Context, sess *session.Session, ref *tenant.Ref, productRef string) (*StepperView, error) {
	return s.step(ctx, sess, ref, productRef, sess.Steppers.Increment)
}

// Decrement lowers the product's stepper by one, stopping at 1
func (s *Service) Decrement(ctx context.Context, sess *session.Session, ref *tenant.Ref, productRef string) (*StepperView, error) {
	return s.step(ctx, sess, ref, productRef, sess.Steppers.Decrement)
}

// SetStepper sets the product's stepper, clamped to at least 1
func (s *Service) SetStepper(ctx context.Context, sess *session.Session, ref *tenant.Ref, productRef string, value int) (*StepperView, error) {
	return s.step(ctx, sess, ref, productRef, func(key string) int {
		return sess.Steppers.Set(key, value)
	})
}

// AddFromStepper adds the stepper quantity to the cart and resets the stepper
func (s *Service) AddFromStepper(ctx context.Context, sess *session.Session, ref *tenant.Ref, viewer storefront.Viewer, productRef string) (*AddConfirmation, error) {
	product, err := s.find(ctx, ref, productRef)
	if err != nil {
		return nil, err
	}
	key := stepperKey(ref, product)
	quantity := sess.Steppers.Value(key)

	res, err := s.carts.AddItem(ctx, sess, ref, viewer, product.ID.String(), quantity)
	if err != nil {
		return nil, err
	}
	sess.Steppers.Reset(key)

	return &AddConfirmation{
		Message:      confirmationMessage(s.carts.Locale(), quantity, product.Name),
		ProductID:    product.ID.String(),
		Added:        quantity,
		LineQuantity: res.Line.Quantity,
		Summary:      res.Summary,
		Badge:        res.Badge,
		Stepper:      sess.Steppers.Value(key),
	}, nil
}

func (s *Service) step(ctx context.Context, sess *session.Session, ref *tenant.Ref, productRef string, apply func(key string) int) (*StepperView, error) {
	product, err := s.find(ctx, ref, productRef)
	if err != nil {
		return nil, err
	}
	return &StepperView{
		ProductID: product.ID.String(),
		Value:     apply(stepperKey(ref, product)),
	}, nil
}

func (s *Service) find(ctx context.Context, ref *tenant.Ref, productRef string) (*catalog.Product, error) {
	if ref == nil {
		return nil, ErrNoTenant
	}
	product, err := s.sources.Find(ctx, ref, productRef)
	if err != nil {
		if !errors.Is(err, catalog.ErrProductNotFound) {
			s.logger.Error("Failed to load product",
				zap.String("tenant", ref.Slug),
				zap.String("product", productRef),
				zap.Error(err))
		}
		return nil, err
	}
	return product, nil
}

func (s *Service) card(ctx context.Context, sess *session.Session, ref *tenant.Ref, viewer storefront.Viewer, p *catalog.Product) Card {
	purchasable := p.IsPurchasable()
	return Card{
		ID:        p.ID.String(),
		Slug:      p.Slug,
		Name:      p.Name,
		Price:     s.carts.Price(p.Price, ref),
		Image:     s.sources.Image(ctx, p.PrimaryImage()),
		Available: purchasable,
		Stepper:   sess.Steppers.Value(stepperKey(ref, p)),
		Purchase:  storefront.Decide(ref.Tenant, viewer, purchasable),
	}
}

func stepperKey(ref *tenant.Ref, p *catalog.Product) string {
	return ref.TenantID() + "/" + p.ID.String()
}
