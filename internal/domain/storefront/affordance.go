package storefront

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/tenant"
)

// Affordance is the purchase control a product view renders
type Affordance string

const (
	AffordanceAddToCart Affordance = "add_to_cart"
	AffordanceViewOnly  Affordance = "view_only"
	AffordanceSoldOut   Affordance = "sold_out"
)

// Reason explains a suppressed add-to-cart
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonCatalogOnly  Reason = "catalog_only"
	ReasonViewOnlyMode Reason = "view_only_mode"
	ReasonOwner        Reason = "owner"
	ReasonOutOfStock   Reason = "out_of_stock"
)

// ErrPurchaseSuppressed is returned when a view tries to add while the affordance is not add-to-cart
var ErrPurchaseSuppressed = shared.NewDomainError("PURCHASE_SUPPRESSED", "Adding to cart is not available for this view")

// Viewer is who is looking at the storefront
type Viewer struct {
	// UserID is set for signed-in viewers
	UserID uuid.UUID
	// ViewOnly is the device-level override
	ViewOnly bool
}

// Decision is the outcome of Decide
type Decision struct {
	Affordance Affordance `json:"affordance"`
	Reason     Reason     `json:"reason,omitempty"`
}

// CanAdd reports whether the add-to-cart action is offered
func (d Decision) CanAdd() bool {
	return d.Affordance == AffordanceAddToCart
}

// Decide picks the purchase affordance for a viewer looking at a tenant's product.
// Tenant-level suppression (catalog-only, device override, owner) takes precedence over stock.
func Decide(t *tenant.Tenant, viewer Viewer, purchasable bool) Decision {
	switch {
	case !tenant.CartEnabled(t):
		return Decision{Affordance: AffordanceViewOnly, Reason: ReasonCatalogOnly}
	case viewer.ViewOnly:
		return Decision{Affordance: AffordanceViewOnly, Reason: ReasonViewOnlyMode}
	case t.IsOwnedBy(viewer.UserID):
		return Decision{Affordance: AffordanceViewOnly, Reason: ReasonOwner}
	case !purchasable:
		return Decision{Affordance: AffordanceSoldOut, Reason: ReasonOutOfStock}
	default:
		return Decision{Affordance: AffordanceAddToCart}
	}
}

// DecideTenant is Decide for tenant-level views that show no particular product
func DecideTenant(t *tenant.Tenant, viewer Viewer) Decision {
	return Decide(t, viewer, true)
}
