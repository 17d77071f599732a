// Package tenant models the companies that publish catalogs and how a storefront path resolves to one.
package tenant

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Status represents the status of a tenant
type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
	StatusTrial     Status = "trial"
)

// Plan represents the subscription plan of a tenant
type Plan string

const (
	PlanFree       Plan = "free"
	PlanBasic      Plan = "basic"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// Features is the tenant's storefront feature configuration.
// Nil pointers mean "unset" and fall back to defaults.
type Features struct {
	CartEnabled *bool `json:"cartEnabled,omitempty" mapstructure:"cart_enabled"`
}

// Tenant errors
var (
	ErrTenantNotFound = shared.NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
	ErrInvalidSlug    = shared.NewDomainError("INVALID_SLUG", "Tenant slug must be 2-63 lowercase letters, digits or hyphens")
	ErrReservedSlug   = shared.NewDomainError("RESERVED_SLUG", "Tenant slug collides with a reserved path")
	ErrInvalidName    = shared.NewDomainError("INVALID_NAME", "Tenant name must be 1-200 characters")
	ErrInvalidPlan    = shared.NewDomainError("INVALID_PLAN", "Invalid tenant plan")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}$`)

// reservedSlugs are first path segments that belong to the application itself
var reservedSlugs = map[string]struct{}{
	"api":       {},
	"health":    {},
	"cart":      {},
	"static":    {},
	"assets":    {},
	"login":     {},
	"logout":    {},
	"account":   {},
	"view-only": {},
}

// Tenant is a company publishing its own catalog
type Tenant struct {
	ID        uuid.UUID
	Slug      string
	Name      string
	Status    Status
	Plan      Plan
	OwnerID   *uuid.UUID
	Currency  valueobject.Currency
	Features  Features
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTenant creates an active tenant on the free plan
func NewTenant(slug, name string) (*Tenant, error) {
	slug = NormalizeSlug(slug)
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Tenant{
		ID:        uuid.New(),
		Slug:      slug,
		Name:      name,
		Status:    StatusActive,
		Plan:      PlanFree,
		Currency:  valueobject.DefaultCurrency,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetPlan changes the subscription plan
func (t *Tenant) SetPlan(plan Plan) error {
	switch plan {
	case PlanFree, PlanBasic, PlanPro, PlanEnterprise:
	default:
		return ErrInvalidPlan
	}
	t.Plan = plan
	t.UpdatedAt = time.Now()
	return nil
}

// SetCartEnabled records an explicit cart feature flag
func (t *Tenant) SetCartEnabled(enabled bool) {
	t.Features.CartEnabled = &enabled
	t.UpdatedAt = time.Now()
}

// IsVisible reports whether the storefront should serve this tenant
func (t *Tenant) IsVisible() bool {
	return t.Status == StatusActive || t.Status == StatusTrial
}

// IsOwnedBy reports whether userID owns the tenant
func (t *Tenant) IsOwnedBy(userID uuid.UUID) bool {
	return t.OwnerID != nil && userID != uuid.Nil && *t.OwnerID == userID
}

// CartEnabled reports whether the tenant sells through the cart.
// An unset flag means enabled; a nil tenant has no cart.
func CartEnabled(t *Tenant) bool {
	if t == nil {
		return false
	}
	if t.Features.CartEnabled == nil {
		return true
	}
	return *t.Features.CartEnabled
}

// NormalizeSlug lower-cases and trims a slug
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

// ValidateSlug checks format and reserved words
func ValidateSlug(slug string) error {
	if !slugPattern.MatchString(slug) {
		return ErrInvalidSlug
	}
	if IsReservedSlug(slug) {
		return ErrReservedSlug
	}
	return nil
}

// IsReservedSlug reports whether slug is an application path segment
func IsReservedSlug(slug string) bool {
	_, ok := reservedSlugs[slug]
	return ok
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" || len(name) > 200 {
		return ErrInvalidName
	}
	return nil
}
