package dto

import (
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
)

// ListProductsRequest is the catalog listing query
type ListProductsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name price sort_order created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search" binding:"omitempty,max=100"`
}

// ToFilter converts the query into a repository filter
func (r ListProductsRequest) ToFilter() shared.Filter {
	f := shared.DefaultFilter()
	if r.Page > 0 {
		f.Page = r.Page
	}
	if r.PageSize > 0 {
		f.PageSize = r.PageSize
	}
	if r.OrderBy != "" {
		f.OrderBy = r.OrderBy
	}
	if r.OrderDir != "" {
		f.OrderDir = r.OrderDir
	}
	f.Search = r.Search
	return f.Normalize()
}

// ResolveRequest asks which tenant a storefront path belongs to
type ResolveRequest struct {
	Path string `form:"path" binding:"required,max=2048"`
}

// AddToCartRequest adds a product to the tenant cart. A missing quantity means 1.
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required,max=128"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=9999"`
}

// UpdateQuantityRequest sets a line quantity; quantity <= 0 removes the line
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required,max=9999"`
}

// SetStepperRequest sets a product stepper; values below 1 clamp to 1
type SetStepperRequest struct {
	Value *int `json:"value" binding:"required,max=9999"`
}

// SetViewOnlyRequest toggles the device view-only override
type SetViewOnlyRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// ViewOnlyResponse is the device override state
type ViewOnlyResponse struct {
	DeviceID string `json:"device_id"`
	Enabled  bool   `json:"enabled"`
}

// BadgeResponse is the navigation cart badge
type BadgeResponse struct {
	Count int `json:"count"`
}

// ResolveResponse is the tenant a path resolved to and whether this viewer may buy there
type ResolveResponse struct {
	ID          string              `json:"id"`
	Slug        string              `json:"slug"`
	Name        string              `json:"name"`
	Source      string              `json:"source"`
	CartEnabled bool                `json:"cart_enabled"`
	Purchase    storefront.Decision `json:"purchase"`
}
