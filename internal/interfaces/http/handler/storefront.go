package handler

import (
	"github.com/gin-gonic/gin"
	appstorefront "github.com/storefront/backend/internal/application/storefront"
	apptenant "github.com/storefront/backend/internal/application/tenant"
	"github.com/storefront/backend/internal/domain/tenant"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// ProductParam names the product path parameter; it accepts an ID or a slug
const ProductParam = "product"

// StorefrontHandler serves tenant resolution, the catalog and the product steppers
type StorefrontHandler struct {
	BaseHandler
	tenants    *apptenant.Service
	storefront *appstorefront.Service
}

// NewStorefrontHandler creates a storefront handler
func NewStorefrontHandler(tenants *apptenant.Service, storefront *appstorefront.Service) *StorefrontHandler {
	return &StorefrontHandler{tenants: tenants, storefront: storefront}
}

// Resolve godoc
// @Summary      Resolve a storefront path to its tenant
// @Tags         storefront
// @Produce      json
// @Param        path query string true "Storefront path, e.g. /acme/products"
// @Success      200 {object} dto.Response{data=dto.ResolveResponse}
// @Failure      404 {object} dto.Response
// @Router       /resolve [get]
func (h *StorefrontHandler) Resolve(c *gin.Context) {
	var req dto.ResolveRequest
	if !h.bindQuery(c, &req) {
		return
	}
	ref := h.tenants.Resolve(c.Request.Context(), req.Path)
	if ref == nil {
		h.NotFound(c, dto.ErrCodeTenantNotFound, "No store serves this path")
		return
	}
	h.Success(c, dto.ResolveResponse{
		ID:          ref.TenantID(),
		Slug:        ref.Slug,
		Name:        ref.Name,
		Source:      string(ref.Source),
		CartEnabled: tenant.CartEnabled(ref.Tenant),
		Purchase:    h.tenants.Purchase(ref, viewer(c, h.tenants)),
	})
}

// Store godoc
// @Summary      Get the store landing view
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Store slug"
// @Success      200 {object} dto.Response{data=appstorefront.StoreView}
// @Failure      404 {object} dto.Response
// @Router       /stores/{slug} [get]
func (h *StorefrontHandler) Store(c *gin.Context) {
	sess, ref, ok := h.scope(c)
	if !ok {
		return
	}
	view, err := h.storefront.Store(sess, ref, viewer(c, h.tenants))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, view)
}

// ListProducts godoc
// @Summary      List the store's products
// @Tags         storefront
// @Produce      json
// @Param        slug      path  string true  "Store slug"
// @Param        search    query string false "Search term"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]appstorefront.Card}
// @Router       /stores/{slug}/products [get]
func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	var req dto.ListProductsRequest
	if !h.bindQuery(c, &req) {
		return
	}
	sess, ref, ok := h.scope(c)
	if !ok {
		return
	}
	page, err := h.storefront.ListProducts(c.Request.Context(), sess, ref, viewer(c, h.tenants), req.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ProductDetail godoc
// @Summary      Get a product page
// @Tags         storefront
// @Produce      json
// @Param        slug    path string true "Store slug"
// @Param        product path string true "Product ID or slug"
// @Success      200 {object} dto.Response{data=appstorefront.Detail}
// @Failure      404 {object} dto.Response
// @Router       /stores/{slug}/products/{product} [get]
func (h *StorefrontHandler) ProductDetail(c *gin.Context) {
	sess, ref, ok := h.scope(c)
	if !ok {
		return
	}
	detail, err := h.storefront.ProductDetail(c.Request.Context(), sess, ref, viewer(c, h.tenants), c.Param(ProductParam))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, detail)
}

// IncrementStepper godoc
// @Summary      Raise the product stepper by one
// @Tags         storefront
// @Produce      json
// @Success      200 {object} dto.Response{data=appstorefront.StepperView}
// @Router       /stores/{slug}/products/{product}/stepper/increment [post]
func (h *StorefrontHandler) IncrementStepper(c *gin.Context) {
	sess, ref, ok := h.scope(c)
	if !ok {
		return
	}
	view, err := h.storefront.Increment(c.Request.Context(), sess, ref, c.Param(ProductParam))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, view)
}

// DecrementStepper godoc
// @Summary      Lower the product stepper by one, never below 1
// @Tags         storefront
// @Produce      json
// @Success      200 {object} dto.Response{data=appstorefront.StepperView}
// @Router       /stores/{slug}/products/{product}/stepper/decrement [post]
func (h *StorefrontHandler) DecrementStepper(c *gin.Context) {
	sess, ref, ok := h.scope(c)
	if !ok {
		return
	}
	view, err := h.storefront.Decrement(c.Request.Context(), sess, ref, c.Param(ProductParam))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, view)
}

// SetStepper godoc
// @Summary      Set the product stepper
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        request body dto.SetStepperRequest true "Stepper value"
// @Success      200 {object} dto.Response{data=appstorefront.StepperView}
// @Router       /stores/{slug}/products/{product}/stepper [put]
func (h *StorefrontHandler) SetStepper(c *gin.Context) {
	var req dto.SetStepperRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sess, ref, ok := h.scope(c)
	if !ok {
		return
	}
	view, err := h.storefront.SetStepper(c.Request.Context(), sess, ref, c.Param(ProductParam), *req.Value)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, view)
}

// AddToCart godoc
// @Summary      Add the stepper quantity to the cart
// @Description  Adds the current stepper value, resets the stepper and returns a confirmation
// @Tags         storefront
// @Produce      json
// @Success      200 {object} dto.Response{data=appstorefront.AddConfirmation}
// @Failure      422 {object} dto.Response
// @Router       /stores/{slug}/products/{product}/add-to-cart [post]
func (h *StorefrontHandler) AddToCart(c *gin.Context) {
	sess, ref, ok := h.scope(c)
	if !ok {
		return
	}
	conf, err := h.storefront.AddFromStepper(c.Request.Context(), sess, ref, viewer(c, h.tenants), c.Param(ProductParam))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, conf)
}
