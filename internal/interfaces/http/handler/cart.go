package handler

import (
	"github.com/gin-gonic/gin"
	appcart "github.com/storefront/backend/internal/application/cart"
	apptenant "github.com/storefront/backend/internal/application/tenant"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ProductIDParam names the cart line path parameter
const ProductIDParam = "productId"

// CartHandler serves the per-tenant session cart and the navigation badge
type CartHandler struct {
	BaseHandler
	tenants *apptenant.Service
	carts   *appcart.Service
}

// NewCartHandler creates a cart handler
func NewCartHandler(tenants *apptenant.Service, carts *appcart.Service) *CartHandler {
	return &CartHandler{tenants: tenants, carts: carts}
}

// Get godoc
// @Summary      Get the store cart
// @Tags         cart
// @Produce      json
// @Param        slug path string true "Store slug"
// @Success      200 {object} dto.Response{data=appcart.View}
// @Router       /stores/{slug}/cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	sess, ref, ok := h.scope(c)
	if !ok {
		return
	}
	h.Success(c, h.carts.Cart(sess, ref))
}

// Total godoc
// @Summary      Get the store cart totals
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=appcart.Summary}
// @Router       /stores/{slug}/cart/total [get]
func (h *CartHandler) Total(c *gin.Context) {
	sess, ref, ok := h.scope(c)
	if !ok {
		return
	}
	h.Success(c, h.carts.Total(sess, ref))
}

// AddItem godoc
// @Summary      Add a product to the store cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body dto.AddToCartRequest true "Product and quantity"
// @Success      201 {object} dto.Response{data=appcart.AddResult}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /stores/{slug}/cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req dto.AddToCartRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sess, ref, ok := h.scope(c)
	if !ok {
		return
	}
	res, err := h.carts.AddItem(c.Request.Context(), sess, ref, viewer(c, h.tenants), req.ProductID, req.Quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, res)
}

// UpdateItem godoc
// @Summary      Set a cart line quantity
// @Description  A quantity of 0 removes the line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body dto.UpdateQuantityRequest true "Quantity"
// @Success      200 {object} dto.Response{data=appcart.View}
// @Router       /stores/{slug}/cart/items/{productId} [put]
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req dto.UpdateQuantityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sess, ref, ok := h.scope(c)
	if !ok {
		return
	}
	view, err := h.carts.UpdateItem(sess, ref, c.Param(ProductIDParam), *req.Quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, view)
}

// RemoveItem godoc
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=appcart.View}
// @Router       /stores/{slug}/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sess, ref, ok := h.scope(c)
	if !ok {
		return
	}
	view, err := h.carts.RemoveItem(sess, ref, c.Param(ProductIDParam))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, view)
}

// Clear godoc
// @Summary      Empty the store cart
// @Tags         cart
// @Success      204
// @Router       /stores/{slug}/cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	sess, ref, ok := h.scope(c)
	if !ok {
		return
	}
	if err := h.carts.Clear(sess, ref); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Badge godoc
// @Summary      Cart item count across every store
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=dto.BadgeResponse}
// @Router       /cart/badge [get]
func (h *CartHandler) Badge(c *gin.Context) {
	h.Success(c, dto.BadgeResponse{Count: h.carts.Badge(middleware.GetSession(c))})
}
