package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// StorefrontHandlers are the handlers behind the storefront API
type StorefrontHandlers struct {
	Storefront *handler.StorefrontHandler
	Cart       *handler.CartHandler
	ViewOnly   *handler.ViewOnlyHandler
	Stream     *handler.ViewOnlyStreamHandler
}

// StorefrontRoutes builds the storefront route groups. Routes under /stores/:slug
// run storeMiddleware first, which resolves the tenant.
func StorefrontRoutes(h StorefrontHandlers, storeMiddleware ...gin.HandlerFunc) []RouteRegistrar {
	resolve := NewDomainGroup("resolve", "/resolve")
	resolve.GET("", h.Storefront.Resolve)

	badge := NewDomainGroup("cart", "/cart")
	badge.GET("/badge", h.Cart.Badge)

	viewOnly := NewDomainGroup("view-only", "/view-only")
	viewOnly.GET("", h.ViewOnly.Get)
	viewOnly.PUT("", h.ViewOnly.Set)
	if h.Stream != nil {
		viewOnly.GET("/stream", h.Stream.Stream)
	}

	stores := NewDomainGroup("stores", "/stores/:"+middleware.SlugParam).Use(storeMiddleware...)
	stores.GET("", h.Storefront.Store)

	product := "/:" + handler.ProductParam
	products := stores.Group("products", "/products")
	products.GET("", h.Storefront.ListProducts)
	products.GET(product, h.Storefront.ProductDetail)
	products.POST(product+"/stepper/increment", h.Storefront.IncrementStepper)
	products.POST(product+"/stepper/decrement", h.Storefront.DecrementStepper)
	products.PUT(product+"/stepper", h.Storefront.SetStepper)
	products.POST(product+"/add-to-cart", h.Storefront.AddToCart)

	line := "/items/:" + handler.ProductIDParam
	cart := stores.Group("cart", "/cart")
	cart.GET("", h.Cart.Get)
	cart.DELETE("", h.Cart.Clear)
	cart.GET("/total", h.Cart.Total)
	cart.POST("/items", h.Cart.AddItem)
	cart.PUT(line, h.Cart.UpdateItem)
	cart.DELETE(line, h.Cart.RemoveItem)

	return []RouteRegistrar{resolve, badge, viewOnly, stores}
}
