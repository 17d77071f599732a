package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/domain/tenant"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Storefront context keys
const (
	TenantSlugKey = "tenant_slug"
	TenantRefKey  = "tenant_ref"
)

// SlugParam is the route parameter naming the storefront
const SlugParam = "slug"

// TenantResolver resolves a storefront slug
type TenantResolver interface {
	ResolveSlug(ctx context.Context, slug string) *tenant.Ref
}

// Storefront resolves the :slug route parameter to a visible tenant.
// Unknown, reserved or hidden slugs answer 404 ERR_TENANT_NOT_FOUND.
func Storefront(resolver TenantResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := tenant.NormalizeSlug(c.Param(SlugParam))
		c.Set(TenantSlugKey, slug)

		ref := resolver.ResolveSlug(c.Request.Context(), slug)
		if ref == nil {
			logger.GetGinLogger(c).Debug("Storefront not found", zap.String("slug", slug))
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeTenantNotFound, "Store not found", GetRequestID(c)))
			return
		}

		c.Set(TenantRefKey, ref)
		c.Request = c.Request.WithContext(logger.WithTenant(c.Request.Context(), ref.Slug))
		c.Next()
	}
}

// GetTenantRef returns the tenant resolved by Storefront
func GetTenantRef(c *gin.Context) *tenant.Ref {
	if v, ok := c.Get(TenantRefKey); ok {
		if ref, ok := v.(*tenant.Ref); ok {
			return ref
		}
	}
	return nil
}
