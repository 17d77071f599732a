package cart

import "github.com/storefront/backend/internal/domain/shared"

// Cart error codes
var (
	ErrMissingTenant   = shared.NewDomainError("CART_MISSING_TENANT", "Product has no tenant identifier")
	ErrInvalidQuantity = shared.NewDomainError("CART_INVALID_QUANTITY", "Quantity must be at least 1")
)
