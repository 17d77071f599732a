package dto

import "net/http"

// Error codes. Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	ErrCodeNotFound        = "ERR_NOT_FOUND"
	ErrCodeTenantNotFound  = "ERR_TENANT_NOT_FOUND"
	ErrCodeProductNotFound = "ERR_PRODUCT_NOT_FOUND"
)

// Business rule error codes
const (
	ErrCodeInvalidState        = "ERR_INVALID_STATE"
	ErrCodePurchaseSuppressed  = "ERR_PURCHASE_SUPPRESSED"
	ErrCodeInvalidQuantity     = "ERR_INVALID_QUANTITY"
	ErrCodeMissingTenant       = "ERR_MISSING_TENANT"
	ErrCodeNoSession           = "ERR_NO_SESSION"
	ErrCodeServiceUnavailable  = "ERR_SERVICE_UNAVAILABLE"
	ErrCodeMaxConnectionsReach = "ERR_MAX_CONNECTIONS"
)

// Input error codes
const (
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeTooLarge     = "ERR_REQUEST_TOO_LARGE"
)

// ErrCodeRateLimited is used when rate limit is exceeded
const ErrCodeRateLimited = "ERR_RATE_LIMITED"

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeTenantNotFound:  http.StatusNotFound,
	ErrCodeProductNotFound: http.StatusNotFound,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodePurchaseSuppressed: http.StatusUnprocessableEntity,
	ErrCodeInvalidQuantity:    http.StatusUnprocessableEntity,
	ErrCodeMissingTenant:      http.StatusUnprocessableEntity,

	ErrCodeNoSession:           http.StatusBadRequest,
	ErrCodeServiceUnavailable:  http.StatusServiceUnavailable,
	ErrCodeMaxConnectionsReach: http.StatusServiceUnavailable,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes onto API codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":             ErrCodeNotFound,
	"INVALID_INPUT":         ErrCodeInvalidInput,
	"INVALID_STATE":         ErrCodeInvalidState,
	"UNAUTHORIZED":          ErrCodeUnauthorized,
	"FORBIDDEN":             ErrCodeForbidden,
	"TENANT_NOT_FOUND":      ErrCodeTenantNotFound,
	"STOREFRONT_NO_TENANT":  ErrCodeTenantNotFound,
	"CART_NO_TENANT":        ErrCodeTenantNotFound,
	"PRODUCT_NOT_FOUND":     ErrCodeProductNotFound,
	"PURCHASE_SUPPRESSED":   ErrCodePurchaseSuppressed,
	"CART_INVALID_QUANTITY": ErrCodeInvalidQuantity,
	"CART_MISSING_TENANT":   ErrCodeMissingTenant,
}

// NormalizeErrorCode converts a domain error code to its API code.
// Codes already in API form, or unknown ones, are returned unchanged.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
