package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	err := NewDomainError("TENANT_NOT_FOUND", "Tenant not found")
	assert.Equal(t, "Tenant not found", err.Error())

	wrapped := err.WithCause(errors.New("connection refused"))
	assert.Equal(t, "Tenant not found: connection refused", wrapped.Error())
}

func TestDomainError_Is(t *testing.T) {
	t.Run("matches sentinel through wrapping", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", ErrNotFound.WithCause(errors.New("no rows")))
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.False(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("errors.As extracts code", func(t *testing.T) {
		err := fmt.Errorf("wrap: %w", NewDomainError("CART_MISSING_TENANT", "missing"))
		var de *DomainError
		assert.True(t, errors.As(err, &de))
		assert.Equal(t, "CART_MISSING_TENANT", de.Code)
	})

	t.Run("unwrap exposes cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := ErrInvalidState.WithCause(cause)
		assert.True(t, errors.Is(err, cause))
	})
}
