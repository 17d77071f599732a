package tenant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func TestNewTenant(t *testing.T) {
	t.Run("normalizes slug and applies defaults", func(t *testing.T) {
		tn, err := NewTenant("  Acme-Foods ", "Acme Foods")
		require.NoError(t, err)
		assert.Equal(t, "acme-foods", tn.Slug)
		assert.Equal(t, StatusActive, tn.Status)
		assert.Equal(t, PlanFree, tn.Plan)
		assert.Equal(t, valueobject.DefaultCurrency, tn.Currency)
		assert.NotEqual(t, uuid.Nil, tn.ID)
		assert.Nil(t, tn.Features.CartEnabled)
	})

	tests := []struct {
		name    string
		slug    string
		tname   string
		wantErr error
	}{
		{"empty slug", "", "Acme", ErrInvalidSlug},
		{"single char slug", "a", "Acme", ErrInvalidSlug},
		{"slug with slash", "acme/foods", "Acme", ErrInvalidSlug},
		{"leading hyphen", "-acme", "Acme", ErrInvalidSlug},
		{"reserved slug", "api", "Acme", ErrReservedSlug},
		{"empty name", "acme", "  ", ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTenant(tt.slug, tt.tname)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCartEnabled(t *testing.T) {
	tn, err := NewTenant("acme", "Acme")
	require.NoError(t, err)

	assert.True(t, CartEnabled(tn), "unset flag defaults to enabled")

	tn.SetCartEnabled(false)
	assert.False(t, CartEnabled(tn))

	tn.SetCartEnabled(true)
	assert.True(t, CartEnabled(tn))

	assert.False(t, CartEnabled(nil))
}

func TestTenant_SetPlan(t *testing.T) {
	tn, err := NewTenant("acme", "Acme")
	require.NoError(t, err)

	require.NoError(t, tn.SetPlan(PlanPro))
	assert.Equal(t, PlanPro, tn.Plan)

	assert.ErrorIs(t, tn.SetPlan("platinum"), ErrInvalidPlan)
	assert.Equal(t, PlanPro, tn.Plan)
}

func TestTenant_IsOwnedBy(t *testing.T) {
	tn, err := NewTenant("acme", "Acme")
	require.NoError(t, err)
	owner := uuid.New()

	assert.False(t, tn.IsOwnedBy(owner))

	tn.OwnerID = &owner
	assert.True(t, tn.IsOwnedBy(owner))
	assert.False(t, tn.IsOwnedBy(uuid.New()))
	assert.False(t, tn.IsOwnedBy(uuid.Nil))
}

func TestTenant_IsVisible(t *testing.T) {
	tn := &Tenant{Status: StatusActive}
	assert.True(t, tn.IsVisible())
	tn.Status = StatusTrial
	assert.True(t, tn.IsVisible())
	tn.Status = StatusSuspended
	assert.False(t, tn.IsVisible())
	tn.Status = StatusInactive
	assert.False(t, tn.IsVisible())
}
