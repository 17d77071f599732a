package tenant

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/domain/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) FindBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	args := m.Called(ctx, slug)
	if t := args.Get(0); t != nil {
		return t.(*tenant.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTenantRepository) Save(ctx context.Context, t *tenant.Tenant) error {
	return m.Called(ctx, t).Error(0)
}

type MockPreferenceStore struct {
	mock.Mock
}

func (m *MockPreferenceStore) ViewOnly(ctx context.Context, deviceID string) (bool, error) {
	args := m.Called(ctx, deviceID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPreferenceStore) SetViewOnly(ctx context.Context, deviceID string, enabled bool) error {
	return m.Called(ctx, deviceID, enabled).Error(0)
}

func (m *MockPreferenceStore) Ping(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockPreferenceStore) Close() error { return m.Called().Error(0) }

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

type toggleCounter struct {
	on, off int
}

func (c *toggleCounter) RecordViewOnlyToggle(_ context.Context, enabled bool) {
	if enabled {
		c.on++
		return
	}
	c.off++
}

func mustTenant(t *testing.T, slug string) *tenant.Tenant {
	t.Helper()
	tn, err := tenant.NewTenant(slug, slug+" Inc")
	require.NoError(t, err)
	return tn
}

func TestService_Resolve_LiveWinsOverFallback(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTenantRepository)
	live := mustTenant(t, "acme")
	static := mustTenant(t, "acme")
	repo.On("FindBySlug", ctx, "acme").Return(live, nil)

	svc := NewService(repo, tenant.NewMapDirectory(tenant.SourceFallback, static), nil, nil, zap.NewNop())

	ref := svc.Resolve(ctx, "/Acme/products")
	require.NotNil(t, ref)
	assert.Equal(t, live.ID, ref.ID)
	assert.Equal(t, tenant.SourceLive, ref.Source)
	repo.AssertExpectations(t)
}

func TestService_Resolve_FallsBackWhenLiveMissingOrFailing(t *testing.T) {
	ctx := context.Background()
	static := mustTenant(t, "acme")
	fallbackDir := tenant.NewMapDirectory(tenant.SourceFallback, static)

	for name, liveErr := range map[string]error{
		"not found": shared.ErrNotFound,
		"db error":  errors.New("connection refused"),
	} {
		t.Run(name, func(t *testing.T) {
			repo := new(MockTenantRepository)
			repo.On("FindBySlug", ctx, "acme").Return(nil, liveErr)

			ref := NewService(repo, fallbackDir, nil, nil, zap.NewNop()).ResolveSlug(ctx, "acme")
			require.NotNil(t, ref)
			assert.Equal(t, static.ID, ref.ID)
			assert.Equal(t, tenant.SourceFallback, ref.Source)
		})
	}
}

func TestService_Resolve_InactiveLiveTenantIsNotRevived(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTenantRepository)
	live := mustTenant(t, "acme")
	live.Status = tenant.StatusInactive
	repo.On("FindBySlug", ctx, "acme").Return(live, nil)

	svc := NewService(repo, tenant.NewMapDirectory(tenant.SourceFallback, mustTenant(t, "acme")), nil, nil, zap.NewNop())
	assert.Nil(t, svc.Resolve(ctx, "/acme"))
}

func TestService_Resolve_SkipsReservedAndEmpty(t *testing.T) {
	repo := new(MockTenantRepository)
	svc := NewService(repo, nil, nil, nil, zap.NewNop())

	assert.Nil(t, svc.Resolve(context.Background(), "/"))
	assert.Nil(t, svc.Resolve(context.Background(), "/api/v1"))
	repo.AssertNotCalled(t, "FindBySlug", mock.Anything, mock.Anything)
}

func TestService_Resolve_WithoutDatabase(t *testing.T) {
	static := mustTenant(t, "acme")
	svc := NewService(nil, tenant.NewMapDirectory(tenant.SourceFallback, static), nil, nil, zap.NewNop())

	ref := svc.Resolve(context.Background(), "/acme")
	require.NotNil(t, ref)
	assert.Equal(t, tenant.SourceFallback, ref.Source)
	assert.Nil(t, svc.Resolve(context.Background(), "/unknown"))
}

func TestService_ViewOnly(t *testing.T) {
	ctx := context.Background()
	prefs := new(MockPreferenceStore)
	prefs.On("ViewOnly", ctx, "dev-1").Return(true, nil)
	prefs.On("ViewOnly", ctx, "dev-2").Return(false, errors.New("redis down"))

	svc := NewService(nil, nil, prefs, nil, zap.NewNop())
	assert.True(t, svc.ViewOnly(ctx, "dev-1"))
	assert.False(t, svc.ViewOnly(ctx, "dev-2"))
	assert.False(t, svc.ViewOnly(ctx, ""))
}

func TestService_SetViewOnly_PersistsThenPublishes(t *testing.T) {
	ctx := context.Background()
	prefs := new(MockPreferenceStore)
	pub := new(MockPublisher)
	counter := &toggleCounter{}

	prefs.On("SetViewOnly", ctx, "dev-1", true).Return(nil)
	pub.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		if len(events) != 1 {
			return false
		}
		evt, ok := events[0].(*tenant.ViewOnlyToggledEvent)
		return ok && evt.DeviceID == "dev-1" && evt.Enabled
	})).Return(nil)

	svc := NewService(nil, nil, prefs, pub, zap.NewNop(), WithMetrics(counter))
	require.NoError(t, svc.SetViewOnly(ctx, "dev-1", true))

	assert.Equal(t, 1, counter.on)
	prefs.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestService_SetViewOnly_PublishFailureIsNotAnError(t *testing.T) {
	ctx := context.Background()
	prefs := new(MockPreferenceStore)
	pub := new(MockPublisher)
	prefs.On("SetViewOnly", ctx, "dev-1", false).Return(nil)
	pub.On("Publish", ctx, mock.Anything).Return(errors.New("bus stopped"))

	svc := NewService(nil, nil, prefs, pub, zap.NewNop())
	assert.NoError(t, svc.SetViewOnly(ctx, "dev-1", false))
}

func TestService_SetViewOnly_Errors(t *testing.T) {
	ctx := context.Background()
	prefs := new(MockPreferenceStore)
	pub := new(MockPublisher)
	prefs.On("SetViewOnly", ctx, "dev-1", true).Return(errors.New("redis down"))

	svc := NewService(nil, nil, prefs, pub, zap.NewNop())
	assert.Error(t, svc.SetViewOnly(ctx, "dev-1", true))
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)

	assert.ErrorIs(t, svc.SetViewOnly(ctx, "", true), shared.ErrInvalidInput)
	assert.ErrorIs(t, NewService(nil, nil, nil, nil, zap.NewNop()).SetViewOnly(ctx, "dev-1", true), shared.ErrInvalidState)
}

func TestService_Purchase(t *testing.T) {
	owner := uuid.New()
	tn := mustTenant(t, "acme")
	tn.OwnerID = &owner
	ref := &tenant.Ref{ID: tn.ID, Slug: tn.Slug, Tenant: tn}
	svc := NewService(nil, nil, nil, nil, zap.NewNop())

	assert.True(t, svc.Purchase(ref, storefront.Viewer{}).CanAdd())
	assert.Equal(t, storefront.ReasonOwner, svc.Purchase(ref, storefront.Viewer{UserID: owner}).Reason)
	assert.Equal(t, storefront.ReasonViewOnlyMode, svc.Purchase(ref, storefront.Viewer{ViewOnly: true}).Reason)
	assert.Equal(t, storefront.ReasonCatalogOnly, svc.Purchase(nil, storefront.Viewer{}).Reason)

	tn.SetCartEnabled(false)
	assert.Equal(t, storefront.ReasonCatalogOnly, svc.Purchase(ref, storefront.Viewer{ViewOnly: true}).Reason)
}
