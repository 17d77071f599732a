// Package tenant resolves storefront tenants and manages the per-device view-only override.
package tenant

import (
	"context"
	"errors"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/storefront"
	"github.com/storefront/backend/internal/domain/tenant"
	"go.uber.org/zap"
)

// ToggleRecorder counts view-only toggles
type ToggleRecorder interface {
	RecordViewOnlyToggle(ctx context.Context, enabled bool)
}

// Service resolves tenants from the live repository first and the static fallback second
type Service struct {
	repo      tenant.Repository
	fallback  tenant.Directory
	prefs     tenant.PreferenceStore
	publisher shared.EventPublisher
	metrics   ToggleRecorder
	logger    *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithMetrics records toggles on m
func WithMetrics(m ToggleRecorder) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService creates a tenant service. repo may be nil when no database is configured.
func NewService(
	repo tenant.Repository,
	fallback tenant.Directory,
	prefs tenant.PreferenceStore,
	publisher shared.EventPublisher,
	logger *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		repo:      repo,
		fallback:  fallback,
		prefs:     prefs,
		publisher: publisher,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve maps a storefront path to its tenant, or nil
func (s *Service) Resolve(ctx context.Context, path string) *tenant.Ref {
	slug := tenant.SlugFromPath(path)
	if slug == "" || tenant.IsReservedSlug(slug) {
		return nil
	}
	return tenant.ResolveTenant(path, s.liveDirectory(ctx, slug), s.fallback)
}

// ResolveSlug resolves a bare slug
func (s *Service) ResolveSlug(ctx context.Context, slug string) *tenant.Ref {
	return s.Resolve(ctx, "/"+slug)
}

// liveDirectory wraps the live lookup result so ResolveTenant can apply precedence.
// Lookup failures other than not-found are logged and leave only the fallback in play.
func (s *Service) liveDirectory(ctx context.Context, slug string) tenant.Directory {
	if s.repo == nil {
		return nil
	}
	t, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) && !errors.Is(err, tenant.ErrTenantNotFound) {
			s.logger.Warn("Live tenant lookup failed, using fallback",
				zap.String("slug", slug),
				zap.Error(err))
		}
		return nil
	}
	return tenant.NewMapDirectory(tenant.SourceLive, t)
}

// ViewOnly reads the device override. Store failures read as off.
func (s *Service) ViewOnly(ctx context.Context, deviceID string) bool {
	if s.prefs == nil || deviceID == "" {
		return false
	}
	enabled, err := s.prefs.ViewOnly(ctx, deviceID)
	if err != nil {
		s.logger.Warn("Failed to read view-only preference",
			zap.String("device_id", deviceID),
			zap.Error(err))
		return false
	}
	return enabled
}

// SetViewOnly persists the device override and broadcasts the change
func (s *Service) SetViewOnly(ctx context.Context, deviceID string, enabled bool) error {
	if deviceID == "" {
		return shared.ErrInvalidInput.WithCause(errors.New("device id is required"))
	}
	if s.prefs == nil {
		return shared.ErrInvalidState.WithCause(errors.New("preference store not configured"))
	}
	if err := s.prefs.SetViewOnly(ctx, deviceID, enabled); err != nil {
		s.logger.Error("Failed to persist view-only preference",
			zap.String("device_id", deviceID),
			zap.Error(err))
		return err
	}
	if s.metrics != nil {
		s.metrics.RecordViewOnlyToggle(ctx, enabled)
	}

	s.logger.Info("View-only mode toggled",
		zap.String("device_id", deviceID),
		zap.Bool("enabled", enabled))

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, tenant.NewViewOnlyToggledEvent(deviceID, enabled)); err != nil {
			s.logger.Warn("Failed to publish view-only toggle",
				zap.String("device_id", deviceID),
				zap.Error(err))
		}
	}
	return nil
}

// Purchase decides the tenant-level purchase affordance for a viewer
func (s *Service) Purchase(ref *tenant.Ref, viewer storefront.Viewer) storefront.Decision {
	if ref == nil {
		return storefront.DecideTenant(nil, viewer)
	}
	return storefront.DecideTenant(ref.Tenant, viewer)
}
