// Package catalog picks the product data source matching where a tenant was resolved from.
package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/tenant"
	"go.uber.org/zap"
)

// ImageResolver turns stored image keys into URLs
type ImageResolver interface {
	ResolveImage(ctx context.Context, ref string) string
}

// Sources routes product lookups to the live repository for live tenants and to the
// static fallback repository for fallback tenants.
type Sources struct {
	live     catalog.ProductRepository
	fallback catalog.ProductRepository
	images   ImageResolver
	logger   *zap.Logger
}

// NewSources creates a router. live may be nil when no database is configured.
func NewSources(live, fallback catalog.ProductRepository, images ImageResolver, logger *zap.Logger) *Sources {
	return &Sources{live: live, fallback: fallback, images: images, logger: logger}
}

func (s *Sources) repoFor(ref *tenant.Ref) catalog.ProductRepository {
	if ref == nil {
		return nil
	}
	if ref.Source == tenant.SourceLive {
		return s.live
	}
	return s.fallback
}

// Find looks a product up by ID or slug within the resolved tenant
func (s *Sources) Find(ctx context.Context, ref *tenant.Ref, idOrSlug string) (*catalog.Product, error) {
	repo := s.repoFor(ref)
	if repo == nil {
		return nil, catalog.ErrProductNotFound
	}
	if id, err := uuid.Parse(idOrSlug); err == nil {
		p, err := repo.FindByIDForTenant(ctx, ref.ID, id)
		if err == nil {
			return p, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}
	return repo.FindBySlug(ctx, ref.ID, idOrSlug)
}

// List returns one page of the tenant's catalog. Data source failures degrade to an empty page.
func (s *Sources) List(ctx context.Context, ref *tenant.Ref, filter shared.Filter) shared.Paginated[catalog.Product] {
	filter = filter.Normalize()
	empty := shared.NewPaginated([]catalog.Product{}, 0, filter.Page, filter.PageSize)

	repo := s.repoFor(ref)
	if repo == nil {
		return empty
	}
	items, err := repo.FindAllForTenant(ctx, ref.ID, filter)
	if err != nil {
		s.logger.Warn("Catalog listing unavailable", zap.String("tenant", ref.Slug), zap.Error(err))
		return empty
	}
	total, err := repo.CountForTenant(ctx, ref.ID, filter)
	if err != nil {
		s.logger.Warn("Catalog count unavailable", zap.String("tenant", ref.Slug), zap.Error(err))
		total = int64(len(items))
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize)
}

// Image resolves one image key
func (s *Sources) Image(ctx context.Context, key string) string {
	if s.images == nil {
		return key
	}
	return s.images.ResolveImage(ctx, key)
}

// Images resolves every key, dropping the ones that resolve to nothing
func (s *Sources) Images(ctx context.Context, keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if url := s.Image(ctx, k); url != "" {
			out = append(out, url)
		}
	}
	return out
}

func isNotFound(err error) bool {
	return errors.Is(err, catalog.ErrProductNotFound) || errors.Is(err, shared.ErrNotFound)
}
