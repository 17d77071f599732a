package tenant

import "context"

// Repository is the live tenant source
type Repository interface {
	// FindBySlug returns shared.ErrNotFound when no tenant uses slug
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)
	Save(ctx context.Context, t *Tenant) error
}
