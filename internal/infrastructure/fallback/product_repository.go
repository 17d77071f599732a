package fallback

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductRepository is an in-memory catalog.ProductRepository over the fallback file
type ProductRepository struct {
	mu       sync.RWMutex
	byTenant map[uuid.UUID][]catalog.Product
}

// NewProductRepository creates an empty repository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{byTenant: make(map[uuid.UUID][]catalog.Product)}
}

// FindByIDForTenant implements catalog.ProductRepository
func (r *ProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.byTenant[tenantID] {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

// FindBySlug implements catalog.ProductRepository
func (r *ProductRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*catalog.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slug = strings.ToLower(slug)
	for _, p := range r.byTenant[tenantID] {
		if p.Slug == slug {
			found := p
			return &found, nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

// FindAllForTenant implements catalog.ProductRepository
func (r *ProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	filter = filter.Normalize()
	matched := r.matching(tenantID, filter.Search)

	start := filter.Offset()
	if start >= len(matched) {
		return []catalog.Product{}, nil
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

// CountForTenant implements catalog.ProductRepository
func (r *ProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	return int64(len(r.matching(tenantID, filter.Search))), nil
}

// Save implements catalog.ProductRepository
func (r *ProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	r.put(*product)
	return nil
}

func (r *ProductRepository) put(p catalog.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.byTenant[p.TenantID]
	for i := range list {
		if list[i].ID == p.ID {
			list[i] = p
			return
		}
	}
	list = append(list, p)
	sort.SliceStable(list, func(i, j int) bool { return list[i].SortOrder < list[j].SortOrder })
	r.byTenant[p.TenantID] = list
}

func (r *ProductRepository) matching(tenantID uuid.UUID, search string) []catalog.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]catalog.Product, 0, len(r.byTenant[tenantID]))
	for _, p := range r.byTenant[tenantID] {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	return out
}
