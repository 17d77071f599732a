package tenant

import (
	"strings"

	"github.com/google/uuid"
)

// Source tells where a resolved tenant came from
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Ref is the resolved active tenant for a request
type Ref struct {
	ID     uuid.UUID
	Slug   string
	Name   string
	Source Source
	Tenant *Tenant
}

// TenantID returns the key under which the tenant's cart bucket lives
func (r *Ref) TenantID() string {
	return r.ID.String()
}

// Directory looks tenants up by slug
type Directory interface {
	LookupSlug(slug string) (*Tenant, bool)
	Source() Source
}

// MapDirectory is a Directory over a fixed set of tenants
type MapDirectory struct {
	source  Source
	tenants map[string]*Tenant
}

// NewMapDirectory indexes tenants by slug. Later duplicates replace earlier ones.
func NewMapDirectory(source Source, tenants ...*Tenant) *MapDirectory {
	d := &MapDirectory{source: source, tenants: make(map[string]*Tenant, len(tenants))}
	for _, t := range tenants {
		if t == nil {
			continue
		}
		d.tenants[NormalizeSlug(t.Slug)] = t
	}
	return d
}

// LookupSlug implements Directory
func (d *MapDirectory) LookupSlug(slug string) (*Tenant, bool) {
	if d == nil {
		return nil, false
	}
	t, ok := d.tenants[NormalizeSlug(slug)]
	return t, ok
}

// Source implements Directory
func (d *MapDirectory) Source() Source {
	if d == nil {
		return ""
	}
	return d.source
}

// Tenants returns every tenant in the directory
func (d *MapDirectory) Tenants() []*Tenant {
	if d == nil {
		return nil
	}
	out := make([]*Tenant, 0, len(d.tenants))
	for _, t := range d.tenants {
		out = append(out, t)
	}
	return out
}

// SlugFromPath returns the first non-empty path segment, lower-cased.
// Query strings and fragments are ignored.
func SlugFromPath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			return NormalizeSlug(seg)
		}
	}
	return ""
}

// ResolveTenant maps a storefront path to its tenant.
// Directories are consulted in order, so live data passed first wins over a static fallback passed last.
// It returns nil when the path has no tenant segment, the segment is reserved, or no visible tenant matches.
func ResolveTenant(path string, sources ...Directory) *Ref {
	slug := SlugFromPath(path)
	if slug == "" || IsReservedSlug(slug) {
		return nil
	}
	for _, dir := range sources {
		if dir == nil {
			continue
		}
		t, ok := dir.LookupSlug(slug)
		if !ok || t == nil {
			continue
		}
		if !t.IsVisible() {
			return nil
		}
		return &Ref{
			ID:     t.ID,
			Slug:   t.Slug,
			Name:   t.Name,
			Source: dir.Source(),
			Tenant: t,
		}
	}
	return nil
}
