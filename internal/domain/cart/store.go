package cart

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store is the cart state of one session: a mapping from tenant ID to an ordered bucket of line items.
// An absent tenant key behaves exactly like an empty bucket.
type Store interface {
	// Items returns a copy of the tenant's bucket, empty when the tenant has none
	Items(tenantID string) []LineItem
	// Add merges quantity into the existing line for p.ID or appends a new line
	Add(p Product, quantity int) error
	// Remove drops the line for productID; absent lines are ignored
	Remove(tenantID, productID string)
	// UpdateQuantity sets an absolute quantity; quantity <= 0 removes the line
	UpdateQuantity(tenantID, productID string, quantity int)
	// Clear deletes the tenant's bucket
	Clear(tenantID string)
	// Total sums quantities and unit price * quantity over the bucket
	Total(tenantID string) Totals
}

// MemoryStore is the in-memory Store. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[string][]LineItem
	logger  *zap.Logger
	now     func() time.Time
}

// StoreOption configures a MemoryStore
type StoreOption func(*MemoryStore)

// WithLogger sets the logger used to report rejected adds
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *MemoryStore) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for AddedAt
func WithClock(now func() time.Time) StoreOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

// NewMemoryStore creates an empty store
func NewMemoryStore(opts ...StoreOption) *MemoryStore {
	s := &MemoryStore{
		buckets: make(map[string][]LineItem),
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Items implements Store
func (s *MemoryStore) Items(tenantID string) []LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket := s.buckets[tenantID]
	items := make([]LineItem, len(bucket))
	copy(items, bucket)
	return items
}

// Add implements Store
func (s *MemoryStore) Add(p Product, quantity int) error {
	if p.TenantID == "" {
		s.logger.Warn("Rejected add to cart without tenant",
			zap.String("product_id", p.ID))
		return ErrMissingTenant
	}
	if quantity < 1 {
		s.logger.Warn("Rejected add to cart with non-positive quantity",
			zap.String("tenant_id", p.TenantID),
			zap.String("product_id", p.ID),
			zap.Int("quantity", quantity))
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.buckets[p.TenantID]
	if idx := indexOf(bucket, p.ID); idx >= 0 {
		bucket[idx].Quantity += quantity
		return nil
	}
	s.buckets[p.TenantID] = append(bucket, newLineItem(p, quantity, s.now()))
	return nil
}

// Remove implements Store
func (s *MemoryStore) Remove(tenantID, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(tenantID, productID)
}

// UpdateQuantity implements Store
func (s *MemoryStore) UpdateQuantity(tenantID, productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(tenantID, productID)
		return
	}
	bucket := s.buckets[tenantID]
	if idx := indexOf(bucket, productID); idx >= 0 {
		bucket[idx].Quantity = quantity
	}
}

// Clear implements Store
func (s *MemoryStore) Clear(tenantID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, tenantID)
}

// Total implements Store
func (s *MemoryStore) Total(tenantID string) Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalsOf(s.buckets[tenantID])
}

// TenantIDs lists the tenants that currently own a bucket, in no particular order
func (s *MemoryStore) TenantIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.buckets))
	for id := range s.buckets {
		ids = append(ids, id)
	}
	return ids
}

// TotalItems sums item quantities across every tenant bucket
func (s *MemoryStore) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, bucket := range s.buckets {
		n += totalsOf(bucket).TotalItems
	}
	return n
}

func (s *MemoryStore) removeLocked(tenantID, productID string) {
	bucket, ok := s.buckets[tenantID]
	if !ok {
		return
	}
	idx := indexOf(bucket, productID)
	if idx < 0 {
		return
	}
	s.buckets[tenantID] = append(bucket[:idx], bucket[idx+1:]...)
}

func indexOf(bucket []LineItem, productID string) int {
	for i := range bucket {
		if bucket[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func totalsOf(bucket []LineItem) Totals {
	totals := Totals{TotalPrice: decimal.Zero}
	for _, item := range bucket {
		totals.TotalItems += item.Quantity
		totals.TotalPrice = totals.TotalPrice.Add(item.Subtotal())
	}
	return totals
}
