// Package session owns the per-browser state of the storefront: the cart store and the quantity steppers.
// Nothing here is persisted; a restart or an idle timeout drops it.
package session

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/storefront"
	"go.uber.org/zap"
)

// ErrMissingSession is returned when a caller has no session ID
var ErrMissingSession = errors.New("session id is required")

// Session is one device's storefront state
type Session struct {
	ID       string
	Cart     *cart.MemoryStore
	Steppers *storefront.Stepper
	lastSeen atomic.Int64
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// LastSeen returns when the session was last used
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// Registry maps session IDs to sessions
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// Option configures a Registry
type Option func(*Registry)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// NewRegistry creates a registry evicting sessions idle for longer than ttl. A zero ttl never evicts.
func NewRegistry(ttl time.Duration, logger *zap.Logger, opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		logger:   logger.Named("sessions"),
		now:      time.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Get returns the session for id, creating it on first use
func (r *Registry) Get(id string) (*Session, error) {
	if id == "" {
		return nil, ErrMissingSession
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = r.newSession(id)
		r.sessions[id] = s
	}
	s.touch(r.now())
	return s, nil
}

// Transient returns an empty session for id that is not registered.
// Reads from devices that never wrote anything use it so they allocate nothing.
func (r *Registry) Transient(id string) *Session {
	s := r.newSession(id)
	s.touch(r.now())
	return s
}

func (r *Registry) newSession(id string) *Session {
	return &Session{
		ID:       id,
		Cart:     cart.NewMemoryStore(cart.WithLogger(r.logger.With(zap.String("session_id", id)))),
		Steppers: storefront.NewStepper(),
	}
}

// Lookup returns an existing session without creating one
func (r *Registry) Lookup(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if ok {
		s.touch(r.now())
	}
	return s, ok
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Evict drops sessions idle past the ttl and returns how many were removed
func (r *Registry) Evict() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, s := range r.sessions {
		if s.lastSeen.Load() < cutoff {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Start runs Evict every interval until Stop
func (r *Registry) Start(interval time.Duration) {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	if interval <= 0 || r.ttl <= 0 {
		close(r.done)
		return
	}
	go func() {
		defer close(r.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := r.Evict(); n > 0 {
					r.logger.Debug("Evicted idle sessions", zap.Int("count", n), zap.Int("remaining", r.Len()))
				}
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop ends the cleanup loop started by Start
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
	})
	if r.started.Load() {
		<-r.done
	}
}
