// Package session keeps the dashboard sessions of connected browsers.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/passmap/internal/domain/dashboard"
	"github.com/okian/passmap/pkg/logger"
	"github.com/okian/passmap/pkg/metrics"
)

// DefaultMaxSessions bounds the store when no size is configured.
const DefaultMaxSessions = 64

// Store holds sessions by id.
type Store interface {
	// Create stores s under a new id.
	Create(ctx context.Context, s dashboard.Session) (string, error)
	// Get returns the session and marks it recently used.
	Get(ctx context.Context, id string) (dashboard.Session, error)
	// Apply replaces the session with fn's result. Calls for the same store
	// are serialised, so every interaction runs to completion before the
	// next one starts. When fn fails the session is left as is.
	Apply(ctx context.Context, id string, fn func(dashboard.Session) (dashboard.Session, error)) (dashboard.Session, error)
	// Delete drops the session. It reports whether it existed.
	Delete(ctx context.Context, id string) bool
	// Len returns the number of live sessions.
	Len() int
}

// lruStore evicts the least recently used session when full.
type lruStore struct {
	mu      sync.Mutex
	cache   *lru.Cache[string, dashboard.Session]
	maxSize int
	log     logger.Logger
}

// NewLRUStore creates a bounded in-memory store.
func NewLRUStore(opts ...Option) (Store, error) {
	s := &lruStore{maxSize: DefaultMaxSessions}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("session")
	}
	cache, err := lru.New[string, dashboard.Session](s.maxSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSize, err)
	}
	s.cache = cache
	return s, nil
}

func (s *lruStore) Create(ctx context.Context, sess dashboard.Session) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}

	s.mu.Lock()
	evicted := s.cache.Add(id.String(), sess)
	n := s.cache.Len()
	s.mu.Unlock()

	if evicted {
		metrics.RecordSessionEvicted()
		s.log.Info(ctx, "session evicted", logger.Int("max_sessions", s.maxSize))
	}
	metrics.UpdateSessionsActive(n)
	s.log.Debug(ctx, "session created", logger.String("session", id.String()))
	return id.String(), nil
}

func (s *lruStore) Get(_ context.Context, id string) (dashboard.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.cache.Get(id)
	if !ok {
		return dashboard.Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

func (s *lruStore) Apply(ctx context.Context, id string, fn func(dashboard.Session) (dashboard.Session, error)) (dashboard.Session, error) {
	if err := ctx.Err(); err != nil {
		return dashboard.Session{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.cache.Get(id)
	if !ok {
		return dashboard.Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	next, err := fn(cur)
	if err != nil {
		return cur, err
	}
	s.cache.Add(id, next)
	return next, nil
}

func (s *lruStore) Delete(ctx context.Context, id string) bool {
	s.mu.Lock()
	ok := s.cache.Remove(id)
	n := s.cache.Len()
	s.mu.Unlock()

	if ok {
		metrics.UpdateSessionsActive(n)
		s.log.Debug(ctx, "session deleted", logger.String("session", id))
	}
	return ok
}

func (s *lruStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Len()
}
