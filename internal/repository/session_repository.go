package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"go-insight-studio/internal/session"
)

// MemorySessionRepository keeps page states in process memory and expires
// them after a period without updates.
type MemorySessionRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

// NewMemorySessionRepository creates a repository whose sessions expire after ttl of inactivity
func NewMemorySessionRepository(ttl time.Duration) *MemorySessionRepository {
	return &MemorySessionRepository{
		cache: cache.New(ttl, ttl/2),
	}
}

// Create stores a fresh page state under a new ID
func (r *MemorySessionRepository) Create(ctx context.Context) (session.State, error) {
	if err := ctx.Err(); err != nil {
		return session.State{}, err
	}
	s := session.New(uuid.NewString())
	r.cache.Set(s.ID, s, cache.DefaultExpiration)
	return s, nil
}

// Get returns the current page state
func (r *MemorySessionRepository) Get(ctx context.Context, id string) (session.State, error) {
	if err := ctx.Err(); err != nil {
		return session.State{}, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return session.State{}, ErrInvalidSessionID
	}
	v, ok := r.cache.Get(id)
	if !ok {
		return session.State{}, ErrSessionNotFound
	}
	return v.(session.State), nil
}

// Update applies fn to the current state and stores the result, refreshing its expiry
func (r *MemorySessionRepository) Update(ctx context.Context, id string, fn func(session.State) (session.State, error)) (session.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.Get(ctx, id)
	if err != nil {
		return session.State{}, err
	}
	next, err := fn(current)
	if err != nil {
		return current, err
	}
	r.cache.Set(id, next, cache.DefaultExpiration)
	return next, nil
}

// Delete discards a page state
func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	r.cache.Delete(id)
	return nil
}

// Count returns the number of live sessions
func (r *MemorySessionRepository) Count() int {
	return r.cache.ItemCount()
}
