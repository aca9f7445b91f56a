// Package cache provides an in-process, size-bounded cache of current
// identity profiles keyed by user.
package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/forge-journal/forge-identity/internal/domain"
)

// Observer is notified of cache hits and misses.
type Observer interface {
	CacheHit()
	CacheMiss()
}

type nopObserver struct{}

func (nopObserver) CacheHit()  {}
func (nopObserver) CacheMiss() {}

// ProfileCache stores deep copies so callers can never mutate cached state.
// Safe for concurrent use.
//
// Each user has a generation that Invalidate bumps. A reader takes the
// generation from a miss and hands it back to Set, so a profile loaded
// before an invalidation is never stored after it.
type ProfileCache struct {
	lru *expirable.LRU[uuid.UUID, *domain.IdentityProfile]
	obs Observer

	mu   sync.Mutex
	gens map[uuid.UUID]uint64
}

// NewProfileCache creates a cache holding at most size profiles, each for at
// most ttl. A nil observer is allowed.
func NewProfileCache(size int, ttl time.Duration, obs Observer) *ProfileCache {
	if obs == nil {
		obs = nopObserver{}
	}
	return &ProfileCache{
		lru:  expirable.NewLRU[uuid.UUID, *domain.IdentityProfile](size, nil, ttl),
		obs:  obs,
		gens: make(map[uuid.UUID]uint64),
	}
}

// Get returns a copy of the cached profile of userID together with the
// user's current generation. On a miss the generation is what Set expects.
func (c *ProfileCache) Get(userID uuid.UUID) (*domain.IdentityProfile, uint64, bool) {
	gen := c.generation(userID)
	p, ok := c.lru.Get(userID)
	if !ok {
		c.obs.CacheMiss()
		return nil, gen, false
	}
	c.obs.CacheHit()
	return p.Clone(), gen, true
}

// Set stores a copy of profile unless the user was invalidated since gen
// was read.
func (c *ProfileCache) Set(profile *domain.IdentityProfile, gen uint64) {
	if profile == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[profile.UserID] != gen {
		return
	}
	c.lru.Add(profile.UserID, profile.Clone())
}

// Invalidate drops the cached profile of userID, if any, and starts a new
// generation for it.
func (c *ProfileCache) Invalidate(userID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[userID]++
	c.lru.Remove(userID)
}

func (c *ProfileCache) generation(userID uuid.UUID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[userID]
}

// Len reports the number of live entries.
func (c *ProfileCache) Len() int {
	return c.lru.Len()
}
