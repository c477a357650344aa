// Package cache stores solved load plans keyed by instance fingerprint, so
// an unchanged instance is not solved twice.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/piwi3910/LoadPlanner/internal/model"
)

// Memory is an in-process plan cache.
type Memory struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	plans map[string]entry
}

type entry struct {
	plan    model.LoadPlan
	expires time.Time // zero = never
}

// NewMemory creates an in-process cache. A ttl of 0 keeps entries forever.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, plans: map[string]entry{}}
}

// Get returns the plan stored under key.
func (c *Memory) Get(ctx context.Context, key string) (model.LoadPlan, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.plans[key]
	if !ok {
		return model.LoadPlan{}, false, nil
	}
	if !e.expires.IsZero() && c.now().After(e.expires) {
		delete(c.plans, key)
		return model.LoadPlan{}, false, nil
	}
	return e.plan, true, nil
}

// Put stores plan under key.
func (c *Memory) Put(ctx context.Context, key string, plan model.LoadPlan) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := entry{plan: plan}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.plans[key] = e
	return nil
}

// Len returns the number of stored entries, expired or not.
func (c *Memory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.plans)
}
