// Package cache implements the client-side resource cache: entries are
// tagged by the resource categories they depend on, mutations declare the tag
// set they affect, and matching entries are evicted when a mutation commits.
// There is no TTL; correctness relies on every mutation declaring its
// complete tag set.
package cache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/eventhub/internal/logging"
)

// Tag associates a cache entry with a resource category and, optionally, a
// specific resource id.
type Tag struct {
	Type string
	ID   string
}

// TypeTag makes a tag covering every resource of a type (e.g. a list view).
func TypeTag(t string) Tag { return Tag{Type: t} }

// IDTag makes a tag for one specific resource.
func IDTag(t, id string) Tag { return Tag{Type: t, ID: id} }

// matches reports whether an invalidation of tag t must evict an entry
// tagged with other. Same type always matters; an id-less tag on either side
// matches every id of that type.
func (t Tag) matches(other Tag) bool {
	if t.Type != other.Type {
		return false
	}
	return t.ID == "" || other.ID == "" || t.ID == other.ID
}

type entry struct {
	payload any
	tags    []Tag
}

// Cache is a tagged, in-memory resource cache. Concurrent Fetch calls for
// the same key are coalesced into a single load. Nothing stored here
// survives a process restart.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
	logger  logging.Logger
}

func New(logger logging.Logger) *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		logger:  logger.With("component", "cache"),
	}
}

// Fetch returns the cached payload for key if a valid entry exists.
// Otherwise it runs load — at most once per key across concurrent callers —
// stores the result under the given tags, and returns it. A failed load
// stores nothing.
func (c *Cache) Fetch(ctx context.Context, key string, tags []Tag, load func(ctx context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		c.logger.Debug(ctx, "hit", "key", key)
		return e.payload, nil
	}
	c.mu.Unlock()

	v, err, shared := c.group.Do(key, func() (any, error) {
		payload, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = &entry{payload: payload, tags: tags}
		c.mu.Unlock()
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug(ctx, "coalesced", "key", key)
	}
	return v, nil
}

// Mutate performs a remote write and, only on success, evicts every entry
// matching the affected tags. On failure the cache is left untouched and the
// error is returned unchanged.
func (c *Cache) Mutate(ctx context.Context, affected []Tag, op func(ctx context.Context) error) error {
	if err := op(ctx); err != nil {
		return err
	}
	n := c.Invalidate(affected...)
	c.logger.Debug(ctx, "invalidated", "tags", len(affected), "evicted", n)
	return nil
}

// Invalidate evicts every entry tagged with a tag matching any of the given
// tags and returns how many entries were removed. Consumers treat evicted
// entries as absent, never as stale-but-usable.
func (c *Cache) Invalidate(tags ...Tag) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for key, e := range c.entries {
		if tagsIntersect(tags, e.tags) {
			delete(c.entries, key)
			evicted++
		}
	}
	return evicted
}

// Clear drops every entry, e.g. on logout.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func tagsIntersect(invalidating, provided []Tag) bool {
	for _, inv := range invalidating {
		for _, p := range provided {
			if inv.matches(p) {
				return true
			}
		}
	}
	return false
}

// Fetch is the typed convenience wrapper around Cache.Fetch.
func Fetch[T any](ctx context.Context, c *Cache, key string, tags []Tag, load func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	v, err := c.Fetch(ctx, key, tags, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("cache: unexpected payload type for key %q", key)
	}
	return typed, nil
}
