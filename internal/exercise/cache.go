package exercise

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"lernquest/internal/listening"
)

// DedupStore remembers content hashes of exercises already handed out.
type DedupStore interface {
	Seen(ctx context.Context, hash string) (bool, error)
	Remember(ctx context.Context, hash string) error
}

// Clock returns the current time. Tests replace it to control expiry.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock is the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// DuplicateCache is an in-memory DedupStore whose entries expire after ttl.
type DuplicateCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	clock   Clock
	entries map[string]time.Time // hash -> expiry
}

// NewDuplicateCache creates an empty cache. A nil clock means SystemClock.
func NewDuplicateCache(ttl time.Duration, clock Clock) *DuplicateCache {
	if clock == nil {
		clock = SystemClock
	}
	return &DuplicateCache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]time.Time),
	}
}

// Seen reports whether hash was remembered and has not expired yet.
func (c *DuplicateCache) Seen(_ context.Context, hash string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiry, ok := c.entries[hash]
	if !ok {
		return false, nil
	}
	if !c.clock.Now().Before(expiry) {
		delete(c.entries, hash)
		return false, nil
	}
	return true, nil
}

// Remember records hash, refreshing its expiry if already present.
func (c *DuplicateCache) Remember(_ context.Context, hash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[hash] = c.clock.Now().Add(c.ttl)
	return nil
}

// Evict drops every expired entry and returns how many were removed.
func (c *DuplicateCache) Evict() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	removed := 0
	for hash, expiry := range c.entries {
		if !now.Before(expiry) {
			delete(c.entries, hash)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries, expired ones included until evicted.
func (c *DuplicateCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// ContentHash identifies an exercise by its normalized content, so the same
// task phrased with different casing or punctuation counts as a duplicate.
func ContentHash(e Exercise) string {
	parts := []string{
		string(e.Type),
		listening.Normalize(e.Prompt),
		listening.Normalize(e.Text),
		listening.Normalize(e.Answer),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}
