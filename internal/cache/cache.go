// Package cache guards the external places provider: it holds the
// request-keyed result cache and the per-minute rate window for outbound
// calls. Both are process-wide and safe for concurrent use.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/vicesapp/vendor-service/pkg/models"
)

// ResultTTL is how long aggregated search results stay cached.
const ResultTTL = 300 * time.Second

// Store is the result cache backend. Implementations must be safe for
// concurrent use. Get and Set are best effort: a backend failure is a miss,
// never an error surfaced to the request.
type Store interface {
	Get(ctx context.Context, key string) ([]models.VendorResult, bool)
	Set(ctx context.Context, key string, results []models.VendorResult, ttl time.Duration)
}

// Key builds the deterministic cache key for a search request. Coordinates
// are rounded to 3 decimal places (~111m) and the radius to 0.1km so that
// near-duplicate queries share an entry. The key is stable across process
// restarts for identical inputs.
func Key(lat, lng float64, radiusMeters int, category models.Category) string {
	radiusKm := float64(radiusMeters) / 1000
	raw := fmt.Sprintf("vendors:%.3f:%.3f:%.1f:%s", lat, lng, radiusKm, category)
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

type memoryEntry struct {
	results   []models.VendorResult
	expiresAt time.Time
}

// MemoryStore is the default in-memory Store. Entries expire by TTL only;
// size stays naturally bounded by key rounding and the short TTL.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]models.VendorResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.results, true
}

func (m *MemoryStore) Set(_ context.Context, key string, results []models.VendorResult, ttl time.Duration) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Sweep expired entries while we hold the lock so the map does not
	// accumulate dead keys between hits.
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	m.entries[key] = memoryEntry{results: results, expiresAt: now.Add(ttl)}
}

// Gate bundles the result cache with the rate window guarding the external
// provider. Constructed once at process start and shared by all requests.
type Gate struct {
	store   Store
	limiter *RateLimiter
}

func NewGate(store Store, limiter *RateLimiter) *Gate {
	return &Gate{store: store, limiter: limiter}
}

func (g *Gate) Get(ctx context.Context, key string) ([]models.VendorResult, bool) {
	return g.store.Get(ctx, key)
}

func (g *Gate) Set(ctx context.Context, key string, results []models.VendorResult, ttl time.Duration) {
	g.store.Set(ctx, key, results, ttl)
}

// Allow reports whether one more external call is permitted in the current
// minute bucket, incrementing the counter when it is.
func (g *Gate) Allow(bucketKey string) bool {
	return g.limiter.Allow(bucketKey)
}
