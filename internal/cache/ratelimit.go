package cache

import (
	"sync"
	"time"
)

// OutscraperBucket is the rate window key for outbound Outscraper calls.
const OutscraperBucket = "outscraper_requests"

// DefaultRateLimit is the hard cap of external calls per minute bucket per
// process.
const DefaultRateLimit = 10

// RateLimiter counts calls in fixed one-minute windows keyed by
// (bucketKey, floor(unixSeconds/60)). Once a window's count reaches the cap,
// further calls in that window are denied; the next minute starts fresh.
type RateLimiter struct {
	mu     sync.Mutex
	cap    int
	counts map[string]map[int64]int
	now    func() time.Time
}

func NewRateLimiter(cap int) *RateLimiter {
	return &RateLimiter{
		cap:    cap,
		counts: make(map[string]map[int64]int),
		now:    time.Now,
	}
}

// Allow reports whether another call fits in the current minute window for
// bucketKey, incrementing the counter when it does.
func (l *RateLimiter) Allow(bucketKey string) bool {
	window := l.now().Unix() / 60

	l.mu.Lock()
	defer l.mu.Unlock()

	windows, ok := l.counts[bucketKey]
	if !ok {
		windows = make(map[int64]int)
		l.counts[bucketKey] = windows
	}

	// Drop windows older than two minutes so the map never grows unbounded.
	for w := range windows {
		if w < window-2 {
			delete(windows, w)
		}
	}

	if windows[window] >= l.cap {
		return false
	}
	windows[window]++
	return true
}
