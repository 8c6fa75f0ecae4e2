// Package service aggregates vendor search results from the local store and
// the external places provider behind the cache gate.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/vicesapp/vendor-service/internal/cache"
	"github.com/vicesapp/vendor-service/internal/geo"
	"github.com/vicesapp/vendor-service/internal/places"
	"github.com/vicesapp/vendor-service/pkg/models"
)

const (
	// localSufficiency is the number of local results above which the
	// external provider is not consulted at all. Local, verified data is
	// preferred and external calls are avoided when unnecessary.
	localSufficiency = 5

	// maxResults caps the response after sorting.
	maxResults = 50

	// unknownDistance sorts entries without a computable distance last.
	unknownDistance = 999
)

var searchOutcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "vendor_search_outcomes_total",
		Help: "Vendor searches by how they were answered",
	},
	[]string{"outcome"},
)

// VendorStore is the authoritative vendor store.
type VendorStore interface {
	Query(ctx context.Context, lat, lng, radiusKm float64, category models.Category) ([]models.VendorResult, error)
	SaveMany(ctx context.Context, vendors []*models.Vendor) error
	List(ctx context.Context, category models.Category, limit int) ([]models.Vendor, error)
}

// PlacesProvider searches the external places API for one vendor kind. It
// must not fail: provider trouble degrades to sample data internally.
type PlacesProvider interface {
	Search(ctx context.Context, lat, lng, radiusKm float64, kind models.Category) []models.VendorResult
}

type Service struct {
	store  VendorStore
	places PlacesProvider
	gate   *cache.Gate
	log    *zap.SugaredLogger
}

func NewService(store VendorStore, provider PlacesProvider, gate *cache.Gate, log *zap.SugaredLogger) *Service {
	return &Service{store: store, places: provider, gate: gate, log: log}
}

// Search runs one vendor search: cache check, local query, external query
// when local results are insufficient, then dedupe, sort, format, truncate
// and cache. Provider unreliability never surfaces as an error; only a
// failing local store does.
func (s *Service) Search(ctx context.Context, q models.SearchQuery) ([]models.VendorResult, error) {
	key := cache.Key(q.Latitude, q.Longitude, q.RadiusMeters, q.Category)

	if cached, ok := s.gate.Get(ctx, key); ok {
		s.log.Debugw("returning cached results", "key", key, "count", len(cached))
		searchOutcomes.WithLabelValues("cache_hit").Inc()
		return cached, nil
	}

	results, err := s.store.Query(ctx, q.Latitude, q.Longitude, q.RadiusKm(), q.Category)
	if err != nil {
		return nil, fmt.Errorf("local vendor query: %w", err)
	}

	outcome := "local_only"
	rateDenied := false
	if len(results) < localSufficiency {
		if s.gate.Allow(cache.OutscraperBucket) {
			outcome = "external"
			for _, kind := range q.Category.Kinds() {
				results = append(results, s.places.Search(ctx, q.Latitude, q.Longitude, q.RadiusKm(), kind)...)
			}
		} else {
			rateDenied = true
			s.log.Warnw("rate limit reached for external provider", "bucket", cache.OutscraperBucket)
			if len(results) == 0 {
				outcome = "rate_limited_samples"
				for _, kind := range q.Category.Kinds() {
					results = append(results, places.Samples(kind, q.Latitude, q.Longitude)...)
				}
			} else {
				outcome = "rate_limited_local"
			}
		}
	}
	searchOutcomes.WithLabelValues(outcome).Inc()

	final := finalize(results, q.Latitude, q.Longitude)

	// Results assembled under rate denial are a degraded answer; caching
	// them would pin the degradation for the full TTL.
	if !rateDenied {
		s.gate.Set(ctx, key, final, cache.ResultTTL)
	}
	return final, nil
}

// ErrInvalidVendor marks ingest payload validation failures so the handler
// can answer 400 instead of 500.
var ErrInvalidVendor = errors.New("invalid vendor")

// Ingest upserts vendor records into the authoritative store.
func (s *Service) Ingest(ctx context.Context, vendors []*models.Vendor) error {
	for _, v := range vendors {
		if !geo.ValidCoords(v.Latitude, v.Longitude) {
			return fmt.Errorf("%w: %q coordinates out of range", ErrInvalidVendor, v.Name)
		}
		if _, err := models.ParseCategory(string(v.Category)); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidVendor, v.Name, err)
		}
	}
	return s.store.SaveMany(ctx, vendors)
}

// List returns stored vendors for browsing.
func (s *Service) List(ctx context.Context, category models.Category, limit int) ([]models.Vendor, error) {
	return s.store.List(ctx, category, limit)
}

// finalize deduplicates, sorts by distance from the query center, attaches
// display distances and truncates to the result cap.
func finalize(results []models.VendorResult, lat, lng float64) []models.VendorResult {
	unique := deduplicate(results)

	for i := range unique {
		if geo.ValidCoords(unique[i].Latitude, unique[i].Longitude) {
			unique[i].DistanceKm = geo.DistanceKm(lat, lng, unique[i].Latitude, unique[i].Longitude)
		} else {
			unique[i].DistanceKm = unknownDistance
		}
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].DistanceKm < unique[j].DistanceKm
	})

	if len(unique) > maxResults {
		unique = unique[:maxResults]
	}
	for i := range unique {
		unique[i].Distance = FormatDistance(unique[i].DistanceKm)
	}
	return unique
}

// deduplicate drops later occurrences of the same vendor, identified by
// lowercased name plus coordinates rounded to 4 decimals. Insertion order is
// otherwise preserved.
func deduplicate(results []models.VendorResult) []models.VendorResult {
	seen := make(map[string]struct{}, len(results))
	unique := make([]models.VendorResult, 0, len(results))
	for _, r := range results {
		id := fmt.Sprintf("%s_%.4f_%.4f",
			strings.ToLower(strings.TrimSpace(r.Name)), r.Latitude, r.Longitude)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, r)
	}
	return unique
}

// FormatDistance renders a distance for display: whole meters (truncated)
// under 1km, otherwise kilometers with one decimal.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%dm", int(km*1000))
	}
	return fmt.Sprintf("%.1fkm", km)
}
