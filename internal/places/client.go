// Package places adapts the Outscraper places-search API into vendor search
// results, degrading to a deterministic sample dataset whenever the provider
// cannot serve a synchronous answer.
package places

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/vicesapp/vendor-service/pkg/models"
)

const (
	// QueryLimit caps how many places a single provider query may return.
	QueryLimit = 15

	requestTimeout = 10 * time.Second

	defaultBaseURL = "https://api.outscraper.com/maps/search-v3"
)

// Client is the Outscraper API client. If httpClient is nil a default with
// the standard 10s timeout is used. An empty API key yields a client that
// always serves sample data.
type Client struct {
	apiKey   string
	baseURL  string
	region   string
	language string
	hc       *http.Client
	log      *zap.SugaredLogger
}

func NewClient(apiKey, baseURL, region, language string, httpClient *http.Client, log *zap.SugaredLogger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		region:   region,
		language: language,
		hc:       httpClient,
		log:      log,
	}
}

// Search looks up vendors of one kind near a point. It never fails: any
// provider problem (missing credential, non-success status, queued 202,
// throttled 429, network error, malformed payload) is logged and answered
// with the sample dataset for that kind instead.
func (c *Client) Search(ctx context.Context, lat, lng, radiusKm float64, kind models.Category) []models.VendorResult {
	if c.apiKey == "" {
		c.log.Warnw("outscraper api key not configured, using sample data", "kind", kind)
		return Samples(kind, lat, lng)
	}

	results, err := c.fetch(ctx, lat, lng, radiusKm, kind)
	if err != nil {
		c.log.Warnw("outscraper lookup degraded to sample data", "kind", kind, "err", err)
		return Samples(kind, lat, lng)
	}
	c.log.Infow("fetched vendors from outscraper", "kind", kind, "count", len(results))
	return results
}

// fetch issues exactly one provider query for the kind.
func (c *Client) fetch(ctx context.Context, lat, lng, radiusKm float64, kind models.Category) ([]models.VendorResult, error) {
	coords := formatCoord(lat) + "," + formatCoord(lng)

	params := url.Values{}
	params.Set("query", searchTerm(kind)+" near "+coords)
	params.Set("limit", strconv.Itoa(QueryLimit))
	params.Set("language", c.language)
	params.Set("region", c.region)
	params.Set("coordinates", coords)
	params.Set("radius", strconv.Itoa(int(radiusKm*1000)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return parseResults(body, kind)
	case http.StatusAccepted:
		// 202 means the provider queued the job; useless for a
		// synchronous search.
		return nil, errors.New("request queued (202)")
	case http.StatusTooManyRequests:
		return nil, errors.New("provider rate limited (429)")
	default:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
}

func searchTerm(kind models.Category) string {
	if kind == models.CategoryAlcohol {
		return "liquor store"
	}
	return "cannabis dispensary"
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
