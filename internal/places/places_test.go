package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"testing"

	"go.uber.org/zap"

	"github.com/vicesapp/vendor-service/pkg/models"
)

const (
	testLat = 51.0447
	testLng = -114.0719
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key", srv.URL, "CA", "en", srv.Client(), zap.NewNop().Sugar())
	return c, srv
}

func TestSearchParsesFlatPayload(t *testing.T) {
	var gotReq *http.Request
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": [
			{
				"place_id": "pid-1",
				"name": "  Budsmith YYC  ",
				"full_address": "100 4 Ave SW, Calgary, AB",
				"phone": "4035551234",
				"rating": "4.5",
				"reviews_count": "120",
				"latitude": 51.05,
				"longitude": -114.06,
				"website": "https://budsmith.ca",
				"working_hours": {"Monday": "9-5", "Tuesday": "9-5"}
			}
		]}`))
	})

	results := c.Search(context.Background(), testLat, testLng, 5, models.CategoryCannabis)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	r := results[0]
	if r.Name != "Budsmith YYC" {
		t.Errorf("name = %q, want trimmed %q", r.Name, "Budsmith YYC")
	}
	if r.Phone != "+14035551234" {
		t.Errorf("phone = %q, want normalized +14035551234", r.Phone)
	}
	if r.Rating != 4.5 {
		t.Errorf("rating = %v, want 4.5 coerced from string", r.Rating)
	}
	if r.Reviews != 120 {
		t.Errorf("reviews = %d, want 120", r.Reviews)
	}
	if r.Source != models.SourceOutscraper {
		t.Errorf("source = %q, want outscraper", r.Source)
	}
	if r.Category != "Cannabis" {
		t.Errorf("category = %q, want Cannabis", r.Category)
	}
	if r.WorkingHours["Tuesday"] != "9-5" {
		t.Errorf("working hours not preserved: %v", r.WorkingHours)
	}
	if r.GoogleID != "pid-1" || r.PlaceID != "pid-1" || r.ID != "pid-1" {
		t.Errorf("place id fields = %q/%q/%q, want pid-1", r.GoogleID, r.PlaceID, r.ID)
	}

	if gotReq.Header.Get("X-API-KEY") != "test-key" {
		t.Error("missing X-API-KEY header")
	}
	q := gotReq.URL.Query()
	if q.Get("limit") != strconv.Itoa(QueryLimit) {
		t.Errorf("limit param = %q, want %d", q.Get("limit"), QueryLimit)
	}
	if q.Get("region") != "CA" || q.Get("language") != "en" {
		t.Errorf("region/language params = %q/%q", q.Get("region"), q.Get("language"))
	}
	if q.Get("radius") != "5000" {
		t.Errorf("radius param = %q, want 5000", q.Get("radius"))
	}
}

func TestSearchParsesGroupedPayload(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[
			{"name": "A Liquor", "lat": 51.0, "lng": -114.0},
			{"name": "B Liquor", "lat": 51.1, "lng": -114.1}
		]]`))
	})

	results := c.Search(context.Background(), testLat, testLng, 5, models.CategoryAlcohol)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Name != "A Liquor" || results[1].Name != "B Liquor" {
		t.Errorf("unexpected names: %q, %q", results[0].Name, results[1].Name)
	}
	if results[0].Category != "Alcohol" {
		t.Errorf("category = %q, want Alcohol", results[0].Category)
	}
}

func TestSearchDropsInvalidEntries(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"name": "No Coords"},
			{"name": "Bad Lat", "latitude": 91.2, "longitude": -114.0},
			{"name": "", "latitude": 51.0, "longitude": -114.0},
			{"name": "String Coords", "latitude": "not-a-number", "longitude": -114.0},
			{"name": "Keeper", "latitude": 51.0, "longitude": -114.0}
		]}`))
	})

	results := c.Search(context.Background(), testLat, testLng, 5, models.CategoryCannabis)
	if len(results) != 1 || results[0].Name != "Keeper" {
		t.Fatalf("got %v, want only the Keeper entry", results)
	}
}

func TestSearchFallsBackWhenQueued(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	got := c.Search(context.Background(), testLat, testLng, 5, models.CategoryCannabis)
	want := Samples(models.CategoryCannabis, testLat, testLng)
	if !reflect.DeepEqual(got, want) {
		t.Error("202 response did not yield the sample dataset")
	}
}

func TestSearchFallsBackWhenThrottled(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	got := c.Search(context.Background(), testLat, testLng, 5, models.CategoryAlcohol)
	want := Samples(models.CategoryAlcohol, testLat, testLng)
	if !reflect.DeepEqual(got, want) {
		t.Error("429 response did not yield the sample dataset")
	}
}

func TestSearchFallsBackOnServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	got := c.Search(context.Background(), testLat, testLng, 5, models.CategoryCannabis)
	if len(got) == 0 || got[0].Source != models.SourceSample {
		t.Error("server error did not yield sample data")
	}
}

func TestSearchFallsBackOnMalformedPayload(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	got := c.Search(context.Background(), testLat, testLng, 5, models.CategoryCannabis)
	if len(got) == 0 || got[0].Source != models.SourceSample {
		t.Error("malformed payload did not yield sample data")
	}
}

func TestSearchWithoutAPIKeySkipsNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := NewClient("", srv.URL, "CA", "en", srv.Client(), zap.NewNop().Sugar())
	got := c.Search(context.Background(), testLat, testLng, 5, models.CategoryCannabis)

	if calls != 0 {
		t.Errorf("made %d network calls without a credential, want 0", calls)
	}
	want := Samples(models.CategoryCannabis, testLat, testLng)
	if !reflect.DeepEqual(got, want) {
		t.Error("missing credential did not yield the sample dataset")
	}
}

func TestSearchIssuesExactlyOneRequest(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"data": []}`))
	})

	c.Search(context.Background(), testLat, testLng, 5, models.CategoryCannabis)
	if calls != 1 {
		t.Errorf("made %d requests, want exactly 1", calls)
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct{ in, want string }{
		{"4035551234", "+14035551234"},
		{"+14035551234", "+14035551234"},
		{"(403) 555-1234", "+14035551234"},
		{"403-555-1234", "+14035551234"},
		{"555-1234", "5551234"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizePhone(c.in); got != c.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSamplesDeterministic(t *testing.T) {
	a := Samples(models.CategoryCannabis, testLat, testLng)
	b := Samples(models.CategoryCannabis, testLat, testLng)
	if !reflect.DeepEqual(a, b) {
		t.Error("sample dataset is not deterministic")
	}
	if a[0].Latitude != testLat+0.01 || a[0].Longitude != testLng+0.01 {
		t.Error("sample points not offset from the requested center")
	}
}
