package places

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vicesapp/vendor-service/internal/geo"
	"github.com/vicesapp/vendor-service/pkg/models"
)

// parseResults turns an Outscraper payload into vendor results. The provider
// returns either {"data": [...]} or a bare array, and each element may be a
// single place object or a nested group of places. Entries without numeric
// in-range coordinates or a non-empty name are dropped silently.
func parseResults(body []byte, kind models.Category) ([]models.VendorResult, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("malformed payload: %w", err)
	}

	var groups []any
	switch v := payload.(type) {
	case map[string]any:
		groups, _ = v["data"].([]any)
	case []any:
		groups = v
	default:
		return nil, errors.New("malformed payload: unexpected top-level shape")
	}

	var out []models.VendorResult
	for _, g := range groups {
		entries, ok := g.([]any)
		if !ok {
			entries = []any{g}
		}
		for _, e := range entries {
			place, ok := e.(map[string]any)
			if !ok {
				continue
			}
			if r, ok := parsePlace(place, kind); ok {
				out = append(out, r)
			}
		}
	}
	return out, nil
}

func parsePlace(place map[string]any, kind models.Category) (models.VendorResult, bool) {
	lat, okLat := toFloat(firstOf(place, "latitude", "lat"))
	lng, okLng := toFloat(firstOf(place, "longitude", "lng"))
	name := strings.TrimSpace(toString(place["name"]))

	if !okLat || !okLng || name == "" || !geo.ValidCoords(lat, lng) {
		return models.VendorResult{}, false
	}

	rating, _ := toFloat(firstOf(place, "rating", "stars"))
	reviews := toInt(firstOf(place, "reviews_count", "reviews"))

	var hoursMap map[string]string
	var summary string
	switch h := firstOf(place, "hours", "working_hours").(type) {
	case map[string]any:
		hoursMap = make(map[string]string, len(h))
		for day, v := range h {
			if s, ok := v.(string); ok {
				hoursMap[day] = s
			}
		}
		summary = hoursMap["Monday"]
	case string:
		summary = h
	}

	placeID := toString(place["place_id"])
	id := placeID
	if id == "" {
		id = fmt.Sprintf("outscraper_%s_%s_%s",
			strings.ReplaceAll(strings.ToLower(name), " ", "_"),
			formatCoord(lat), formatCoord(lng))
	}

	return models.VendorResult{
		ID:           id,
		Name:         name,
		FullAddress:  toString(firstOf(place, "full_address", "address")),
		Phone:        NormalizePhone(toString(firstOf(place, "phone", "phone_number"))),
		Rating:       rating,
		Latitude:     lat,
		Longitude:    lng,
		Category:     kind.Display(),
		Verified:     false,
		Source:       models.SourceOutscraper,
		Website:      toString(place["website"]),
		GoogleID:     placeID,
		PlaceID:      placeID,
		Reviews:      reviews,
		Photo:        toString(firstOf(place, "photo", "image")),
		WorkingHours: hoursMap,
		HoursSummary: summary,
	}, true
}

// NormalizePhone rewrites bare 10-digit North American numbers to +1 form.
// Numbers already carrying a + prefix pass through unchanged.
func NormalizePhone(phone string) string {
	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	digits := strings.NewReplacer("(", "", ")", "", "-", "", " ", "").Replace(phone)
	if len(digits) == 10 {
		return "+1" + digits
	}
	return digits
}

func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toInt(v any) int {
	f, ok := toFloat(v)
	if !ok {
		return 0
	}
	return int(f)
}
