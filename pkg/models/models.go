package models

import (
	"fmt"
	"time"

	dbtypes "github.com/vicesapp/vendor-service/internal/db"
)

// Category is the vendor category slug used in queries and storage.
type Category string

const (
	CategoryCannabis Category = "cannabis"
	CategoryAlcohol  Category = "alcohol"
	CategoryBoth     Category = "both"
)

// ParseCategory validates a client-supplied category parameter.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryCannabis, CategoryAlcohol, CategoryBoth:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Display returns the human-readable category label used in responses.
func (c Category) Display() string {
	switch c {
	case CategoryCannabis:
		return "Cannabis"
	case CategoryAlcohol:
		return "Alcohol"
	case CategoryBoth:
		return "Cannabis & Alcohol"
	}
	return string(c)
}

// Kinds expands a requested category into the concrete vendor kinds to
// search for. "both" fans out to cannabis and alcohol.
func (c Category) Kinds() []Category {
	if c == CategoryBoth {
		return []Category{CategoryCannabis, CategoryAlcohol}
	}
	return []Category{c}
}

// Source tags where a search result came from.
type Source string

const (
	SourceDatabase   Source = "database"
	SourceOutscraper Source = "outscraper"
	SourceSample     Source = "sample"
)

// Vendor is the authoritative vendor record persisted in Postgres.
type Vendor struct {
	ID          string   `db:"id" json:"id"`
	Name        string   `db:"name" json:"name"`
	Category    Category `db:"category" json:"category"`
	Description string   `db:"description" json:"description"`

	Phone   string `db:"phone" json:"phone"`
	Email   string `db:"email" json:"email"`
	Website string `db:"website" json:"website"`

	Address    string  `db:"address" json:"address"`
	City       string  `db:"city" json:"city"`
	Province   string  `db:"province" json:"province"`
	PostalCode string  `db:"postal_code" json:"postal_code"`
	Latitude   float64 `db:"latitude" json:"latitude"`
	Longitude  float64 `db:"longitude" json:"longitude"`

	Hours dbtypes.HoursMap `db:"hours" json:"hours"`

	Rating      float64 `db:"rating" json:"rating"`
	ReviewCount int     `db:"review_count" json:"review_count"`

	GooglePlaceID string `db:"google_place_id" json:"google_place_id"`

	IsActive   bool `db:"is_active" json:"is_active"`
	IsFeatured bool `db:"is_featured" json:"is_featured"`
	IsVerified bool `db:"is_verified" json:"is_verified"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// VendorResult is the uniform search result shape. All three producers
// (database, outscraper, sample) populate the same fields; a result lives
// only for the duration of a request, or inside a cache entry.
type VendorResult struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	FullAddress  string            `json:"full_address"`
	Phone        string            `json:"phone"`
	Rating       float64           `json:"rating"`
	Latitude     float64           `json:"latitude"`
	Longitude    float64           `json:"longitude"`
	Category     string            `json:"category"`
	Verified     bool              `json:"verified"`
	Source       Source            `json:"source"`
	Website      string            `json:"website"`
	GoogleID     string            `json:"google_id"`
	PlaceID      string            `json:"place_id"`
	Reviews      int               `json:"reviews"`
	Photo        string            `json:"photo"`
	WorkingHours map[string]string `json:"working_hours"`
	HoursSummary string            `json:"working_hours_old_format"`

	// DistanceKm is computed per request relative to the query center;
	// Distance is its display form ("450m", "2.3km"). Neither is persisted.
	DistanceKm float64 `json:"distance_km"`
	Distance   string  `json:"distance"`
}

// SearchQuery carries the parameters of one vendor search.
type SearchQuery struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters int
	Category     Category
}

// RadiusKm converts the request radius to kilometers.
func (q SearchQuery) RadiusKm() float64 {
	return float64(q.RadiusMeters) / 1000
}
