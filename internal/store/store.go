package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	dbtypes "github.com/vicesapp/vendor-service/internal/db"
	"github.com/vicesapp/vendor-service/internal/geo"
	"github.com/vicesapp/vendor-service/pkg/models"
)

type PgStore struct {
	db *sqlx.DB
}

func NewPgStore(db *sql.DB) *PgStore {
	return &PgStore{db: sqlx.NewDb(db, "postgres")}
}

func RunMigrations(db *sql.DB) error {
	initSQL := `
CREATE TABLE IF NOT EXISTS vendors(
  id UUID PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  description TEXT DEFAULT '',
  phone TEXT DEFAULT '',
  email TEXT DEFAULT '',
  website TEXT DEFAULT '',
  address TEXT DEFAULT '',
  city TEXT DEFAULT '',
  province TEXT DEFAULT '',
  postal_code TEXT DEFAULT '',
  latitude DOUBLE PRECISION NOT NULL,
  longitude DOUBLE PRECISION NOT NULL,
  hours JSONB DEFAULT '{}',
  rating DOUBLE PRECISION DEFAULT 0,
  review_count INTEGER DEFAULT 0,
  google_place_id TEXT DEFAULT '',
  is_active BOOLEAN DEFAULT TRUE,
  is_featured BOOLEAN DEFAULT FALSE,
  is_verified BOOLEAN DEFAULT FALSE,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vendors_coords ON vendors(latitude, longitude);
CREATE INDEX IF NOT EXISTS idx_vendors_category_active ON vendors(category, is_active);
CREATE INDEX IF NOT EXISTS idx_vendors_featured_rating ON vendors(is_featured, rating);
CREATE INDEX IF NOT EXISTS idx_vendors_google_place ON vendors(google_place_id);
`
	_, err := db.Exec(initSQL)
	return err
}

const vendorColumns = `id, name, category, description, phone, email, website,
address, city, province, postal_code, latitude, longitude, hours, rating,
review_count, google_place_id, is_active, is_featured, is_verified,
created_at, updated_at`

// Query finds active vendors within radiusKm of the center. Rows are
// prefiltered in SQL by the bounding box around the center and then
// exact-filtered by great-circle distance; the returned results are unordered
// and carry source=database with distance_km populated.
func (p *PgStore) Query(ctx context.Context, lat, lng, radiusKm float64, category models.Category) ([]models.VendorResult, error) {
	latDelta, lngDelta, wholeLng := geo.BoundingBox(lat, radiusKm)

	query := `SELECT ` + vendorColumns + ` FROM vendors
WHERE is_active = TRUE AND latitude BETWEEN $1 AND $2`
	args := []interface{}{lat - latDelta, lat + latDelta}

	if !wholeLng {
		query += fmt.Sprintf(" AND longitude BETWEEN $%d AND $%d", len(args)+1, len(args)+2)
		args = append(args, lng-lngDelta, lng+lngDelta)
	}
	if category != models.CategoryBoth {
		query += fmt.Sprintf(" AND category = $%d", len(args)+1)
		args = append(args, category)
	}

	rows := []models.Vendor{}
	if err := p.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select vendors: %w", err)
	}

	results := []models.VendorResult{}
	for _, v := range rows {
		dist := geo.DistanceKm(lat, lng, v.Latitude, v.Longitude)
		if dist <= radiusKm {
			results = append(results, resultFromVendor(v, dist))
		}
	}
	return results, nil
}

// resultFromVendor maps a stored vendor row into the common result shape.
func resultFromVendor(v models.Vendor, distKm float64) models.VendorResult {
	return models.VendorResult{
		ID:           v.ID,
		Name:         v.Name,
		FullAddress:  v.Address,
		Phone:        v.Phone,
		Rating:       v.Rating,
		Latitude:     v.Latitude,
		Longitude:    v.Longitude,
		Category:     v.Category.Display(),
		Verified:     v.IsVerified,
		Source:       models.SourceDatabase,
		Website:      v.Website,
		GoogleID:     v.GooglePlaceID,
		PlaceID:      v.GooglePlaceID,
		Reviews:      v.ReviewCount,
		WorkingHours: map[string]string(v.Hours),
		HoursSummary: v.Hours["Monday"],
		DistanceKm:   distKm,
	}
}

// SaveMany upserts vendor records, assigning UUIDs to records without one.
func (p *PgStore) SaveMany(ctx context.Context, vendors []*models.Vendor) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	stmt := `
INSERT INTO vendors (` + vendorColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14::jsonb,$15,$16,$17,$18,$19,$20,$21,$22)
ON CONFLICT (id) DO UPDATE SET
 name=EXCLUDED.name,
 category=EXCLUDED.category,
 description=EXCLUDED.description,
 phone=EXCLUDED.phone,
 email=EXCLUDED.email,
 website=EXCLUDED.website,
 address=EXCLUDED.address,
 city=EXCLUDED.city,
 province=EXCLUDED.province,
 postal_code=EXCLUDED.postal_code,
 latitude=EXCLUDED.latitude,
 longitude=EXCLUDED.longitude,
 hours=EXCLUDED.hours,
 rating=EXCLUDED.rating,
 review_count=EXCLUDED.review_count,
 google_place_id=EXCLUDED.google_place_id,
 is_active=EXCLUDED.is_active,
 is_featured=EXCLUDED.is_featured,
 is_verified=EXCLUDED.is_verified,
 updated_at=EXCLUDED.updated_at;
`

	now := time.Now().UTC()
	for _, v := range vendors {
		if v.ID == "" {
			v.ID = uuid.New().String()
		}
		if v.Hours == nil {
			v.Hours = dbtypes.HoursMap{}
		}
		if v.CreatedAt.IsZero() {
			v.CreatedAt = now
		}
		v.UpdatedAt = now

		_, err := tx.ExecContext(ctx, stmt,
			v.ID,
			v.Name,
			v.Category,
			v.Description,
			v.Phone,
			v.Email,
			v.Website,
			v.Address,
			v.City,
			v.Province,
			v.PostalCode,
			v.Latitude,
			v.Longitude,
			v.Hours, // dbtypes.HoursMap -> Value() -> JSON string
			v.Rating,
			v.ReviewCount,
			v.GooglePlaceID,
			v.IsActive,
			v.IsFeatured,
			v.IsVerified,
			v.CreatedAt,
			v.UpdatedAt,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert vendor id=%s: %w", v.ID, err)
		}
	}

	return tx.Commit()
}

// List returns active vendors, optionally filtered by category, featured and
// best-rated first.
func (p *PgStore) List(ctx context.Context, category models.Category, limit int) ([]models.Vendor, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows := []models.Vendor{}
	if category == models.CategoryBoth || category == "" {
		query := `SELECT ` + vendorColumns + ` FROM vendors
WHERE is_active = TRUE
ORDER BY is_featured DESC, rating DESC, name
LIMIT $1`
		err := p.db.SelectContext(ctx, &rows, query, limit)
		return rows, err
	}

	query := `SELECT ` + vendorColumns + ` FROM vendors
WHERE is_active = TRUE AND category = $1
ORDER BY is_featured DESC, rating DESC, name
LIMIT $2`
	err := p.db.SelectContext(ctx, &rows, query, category, limit)
	return rows, err
}
