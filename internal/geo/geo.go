// Package geo holds the pure coordinate math used by vendor search.
package geo

import "math"

const earthRadiusKm = 6371.0

// kmPerDegree is the rough length of one degree of latitude.
const kmPerDegree = 111.0

// DistanceKm returns the great-circle distance between two points in
// kilometers (haversine).
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// BoundingBox returns the latitude and longitude half-deltas, in degrees, of
// a box enclosing a circle of radiusKm centered at the given latitude. The
// box is a cheap prefilter only; callers must re-check candidates with
// DistanceKm since the box is wider than the circle.
//
// wholeLng reports that the center is close enough to a pole that the
// longitude delta is meaningless; callers should then skip longitude
// filtering entirely instead of dividing by a near-zero cosine.
func BoundingBox(centerLat, radiusKm float64) (latDelta, lngDelta float64, wholeLng bool) {
	latDelta = radiusKm / kmPerDegree

	cosLat := math.Abs(math.Cos(centerLat * math.Pi / 180))
	if cosLat < 1e-6 {
		return latDelta, 180, true
	}
	lngDelta = radiusKm / (kmPerDegree * cosLat)
	return latDelta, lngDelta, false
}

// ValidCoords reports whether a latitude/longitude pair is inside the valid
// coordinate ranges.
func ValidCoords(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
