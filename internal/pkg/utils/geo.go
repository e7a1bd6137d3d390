package utils

import "math"

const (
	// EarthMeanRadiusM is the mean earth radius used for great-circle distances.
	EarthMeanRadiusM = 6371000.0
	// WebMercatorRadiusM is the WGS84 equatorial radius used by EPSG:3857.
	WebMercatorRadiusM = 6378137.0
)

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// HaversineMeters returns the great-circle distance between two points in meters.
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthMeanRadiusM * c
}

// LegacyHaversineMeters reproduces the distance used by the historical location merger:
// the second haversine term reuses the latitude delta instead of the longitude delta.
// Longitude drift is ignored and latitude drift is over-weighted by roughly
// sqrt(1 + cos φ1·cos φ2), about 18% at 51°N.
func LegacyHaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLat/2)*math.Sin(dLat/2)*math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))
	if a > 1 {
		a = 1
	}
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthMeanRadiusM * c
}

// WebMercator projects WGS84 degrees to pseudo-Mercator (EPSG:3857) meters.
func WebMercator(lat, lon float64) (x, y float64) {
	x = WebMercatorRadiusM * toRadians(lon)
	y = WebMercatorRadiusM * math.Log(math.Tan(math.Pi/4+toRadians(lat)/2))
	return x, y
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
