package domain

import "time"

const (
	// RegionCacheExpiration is how long a cached region catalogue counts as fresh.
	RegionCacheExpiration = 24 * time.Hour
	// RegionCacheFile is the cache file name inside the cache directory.
	RegionCacheFile = "region_cache.json"
)

// Region is the metadata of one transit region as served by the region catalogue.
type Region struct {
	ID               int64    `json:"id" db:"id"`
	Name             string   `json:"name" db:"name"`
	TransportCompany string   `json:"transport_company" db:"transport_company"`
	RegionalCompany  *string  `json:"regional_company" db:"regional_company"`
	Frequency        *int64   `json:"frequency" db:"frequency"`
	R09Type          *R09Type `json:"r09_type" db:"r09_type"`
	Encoding         *int32   `json:"encoding" db:"encoding"`
	Deactivated      bool     `json:"deactivated" db:"deactivated"`
}

// InsertRegion leaves ID empty so postgres assigns it.
type InsertRegion struct {
	ID               *int64   `json:"id" db:"id"`
	Name             string   `json:"name" db:"name"`
	TransportCompany string   `json:"transport_company" db:"transport_company"`
	RegionalCompany  *string  `json:"regional_company" db:"regional_company"`
	Frequency        *int64   `json:"frequency" db:"frequency"`
	R09Type          *R09Type `json:"r09_type" db:"r09_type"`
	Encoding         *int32   `json:"encoding" db:"encoding"`
	Deactivated      bool     `json:"deactivated" db:"deactivated"`
}

// MetaInformation converts the region into the metadata block of a location document.
// centroid may be nil when the region has no known locations yet.
func (r Region) MetaInformation(centroid *Epsg4326) RegionMetaInformation {
	name := r.Name
	meta := RegionMetaInformation{
		CityName: &name,
		TypeR09:  r.R09Type,
	}
	if r.Frequency != nil && *r.Frequency >= 0 {
		f := uint64(*r.Frequency)
		meta.Frequency = &f
	}
	if centroid != nil {
		lat, lon := centroid.Lat, centroid.Lon
		meta.Lat = &lat
		meta.Lon = &lon
	}
	return meta
}

// Epsg4326 is a plain WGS84 position in degrees.
type Epsg4326 struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RegionCache is the timestamped copy of the region catalogue kept on disk or in redis.
type RegionCache struct {
	Metadata map[int64]Region `json:"metadata"`
	Modified time.Time        `json:"modified"`
}

// IsFresh reports whether the cache is younger than expiration at now.
func (c *RegionCache) IsFresh(now time.Time, expiration time.Duration) bool {
	return now.Sub(c.Modified) < expiration
}
