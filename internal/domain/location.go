package domain

import (
	"time"

	"github.com/tlms/telemetry/internal/pkg/utils"
)

// SchemaVersion is the only location document version this package reads and writes.
const SchemaVersion = "1"

// SaneInterpolationDistance is the default merge threshold in meters. Observations of one
// reporting point further apart than this are treated as conflicting, not refined.
const SaneInterpolationDistance = 50.0

// ReportLocation is the inferred position of one reporting point.
type ReportLocation struct {
	Lat        float64        `json:"lat"`
	Lon        float64        `json:"lon"`
	Properties map[string]any `json:"properties"`
}

// Epsg3857 is a pseudo-Mercator position in meters.
type Epsg3857 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ProjectToWebMercator computes the EPSG:3857 position and records x and y in Properties.
func (l *ReportLocation) ProjectToWebMercator() Epsg3857 {
	x, y := utils.WebMercator(l.Lat, l.Lon)
	if l.Properties == nil {
		l.Properties = make(map[string]any, 2)
	}
	l.Properties["x"] = x
	l.Properties["y"] = y
	return Epsg3857{X: x, Y: y}
}

// RegionReportLocations holds the locations of one region keyed by reporting point.
type RegionReportLocations map[int]ReportLocation

// RegionMetaInformation describes a region inside a location document.
type RegionMetaInformation struct {
	Frequency *uint64  `json:"frequency"`
	CityName  *string  `json:"city_name"`
	TypeR09   *R09Type `json:"type_r09"`
	Lat       *float64 `json:"lat"`
	Lon       *float64 `json:"lon"`
}

type DocumentMeta struct {
	SchemaVersion    string    `json:"schema_version"`
	Date             time.Time `json:"date"`
	Generator        *string   `json:"generator"`
	GeneratorVersion *string   `json:"generator_version"`
}

// LocationDataset is a snapshot of reporting point locations for all regions.
type LocationDataset struct {
	Document DocumentMeta                  `json:"document"`
	Data     map[int]RegionReportLocations `json:"data"`
	Meta     map[int]RegionMetaInformation `json:"meta"`
}

func NewLocationDataset(generator, version string) *LocationDataset {
	ds := &LocationDataset{
		Data: make(map[int]RegionReportLocations),
		Meta: make(map[int]RegionMetaInformation),
	}
	ds.Touch(generator, version, time.Now())
	return ds
}

// Touch regenerates the document metadata. Empty generator fields are written as null.
func (d *LocationDataset) Touch(generator, version string, now time.Time) {
	d.Document = DocumentMeta{
		SchemaVersion:    SchemaVersion,
		Date:             now.UTC(),
		Generator:        optional(generator),
		GeneratorVersion: optional(version),
	}
}

func (d *LocationDataset) Lookup(region, point int) (ReportLocation, bool) {
	locations, ok := d.Data[region]
	if !ok {
		return ReportLocation{}, false
	}
	loc, ok := locations[point]
	return loc, ok
}

// RegionCentroid averages all locations of region. ok is false when the region has none.
func (d *LocationDataset) RegionCentroid(region int) (lat, lon float64, ok bool) {
	locations := d.Data[region]
	if len(locations) == 0 {
		return 0, 0, false
	}
	for _, loc := range locations {
		lat += loc.Lat
		lon += loc.Lon
	}
	n := float64(len(locations))
	return lat / n, lon / n, true
}

// ProjectAll projects every location of the dataset to web mercator.
func (d *LocationDataset) ProjectAll() {
	for region, locations := range d.Data {
		for point, loc := range locations {
			loc.ProjectToWebMercator()
			locations[point] = loc
		}
		d.Data[region] = locations
	}
}

// MergeStatistics counts what a merge did with each incoming location.
type MergeStatistics struct {
	Created int `json:"created"`
	Refined int `json:"refined"`
	Skipped int `json:"skipped"`
}

func (s MergeStatistics) Total() int {
	return s.Created + s.Refined + s.Skipped
}

func (s MergeStatistics) Add(other MergeStatistics) MergeStatistics {
	return MergeStatistics{
		Created: s.Created + other.Created,
		Refined: s.Refined + other.Refined,
		Skipped: s.Skipped + other.Skipped,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
