package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tlms/telemetry/internal/pkg/validator"
)

// GpsSample is one observed position. Timestamp is seconds since epoch and doubles as the
// key inside a Track.
type GpsSample struct {
	Timestamp        int64         `json:"timestamp"`
	Lat              float64       `json:"lat" validate:"finite,gte=-90,lte=90"`
	Lon              float64       `json:"lon" validate:"finite,gte=-180,lte=180"`
	Elevation        *float64      `json:"elevation,omitempty" validate:"omitempty,finite"`
	Accuracy         *float64      `json:"accuracy,omitempty" validate:"omitempty,finite"`
	VerticalAccuracy *float64      `json:"vertical_accuracy,omitempty" validate:"omitempty,finite"`
	Bearing          *float64      `json:"bearing,omitempty" validate:"omitempty,finite"`
	Speed            *float64      `json:"speed,omitempty" validate:"omitempty,finite"`
	RunID            uuid.NullUUID `json:"trekkie_run"`
}

// Validate checks coordinate ranges and that every optional measurement is finite.
func (s GpsSample) Validate() error {
	return validator.Validate(s)
}

// Time returns the sample timestamp in UTC.
func (s GpsSample) Time() time.Time {
	return time.Unix(s.Timestamp, 0).UTC()
}

// ToInsertRow converts the sample into a gps_points row for run.
func (s GpsSample) ToInsertRow(run uuid.UUID) InsertGpsPoint {
	return InsertGpsPoint{
		TrekkieRun:       run,
		Timestamp:        s.Time(),
		Lat:              s.Lat,
		Lon:              s.Lon,
		Elevation:        s.Elevation,
		Accuracy:         s.Accuracy,
		VerticalAccuracy: s.VerticalAccuracy,
		Bearing:          s.Bearing,
		Speed:            s.Speed,
	}
}

// Track is a timestamp keyed collection of samples. A later insert under an existing
// timestamp replaces the earlier sample. Not safe for concurrent use.
type Track struct {
	samples map[int64]GpsSample
}

func NewTrack() *Track {
	return &Track{samples: make(map[int64]GpsSample)}
}

// Insert stores s under its timestamp and returns the sample it replaced, if any.
func (t *Track) Insert(s GpsSample) (GpsSample, bool) {
	prev, replaced := t.samples[s.Timestamp]
	t.samples[s.Timestamp] = s
	return prev, replaced
}

func (t *Track) Get(timestamp int64) (GpsSample, bool) {
	s, ok := t.samples[timestamp]
	return s, ok
}

func (t *Track) Len() int {
	return len(t.samples)
}

// Samples returns all samples ordered by timestamp.
func (t *Track) Samples() []GpsSample {
	out := make([]GpsSample, 0, len(t.samples))
	for _, s := range t.samples {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp < out[j].Timestamp
	})
	return out
}

// AssignRun tags every sample with the owning trekkie run.
func (t *Track) AssignRun(run uuid.UUID) {
	for ts, s := range t.samples {
		s.RunID = uuid.NullUUID{UUID: run, Valid: true}
		t.samples[ts] = s
	}
}

// GpsPoint is the gps_points row.
type GpsPoint struct {
	ID               int64     `json:"id" db:"id"`
	TrekkieRun       uuid.UUID `json:"trekkie_run" db:"trekkie_run"`
	Timestamp        time.Time `json:"timestamp" db:"timestamp"`
	Lat              float64   `json:"lat" db:"lat"`
	Lon              float64   `json:"lon" db:"lon"`
	Elevation        *float64  `json:"elevation" db:"elevation"`
	Accuracy         *float64  `json:"accuracy" db:"accuracy"`
	VerticalAccuracy *float64  `json:"vertical_accuracy" db:"vertical_accuracy"`
	Bearing          *float64  `json:"bearing" db:"bearing"`
	Speed            *float64  `json:"speed" db:"speed"`
}

// InsertGpsPoint leaves ID empty so postgres assigns it.
type InsertGpsPoint struct {
	ID               *int64    `json:"id" db:"id"`
	TrekkieRun       uuid.UUID `json:"trekkie_run" db:"trekkie_run"`
	Timestamp        time.Time `json:"timestamp" db:"timestamp"`
	Lat              float64   `json:"lat" db:"lat"`
	Lon              float64   `json:"lon" db:"lon"`
	Elevation        *float64  `json:"elevation" db:"elevation"`
	Accuracy         *float64  `json:"accuracy" db:"accuracy"`
	VerticalAccuracy *float64  `json:"vertical_accuracy" db:"vertical_accuracy"`
	Bearing          *float64  `json:"bearing" db:"bearing"`
	Speed            *float64  `json:"speed" db:"speed"`
}

func (p GpsPoint) ToInsert() InsertGpsPoint {
	id := p.ID
	return InsertGpsPoint{
		ID:               &id,
		TrekkieRun:       p.TrekkieRun,
		Timestamp:        p.Timestamp,
		Lat:              p.Lat,
		Lon:              p.Lon,
		Elevation:        p.Elevation,
		Accuracy:         p.Accuracy,
		VerticalAccuracy: p.VerticalAccuracy,
		Bearing:          p.Bearing,
		Speed:            p.Speed,
	}
}

// Sample converts a stored row back into a sample tagged with its run.
func (p GpsPoint) Sample() GpsSample {
	return GpsSample{
		Timestamp:        p.Timestamp.Unix(),
		Lat:              p.Lat,
		Lon:              p.Lon,
		Elevation:        p.Elevation,
		Accuracy:         p.Accuracy,
		VerticalAccuracy: p.VerticalAccuracy,
		Bearing:          p.Bearing,
		Speed:            p.Speed,
		RunID:            uuid.NullUUID{UUID: p.TrekkieRun, Valid: true},
	}
}
