package trackfile

import (
	"encoding/json"
	"io"

	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/domain"
	apperrors "github.com/tlms/telemetry/internal/pkg/errors"
)

// legacyRecord is one entry of the JSON export written by the first tracking app.
type legacyRecord struct {
	// Time is milliseconds since epoch.
	Time     *int64          `json:"time"`
	Location *legacyLocation `json:"location"`
}

type legacyLocation struct {
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Altitude         *float64 `json:"altitude"`
	Accuracy         *float64 `json:"accuracy"`
	VerticalAccuracy *float64 `json:"verticalAccuracy"`
	Bearing          *float64 `json:"bearing"`
	Speed            *float64 `json:"speed"`
	ElapsedMs        *int64   `json:"elapsedMs"`
	Provider         string   `json:"provider"`
}

// ReadLegacyJSON parses the legacy array export. The whole array counts as one segment for
// the missing timestamp policy.
func (r *Reader) ReadLegacyJSON(in io.Reader) (*domain.Track, error) {
	var records []legacyRecord
	if err := json.NewDecoder(in).Decode(&records); err != nil {
		return nil, apperrors.ErrParse.Wrap(err)
	}

	track := domain.NewTrack()
	for i, rec := range records {
		if rec.Time == nil {
			if r.stopOnMissingTime() {
				r.logger.Debug("Record without time, ignoring remaining records",
					zap.Int("record", i),
					zap.Int("dropped", len(records)-i),
				)
				break
			}
			continue
		}
		if rec.Location == nil || rec.Location.Latitude == nil || rec.Location.Longitude == nil {
			return nil, errParse("record %d has no location", i)
		}

		loc := rec.Location
		if err := checkCoordinates(*loc.Latitude, *loc.Longitude); err != nil {
			return nil, err
		}

		track.Insert(domain.GpsSample{
			// time пишется в миллисекундах, ключ трека в секундах
			Timestamp:        *rec.Time / 1000,
			Lat:              *loc.Latitude,
			Lon:              *loc.Longitude,
			Elevation:        loc.Altitude,
			Accuracy:         loc.Accuracy,
			VerticalAccuracy: loc.VerticalAccuracy,
			Bearing:          loc.Bearing,
			Speed:            loc.Speed,
		})
	}

	return track, nil
}
