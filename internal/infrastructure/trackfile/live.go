package trackfile

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/tlms/telemetry/internal/domain"
	apperrors "github.com/tlms/telemetry/internal/pkg/errors"
)

// liveSample is a single position pushed by the tracking app while a run is in progress.
type liveSample struct {
	Timestamp        string    `json:"timestamp"`
	Lat              *float64  `json:"lat"`
	Lon              *float64  `json:"lon"`
	Elevation        *float64  `json:"elevation"`
	Accuracy         *float64  `json:"accuracy"`
	VerticalAccuracy *float64  `json:"vertical_accuracy"`
	Bearing          *float64  `json:"bearing"`
	Speed            *float64  `json:"speed"`
	TrekkieRun       uuid.UUID `json:"trekkie_run"`
}

// DecodeLiveSample decodes and validates one live submission.
func DecodeLiveSample(data []byte) (domain.GpsSample, error) {
	var in liveSample
	if err := json.Unmarshal(data, &in); err != nil {
		return domain.GpsSample{}, apperrors.ErrParse.Wrap(err)
	}
	if in.Lat == nil || in.Lon == nil {
		return domain.GpsSample{}, errParse("live sample without coordinates")
	}
	if in.TrekkieRun == uuid.Nil {
		return domain.GpsSample{}, errParse("live sample without trekkie run")
	}

	ts, err := parseTimestamp(in.Timestamp)
	if err != nil {
		return domain.GpsSample{}, err
	}

	sample := domain.GpsSample{
		Timestamp:        ts.Unix(),
		Lat:              *in.Lat,
		Lon:              *in.Lon,
		Elevation:        in.Elevation,
		Accuracy:         in.Accuracy,
		VerticalAccuracy: in.VerticalAccuracy,
		Bearing:          in.Bearing,
		Speed:            in.Speed,
		RunID:            uuid.NullUUID{UUID: in.TrekkieRun, Valid: true},
	}
	if err := sample.Validate(); err != nil {
		return domain.GpsSample{}, apperrors.ErrParse.Wrap(apperrors.ErrInvalidCoordinates.Wrap(err))
	}
	return sample, nil
}
