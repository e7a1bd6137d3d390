package domain

import (
	"errors"
	"time"
)

var (
	ErrIntervalStartMissing = errors.New("measurement interval has no start")
	ErrIntervalStopMissing  = errors.New("measurement interval has no stop")
	ErrIntervalLineMissing  = errors.New("measurement interval has no line")
	ErrIntervalRunMissing   = errors.New("measurement interval has no run")
)

// MeasurementInterval is a recording window while it is still being filled in.
type MeasurementInterval struct {
	Start *time.Time `json:"start"`
	Stop  *time.Time `json:"stop"`
	Line  *int32     `json:"line"`
	Run   *int32     `json:"run"`
}

// Finish converts the interval once every field is set.
func (m MeasurementInterval) Finish() (FinishedMeasurementInterval, error) {
	switch {
	case m.Start == nil:
		return FinishedMeasurementInterval{}, ErrIntervalStartMissing
	case m.Stop == nil:
		return FinishedMeasurementInterval{}, ErrIntervalStopMissing
	case m.Line == nil:
		return FinishedMeasurementInterval{}, ErrIntervalLineMissing
	case m.Run == nil:
		return FinishedMeasurementInterval{}, ErrIntervalRunMissing
	}
	return FinishedMeasurementInterval{
		Start: *m.Start,
		Stop:  *m.Stop,
		Line:  *m.Line,
		Run:   *m.Run,
	}, nil
}

// FinishedMeasurementInterval is the window and vehicle during which data was recorded.
type FinishedMeasurementInterval struct {
	Start time.Time `json:"start"`
	Stop  time.Time `json:"stop"`
	Line  int32     `json:"line"`
	Run   int32     `json:"run"`
}

// Fits reports whether t was received strictly inside the window from the same vehicle.
// Telegrams without line or run never fit.
func (f FinishedMeasurementInterval) Fits(t R09SaveTelegram) bool {
	if t.Line == nil || t.RunNumber == nil {
		return false
	}
	return f.Start.Before(t.Time) &&
		t.Time.Before(f.Stop) &&
		*t.Line == f.Line &&
		*t.RunNumber == f.Run
}
