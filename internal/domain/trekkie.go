package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrekkieRun is one recorded ride on a vehicle. gps_points reference it.
type TrekkieRun struct {
	ID         uuid.UUID `json:"id" db:"id"`
	StartTime  time.Time `json:"start_time" db:"start_time"`
	EndTime    time.Time `json:"end_time" db:"end_time"`
	Line       int32     `json:"line" db:"line"`
	Run        int32     `json:"run" db:"run"`
	Region     int64     `json:"region" db:"region"`
	Owner      uuid.UUID `json:"owner" db:"owner"`
	Finished   bool      `json:"finished" db:"finished"`
	Correlated bool      `json:"correlated" db:"correlated"`
}

