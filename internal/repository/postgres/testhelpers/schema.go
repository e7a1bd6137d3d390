package testhelpers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tlms/telemetry/internal/domain"
)

// Schema mirrors the production tables that the repositories touch.
const Schema = `
CREATE TABLE IF NOT EXISTS trekkie_runs (
	id UUID PRIMARY KEY,
	start_time TIMESTAMP NOT NULL,
	end_time TIMESTAMP NOT NULL,
	line INT NOT NULL,
	run INT NOT NULL,
	region BIGINT NOT NULL,
	owner UUID NOT NULL,
	finished BOOLEAN NOT NULL,
	correlated BOOLEAN NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS gps_points (
	id BIGSERIAL PRIMARY KEY,
	trekkie_run UUID NOT NULL REFERENCES trekkie_runs(id) ON DELETE CASCADE,
	timestamp TIMESTAMP NOT NULL,
	lat DOUBLE PRECISION NOT NULL,
	lon DOUBLE PRECISION NOT NULL,
	elevation DOUBLE PRECISION,
	accuracy DOUBLE PRECISION,
	vertical_accuracy DOUBLE PRECISION,
	bearing DOUBLE PRECISION,
	speed DOUBLE PRECISION
);
`

// ApplySchema creates the tables if they do not exist yet
func ApplySchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// InsertTrekkieRun stores a finished run starting at start and returns it
func InsertTrekkieRun(ctx context.Context, db *sqlx.DB, start time.Time) (domain.TrekkieRun, error) {
	run := domain.TrekkieRun{
		ID:        uuid.New(),
		StartTime: start.UTC(),
		EndTime:   start.Add(time.Hour).UTC(),
		Line:      11,
		Run:       7,
		Region:    0,
		Owner:     uuid.New(),
		Finished:  true,
	}

	_, err := db.NamedExecContext(ctx, `
		INSERT INTO trekkie_runs (id, start_time, end_time, line, run, region, owner, finished, correlated)
		VALUES (:id, :start_time, :end_time, :line, :run, :region, :owner, :finished, :correlated)
	`, run)
	if err != nil {
		return domain.TrekkieRun{}, fmt.Errorf("insert trekkie run: %w", err)
	}
	return run, nil
}
