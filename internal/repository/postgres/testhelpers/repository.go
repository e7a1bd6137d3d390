package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/domain/repository"
	"github.com/tlms/telemetry/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewGpsPointRepositoryForTest creates a gps point repository with test database and logger
func NewGpsPointRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.GpsPointRepository {
	return postgres.NewGpsPointRepository(NewDBForTest(db, logger))
}
