package testhelpers

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/tlms/telemetry/internal/config"
)

// TestDB is a connection to the integration test database with the schema applied.
type TestDB struct {
	DB     *sqlx.DB
	Logger *zap.Logger
}

// TestDatabaseConfig reads TEST_DB_* variables, falling back to a local docker database.
func TestDatabaseConfig() config.DatabaseConfig {
	port, err := strconv.Atoi(getEnv("TEST_DB_PORT", "5433"))
	if err != nil {
		port = 5433
	}
	return config.DatabaseConfig{
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     port,
		User:     getEnv("TEST_DB_USER", "postgres"),
		Password: getEnv("TEST_DB_PASSWORD", "postgres"),
		DBName:   getEnv("TEST_DB_NAME", "tlms_test"),
		SSLMode:  getEnv("TEST_DB_SSLMODE", "disable"),
	}
}

// SetupTestDB connects, applies Schema and closes the connection when t finishes.
// The test is skipped when no database is reachable.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	cfg := TestDatabaseConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN()+" connect_timeout=2")
	if err != nil {
		t.Skipf("PostgreSQL not available for integration tests: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := ApplySchema(ctx, db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	return &TestDB{
		DB:     db,
		Logger: zaptest.NewLogger(t),
	}
}

// Cleanup empties the telemetry tables between tests.
func (tdb *TestDB) Cleanup(ctx context.Context) error {
	_, err := tdb.DB.ExecContext(ctx, "TRUNCATE TABLE gps_points, trekkie_runs CASCADE")
	return err
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
