package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/tlms/telemetry/internal/domain"
	"github.com/tlms/telemetry/internal/domain/repository"
	"github.com/tlms/telemetry/internal/repository/postgres/testhelpers"
)

// GpsPointRepositoryTestSuite тестирует все методы GpsPointRepository
type GpsPointRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDB
	repo   repository.GpsPointRepository
	ctx    context.Context
	run    domain.TrekkieRun
}

// SetupSuite выполняется один раз перед всеми тестами
func (s *GpsPointRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDB(s.T())
	s.repo = testhelpers.NewGpsPointRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

// SetupTest выполняется перед каждым тестом
func (s *GpsPointRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.testDB.Cleanup(s.ctx))

	run, err := testhelpers.InsertTrekkieRun(s.ctx, s.testDB.DB, time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.run = run
}

func (s *GpsPointRepositoryTestSuite) track(n int) []domain.InsertGpsPoint {
	track := domain.NewTrack()
	base := s.run.StartTime.Unix()
	for i := 0; i < n; i++ {
		speed := float64(i)
		track.Insert(domain.GpsSample{
			Timestamp: base + int64(i),
			Lat:       51.05 + float64(i)*0.0001,
			Lon:       13.74,
			Speed:     &speed,
		})
	}

	rows := make([]domain.InsertGpsPoint, 0, n)
	for _, sample := range track.Samples() {
		rows = append(rows, sample.ToInsertRow(s.run.ID))
	}
	return rows
}

// ============================================================================
// InsertBatch / ListByRun Tests
// ============================================================================

func (s *GpsPointRepositoryTestSuite) TestInsertBatch_ListByRun() {
	// Act
	n, err := s.repo.InsertBatch(s.ctx, s.track(3))

	// Assert
	s.NoError(err)
	s.Equal(int64(3), n)

	points, err := s.repo.ListByRun(s.ctx, s.run.ID)
	s.NoError(err)
	s.Require().Len(points, 3)
	s.NotZero(points[0].ID)
	s.Equal(s.run.ID, points[0].TrekkieRun)
	s.Equal(s.run.StartTime.Unix(), points[0].Timestamp.Unix())
	s.InDelta(51.0502, points[2].Lat, 1e-9)
	s.Require().NotNil(points[2].Speed)
	s.Equal(2.0, *points[2].Speed)
	s.Nil(points[0].Elevation)
}

func (s *GpsPointRepositoryTestSuite) TestInsertBatch_SpansSeveralStatements() {
	n, err := s.repo.InsertBatch(s.ctx, s.track(2500))

	s.NoError(err)
	s.Equal(int64(2500), n)
}

func (s *GpsPointRepositoryTestSuite) TestInsertBatch_Empty() {
	n, err := s.repo.InsertBatch(s.ctx, nil)

	s.NoError(err)
	s.Zero(n)
}

func (s *GpsPointRepositoryTestSuite) TestInsertBatch_RollsBackOnError() {
	rows := s.track(2)
	rows[1].TrekkieRun = uuid.New() // violates the foreign key

	_, err := s.repo.InsertBatch(s.ctx, rows)
	s.Error(err)

	points, err := s.repo.ListByRun(s.ctx, s.run.ID)
	s.NoError(err)
	s.Empty(points)
}

func (s *GpsPointRepositoryTestSuite) TestListByRun_UnknownRun() {
	points, err := s.repo.ListByRun(s.ctx, uuid.New())

	s.NoError(err)
	s.Empty(points)
}

func (s *GpsPointRepositoryTestSuite) TestDeleteByRun() {
	_, err := s.repo.InsertBatch(s.ctx, s.track(4))
	s.Require().NoError(err)

	n, err := s.repo.DeleteByRun(s.ctx, s.run.ID)
	s.NoError(err)
	s.Equal(int64(4), n)
}

// TestGpsPointRepositoryTestSuite запускает все тесты
func TestGpsPointRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(GpsPointRepositoryTestSuite))
}
