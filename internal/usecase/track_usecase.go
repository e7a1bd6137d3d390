package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/domain"
	"github.com/tlms/telemetry/internal/domain/repository"
)

// ErrNoPointStore is returned by Flush when no database is configured.
var ErrNoPointStore = errors.New("gps point store not configured")

// TrackReader parses a track file.
type TrackReader interface {
	ReadFile(path string) (*domain.Track, error)
}

// TrackUseCase обрабатывает загрузку GPS треков
type TrackUseCase struct {
	reader TrackReader
	points repository.GpsPointRepository
	logger *zap.Logger
}

// NewTrackUseCase создает новый экземпляр TrackUseCase; points may be nil
func NewTrackUseCase(reader TrackReader, points repository.GpsPointRepository, logger *zap.Logger) *TrackUseCase {
	return &TrackUseCase{
		reader: reader,
		points: points,
		logger: logger,
	}
}

// Ingest reads the track file at path.
func (uc *TrackUseCase) Ingest(ctx context.Context, path string) (*domain.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	track, err := uc.reader.ReadFile(path)
	if err != nil {
		uc.logger.Error("Failed to ingest track", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("ingest %s: %w", path, err)
	}

	uc.logger.Info("Track ingested",
		zap.String("path", path),
		zap.Int("samples", track.Len()),
	)
	return track, nil
}

// IngestForRun reads the track and tags every sample with run.
func (uc *TrackUseCase) IngestForRun(ctx context.Context, path string, run uuid.UUID) (*domain.Track, error) {
	track, err := uc.Ingest(ctx, path)
	if err != nil {
		return nil, err
	}
	track.AssignRun(run)
	return track, nil
}

// Flush stores all samples of track as gps points of run.
func (uc *TrackUseCase) Flush(ctx context.Context, run uuid.UUID, track *domain.Track) (int64, error) {
	if uc.points == nil {
		return 0, ErrNoPointStore
	}

	samples := track.Samples()
	rows := make([]domain.InsertGpsPoint, 0, len(samples))
	for _, s := range samples {
		rows = append(rows, s.ToInsertRow(run))
	}

	n, err := uc.points.InsertBatch(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("flush track: %w", err)
	}

	uc.logger.Info("Track flushed",
		zap.String("trekkie_run", run.String()),
		zap.Int64("points", n),
	)
	return n, nil
}
