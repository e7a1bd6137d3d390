package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/config"
	"github.com/tlms/telemetry/internal/domain/repository"
	"github.com/tlms/telemetry/internal/infrastructure/datacare"
	"github.com/tlms/telemetry/internal/infrastructure/trackfile"
	"github.com/tlms/telemetry/internal/pkg/logger"
	"github.com/tlms/telemetry/internal/repository/cache"
	"github.com/tlms/telemetry/internal/repository/filesystem"
	"github.com/tlms/telemetry/internal/repository/postgres"
	"github.com/tlms/telemetry/internal/usecase"
)

func main() {
	// 1. Load configuration
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = ".env"
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log, cfg.Service)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting location processing",
		zap.String("locations_file", cfg.Locations.File),
		zap.String("incoming_file", cfg.Locations.IncomingFile),
		zap.String("track_file", cfg.Track.File),
		zap.String("distance_formula", cfg.Locations.DistanceFormula),
		zap.String("region_cache_backend", cfg.RegionCache.Backend))

	// 3. Cancel on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	osFs := afero.NewOsFs()

	// 4. Region metadata cache
	var regionStore repository.RegionCacheStore
	if cfg.RegionCache.Backend == config.RegionCacheBackendRedis {
		redisClient, err := cache.NewRedis(ctx, &cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
		regionStore = cache.NewRegionCacheStore(cache.NewCacheRepository(redisClient, cfg.Service+":"), log)
	} else {
		regionStore = filesystem.NewRegionCacheStore(osFs, cfg.RegionCache.Dir, log)
	}

	regionCacheUC := usecase.NewRegionCacheUseCase(
		datacare.NewClient(&cfg.Datacare, log),
		regionStore,
		cfg.RegionCache.Expiration,
		log,
	)

	// 5. Merge incoming locations
	if cfg.Locations.File != "" && cfg.Locations.IncomingFile != "" {
		locationUC := usecase.NewLocationUseCase(
			filesystem.NewDatasetRepository(osFs, log),
			usecase.NewLocationMerger(
				usecase.DistanceFuncFor(cfg.Locations.DistanceFormula),
				cfg.Locations.SanityDistance,
				log,
			),
			regionCacheUC,
			usecase.LocationOptions{
				ProjectOnSave:    cfg.Locations.ProjectOnSave,
				Generator:        cfg.Locations.Generator,
				GeneratorVersion: cfg.Locations.GeneratorVersion,
			},
			log,
		)

		if _, err := locationUC.MergeFiles(ctx, cfg.Locations.File, cfg.Locations.IncomingFile); err != nil {
			log.Fatal("Failed to merge locations", zap.Error(err))
		}
	}

	// 6. Ingest track
	if cfg.Track.File != "" {
		var points repository.GpsPointRepository
		if cfg.Database.Enabled() {
			db, err := postgres.New(ctx, &cfg.Database, log)
			if err != nil {
				log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
			}
			defer func() {
				if err := db.Close(); err != nil {
					log.Error("Failed to close PostgreSQL connection", zap.Error(err))
				}
			}()
			points = postgres.NewGpsPointRepository(db)
		}

		trackUC := usecase.NewTrackUseCase(
			trackfile.NewReader(cfg.Track.MissingTimestampPolicy, log),
			points,
			log,
		)

		if cfg.Track.RunID == "" {
			if _, err := trackUC.Ingest(ctx, cfg.Track.File); err != nil {
				log.Fatal("Failed to ingest track", zap.Error(err))
			}
		} else {
			run := uuid.MustParse(cfg.Track.RunID)
			track, err := trackUC.IngestForRun(ctx, cfg.Track.File, run)
			if err != nil {
				log.Fatal("Failed to ingest track", zap.Error(err))
			}
			if points != nil {
				if _, err := trackUC.Flush(ctx, run, track); err != nil {
					log.Fatal("Failed to store track", zap.Error(err))
				}
			} else {
				log.Warn("Database not configured, track not stored", zap.String("trekkie_run", run.String()))
			}
		}
	}

	log.Info("Location processing complete")
}
