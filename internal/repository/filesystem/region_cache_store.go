package filesystem

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/domain"
	"github.com/tlms/telemetry/internal/domain/repository"
	apperrors "github.com/tlms/telemetry/internal/pkg/errors"
)

type regionCacheStore struct {
	fs     afero.Fs
	path   string
	logger *zap.Logger
}

// NewRegionCacheStore keeps the region catalogue in {dir}/region_cache.json.
func NewRegionCacheStore(fsys afero.Fs, dir string, logger *zap.Logger) repository.RegionCacheStore {
	return &regionCacheStore{
		fs:     fsys,
		path:   filepath.Join(dir, domain.RegionCacheFile),
		logger: logger,
	}
}

func (s *regionCacheStore) Read(ctx context.Context) (*domain.RegionCache, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.ErrCacheMiss.Wrap(err)
	}
	if err != nil {
		return nil, apperrors.ErrIO.Wrap(err)
	}

	var cache domain.RegionCache
	if err := json.Unmarshal(raw, &cache); err != nil {
		return nil, apperrors.ErrParse.Wrap(err)
	}
	if cache.Metadata == nil {
		cache.Metadata = make(map[int64]domain.Region)
	}
	return &cache, nil
}

func (s *regionCacheStore) Write(ctx context.Context, cache *domain.RegionCache) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(cache)
	if err != nil {
		return apperrors.ErrParse.Wrap(err)
	}
	if err := WriteFileAtomic(s.fs, s.path, raw); err != nil {
		return apperrors.ErrIO.Wrap(err)
	}

	s.logger.Debug("Region cache written", zap.String("path", s.path), zap.Int("regions", len(cache.Metadata)))
	return nil
}
