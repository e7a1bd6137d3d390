package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/domain"
	apperrors "github.com/tlms/telemetry/internal/pkg/errors"
	"github.com/tlms/telemetry/internal/usecase"
)

// MockRegionCatalogue is a mock of RegionCatalogue
type MockRegionCatalogue struct {
	mock.Mock
}

func (m *MockRegionCatalogue) FetchRegions(ctx context.Context) (map[int64]domain.Region, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.Region), args.Error(1)
}

// MockRegionCacheStore is a mock of RegionCacheStore
type MockRegionCacheStore struct {
	mock.Mock
}

func (m *MockRegionCacheStore) Read(ctx context.Context) (*domain.RegionCache, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegionCache), args.Error(1)
}

func (m *MockRegionCacheStore) Write(ctx context.Context, cache *domain.RegionCache) error {
	args := m.Called(ctx, cache)
	return args.Error(0)
}

var catalogue = map[int64]domain.Region{
	0: {ID: 0, Name: "Dresden", TransportCompany: "DVB"},
	1: {ID: 1, Name: "Chemnitz", TransportCompany: "CVAG"},
}

func cacheAged(age time.Duration) *domain.RegionCache {
	return &domain.RegionCache{
		Metadata: map[int64]domain.Region{0: {ID: 0, Name: "Dresden (cached)"}},
		Modified: time.Now().Add(-age),
	}
}

func newRegionCache(cat *MockRegionCatalogue, store *MockRegionCacheStore) *usecase.RegionCacheUseCase {
	return usecase.NewRegionCacheUseCase(cat, store, domain.RegionCacheExpiration, zap.NewNop())
}

func TestRegionCacheUseCase_Load_Fresh(t *testing.T) {
	cat, store := new(MockRegionCatalogue), new(MockRegionCacheStore)
	stored := cacheAged(time.Hour)
	store.On("Read", mock.Anything).Return(stored, nil)

	got, err := newRegionCache(cat, store).Load(context.Background())

	require.NoError(t, err)
	assert.Same(t, stored, got)
	cat.AssertNotCalled(t, "FetchRegions", mock.Anything)
}

func TestRegionCacheUseCase_Load_StaleRefreshed(t *testing.T) {
	cat, store := new(MockRegionCatalogue), new(MockRegionCacheStore)
	store.On("Read", mock.Anything).Return(cacheAged(25*time.Hour), nil)
	cat.On("FetchRegions", mock.Anything).Return(catalogue, nil)
	store.On("Write", mock.Anything, mock.MatchedBy(func(c *domain.RegionCache) bool {
		return len(c.Metadata) == 2 && time.Since(c.Modified) < time.Minute
	})).Return(nil)

	got, err := newRegionCache(cat, store).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Dresden", got.Metadata[0].Name)
	store.AssertExpectations(t)
}

func TestRegionCacheUseCase_Load_StaleFallback(t *testing.T) {
	cat, store := new(MockRegionCatalogue), new(MockRegionCacheStore)
	stale := cacheAged(48 * time.Hour)
	store.On("Read", mock.Anything).Return(stale, nil)
	cat.On("FetchRegions", mock.Anything).Return(nil, apperrors.ErrRemoteFetch)

	got, err := newRegionCache(cat, store).Load(context.Background())

	require.NoError(t, err)
	assert.Same(t, stale, got)
	store.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

func TestRegionCacheUseCase_Load_MissingPropagatesFetchError(t *testing.T) {
	cat, store := new(MockRegionCatalogue), new(MockRegionCacheStore)
	store.On("Read", mock.Anything).Return(nil, apperrors.ErrCacheMiss)
	cat.On("FetchRegions", mock.Anything).Return(nil, apperrors.ErrRemoteFetch.Wrap(errors.New("connection refused")))

	_, err := newRegionCache(cat, store).Load(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrRemoteFetch)
}

func TestRegionCacheUseCase_Refresh_WriteFailureIsLogged(t *testing.T) {
	cat, store := new(MockRegionCatalogue), new(MockRegionCacheStore)
	cat.On("FetchRegions", mock.Anything).Return(catalogue, nil)
	store.On("Write", mock.Anything, mock.Anything).Return(apperrors.ErrIO)

	got, err := newRegionCache(cat, store).Refresh(context.Background())

	require.NoError(t, err)
	assert.Len(t, got.Metadata, 2)
}

func TestRegionCacheUseCase_GetRegionMetadata(t *testing.T) {
	cat, store := new(MockRegionCatalogue), new(MockRegionCacheStore)
	store.On("Read", mock.Anything).Return(nil, apperrors.ErrCacheMiss).Once()
	cat.On("FetchRegions", mock.Anything).Return(catalogue, nil).Once()
	store.On("Write", mock.Anything, mock.Anything).Return(nil).Once()

	uc := newRegionCache(cat, store)
	ctx := context.Background()

	region, err := uc.GetRegionMetadata(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Chemnitz", region.Name)

	region, err = uc.GetRegionMetadata(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "Dresden", region.Name)

	_, err = uc.GetRegionMetadata(ctx, 99)
	assert.ErrorIs(t, err, apperrors.ErrRegionNotFound)

	cat.AssertNumberOfCalls(t, "FetchRegions", 1)
	store.AssertNumberOfCalls(t, "Read", 1)
}

func TestRegionCacheUseCase_GetRegionMetadata_Unavailable(t *testing.T) {
	cat, store := new(MockRegionCatalogue), new(MockRegionCacheStore)
	store.On("Read", mock.Anything).Return(nil, apperrors.ErrCacheMiss)
	cat.On("FetchRegions", mock.Anything).Return(nil, apperrors.ErrRemoteFetch)

	_, err := newRegionCache(cat, store).GetRegionMetadata(context.Background(), 0)

	assert.ErrorIs(t, err, apperrors.ErrRemoteFetch)
}
