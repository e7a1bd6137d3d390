package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/config"
	"github.com/tlms/telemetry/internal/domain"
	"github.com/tlms/telemetry/internal/usecase"
)

func datasetWith(region, point int, lat, lon float64) *domain.LocationDataset {
	ds := domain.NewLocationDataset("test", "")
	ds.Data[region] = domain.RegionReportLocations{
		point: {Lat: lat, Lon: lon, Properties: map[string]any{"source": "test"}},
	}
	return ds
}

func newMerger(formula string) *usecase.LocationMerger {
	return usecase.NewLocationMerger(usecase.DistanceFuncFor(formula), 0, zap.NewNop())
}

func TestLocationMerger_CreatesMissingRegionAndPoint(t *testing.T) {
	base := domain.NewLocationDataset("test", "")
	incoming := datasetWith(0, 4011, 51.05, 13.74)

	stats := newMerger(config.DistanceFormulaLegacy).Merge(base, incoming)

	assert.Equal(t, domain.MergeStatistics{Created: 1}, stats)
	loc, ok := base.Lookup(0, 4011)
	require.True(t, ok)
	assert.Equal(t, 51.05, loc.Lat)
	assert.Equal(t, 13.74, loc.Lon)
	assert.Equal(t, "test", loc.Properties["source"], "new points are copied verbatim")
}

func TestLocationMerger_RefinesNearbyPoint(t *testing.T) {
	for _, formula := range []string{config.DistanceFormulaLegacy, config.DistanceFormulaHaversine} {
		t.Run(formula, func(t *testing.T) {
			base := datasetWith(0, 4011, 51.05, 13.74)
			incoming := datasetWith(0, 4011, 51.0501, 13.7401)

			stats := newMerger(formula).Merge(base, incoming)

			assert.Equal(t, domain.MergeStatistics{Refined: 1}, stats)
			loc, _ := base.Lookup(0, 4011)
			assert.InDelta(t, 51.05005, loc.Lat, 1e-9)
			assert.InDelta(t, 13.74005, loc.Lon, 1e-9)
			assert.NotNil(t, loc.Properties)
			assert.Empty(t, loc.Properties, "refined points lose their properties")
		})
	}
}

func TestLocationMerger_SkipsDistantPoint(t *testing.T) {
	base := datasetWith(0, 4011, 51.05, 13.74)
	incoming := datasetWith(0, 4011, 52.52, 13.41)

	stats := newMerger(config.DistanceFormulaLegacy).Merge(base, incoming)

	assert.Equal(t, domain.MergeStatistics{Skipped: 1}, stats)
	loc, _ := base.Lookup(0, 4011)
	assert.Equal(t, 51.05, loc.Lat)
	assert.Equal(t, 13.74, loc.Lon)
	assert.Equal(t, "test", loc.Properties["source"])
}

func TestLocationMerger_NotIdempotent(t *testing.T) {
	base := datasetWith(0, 4011, 51.05, 13.74)
	incoming := datasetWith(0, 4011, 51.0501, 13.7401)
	merger := newMerger(config.DistanceFormulaLegacy)

	merger.Merge(base, incoming)
	first, _ := base.Lookup(0, 4011)

	merger.Merge(base, incoming)
	second, _ := base.Lookup(0, 4011)

	assert.NotEqual(t, first.Lat, second.Lat)
	assert.InDelta(t, 51.050075, second.Lat, 1e-9)
	assert.InDelta(t, 13.740075, second.Lon, 1e-9)
}

func TestLocationMerger_FormulaToggle(t *testing.T) {
	// pure longitude drift of roughly 70 m
	base := func() *domain.LocationDataset { return datasetWith(0, 1, 51.05, 13.74) }
	incoming := datasetWith(0, 1, 51.05, 13.741)

	legacy := newMerger(config.DistanceFormulaLegacy).Merge(base(), incoming)
	haversine := newMerger(config.DistanceFormulaHaversine).Merge(base(), incoming)

	assert.Equal(t, 1, legacy.Refined, "legacy distance ignores the longitude delta")
	assert.Equal(t, 1, haversine.Skipped)
}

func TestLocationMerger_FormulaToggle_LatitudeDrift(t *testing.T) {
	// pure latitude drift of roughly 44.5 m, legacy distance ~52.5 m
	base := func() *domain.LocationDataset { return datasetWith(0, 1, 51.05, 13.74) }
	incoming := datasetWith(0, 1, 51.0504, 13.74)

	legacy := newMerger(config.DistanceFormulaLegacy).Merge(base(), incoming)
	haversine := newMerger(config.DistanceFormulaHaversine).Merge(base(), incoming)

	assert.Equal(t, domain.MergeStatistics{Skipped: 1}, legacy, "legacy distance inflates the latitude delta")
	assert.Equal(t, domain.MergeStatistics{Refined: 1}, haversine)
}

func TestLocationMerger_CreatedPointDoesNotShareProperties(t *testing.T) {
	base := domain.NewLocationDataset("test", "")
	incoming := datasetWith(0, 4011, 51.05, 13.74)

	newMerger(config.DistanceFormulaLegacy).Merge(base, incoming)
	base.ProjectAll()

	loc, _ := base.Lookup(0, 4011)
	assert.Contains(t, loc.Properties, "x")
	original, _ := incoming.Lookup(0, 4011)
	assert.NotContains(t, original.Properties, "x", "incoming dataset must stay untouched")
	assert.Equal(t, "test", original.Properties["source"])
}

func TestLocationMerger_StatisticsAddUp(t *testing.T) {
	base := domain.NewLocationDataset("test", "")
	base.Data[0] = domain.RegionReportLocations{
		1: {Lat: 51.05, Lon: 13.74},
		2: {Lat: 51.06, Lon: 13.75},
	}

	incoming := domain.NewLocationDataset("test", "")
	incoming.Data[0] = domain.RegionReportLocations{
		1: {Lat: 51.0501, Lon: 13.7401},
		2: {Lat: 52.52, Lon: 13.41},
		3: {Lat: 51.07, Lon: 13.76},
	}
	incoming.Data[1] = domain.RegionReportLocations{
		1: {Lat: 50.83, Lon: 12.92},
	}

	stats := newMerger(config.DistanceFormulaLegacy).Merge(base, incoming)

	assert.Equal(t, domain.MergeStatistics{Created: 2, Refined: 1, Skipped: 1}, stats)
	assert.Equal(t, 4, stats.Total())
	assert.Len(t, base.Data[0], 3)
	assert.Len(t, base.Data[1], 1)
}

func TestLocationMerger_CustomThreshold(t *testing.T) {
	base := datasetWith(0, 1, 51.05, 13.74)
	incoming := datasetWith(0, 1, 51.0501, 13.7401)

	stats := usecase.NewLocationMerger(usecase.DistanceFuncFor(config.DistanceFormulaHaversine), 5, zap.NewNop()).
		Merge(base, incoming)

	assert.Equal(t, 1, stats.Skipped)
}

func TestLocationMerger_EmptyIncoming(t *testing.T) {
	base := datasetWith(0, 1, 51.05, 13.74)

	stats := newMerger(config.DistanceFormulaLegacy).Merge(base, domain.NewLocationDataset("", ""))

	assert.Zero(t, stats.Total())
	assert.Len(t, base.Data[0], 1)
}
