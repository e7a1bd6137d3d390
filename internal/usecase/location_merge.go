package usecase

import (
	"maps"

	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/config"
	"github.com/tlms/telemetry/internal/domain"
	"github.com/tlms/telemetry/internal/pkg/utils"
)

// DistanceFunc returns the distance between two WGS84 points in meters.
type DistanceFunc func(lat1, lon1, lat2, lon2 float64) float64

// DistanceFuncFor maps a configured formula name to its implementation. Unknown names get
// the legacy formula, which older datasets were built with.
func DistanceFuncFor(formula string) DistanceFunc {
	if formula == config.DistanceFormulaHaversine {
		return utils.HaversineMeters
	}
	return utils.LegacyHaversineMeters
}

// LocationMerger reconciles incoming reporting point observations into an existing dataset.
type LocationMerger struct {
	distance  DistanceFunc
	threshold float64
	logger    *zap.Logger
}

// NewLocationMerger creates a merger. threshold <= 0 selects domain.SaneInterpolationDistance.
func NewLocationMerger(distance DistanceFunc, threshold float64, logger *zap.Logger) *LocationMerger {
	if distance == nil {
		distance = utils.LegacyHaversineMeters
	}
	if threshold <= 0 {
		threshold = domain.SaneInterpolationDistance
	}
	return &LocationMerger{
		distance:  distance,
		threshold: threshold,
		logger:    logger,
	}
}

// Merge folds incoming into base and never fails:
//   - a point unknown to base is copied verbatim,
//   - a point further than the threshold from the stored one is ignored,
//   - otherwise the stored point moves to the midpoint and loses its properties.
//
// Averaging with the stored value means repeated merges keep moving the point.
func (m *LocationMerger) Merge(base, incoming *domain.LocationDataset) domain.MergeStatistics {
	var stats domain.MergeStatistics
	if incoming == nil {
		return stats
	}
	if base.Data == nil {
		base.Data = make(map[int]domain.RegionReportLocations)
	}

	for region, points := range incoming.Data {
		stored, ok := base.Data[region]
		if !ok || stored == nil {
			stored = make(domain.RegionReportLocations, len(points))
			base.Data[region] = stored
		}

		for point, loc := range points {
			existing, ok := stored[point]
			if !ok {
				loc.Properties = maps.Clone(loc.Properties)
				stored[point] = loc
				stats.Created++
				continue
			}

			d := m.distance(existing.Lat, existing.Lon, loc.Lat, loc.Lon)
			if d > m.threshold {
				m.logger.Debug("Observation too far from stored location, skipping",
					zap.Int("region", region),
					zap.Int("point", point),
					zap.Float64("distance_m", d),
				)
				stats.Skipped++
				continue
			}

			stored[point] = domain.ReportLocation{
				Lat:        (existing.Lat + loc.Lat) / 2,
				Lon:        (existing.Lon + loc.Lon) / 2,
				Properties: map[string]any{},
			}
			stats.Refined++
		}
	}

	return stats
}
