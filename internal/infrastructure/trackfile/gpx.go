package trackfile

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/domain"
	apperrors "github.com/tlms/telemetry/internal/pkg/errors"
)

// GPX 1.0 and 1.1 share this subset. Element names match regardless of namespace.
type gpxDocument struct {
	XMLName xml.Name   `xml:"gpx"`
	Tracks  []gpxTrack `xml:"trk"`
}

type gpxTrack struct {
	Name     string       `xml:"name"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat       *string  `xml:"lat,attr"`
	Lon       *string  `xml:"lon,attr"`
	Elevation *float64 `xml:"ele"`
	Time      *string  `xml:"time"`
	Course    *float64 `xml:"course"`
	Speed     *float64 `xml:"speed"`
	HDOP      *float64 `xml:"hdop"`
	VDOP      *float64 `xml:"vdop"`
}

// ReadGPX extracts the waypoints of every track segment. Points are keyed by their
// timestamp; a point without timestamp either ends its segment or is skipped, depending on
// the reader policy.
func (r *Reader) ReadGPX(in io.Reader) (*domain.Track, error) {
	var doc gpxDocument
	if err := xml.NewDecoder(in).Decode(&doc); err != nil {
		return nil, apperrors.ErrParse.Wrap(err)
	}

	track := domain.NewTrack()
	for ti, trk := range doc.Tracks {
		for si, seg := range trk.Segments {
			for pi, pt := range seg.Points {
				if pt.Time == nil {
					if r.stopOnMissingTime() {
						r.logger.Debug("Point without timestamp, ignoring rest of segment",
							zap.Int("track", ti),
							zap.Int("segment", si),
							zap.Int("point", pi),
							zap.Int("dropped", len(seg.Points)-pi),
						)
						break
					}
					r.logger.Debug("Point without timestamp skipped",
						zap.Int("track", ti),
						zap.Int("segment", si),
						zap.Int("point", pi),
					)
					continue
				}

				sample, err := pt.sample()
				if err != nil {
					return nil, err
				}
				track.Insert(sample)
			}
		}
	}

	return track, nil
}

func (p gpxPoint) sample() (domain.GpsSample, error) {
	lat, err := parseCoordinate("lat", p.Lat)
	if err != nil {
		return domain.GpsSample{}, err
	}
	lon, err := parseCoordinate("lon", p.Lon)
	if err != nil {
		return domain.GpsSample{}, err
	}
	if err := checkCoordinates(lat, lon); err != nil {
		return domain.GpsSample{}, err
	}

	ts, err := parseTimestamp(*p.Time)
	if err != nil {
		return domain.GpsSample{}, err
	}

	return domain.GpsSample{
		Timestamp:        ts.Unix(),
		Lat:              lat,
		Lon:              lon,
		Elevation:        p.Elevation,
		Accuracy:         p.HDOP,
		VerticalAccuracy: p.VDOP,
		Bearing:          p.Course,
		Speed:            p.Speed,
	}, nil
}

func parseCoordinate(name string, raw *string) (float64, error) {
	if raw == nil {
		return 0, errParse("waypoint without %s attribute", name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil {
		return 0, errParse("invalid %s attribute %q: %w", name, *raw, err)
	}
	return v, nil
}
