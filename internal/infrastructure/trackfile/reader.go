package trackfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tlms/telemetry/internal/config"
	"github.com/tlms/telemetry/internal/domain"
	apperrors "github.com/tlms/telemetry/internal/pkg/errors"
	"github.com/tlms/telemetry/internal/pkg/utils"
)

// strictTimeLayout is what GPS loggers write; anything else must at least be RFC 3339.
const strictTimeLayout = "2006-01-02T15:04:05Z"

// Reader turns track files into a Track. Supported formats are GPX and the legacy JSON
// export, selected by file extension.
type Reader struct {
	policy string
	logger *zap.Logger
}

// NewReader creates a reader with the given missing timestamp policy
// (config.MissingTimestampStop or config.MissingTimestampSkip).
func NewReader(policy string, logger *zap.Logger) *Reader {
	if policy == "" {
		policy = config.MissingTimestampStop
	}
	return &Reader{
		policy: policy,
		logger: logger,
	}
}

// ReadFile opens path and parses it according to its extension.
func (r *Reader) ReadFile(path string) (*domain.Track, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".gpx" && ext != ".json" {
		return nil, apperrors.ErrParse.WithDetails(map[string]interface{}{
			"path":   path,
			"reason": "unsupported track format " + ext,
		})
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.ErrIO.Wrap(err)
	}
	defer f.Close()

	var track *domain.Track
	if ext == ".gpx" {
		track, err = r.ReadGPX(f)
	} else {
		track, err = r.ReadLegacyJSON(f)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Track file parsed",
		zap.String("path", path),
		zap.Int("samples", track.Len()),
	)
	return track, nil
}

// stopOnMissingTime reports whether a point without timestamp ends its segment.
func (r *Reader) stopOnMissingTime() bool {
	return r.policy != config.MissingTimestampSkip
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(strictTimeLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperrors.ErrTimeFormat.Wrap(err)
	}
	return t, nil
}

func checkCoordinates(lat, lon float64) error {
	if utils.ValidateCoordinates(lat, lon) {
		return nil
	}
	return apperrors.ErrParse.Wrap(apperrors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
		"lat": lat,
		"lon": lon,
	}))
}

func errParse(format string, args ...interface{}) error {
	return apperrors.ErrParse.Wrap(fmt.Errorf(format, args...))
}
