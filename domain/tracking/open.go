package tracking

import (
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/soocke/frame-annotator-go/domain/propagation"
)

// ErrDisabled is returned by Open when tracking is switched off.
var ErrDisabled = errors.New("tracking disabled")

// Settings selects and tunes a tracker.
type Settings struct {
	Kind         string // "ncc" or "none"
	SearchRadius int
	Stride       int
	Threshold    float64
	Smooth       bool
}

// Opener creates a tracker. Callers fall back to copying when it fails.
type Opener func(Settings, *slog.Logger) (propagation.Tracker, error)

// Open is the default Opener.
func Open(s Settings, logger *slog.Logger) (propagation.Tracker, error) {
	switch strings.ToLower(strings.TrimSpace(s.Kind)) {
	case "", "none", "copy":
		return nil, ErrDisabled
	case "ncc", "blockmatch":
		opts := DefaultBlockMatcherOptions()
		if s.SearchRadius > 0 {
			opts.SearchRadius = s.SearchRadius
		}
		if s.Stride > 0 {
			opts.Match.Stride = s.Stride
		}
		if s.Threshold > 0 {
			opts.Match.Threshold = s.Threshold
		}
		var t propagation.Tracker = NewBlockMatcher(opts, logger)
		if s.Smooth {
			t = NewSmoothed(t, DefaultKalmanOptions(), logger)
		}
		return t, nil
	default:
		return nil, errors.Errorf("unknown tracker kind %q", s.Kind)
	}
}
