package tracking

import (
	"image"
	"log/slog"
	"math"

	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"

	"github.com/soocke/frame-annotator-go/domain/annotation"
	"github.com/soocke/frame-annotator-go/domain/propagation"
)

// KalmanOptions are the constant-velocity filter parameters used to smooth
// rectangle centers.
type KalmanOptions struct {
	Dt       float64
	StdDevA  float64 // process noise (acceleration)
	StdDevMx float64 // measurement noise x
	StdDevMy float64 // measurement noise y
}

// DefaultKalmanOptions returns a filter that trusts measurements moderately.
func DefaultKalmanOptions() KalmanOptions {
	return KalmanOptions{Dt: 1.0, StdDevA: 2.0, StdDevMx: 0.5, StdDevMy: 0.5}
}

type smoothState struct {
	kf   *kalman_filter.Kalman2D
	last annotation.Rect
}

// Smoothed wraps another tracker and filters the centers it reports per object
// id. A filter restarts whenever the input rectangle is not the one this
// tracker produced last for that object, e.g. after a manual edit.
type Smoothed struct {
	inner  propagation.Tracker
	opts   KalmanOptions
	logger *slog.Logger
	state  map[int]*smoothState
}

// NewSmoothed decorates inner with Kalman smoothing.
func NewSmoothed(inner propagation.Tracker, opts KalmanOptions, logger *slog.Logger) *Smoothed {
	if opts.Dt <= 0 {
		opts = DefaultKalmanOptions()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Smoothed{inner: inner, opts: opts, logger: logger, state: map[int]*smoothState{}}
}

// Track runs the wrapped tracker and moves its result to the filtered center.
func (s *Smoothed) Track(prev, cur image.Image, r annotation.Rect) (annotation.Rect, error) {
	out, err := s.inner.Track(prev, cur, r)
	if err != nil {
		delete(s.state, r.ObjectID)
		return annotation.Rect{}, err
	}
	st, ok := s.state[r.ObjectID]
	if !ok || st.last != r {
		cx, cy := r.Center()
		st = &smoothState{kf: kalman_filter.NewKalman2D(s.opts.Dt, 0, 0, s.opts.StdDevA, s.opts.StdDevMx, s.opts.StdDevMy, kalman_filter.WithState2D(cx, cy))}
		s.state[r.ObjectID] = st
	}
	st.kf.Predict()
	mx, my := out.Center()
	if err := st.kf.Update(mx, my); err != nil {
		delete(s.state, r.ObjectID)
		return annotation.Rect{}, errors.Wrap(err, "can't update smoothing filter")
	}
	fx, fy := st.kf.GetState()
	dx := int(math.Round(fx - mx))
	dy := int(math.Round(fy - my))
	res := out.Translate(dx, dy)
	st.last = res
	if dx != 0 || dy != 0 {
		s.logger.Debug("smoothed track", "object", r.ObjectID, "dx", dx, "dy", dy)
	}
	return res, nil
}

// Reset forgets every filter.
func (s *Smoothed) Reset() { s.state = map[int]*smoothState{} }

// Close closes the wrapped tracker.
func (s *Smoothed) Close() error {
	s.Reset()
	return s.inner.Close()
}
