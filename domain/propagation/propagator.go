package propagation

import (
	"image"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/soocke/frame-annotator-go/domain/annotation"
)

// ErrFrameRange is returned when a source or target frame index does not exist.
var ErrFrameRange = errors.New("frame index out of range")

// Tracker estimates where a rectangle moved between two frame images. Calls
// are synchronous and carry no state beyond the tracker itself.
type Tracker interface {
	Track(prev, cur image.Image, r annotation.Rect) (annotation.Rect, error)
	Close() error
}

// ImageSource supplies the decoded image of a frame by index.
type ImageSource interface {
	Image(i int) (image.Image, error)
}

// Strategy is how rectangles are carried to the next frame.
type Strategy int

const (
	StrategyCopy Strategy = iota
	StrategyTracked
)

func (s Strategy) String() string {
	switch s {
	case StrategyCopy:
		return "copy"
	case StrategyTracked:
		return "tracked"
	default:
		return "unknown"
	}
}

// Propagator carries rectangles from one frame to another.
type Propagator struct {
	tracker Tracker
	images  ImageSource
	logger  *slog.Logger
}

// New builds a propagator. A nil tracker or image source selects the copy
// strategy.
func New(tracker Tracker, images ImageSource, logger *slog.Logger) *Propagator {
	if logger == nil {
		logger = slog.Default()
	}
	if tracker == nil || images == nil {
		tracker, images = nil, nil
	}
	return &Propagator{tracker: tracker, images: images, logger: logger}
}

// Strategy reports the strategy fixed at construction.
func (p *Propagator) Strategy() Strategy {
	if p.tracker == nil {
		return StrategyCopy
	}
	return StrategyTracked
}

// PropagateFrame fills frame to from frame from. A non-empty target is left
// alone unless force is set, in which case it is overwritten. It reports
// whether the target was written.
func (p *Propagator) PropagateFrame(v *annotation.Video, from, to int, force bool) (bool, error) {
	src, dst := v.Frame(from), v.Frame(to)
	if src == nil || dst == nil {
		return false, errors.Wrapf(ErrFrameRange, "propagate %d -> %d", from, to)
	}
	if dst.Len() > 0 && !force {
		p.logger.Debug("propagation skipped, target not empty", "from", from, "to", to)
		return false, nil
	}
	rects := src.Rects()
	prev, cur := p.pair(from, to)
	out := make([]annotation.Rect, len(rects))
	for i, r := range rects {
		out[i] = p.carry(prev, cur, r)
	}
	dst.SetRects(out)
	p.logger.Debug("frame propagated", "from", from, "to", to, "rects", len(out), "strategy", p.Strategy().String(), "force", force)
	return true, nil
}

// PropagateRect carries the single rectangle h of frame from into frame to,
// replacing the rectangle with the same object id there or appending it.
func (p *Propagator) PropagateRect(v *annotation.Video, from, to int, h annotation.Handle) (annotation.Rect, error) {
	src, dst := v.Frame(from), v.Frame(to)
	if src == nil || dst == nil {
		return annotation.Rect{}, errors.Wrapf(ErrFrameRange, "propagate %d -> %d", from, to)
	}
	r, ok := src.Get(h)
	if !ok {
		return annotation.Rect{}, errors.Errorf("no rectangle %d in frame %d", h, from)
	}
	prev, cur := p.pair(from, to)
	out := p.carry(prev, cur, r)
	if existing, ok := dst.FindObject(out.ObjectID); ok {
		dst.Replace(existing, out)
	} else {
		dst.Add(out)
	}
	p.logger.Debug("rectangle propagated", "from", from, "to", to, "rect", out.String())
	return out, nil
}

// pair loads the two images for tracking. Missing images return nils, which
// makes carry fall back to copying.
func (p *Propagator) pair(from, to int) (image.Image, image.Image) {
	if p.tracker == nil {
		return nil, nil
	}
	prev, err := p.images.Image(from)
	if err != nil {
		p.logger.Warn("frame image unavailable, copying instead", "frame", from, "error", err)
		return nil, nil
	}
	cur, err := p.images.Image(to)
	if err != nil {
		p.logger.Warn("frame image unavailable, copying instead", "frame", to, "error", err)
		return nil, nil
	}
	return prev, cur
}

func (p *Propagator) carry(prev, cur image.Image, r annotation.Rect) annotation.Rect {
	if p.tracker == nil || prev == nil || cur == nil {
		return r
	}
	t, err := p.tracker.Track(prev, cur, r)
	if err != nil {
		p.logger.Warn("tracker failed, copying rectangle", "rect", r.String(), "error", err)
		return r
	}
	return annotation.NewRect(t.X1, t.Y1, t.X2, t.Y2, r.ObjectID)
}
