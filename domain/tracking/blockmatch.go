package tracking

import (
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/soocke/frame-annotator-go/domain/annotation"
)

var (
	// ErrOutsideFrame is returned when the rectangle does not overlap the image.
	ErrOutsideFrame = errors.New("rectangle outside frame")
	// ErrNoMatch is returned when no window scores above the threshold.
	ErrNoMatch = errors.New("no match above threshold")
)

// BlockMatcherOptions tunes the block matching tracker.
type BlockMatcherOptions struct {
	// SearchRadius is how far (pixels) the object may move between frames.
	SearchRadius int
	Match        MatchOptions
}

// DefaultBlockMatcherOptions returns a 32 px search with a 0.5 score floor.
func DefaultBlockMatcherOptions() BlockMatcherOptions {
	return BlockMatcherOptions{SearchRadius: 32, Match: MatchOptions{Threshold: 0.5, Stride: 2, Refine: true}}
}

// BlockMatcher follows a rectangle by matching its contents from the previous
// frame inside a window around the same place in the current frame. It keeps
// no state between calls.
type BlockMatcher struct {
	opts   BlockMatcherOptions
	logger *slog.Logger
}

// NewBlockMatcher builds a block matching tracker.
func NewBlockMatcher(opts BlockMatcherOptions, logger *slog.Logger) *BlockMatcher {
	if opts.SearchRadius <= 0 {
		opts.SearchRadius = DefaultBlockMatcherOptions().SearchRadius
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BlockMatcher{opts: opts, logger: logger}
}

// Track returns r moved to where its contents best match in cur.
func (m *BlockMatcher) Track(prev, cur image.Image, r annotation.Rect) (annotation.Rect, error) {
	box := image.Rect(r.X1, r.Y1, r.X2+1, r.Y2+1).Intersect(prev.Bounds())
	if box.Empty() {
		return annotation.Rect{}, errors.Wrapf(ErrOutsideFrame, "track %s", r)
	}
	rad := m.opts.SearchRadius
	win := box.Inset(-rad).Intersect(cur.Bounds())
	if win.Dx() < box.Dx() || win.Dy() < box.Dy() {
		return annotation.Rect{}, errors.Wrapf(ErrOutsideFrame, "search window for %s", r)
	}

	tmpl := newGrayPlane(imaging.Crop(prev, box))
	search := newGrayPlane(imaging.Crop(cur, win))
	res := matchNCC(search, tmpl, m.opts.Match)
	if !res.Found {
		return annotation.Rect{}, errors.Wrapf(ErrNoMatch, "track %s (score %.3f)", r, res.Score)
	}
	dx := win.Min.X + res.X - box.Min.X
	dy := win.Min.Y + res.Y - box.Min.Y
	m.logger.Debug("block match", "object", r.ObjectID, "dx", dx, "dy", dy, "score", res.Score)
	return r.Translate(dx, dy), nil
}

// Close releases nothing; it exists to satisfy the tracker contract.
func (m *BlockMatcher) Close() error { return nil }
