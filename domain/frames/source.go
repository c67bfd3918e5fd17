// Package frames lists and decodes the images that make up a video.
package frames

import (
	"image"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"
)

// ErrNoFrames is returned by Glob when the prefix matches nothing.
var ErrNoFrames = errors.New("no frame images match prefix")

// Glob expands prefix* and returns the matches sorted lexicographically.
func Glob(prefix string) ([]string, error) {
	matches, err := filepath.Glob(prefix + "*")
	if err != nil {
		return nil, errors.Wrapf(err, "glob %q", prefix)
	}
	if len(matches) == 0 {
		return nil, errors.Wrapf(ErrNoFrames, "prefix %q", prefix)
	}
	sort.Strings(matches)
	return matches, nil
}

// Source decodes frame images on demand and keeps the most recently used
// ones in memory.
type Source struct {
	files  []string
	cache  *lru.Cache[int, image.Image]
	logger *slog.Logger
}

// NewSource creates a source over files keeping up to cacheSize decoded frames.
func NewSource(files []string, cacheSize int, logger *slog.Logger) (*Source, error) {
	if cacheSize < 2 {
		cacheSize = 2
	}
	c, err := lru.New[int, image.Image](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "frame cache")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{files: files, cache: c, logger: logger}, nil
}

// Len returns the number of frames.
func (s *Source) Len() int { return len(s.files) }

// Files returns the frame file names in order.
func (s *Source) Files() []string { return s.files }

// Image returns the decoded frame i.
func (s *Source) Image(i int) (image.Image, error) {
	if i < 0 || i >= len(s.files) {
		return nil, errors.Errorf("frame %d out of range [0,%d)", i, len(s.files))
	}
	if img, ok := s.cache.Get(i); ok {
		return img, nil
	}
	start := time.Now()
	img, err := imaging.Open(s.files[i])
	if err != nil {
		return nil, errors.Wrapf(err, "decode frame %d", i)
	}
	s.cache.Add(i, img)
	s.logger.Debug("frame decoded", "frame", i, "file", s.files[i], "elapsed", time.Since(start))
	return img, nil
}

// Size returns the pixel size of frame i.
func (s *Source) Size(i int) (int, int, error) {
	img, err := s.Image(i)
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

// Purge drops every cached frame.
func (s *Source) Purge() { s.cache.Purge() }
