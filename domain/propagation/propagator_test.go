package propagation

import (
	"image"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/frame-annotator-go/domain/annotation"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// offsetTracker shifts every rectangle by a fixed amount.
type offsetTracker struct {
	dx, dy int
	calls  int
	closed bool
}

func (o *offsetTracker) Track(prev, cur image.Image, r annotation.Rect) (annotation.Rect, error) {
	o.calls++
	r = r.Translate(o.dx, o.dy)
	r.ObjectID = 999 // the propagator must restore the source id
	return r, nil
}

func (o *offsetTracker) Close() error { o.closed = true; return nil }

type failingTracker struct{}

func (failingTracker) Track(image.Image, image.Image, annotation.Rect) (annotation.Rect, error) {
	return annotation.Rect{}, errors.New("lost")
}
func (failingTracker) Close() error { return nil }

type blankImages struct{ err error }

func (b blankImages) Image(int) (image.Image, error) {
	if b.err != nil {
		return nil, b.err
	}
	return image.NewGray(image.Rect(0, 0, 64, 64)), nil
}

func newVideo(n int) *annotation.Video {
	return annotation.NewVideo(make([]string, n))
}

func TestPropagateFrame_CopyIsIdentical(t *testing.T) {
	v := newVideo(3)
	v.Frame(0).Add(annotation.NewRect(0, 0, 10, 10, 1))
	p := New(nil, nil, discardLogger)
	require.Equal(t, StrategyCopy, p.Strategy())

	ok, err := p.PropagateFrame(v, 0, 1, false)
	require.NoError(t, err)
	require.True(t, ok)
	if diff := cmp.Diff(v.Frame(0).Rects(), v.Frame(1).Rects()); diff != "" {
		t.Fatalf("copied frame mismatch (-want +got):\n%s", diff)
	}

	// Copies are independent of the source.
	_, h, _ := v.Frame(1).At(0)
	v.Frame(1).Replace(h, annotation.NewRect(5, 5, 6, 6, 1))
	assert.Equal(t, annotation.NewRect(0, 0, 10, 10, 1), v.Frame(0).Rects()[0])
}

func TestPropagateFrame_ForceOverwrites(t *testing.T) {
	v := newVideo(2)
	v.Frame(0).Add(annotation.NewRect(0, 0, 10, 10, 1))
	v.Frame(1).Add(annotation.NewRect(20, 20, 30, 30, 2))
	v.Frame(1).Add(annotation.NewRect(40, 40, 50, 50, 3))
	p := New(nil, nil, discardLogger)

	ok, err := p.PropagateFrame(v, 0, 1, false)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, v.Frame(1).Len())

	ok, err = p.PropagateFrame(v, 0, 1, true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []annotation.Rect{annotation.NewRect(0, 0, 10, 10, 1)}, v.Frame(1).Rects())
}

func TestPropagateFrame_TrackedKeepsObjectID(t *testing.T) {
	v := newVideo(2)
	v.Frame(0).Add(annotation.NewRect(0, 0, 10, 10, 1))
	v.Frame(0).Add(annotation.NewRect(20, 20, 30, 30, 4))
	tr := &offsetTracker{dx: 3, dy: -2}
	p := New(tr, blankImages{}, discardLogger)
	require.Equal(t, StrategyTracked, p.Strategy())

	_, err := p.PropagateFrame(v, 0, 1, false)
	require.NoError(t, err)
	assert.Equal(t, 2, tr.calls)
	assert.Equal(t, []annotation.Rect{
		{X1: 3, Y1: -2, X2: 13, Y2: 8, ObjectID: 1},
		{X1: 23, Y1: 18, X2: 33, Y2: 28, ObjectID: 4},
	}, v.Frame(1).Rects())
}

func TestPropagateFrame_TrackerFailureFallsBackToCopy(t *testing.T) {
	v := newVideo(2)
	r := annotation.NewRect(0, 0, 10, 10, 1)
	v.Frame(0).Add(r)
	p := New(failingTracker{}, blankImages{}, discardLogger)

	_, err := p.PropagateFrame(v, 0, 1, false)
	require.NoError(t, err)
	assert.Equal(t, []annotation.Rect{r}, v.Frame(1).Rects())
}

func TestPropagateFrame_MissingImageFallsBackToCopy(t *testing.T) {
	v := newVideo(2)
	r := annotation.NewRect(0, 0, 10, 10, 1)
	v.Frame(0).Add(r)
	tr := &offsetTracker{dx: 5}
	p := New(tr, blankImages{err: errors.New("decode")}, discardLogger)

	_, err := p.PropagateFrame(v, 0, 1, false)
	require.NoError(t, err)
	assert.Zero(t, tr.calls)
	assert.Equal(t, []annotation.Rect{r}, v.Frame(1).Rects())
}

func TestPropagateFrame_OutOfRange(t *testing.T) {
	p := New(nil, nil, discardLogger)
	_, err := p.PropagateFrame(newVideo(2), 1, 2, false)
	assert.ErrorIs(t, err, ErrFrameRange)
}

func TestPropagateRect_ReplacesOrAppends(t *testing.T) {
	v := newVideo(2)
	h1 := v.Frame(0).Add(annotation.NewRect(0, 0, 10, 10, 1))
	h2 := v.Frame(0).Add(annotation.NewRect(20, 20, 30, 30, 2))
	v.Frame(1).Add(annotation.NewRect(100, 100, 110, 110, 1))
	v.Frame(1).Add(annotation.NewRect(200, 200, 210, 210, 7))
	p := New(&offsetTracker{dx: 1, dy: 1}, blankImages{}, discardLogger)

	out, err := p.PropagateRect(v, 0, 1, h1)
	require.NoError(t, err)
	assert.Equal(t, annotation.NewRect(1, 1, 11, 11, 1), out)

	_, err = p.PropagateRect(v, 0, 1, h2)
	require.NoError(t, err)

	assert.Equal(t, []annotation.Rect{
		annotation.NewRect(1, 1, 11, 11, 1),
		annotation.NewRect(200, 200, 210, 210, 7),
		annotation.NewRect(21, 21, 31, 31, 2),
	}, v.Frame(1).Rects())
}

func TestPropagateRect_UnknownHandle(t *testing.T) {
	v := newVideo(2)
	p := New(nil, nil, discardLogger)
	_, err := p.PropagateRect(v, 0, 1, annotation.Handle(42))
	assert.Error(t, err)
}
