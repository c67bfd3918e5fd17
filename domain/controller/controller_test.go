package controller

import (
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/frame-annotator-go/domain/annofile"
	"github.com/soocke/frame-annotator-go/domain/annotation"
	"github.com/soocke/frame-annotator-go/domain/gesture"
	"github.com/soocke/frame-annotator-go/domain/propagation"
	"github.com/soocke/frame-annotator-go/domain/validation"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeFrames struct{ w, h int }

func (f fakeFrames) Image(int) (image.Image, error) {
	return image.NewGray(image.Rect(0, 0, f.w, f.h)), nil
}
func (f fakeFrames) Size(int) (int, int, error) { return f.w, f.h, nil }

type shiftTracker struct {
	dx     int
	closed int
}

func (s *shiftTracker) Track(_, _ image.Image, r annotation.Rect) (annotation.Rect, error) {
	return r.Translate(s.dx, 0), nil
}
func (s *shiftTracker) Close() error { s.closed++; return nil }

type fixture struct {
	c        *Controller
	dir      string
	out      string
	recovery string
}

func newFixture(t *testing.T, frames int, tracker propagation.Tracker) fixture {
	t.Helper()
	dir := t.TempDir()
	doc := &annofile.Document{
		Video:    annotation.NewVideo(make([]string, frames)),
		Registry: annotation.NewRegistry(),
	}
	doc.Video.Name = "test"
	opts := Options{
		Gesture:      gesture.DefaultConfig(),
		JumpFrames:   25,
		OutputPath:   filepath.Join(dir, "out.xml"),
		RecoveryPath: filepath.Join(dir, "save.xml"),
		ClassNames:   []string{"car", "person"},
	}
	c := New(doc, fakeFrames{w: 640, h: 480}, tracker, opts, discardLogger)
	return fixture{c: c, dir: dir, out: opts.OutputPath, recovery: opts.RecoveryPath}
}

func (f fixture) draw(x1, y1, x2, y2 int) {
	f.c.PointerDown(x1, y1)
	f.c.PointerMove(x2, y2)
	f.c.PointerUp(x2, y2)
}

func TestController_Navigation(t *testing.T) {
	f := newFixture(t, 60, nil)
	c := f.c
	assert.Equal(t, "(frame nr.1 of 60)", c.Title())

	c.Prev()
	assert.Equal(t, 0, c.Current())
	c.Next()
	assert.Equal(t, 1, c.Current())
	c.JumpForward()
	assert.Equal(t, 26, c.Current())
	c.JumpForward()
	c.JumpForward()
	assert.Equal(t, 59, c.Current())
	c.Next()
	assert.Equal(t, 59, c.Current())
	c.JumpBack()
	assert.Equal(t, 34, c.Current())
	c.Goto(3)
	assert.Equal(t, 2, c.Current())
	c.Goto(1000)
	assert.Equal(t, 59, c.Current())
	c.Goto(-4)
	assert.Equal(t, 0, c.Current())

	_, err := os.Stat(f.recovery)
	assert.NoError(t, err, "navigation writes the recovery file")
	assert.False(t, c.Modified())
}

func TestController_DrawPropagateAndSave(t *testing.T) {
	f := newFixture(t, 3, nil)
	c := f.c

	f.draw(0, 0, 10, 10)
	require.Equal(t, []annotation.Rect{annotation.NewRect(0, 0, 10, 10, 1)}, c.Rects())
	assert.True(t, c.Modified())
	assert.Equal(t, 2, c.NextID())

	done, err := c.Propagate(false)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, 1, c.Current())
	assert.Equal(t, []annotation.Rect{annotation.NewRect(0, 0, 10, 10, 1)}, c.Rects())

	require.NoError(t, c.AssignClass(1, 2))
	rep, err := c.Save()
	require.NoError(t, err)
	assert.True(t, rep.OK(), rep.String())
	assert.False(t, c.Modified())

	doc, err := annofile.Load(f.out, make([]string, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Video.Count())
	assert.Equal(t, 2, doc.Registry.Class(1))
}

func TestController_PropagateRespectsTarget(t *testing.T) {
	f := newFixture(t, 3, nil)
	c := f.c
	f.draw(20, 20, 60, 60)
	c.Next()
	f.draw(200, 200, 260, 260)
	c.Prev()

	done, err := c.Propagate(false)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 1, c.Current(), "the frame still advances")
	assert.Equal(t, 2, c.Rects()[0].ObjectID)

	c.Prev()
	done, err = c.Propagate(true)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, []annotation.Rect{annotation.NewRect(20, 20, 60, 60, 1)}, c.Rects())
}

func TestController_PropagateAtLastFrameIsNoop(t *testing.T) {
	f := newFixture(t, 2, nil)
	c := f.c
	c.Next()
	f.draw(20, 20, 60, 60)
	done, err := c.Propagate(true)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 1, c.Current())
}

func TestController_PropagateAtPointerWithTracker(t *testing.T) {
	tr := &shiftTracker{dx: 5}
	f := newFixture(t, 3, tr)
	c := f.c
	require.Equal(t, propagation.StrategyTracked, c.Strategy())

	f.draw(20, 20, 60, 60)
	f.draw(200, 200, 260, 260)
	c.PointerMove(230, 230)

	done, err := c.PropagateAtPointer()
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, []annotation.Rect{annotation.NewRect(205, 200, 265, 260, 2)}, c.Rects())

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	assert.Equal(t, 1, tr.closed)
}

func TestController_EditCommands(t *testing.T) {
	f := newFixture(t, 2, nil)
	c := f.c
	f.draw(20, 20, 60, 60)
	f.draw(200, 200, 260, 260)

	c.PointerMove(40, 40)
	require.True(t, c.AssignShortcut(7))
	assert.Equal(t, 7, c.Rects()[0].ObjectID)
	assert.Equal(t, 7, c.Registry().Len())

	assert.True(t, c.DeleteAtPointer())
	assert.Len(t, c.Rects(), 1)

	c.DeleteAll()
	assert.Empty(t, c.Rects())

	c.PointerMove(5, 5)
	assert.False(t, c.DeleteAtPointer())
}

func TestController_IdentityLinesAndClasses(t *testing.T) {
	f := newFixture(t, 1, nil)
	c := f.c
	f.draw(20, 20, 60, 60)
	f.draw(200, 200, 260, 260)
	require.NoError(t, c.AssignClass(2, 1))
	assert.Error(t, c.AssignClass(1, 9))
	assert.Error(t, c.AssignClass(0, 1))

	assert.Equal(t, []string{
		"1 has no assigned class",
		"2 has class 1 [car]",
	}, c.IdentityLines())
}

func TestController_SaveReportsProblemsAndResourceErrors(t *testing.T) {
	f := newFixture(t, 1, nil)
	c := f.c
	c.SetName("")
	f.draw(20, 20, 60, 60)

	rep, err := c.Save()
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Count(validation.KindMissingName))
	assert.Equal(t, 1, rep.Count(validation.KindUnassigned))

	c.opts.OutputPath = filepath.Join(f.dir, "missing", "out.xml")
	c.SetName("fixed")
	_, err = c.Save()
	var re *annofile.ResourceError
	assert.True(t, errors.As(err, &re))
	assert.True(t, c.Modified(), "a failed save keeps the modified flag")
}

func TestController_AltGestureReassignsIdentity(t *testing.T) {
	f := newFixture(t, 1, nil)
	c := f.c
	f.draw(20, 20, 60, 60)

	c.AltPointerDown(40, 100)
	c.PointerMove(40, 140)
	p, ok := c.Preview()
	require.True(t, ok)
	assert.Equal(t, 3, p.Proposal)
	require.True(t, c.PointerUp(40, 140))
	assert.Equal(t, 3, c.Rects()[0].ObjectID)
}

func TestController_GestureListener(t *testing.T) {
	f := newFixture(t, 1, nil)
	var seen []gesture.State
	f.c.AddGestureListener(func(_, next gesture.State) { seen = append(seen, next) })
	f.draw(20, 20, 60, 60)
	assert.Equal(t, []gesture.State{gesture.StateDrawingNew, gesture.StateIdle}, seen)
}

func TestController_WritesCancelGestureInProgress(t *testing.T) {
	f := newFixture(t, 1, nil)
	c := f.c
	f.draw(20, 20, 60, 60)

	c.PointerDown(40, 40)
	c.PointerMove(100, 100)
	p, ok := c.Preview()
	require.True(t, ok)
	require.Equal(t, gesture.StateDraggingBody, p.State)

	_, err := c.Save()
	require.NoError(t, err)
	_, busy := c.Preview()
	assert.False(t, busy)
	doc, err := annofile.Load(f.out, make([]string, 1))
	require.NoError(t, err)
	assert.Equal(t, []annotation.Rect{annotation.NewRect(20, 20, 60, 60, 1)}, doc.Video.Frame(0).Rects())

	c.PointerDown(40, 40)
	c.PointerMove(22, 22)
	assert.True(t, c.DeleteAtPointer())
	assert.Empty(t, c.Rects())
	doc, err = annofile.Load(f.recovery, make([]string, 1))
	require.NoError(t, err)
	assert.Zero(t, doc.Video.Count())
}
