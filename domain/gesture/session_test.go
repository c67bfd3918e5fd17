package gesture

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/frame-annotator-go/domain/annotation"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestSession(reg *annotation.Registry, nextID int) *Session {
	s := NewSession(DefaultConfig(), reg, nextID, discardLogger)
	s.SetBounds(640, 480)
	return s
}

func TestSession_DrawCommitsAndAdvancesCounter(t *testing.T) {
	reg := annotation.NewRegistry()
	s := newTestSession(reg, 1)
	var f annotation.Frame

	s.Down(&f, 100, 100)
	require.Equal(t, StateDrawingNew, s.Current())
	s.Move(60, 150)
	r, ok := s.Up(60, 150)

	require.True(t, ok)
	assert.Equal(t, annotation.Rect{X1: 60, Y1: 100, X2: 100, Y2: 150, ObjectID: 1}, r)
	assert.Equal(t, []annotation.Rect{r}, f.Rects())
	assert.Equal(t, 2, s.NextID())
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, StateIdle, s.Current())
}

func TestSession_ClickIsDiscarded(t *testing.T) {
	reg := annotation.NewRegistry()
	s := newTestSession(reg, 4)
	var f annotation.Frame

	s.Down(&f, 200, 200)
	_, ok := s.Up(205, 195)

	assert.False(t, ok)
	assert.Zero(t, f.Len())
	assert.Equal(t, 4, s.NextID())
	assert.Zero(t, reg.Len())
	assert.Equal(t, StateIdle, s.Current())
}

func TestSession_DrawJustOverClickThresholdCommits(t *testing.T) {
	s := newTestSession(annotation.NewRegistry(), 1)
	var f annotation.Frame
	s.Down(&f, 200, 200)
	_, ok := s.Up(206, 200)
	assert.True(t, ok)
	assert.Equal(t, 1, f.Len())
}

func TestSession_CornerDragClampsToBounds(t *testing.T) {
	s := newTestSession(annotation.NewRegistry(), 2)
	var f annotation.Frame
	f.Add(annotation.NewRect(10, 10, 50, 50, 1))

	s.Down(&f, 50, 50)
	require.Equal(t, StateDraggingCorner, s.Current())
	assert.Zero(t, f.Len(), "rectangle is lifted while dragging")

	p, ok := s.Preview()
	require.True(t, ok)
	assert.Equal(t, annotation.RegionLowerRight, p.Corner)

	r, ok := s.Up(900, 700)
	require.True(t, ok)
	assert.Equal(t, annotation.Rect{X1: 10, Y1: 10, X2: 640, Y2: 480, ObjectID: 1}, r)
	assert.Equal(t, 1, f.Len())
	assert.Equal(t, 2, s.NextID(), "editing does not consume identities")
}

func TestSession_CornerDragPastOppositeCornerNormalizes(t *testing.T) {
	s := newTestSession(annotation.NewRegistry(), 2)
	var f annotation.Frame
	f.Add(annotation.NewRect(10, 10, 50, 50, 1))

	s.Down(&f, 10, 10)
	r, ok := s.Up(80, 90)
	require.True(t, ok)
	assert.Equal(t, annotation.Rect{X1: 50, Y1: 50, X2: 80, Y2: 90, ObjectID: 1}, r)
}

func TestSession_BodyDragKeepsSize(t *testing.T) {
	s := newTestSession(annotation.NewRegistry(), 2)
	var f annotation.Frame
	f.Add(annotation.NewRect(10, 10, 50, 50, 1))

	s.Down(&f, 30, 30)
	require.Equal(t, StateDraggingBody, s.Current())
	s.Move(100, 200)
	r, ok := s.Up(130, 230)

	require.True(t, ok)
	assert.Equal(t, annotation.Rect{X1: 110, Y1: 210, X2: 150, Y2: 250, ObjectID: 1}, r)
}

func TestSession_BodyDragStaysInsideFrame(t *testing.T) {
	s := newTestSession(annotation.NewRegistry(), 2)
	var f annotation.Frame
	f.Add(annotation.NewRect(10, 10, 50, 50, 1))

	s.Down(&f, 30, 30)
	r, ok := s.Up(-100, 1000)
	require.True(t, ok)
	assert.Equal(t, 1, r.X1)
	assert.Equal(t, 11, r.X2)
	assert.Equal(t, 470, r.Y1)
	assert.Equal(t, 480, r.Y2)
}

func TestSession_AssignIdentityByVerticalTravel(t *testing.T) {
	reg := annotation.NewRegistry()
	reg.Use(3)
	s := newTestSession(reg, 4)
	var f annotation.Frame
	h := f.Add(annotation.NewRect(10, 10, 50, 50, 3))

	s.AltDown(&f, 500, 100)
	require.Equal(t, StateAssigningIdentity, s.Current())

	s.Move(500, 150)
	p, ok := s.Preview()
	require.True(t, ok)
	assert.Equal(t, 5, p.Proposal)
	assert.Equal(t, h, p.Target)
	got, _ := f.Get(h)
	assert.Equal(t, 3, got.ObjectID, "proposal is not committed before pointer up")

	r, ok := s.Up(500, 181)
	require.True(t, ok)
	assert.Equal(t, 7, r.ObjectID)
	assert.Equal(t, 7, reg.Len())
	assert.Equal(t, annotation.Unassigned, reg.Class(7))
}

func TestSession_AssignIdentityClamps(t *testing.T) {
	s := newTestSession(annotation.NewRegistry(), 1)
	var f annotation.Frame
	f.Add(annotation.NewRect(10, 10, 50, 50, 2))

	s.AltDown(&f, 30, 300)
	s.Move(30, 0)
	p, _ := s.Preview()
	assert.Equal(t, 1, p.Proposal)

	s.Move(30, 100000)
	p, _ = s.Preview()
	assert.Equal(t, 100, p.Proposal)
	s.Cancel()
	assert.Equal(t, 2, f.Rects()[0].ObjectID)
}

func TestSession_AltDownOnEmptyFrameStaysIdle(t *testing.T) {
	s := newTestSession(annotation.NewRegistry(), 1)
	var f annotation.Frame
	s.AltDown(&f, 10, 10)
	assert.Equal(t, StateIdle, s.Current())
}

func TestSession_CancelRestoresLiftedRectangle(t *testing.T) {
	s := newTestSession(annotation.NewRegistry(), 2)
	var f annotation.Frame
	orig := annotation.NewRect(10, 10, 50, 50, 1)
	f.Add(orig)

	s.Down(&f, 30, 30)
	s.Move(300, 300)
	s.Cancel()

	assert.Equal(t, StateIdle, s.Current())
	assert.Equal(t, []annotation.Rect{orig}, f.Rects())
}

func TestSession_AssignShortcut(t *testing.T) {
	reg := annotation.NewRegistry()
	s := newTestSession(reg, 1)
	var f annotation.Frame
	f.Add(annotation.NewRect(10, 10, 50, 50, 1))
	f.Add(annotation.NewRect(100, 100, 150, 150, 2))

	r, ok := s.AssignShortcut(&f, 140, 140, 9)
	require.True(t, ok)
	assert.Equal(t, 9, r.ObjectID)
	assert.Equal(t, 9, reg.Len())

	_, ok = s.AssignShortcut(&annotation.Frame{}, 0, 0, 3)
	assert.False(t, ok)
}

func TestSession_DownWhileBusyIsRefused(t *testing.T) {
	s := newTestSession(annotation.NewRegistry(), 1)
	var f annotation.Frame
	var seen []State
	s.AddListener(func(_, next State) { seen = append(seen, next) })

	s.Down(&f, 10, 10)
	s.Down(&f, 20, 20)
	s.Up(100, 100)

	assert.Equal(t, []State{StateDrawingNew, StateIdle}, seen)
}

func TestTransitionTable(t *testing.T) {
	for _, s := range []State{StateDraggingCorner, StateDraggingBody, StateDrawingNew, StateAssigningIdentity} {
		assert.True(t, allowed(StateIdle, s), s.String())
		assert.True(t, allowed(s, StateIdle), s.String())
		assert.False(t, allowed(s, StateDrawingNew), s.String())
	}
	assert.False(t, allowed(StateIdle, StateIdle))
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, -1, floorDiv(-1, 20))
	assert.Equal(t, -1, floorDiv(-20, 20))
	assert.Equal(t, -2, floorDiv(-21, 20))
	assert.Equal(t, 0, floorDiv(19, 20))
	assert.Equal(t, 1, floorDiv(20, 20))
}
