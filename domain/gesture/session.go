package gesture

import (
	"log/slog"
	"math"

	"github.com/soocke/frame-annotator-go/domain/annotation"
)

// Session turns pointer events into edits of one frame at a time. It is not
// safe for concurrent use; the UI loop drives it from a single goroutine.
type Session struct {
	cfg      Config
	logger   *slog.Logger
	registry *annotation.Registry

	state     State
	listeners []Listener
	nextID    int

	frame         *annotation.Frame
	width, height int

	corner           annotation.Region
	anchorX, anchorY int
	rect             annotation.Rect
	original         annotation.Rect
	w, h             int
	target           annotation.Handle
	baseID, refY     int
	proposal         int
}

// NewSession creates an idle session. nextID is the identity proposed for the
// next drawn rectangle.
func NewSession(cfg Config, registry *annotation.Registry, nextID int, logger *slog.Logger) *Session {
	if nextID < 1 {
		nextID = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{cfg: cfg, logger: logger, registry: registry, nextID: nextID}
}

// AddListener registers l for state changes.
func (s *Session) AddListener(l Listener) { s.listeners = append(s.listeners, l) }

// Current returns the gesture state.
func (s *Session) Current() State { return s.state }

// NextID returns the identity the next drawn rectangle will receive.
func (s *Session) NextID() int { return s.nextID }

// SetBounds sets the pixel size of the frames being edited.
func (s *Session) SetBounds(width, height int) {
	s.width, s.height = width, height
}

func (s *Session) transition(next State) bool {
	prev := s.state
	if !allowed(prev, next) {
		s.logger.Warn("gesture transition refused", "from", prev.String(), "to", next.String())
		return false
	}
	s.state = next
	s.logger.Debug("gesture state transition", "from", prev.String(), "to", next.String())
	for _, l := range s.listeners {
		l(prev, next)
	}
	return true
}

// Down starts a primary-button gesture at (x, y) on frame f. A corner or center
// hit lifts that rectangle out of the frame for editing; anything else starts
// drawing a new rectangle.
func (s *Session) Down(f *annotation.Frame, x, y int) {
	if s.state != StateIdle || f == nil {
		s.logger.Warn("pointer down ignored", "state", s.state.String())
		return
	}
	hit := f.Locate(x, y, s.cfg.Thresholds)
	s.frame = f
	s.anchorX, s.anchorY = x, y
	switch {
	case hit.Region.IsCorner() || hit.Region == annotation.RegionCenter:
		r, ok := f.Remove(hit.Handle)
		if !ok {
			return
		}
		s.rect = r
		s.original = r
		s.w, s.h = r.X2-r.X1, r.Y2-r.Y1
		s.corner = hit.Region
		if hit.Region == annotation.RegionCenter {
			s.transition(StateDraggingBody)
		} else {
			s.transition(StateDraggingCorner)
		}
	default:
		s.rect = annotation.Rect{X1: x, Y1: y, X2: x, Y2: y, ObjectID: s.nextID}
		s.corner = annotation.RegionNone
		s.transition(StateDrawingNew)
	}
}

// AltDown starts relabelling the rectangle nearest to (x, y). Vertical pointer
// travel then selects the new identity.
func (s *Session) AltDown(f *annotation.Frame, x, y int) {
	if s.state != StateIdle || f == nil {
		return
	}
	hit := f.Locate(x, y, s.cfg.Thresholds)
	if !hit.Found() {
		return
	}
	r, _, _ := f.At(hit.Index)
	s.frame = f
	s.target = hit.Handle
	s.baseID = r.ObjectID
	s.proposal = r.ObjectID
	s.refY = y
	s.rect = r
	s.transition(StateAssigningIdentity)
}

// Move updates the gesture in progress with the pointer at (x, y).
func (s *Session) Move(x, y int) {
	switch s.state {
	case StateIdle:
	case StateDraggingCorner:
		s.moveCorner(x, y)
	case StateDraggingBody:
		s.moveBody(x, y)
	case StateDrawingNew:
		s.rect.X2 = clamp(x, 1, s.maxX())
		s.rect.Y2 = clamp(y, 1, s.maxY())
	case StateAssigningIdentity:
		id := s.baseID + floorDiv(y-s.refY, s.step())
		s.proposal = clamp(id, 1, s.cfg.MaxObjectID)
	}
}

func (s *Session) moveCorner(x, y int) {
	x = clamp(x, 1, s.maxX())
	y = clamp(y, 1, s.maxY())
	switch s.corner {
	case annotation.RegionUpperLeft:
		s.rect.X1, s.rect.Y1 = x, y
	case annotation.RegionUpperRight:
		s.rect.X2, s.rect.Y1 = x, y
	case annotation.RegionLowerLeft:
		s.rect.X1, s.rect.Y2 = x, y
	case annotation.RegionLowerRight:
		s.rect.X2, s.rect.Y2 = x, y
	}
}

func (s *Session) moveBody(x, y int) {
	m := s.cfg.MinBodySize
	s.rect.X1 = min(s.maxX()-m, max(1, x-s.w/2))
	s.rect.X2 = min(s.maxX(), max(s.rect.X1+m, max(1, x+s.w/2)))
	s.rect.Y1 = min(s.maxY()-m, max(1, y-s.h/2))
	s.rect.Y2 = min(s.maxY(), max(s.rect.Y1+m, max(1, y+s.h/2)))
}

// Up finishes the gesture at (x, y). It returns the rectangle written into the
// frame and whether anything was committed.
func (s *Session) Up(x, y int) (annotation.Rect, bool) {
	prev := s.state
	if prev == StateIdle {
		return annotation.Rect{}, false
	}
	s.Move(x, y)
	var (
		out       annotation.Rect
		committed bool
	)
	switch prev {
	case StateDraggingCorner, StateDraggingBody:
		out = s.normalized()
		s.frame.Add(out)
		committed = true
	case StateDrawingNew:
		if abs(x-s.anchorX) <= s.cfg.ClickThreshold && abs(y-s.anchorY) <= s.cfg.ClickThreshold {
			s.logger.Debug("draw discarded as click", "x", x, "y", y)
			break
		}
		out = s.normalized()
		s.frame.Add(out)
		s.registry.Use(out.ObjectID)
		s.nextID++
		committed = true
	case StateAssigningIdentity:
		if s.frame.SetObjectID(s.target, s.proposal) {
			s.registry.Use(s.proposal)
			out, _ = s.frame.Get(s.target)
			committed = true
		}
	}
	s.reset()
	s.transition(StateIdle)
	if committed {
		s.logger.Debug("gesture committed", "gesture", prev.String(), "rect", out.String())
	}
	return out, committed
}

// Cancel abandons the gesture in progress, putting a lifted rectangle back
// unchanged.
func (s *Session) Cancel() {
	switch s.state {
	case StateIdle:
		return
	case StateDraggingCorner, StateDraggingBody:
		s.frame.Add(s.original)
	}
	s.reset()
	s.transition(StateIdle)
}

// AssignShortcut relabels the rectangle nearest to (x, y) on f with id in one
// step. Only valid between gestures.
func (s *Session) AssignShortcut(f *annotation.Frame, x, y, id int) (annotation.Rect, bool) {
	if s.state != StateIdle || f == nil || id < 1 {
		return annotation.Rect{}, false
	}
	hit := f.Locate(x, y, s.cfg.Thresholds)
	if !hit.Found() || !f.SetObjectID(hit.Handle, id) {
		return annotation.Rect{}, false
	}
	s.registry.Use(id)
	r, _ := f.Get(hit.Handle)
	return r, true
}

// Preview returns the gesture in progress; ok is false when idle.
func (s *Session) Preview() (Preview, bool) {
	if s.state == StateIdle {
		return Preview{}, false
	}
	p := Preview{State: s.state, Corner: s.corner, Rect: s.normalized(), Proposal: s.proposal}
	if s.state == StateAssigningIdentity {
		p.Target = s.target
	}
	return p, true
}

func (s *Session) normalized() annotation.Rect {
	r := s.rect
	return annotation.NewRect(r.X1, r.Y1, r.X2, r.Y2, r.ObjectID)
}

func (s *Session) reset() {
	s.frame = nil
	s.corner = annotation.RegionNone
	s.target = 0
	s.proposal = 0
}

func (s *Session) maxX() int {
	if s.width <= 0 {
		return math.MaxInt
	}
	return s.width
}

func (s *Session) maxY() int {
	if s.height <= 0 {
		return math.MaxInt
	}
	return s.height
}

func (s *Session) step() int {
	if s.cfg.IdentityStep <= 0 {
		return 1
	}
	return s.cfg.IdentityStep
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(hi, max(lo, v))
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
