package controller

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/soocke/frame-annotator-go/domain/annofile"
	"github.com/soocke/frame-annotator-go/domain/annotation"
	"github.com/soocke/frame-annotator-go/domain/gesture"
	"github.com/soocke/frame-annotator-go/domain/propagation"
	"github.com/soocke/frame-annotator-go/domain/validation"
)

// Frames supplies decoded frame images and their sizes.
type Frames interface {
	Image(i int) (image.Image, error)
	Size(i int) (int, int, error)
}

// Options configures a Controller.
type Options struct {
	Gesture      gesture.Config
	JumpFrames   int
	OutputPath   string
	RecoveryPath string
	ClassNames   []string
}

// Controller owns one editing session: the annotation, the current frame,
// the gesture session and the tracker. It is driven from the UI goroutine.
type Controller struct {
	opts     Options
	logger   *slog.Logger
	video    *annotation.Video
	registry *annotation.Registry
	frames   Frames
	tracker  propagation.Tracker
	prop     *propagation.Propagator
	session  *gesture.Session

	cur      int
	modified bool
	px, py   int
	closed   bool
}

// New builds a controller over a loaded annotation. tracker may be nil, in
// which case propagation copies rectangles. The controller owns tracker and
// closes it in Close.
func New(doc *annofile.Document, frames Frames, tracker propagation.Tracker, opts Options, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.JumpFrames < 1 {
		opts.JumpFrames = 25
	}
	next := max(doc.Registry.Len(), doc.Video.MaxObjectID()) + 1
	var images propagation.ImageSource
	if frames != nil {
		images = frames
	}
	c := &Controller{
		opts:     opts,
		logger:   logger,
		video:    doc.Video,
		registry: doc.Registry,
		frames:   frames,
		tracker:  tracker,
		prop:     propagation.New(tracker, images, logger),
		session:  gesture.NewSession(opts.Gesture, doc.Registry, next, logger),
		px:       1,
		py:       1,
	}
	c.session.AddListener(func(prev, next gesture.State) {
		logger.Debug("gesture", "from", prev.String(), "to", next.String(), "frame", c.cur)
	})
	c.updateBounds()
	logger.Info("session opened", "frames", doc.Video.Len(), "rects", doc.Video.Count(),
		"objects", doc.Registry.Len(), "strategy", c.prop.Strategy().String())
	return c
}

// Video returns the annotation being edited.
func (c *Controller) Video() *annotation.Video { return c.video }

// Registry returns the identity registry.
func (c *Controller) Registry() *annotation.Registry { return c.registry }

// Current returns the 0-based index of the current frame.
func (c *Controller) Current() int { return c.cur }

// Modified reports unsaved changes.
func (c *Controller) Modified() bool { return c.modified }

// Strategy reports how frames are propagated.
func (c *Controller) Strategy() propagation.Strategy { return c.prop.Strategy() }

// Title returns the window title suffix for the current position.
func (c *Controller) Title() string {
	return fmt.Sprintf("(frame nr.%d of %d)", c.cur+1, c.video.Len())
}

// Image returns the current frame image.
func (c *Controller) Image() (image.Image, error) {
	if c.frames == nil {
		return nil, errors.New("no frame source")
	}
	return c.frames.Image(c.cur)
}

// Rects returns the rectangles of the current frame.
func (c *Controller) Rects() []annotation.Rect {
	return c.video.Frame(c.cur).Rects()
}

// Pointer returns the last known pointer position.
func (c *Controller) Pointer() (int, int) { return c.px, c.py }

// HitAtPointer hit tests the current frame at the pointer.
func (c *Controller) HitAtPointer() annotation.Hit {
	return c.video.Frame(c.cur).Locate(c.px, c.py, c.opts.Gesture.Thresholds)
}

// Preview returns the gesture in progress.
func (c *Controller) Preview() (gesture.Preview, bool) { return c.session.Preview() }

// AddGestureListener registers l for gesture state changes.
func (c *Controller) AddGestureListener(l gesture.Listener) { c.session.AddListener(l) }

// NextID returns the identity the next drawn rectangle will get.
func (c *Controller) NextID() int { return c.session.NextID() }

func (c *Controller) updateBounds() {
	if c.frames == nil {
		return
	}
	w, h, err := c.frames.Size(c.cur)
	if err != nil {
		c.logger.Warn("frame size unavailable", "frame", c.cur, "error", err)
		return
	}
	c.session.SetBounds(w, h)
}

// goTo moves to frame i (already clamped) and writes the recovery file.
func (c *Controller) goTo(i int) {
	c.session.Cancel()
	prev := c.cur
	c.cur = i
	c.updateBounds()
	c.logger.Debug("frame changed", "from", prev, "to", i)
	c.writeRecovery()
}

func (c *Controller) clamp(i int) int {
	return min(max(i, 0), c.video.Len()-1)
}

// Next moves one frame forward without propagating.
func (c *Controller) Next() { c.goTo(c.clamp(c.cur + 1)) }

// Prev moves one frame back.
func (c *Controller) Prev() { c.goTo(c.clamp(c.cur - 1)) }

// JumpForward moves JumpFrames forward, stopping at the last frame.
func (c *Controller) JumpForward() { c.goTo(c.clamp(c.cur + c.opts.JumpFrames)) }

// JumpBack moves JumpFrames back, stopping at the first frame.
func (c *Controller) JumpBack() { c.goTo(c.clamp(c.cur - c.opts.JumpFrames)) }

// Goto moves to the 1-based frame number n, clamped to the video.
func (c *Controller) Goto(n int) { c.goTo(c.clamp(n - 1)) }

// Propagate advances one frame and carries the rectangles of the frame left
// behind into it. A non-empty target is only overwritten when force is set.
// At the last frame nothing happens.
func (c *Controller) Propagate(force bool) (bool, error) {
	if c.cur >= c.video.Len()-1 {
		c.logger.Info("propagation skipped at last frame", "frame", c.cur)
		return false, nil
	}
	from := c.cur
	c.session.Cancel()
	c.cur = from + 1
	c.updateBounds()
	done, err := c.prop.PropagateFrame(c.video, from, c.cur, force)
	if err != nil {
		return false, errors.Wrap(err, "propagate")
	}
	if done {
		c.modified = true
	}
	c.writeRecovery()
	return done, nil
}

// PropagateAtPointer advances one frame carrying only the rectangle under the
// pointer in the frame left behind.
func (c *Controller) PropagateAtPointer() (bool, error) {
	hit := c.HitAtPointer()
	if !hit.Found() {
		return false, nil
	}
	if c.cur >= c.video.Len()-1 {
		c.logger.Info("propagation skipped at last frame", "frame", c.cur)
		return false, nil
	}
	from := c.cur
	c.session.Cancel()
	c.cur = from + 1
	c.updateBounds()
	if _, err := c.prop.PropagateRect(c.video, from, c.cur, hit.Handle); err != nil {
		return false, errors.Wrap(err, "propagate rectangle")
	}
	c.modified = true
	c.writeRecovery()
	return true, nil
}

// PointerMove records the pointer and feeds the gesture in progress.
func (c *Controller) PointerMove(x, y int) {
	c.px, c.py = x, y
	c.session.Move(x, y)
}

// PointerDown starts a primary gesture at (x, y).
func (c *Controller) PointerDown(x, y int) {
	c.px, c.py = x, y
	c.session.Down(c.video.Frame(c.cur), x, y)
}

// AltPointerDown starts an identity reassignment at (x, y).
func (c *Controller) AltPointerDown(x, y int) {
	c.px, c.py = x, y
	c.session.AltDown(c.video.Frame(c.cur), x, y)
}

// PointerUp finishes the gesture in progress.
func (c *Controller) PointerUp(x, y int) bool {
	c.px, c.py = x, y
	if _, ok := c.session.Up(x, y); !ok {
		return false
	}
	c.edited()
	return true
}

// AssignShortcut gives the rectangle nearest the pointer identity id.
func (c *Controller) AssignShortcut(id int) bool {
	if _, ok := c.session.AssignShortcut(c.video.Frame(c.cur), c.px, c.py, id); !ok {
		return false
	}
	c.edited()
	return true
}

// DeleteAtPointer removes the rectangle nearest the pointer.
func (c *Controller) DeleteAtPointer() bool {
	c.session.Cancel()
	hit := c.HitAtPointer()
	if !hit.Found() {
		return false
	}
	r, ok := c.video.Frame(c.cur).Remove(hit.Handle)
	if !ok {
		return false
	}
	c.logger.Debug("rectangle deleted", "frame", c.cur, "rect", r.String())
	c.edited()
	return true
}

// DeleteAll removes every rectangle of the current frame.
func (c *Controller) DeleteAll() {
	c.session.Cancel()
	c.video.Frame(c.cur).Clear()
	c.edited()
}

// SetName sets the video display name.
func (c *Controller) SetName(name string) {
	if name == c.video.Name {
		return
	}
	c.video.Name = name
	c.modified = true
}

// AssignClass sets the class (1-based id into the class list) of an object.
func (c *Controller) AssignClass(objectID, class int) error {
	if objectID < 1 {
		return errors.Errorf("invalid object id %d", objectID)
	}
	if class != annotation.Unassigned && (class < 1 || class > len(c.opts.ClassNames)) {
		return errors.Errorf("invalid class %d", class)
	}
	c.registry.Assign(objectID, class)
	c.edited()
	return nil
}

// ClassName returns the name of class id, "" when unknown.
func (c *Controller) ClassName(class int) string {
	if class < 1 || class > len(c.opts.ClassNames) {
		return ""
	}
	return c.opts.ClassNames[class-1]
}

// ClassNames returns the configured class list.
func (c *Controller) ClassNames() []string { return c.opts.ClassNames }

// IdentityLines describes every registered object id and its class.
func (c *Controller) IdentityLines() []string {
	lines := make([]string, c.registry.Len())
	for i := range lines {
		id := i + 1
		class := c.registry.Class(id)
		if class == annotation.Unassigned {
			lines[i] = fmt.Sprintf("%d has no assigned class", id)
			continue
		}
		lines[i] = fmt.Sprintf("%d has class %d [%s]", id, class, c.ClassName(class))
	}
	return lines
}

// Save writes the annotation to the output file and validates it. A gesture
// in progress is cancelled first. A failed
// write returns an *annofile.ResourceError and keeps the session going; the
// report is computed either way.
func (c *Controller) Save() (validation.Report, error) {
	c.session.Cancel()
	rep := validation.Check(c.video, c.registry)
	n, err := annofile.Save(c.opts.OutputPath, c.video, c.registry)
	if err != nil {
		c.logger.Error("save failed", "path", c.opts.OutputPath, "error", err)
		return rep, err
	}
	c.modified = false
	c.logger.Info("annotation saved", "path", c.opts.OutputPath, "size", humanize.Bytes(uint64(n)),
		"rects", c.video.Count(), "problems", len(rep.Problems))
	return rep, nil
}

// edited marks the session modified and writes the recovery file. A gesture
// still in progress is cancelled first so a lifted rectangle is back in its
// frame before anything is written.
func (c *Controller) edited() {
	c.session.Cancel()
	c.modified = true
	c.writeRecovery()
}

func (c *Controller) writeRecovery() {
	if c.opts.RecoveryPath == "" {
		return
	}
	n, err := annofile.Save(c.opts.RecoveryPath, c.video, c.registry)
	if err != nil {
		c.logger.Warn("recovery write failed", "path", c.opts.RecoveryPath, "error", err)
		return
	}
	c.logger.Debug("recovery written", "path", c.opts.RecoveryPath, "size", humanize.Bytes(uint64(n)))
}

// Close releases the tracker. It is safe to call more than once.
func (c *Controller) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.session.Cancel()
	if c.tracker == nil {
		return nil
	}
	return errors.Wrap(c.tracker.Close(), "close tracker")
}
