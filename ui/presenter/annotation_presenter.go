package presenter

import (
	"fmt"
	"image"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/soocke/frame-annotator-go/domain/annofile"
	"github.com/soocke/frame-annotator-go/domain/annotation"
	"github.com/soocke/frame-annotator-go/domain/gesture"
	"github.com/soocke/frame-annotator-go/domain/validation"
	"github.com/soocke/frame-annotator-go/ui/images"
	"github.com/soocke/frame-annotator-go/ui/model"
)

// Editor is the part of the annotation controller the presenter drives.
type Editor interface {
	Title() string
	Current() int
	Video() *annotation.Video
	Image() (image.Image, error)
	Rects() []annotation.Rect
	HitAtPointer() annotation.Hit
	Preview() (gesture.Preview, bool)
	Pointer() (int, int)
	Modified() bool

	Next()
	Prev()
	JumpForward()
	JumpBack()
	Goto(n int)
	Propagate(force bool) (bool, error)
	PropagateAtPointer() (bool, error)

	PointerMove(x, y int)
	PointerDown(x, y int)
	AltPointerDown(x, y int)
	PointerUp(x, y int) bool
	AssignShortcut(id int) bool
	DeleteAtPointer() bool
	DeleteAll()
	SetName(name string)
	AssignClass(objectID, class int) error
	IdentityLines() []string

	Save() (validation.Report, error)
	Close() error
}

// AnnotationView is the UI surface updated by the presenter.
type AnnotationView interface {
	ShowFrame(img image.Image)
	ShowLoupe(img image.Image)
	SetTitle(title string)
	SetIdentities(lines []string)
	SetName(name string)
	Name() string
	ShowReport(title, text string)
	ShowError(title, text string)
	Confirm(title, text string) bool
	Close()
}

// Options tunes presentation.
type Options struct {
	MaxDisplayW  int
	MaxDisplayH  int
	LoupeSize    int
	LoupeZoom    int
	RecoveryPath string
	Style        images.Style
}

// DefaultOptions returns the standard display sizes.
func DefaultOptions() Options {
	return Options{
		MaxDisplayW:  1280,
		MaxDisplayH:  800,
		LoupeSize:    32,
		LoupeZoom:    5,
		RecoveryPath: "save.xml",
		Style:        images.DefaultStyle(),
	}
}

// AnnotationPresenter translates view events into editor calls and redraws
// the frame with its overlay afterwards.
type AnnotationPresenter struct {
	ed       Editor
	view     AnnotationView
	viewport *model.ViewportModel
	activity *model.ActivityModel
	opts     Options
	logger   *slog.Logger
	now      func() time.Time

	rendered *image.RGBA
	lastHit  annotation.Hit
	closed   bool
}

// NewAnnotationPresenter wires the presenter. viewport and activity may be nil.
func NewAnnotationPresenter(ed Editor, view AnnotationView, viewport *model.ViewportModel, activity *model.ActivityModel, opts Options, logger *slog.Logger) *AnnotationPresenter {
	if logger == nil {
		logger = slog.Default()
	}
	if viewport == nil {
		viewport = &model.ViewportModel{}
	}
	if opts.MaxDisplayW <= 0 || opts.MaxDisplayH <= 0 {
		d := DefaultOptions()
		opts.MaxDisplayW, opts.MaxDisplayH = d.MaxDisplayW, d.MaxDisplayH
	}
	return &AnnotationPresenter{
		ed:       ed,
		view:     view,
		viewport: viewport,
		activity: activity,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		lastHit:  annotation.Hit{Index: -1},
	}
}

// Start pushes the initial state to the view.
func (p *AnnotationPresenter) Start() {
	if p == nil || p.ed == nil || p.view == nil {
		return
	}
	p.view.SetName(p.ed.Video().Name)
	p.refresh()
}

// refresh redraws the frame and updates title and identity list.
func (p *AnnotationPresenter) refresh() {
	p.render()
	title := "Frame annotator " + p.ed.Title()
	if p.ed.Modified() {
		title += " *"
	}
	p.view.SetTitle(title)
	p.view.SetIdentities(p.ed.IdentityLines())
}

func (p *AnnotationPresenter) frame() image.Image {
	img, err := p.ed.Image()
	if err == nil && img != nil {
		return img
	}
	p.logger.Warn("frame image unavailable", "frame", p.ed.Current(), "error", err)
	blank := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for i := 0; i < len(blank.Pix); i += 4 {
		blank.Pix[i], blank.Pix[i+1], blank.Pix[i+2], blank.Pix[i+3] = 0x40, 0x40, 0x40, 0xff
	}
	return blank
}

func (p *AnnotationPresenter) render() {
	sc := images.Scene{Rects: p.ed.Rects(), Hit: p.ed.HitAtPointer()}
	if pv, ok := p.ed.Preview(); ok {
		sc.Preview = &pv
		if pv.State == gesture.StateAssigningIdentity {
			if r, ok := p.ed.Video().Frame(p.ed.Current()).Get(pv.Target); ok {
				sc.Target = &r
			}
		}
	}
	p.lastHit = sc.Hit
	p.rendered = images.Render(p.frame(), sc, p.opts.Style)
	shown, k := images.ScaleToFit(p.rendered, p.opts.MaxDisplayW, p.opts.MaxDisplayH)
	p.viewport.SetScale(k)
	p.view.ShowFrame(shown)
	p.loupe()
}

func (p *AnnotationPresenter) loupe() {
	if p.rendered == nil || p.opts.LoupeSize <= 0 {
		return
	}
	x, y := p.ed.Pointer()
	img, err := images.Loupe(p.rendered, x, y, p.opts.LoupeSize, p.opts.LoupeZoom)
	if err != nil {
		return
	}
	p.view.ShowLoupe(img)
}

func (p *AnnotationPresenter) touch() {
	if p.activity != nil {
		p.activity.Touch(p.now())
	}
}

// OnPointerMove handles pointer motion in display coordinates.
func (p *AnnotationPresenter) OnPointerMove(x, y int) {
	if p.closed {
		return
	}
	fx, fy := p.viewport.ToFrame(x, y)
	p.ed.PointerMove(fx, fy)
	_, busy := p.ed.Preview()
	if busy || p.ed.HitAtPointer() != p.lastHit {
		p.render()
		return
	}
	p.loupe()
}

// OnPointerDown starts a draw, a corner drag or a body drag.
func (p *AnnotationPresenter) OnPointerDown(x, y int) {
	if p.closed {
		return
	}
	p.touch()
	fx, fy := p.viewport.ToFrame(x, y)
	p.ed.PointerDown(fx, fy)
	p.render()
}

// OnAltPointerDown starts an identity reassignment (right or ctrl click).
func (p *AnnotationPresenter) OnAltPointerDown(x, y int) {
	if p.closed {
		return
	}
	p.touch()
	fx, fy := p.viewport.ToFrame(x, y)
	p.ed.AltPointerDown(fx, fy)
	p.render()
}

// OnPointerUp finishes the gesture in progress.
func (p *AnnotationPresenter) OnPointerUp(x, y int) {
	if p.closed {
		return
	}
	fx, fy := p.viewport.ToFrame(x, y)
	p.ed.PointerUp(fx, fy)
	p.refresh()
}

// OnKey dispatches a Tk keysym. It reports whether the key is bound.
func (p *AnnotationPresenter) OnKey(keysym string) bool {
	if p.closed {
		return false
	}
	switch keysym {
	case "Left", "BackSpace":
		p.ed.Prev()
	case "Right":
		p.ed.Next()
	case "Next":
		p.ed.JumpForward()
	case "Prior":
		p.ed.JumpBack()
	case "space":
		p.propagate(func() (bool, error) { return p.ed.Propagate(false) })
	case "f":
		p.propagate(func() (bool, error) { return p.ed.Propagate(true) })
	case "p":
		p.propagate(p.ed.PropagateAtPointer)
	case "d":
		p.ed.DeleteAtPointer()
	case "D":
		p.ed.DeleteAll()
	case "s":
		p.OnSave()
		return true
	case "q":
		p.OnQuit()
		return true
	case "1", "2", "3", "4", "5", "6", "7", "8", "9", "0":
		id, _ := strconv.Atoi(keysym)
		if id == 0 {
			id = 10
		}
		p.ed.AssignShortcut(id)
	default:
		return false
	}
	p.touch()
	p.refresh()
	return true
}

func (p *AnnotationPresenter) propagate(fn func() (bool, error)) {
	if _, err := fn(); err != nil {
		p.logger.Error("propagation failed", "frame", p.ed.Current(), "error", err)
		p.view.ShowError("Propagation", err.Error())
	}
}

// OnSave writes the annotation and shows the validation report, or the
// reason the file could not be written.
func (p *AnnotationPresenter) OnSave() {
	if p.closed {
		return
	}
	p.applyName()
	rep, err := p.ed.Save()
	if err != nil {
		var re *annofile.ResourceError
		if errors.As(err, &re) {
			p.view.ShowError("Save failed", fmt.Sprintf("Could not write %s: %v", re.Path, re.Err))
		} else {
			p.view.ShowError("Save failed", err.Error())
		}
		p.refresh()
		return
	}
	p.view.ShowReport("Saved", rep.String())
	p.refresh()
}

// OnQuit closes the session, asking first when there are unsaved changes.
// It reports whether the session was closed.
func (p *AnnotationPresenter) OnQuit() bool {
	if p.closed {
		return true
	}
	p.applyName()
	if p.ed.Modified() {
		msg := "There are unsaved changes. Quit anyway?"
		if p.opts.RecoveryPath != "" {
			msg += "\nA backup of the annotation is kept in " + p.opts.RecoveryPath + "."
		}
		if !p.view.Confirm("Quit", msg) {
			return false
		}
	}
	p.closed = true
	if err := p.ed.Close(); err != nil {
		p.logger.Warn("close failed", "error", err)
	}
	p.view.Close()
	return true
}

// OnRename sets the video name from the name field.
func (p *AnnotationPresenter) OnRename(name string) {
	if p.closed {
		return
	}
	p.ed.SetName(strings.TrimSpace(name))
	p.touch()
	p.refresh()
}

// applyName takes over a name typed into the field but not applied yet.
func (p *AnnotationPresenter) applyName() {
	if name := strings.TrimSpace(p.view.Name()); name != "" {
		p.ed.SetName(name)
	}
}

// SetStyle replaces the overlay style and redraws.
func (p *AnnotationPresenter) SetStyle(st images.Style) {
	p.opts.Style = st
	if p.closed || p.ed == nil || p.view == nil {
		return
	}
	p.render()
}

// OnGoto jumps to the 1-based frame number typed by the operator.
func (p *AnnotationPresenter) OnGoto(text string) {
	if p.closed {
		return
	}
	n, ok := parseIntField(text)
	if !ok {
		p.view.ShowError("Go to frame", fmt.Sprintf("%q is not a frame number", strings.TrimSpace(text)))
		return
	}
	p.ed.Goto(n)
	p.refresh()
}

// OnAssignClass gives object objectText the class at position choice of the
// class selector, where choice 0 clears the class.
func (p *AnnotationPresenter) OnAssignClass(objectText string, choice int) {
	if p.closed {
		return
	}
	id, ok := parseIntField(objectText)
	if !ok {
		p.view.ShowError("Assign class", fmt.Sprintf("%q is not an object id", strings.TrimSpace(objectText)))
		return
	}
	class := choice
	if choice <= 0 {
		class = annotation.Unassigned
	}
	if err := p.ed.AssignClass(id, class); err != nil {
		p.view.ShowError("Assign class", err.Error())
		return
	}
	p.touch()
	p.refresh()
}

func parseIntField(s string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
