package view

import (
	"image"
	"log/slog"
	"strings"
	"time"

	"github.com/soocke/frame-annotator-go/ui/theme"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// RootView composes the annotator window: the frame on the left and the
// session panel on the right. It implements the presenter view contracts.
type RootView struct {
	logger *slog.Logger

	// Subviews
	Session SessionStats
	Preview FramePreview
	Panel   ObjectPanel
	Report  ReportWindow

	// Widgets
	StateLabel *TLabelWidget
	identities *TextWidget
	closed     bool
}

// Handlers are the callbacks the view invokes on user input. Pointer
// positions are in displayed frame coordinates.
type Handlers struct {
	PointerDown    func(x, y int)
	AltPointerDown func(x, y int)
	PointerMove    func(x, y int)
	PointerUp      func(x, y int)
	Key            func(keysym string) bool
	Save           func()
	Quit           func()
	Panel          PanelHandlers
}

func NewRootView(logger *slog.Logger) *RootView {
	return &RootView{logger: logger}
}

// Build constructs the layout and binds input. classes feeds the class selector.
func (rv *RootView) Build(classes []string, h Handlers) {
	if rv == nil {
		return
	}
	panel := Frame()
	Grid(panel, Row(0), Column(1), Sticky("nw"), Padx("0.4m"), Pady("0.4m"))

	rv.StateLabel = TLabel(Txt("Mode: idle"), Style(theme.StyleStateLabel))
	Grid(rv.StateLabel, In(panel), Row(0), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.3m"))
	rv.Session = NewSessionStats(panel, 1, 0)
	rv.Preview = NewFramePreview(0, 0, panel, 2)

	objects := TLabel(Txt("Objects"), Style(theme.StyleMutedLabel))
	Grid(objects, In(panel), Row(3), Column(0), Columnspan(3), Sticky("w"), Padx("0.4m"))
	rv.identities = Text(Height(12), Width(34), Wrap("none"))
	Grid(rv.identities, In(panel), Row(4), Column(0), Columnspan(3), Sticky("we"), Padx("0.4m"), Pady("0.2m"))
	rv.identities.Configure(State("disabled"))

	rv.Panel = NewObjectPanel(panel, classes, h.Panel)
	row := rv.Panel.Build(5)

	btnFrame := Frame()
	Grid(btnFrame, In(panel), Row(row), Column(0), Columnspan(3), Sticky("we"), Pady("0.4m"))
	saveBtn := TButton(Txt("Save [s]"), Style(theme.StylePrimaryButton), Command(h.Save))
	Grid(saveBtn, In(btnFrame), Row(0), Column(0), Sticky("we"), Padx("0.2m"))
	quitBtn := TButton(Txt("Quit [q]"), Style(theme.StyleDangerButton), Command(h.Quit))
	Grid(quitBtn, In(btnFrame), Row(0), Column(1), Sticky("we"), Padx("0.2m"))

	rv.Report = NewReportWindow()
	rv.bindFrame(h)
	WmProtocol(App, "WM_DELETE_WINDOW", h.Quit)
}

// bindFrame routes mouse and keyboard input on the frame label. Keys are bound
// to the label rather than the window so typing into the panel fields does not
// trigger editing commands. Ctrl+left click counts as the alternate button.
func (rv *RootView) bindFrame(h Handlers) {
	lbl := rv.Preview.FrameLabel()
	Bind(lbl, "<ButtonPress-1>", Command(func(e *Event) {
		Focus(lbl)
		h.PointerDown(e.X, e.Y)
	}))
	Bind(lbl, "<Control-ButtonPress-1>", Command(func(e *Event) {
		Focus(lbl)
		h.AltPointerDown(e.X, e.Y)
	}))
	Bind(lbl, "<ButtonPress-3>", Command(func(e *Event) {
		Focus(lbl)
		h.AltPointerDown(e.X, e.Y)
	}))
	Bind(lbl, "<Motion>", Command(func(e *Event) { h.PointerMove(e.X, e.Y) }))
	Bind(lbl, "<ButtonRelease-1>", Command(func(e *Event) { h.PointerUp(e.X, e.Y) }))
	Bind(lbl, "<ButtonRelease-3>", Command(func(e *Event) { h.PointerUp(e.X, e.Y) }))
	Bind(lbl, "<Enter>", Command(func() { Focus(lbl) }))
	Bind(lbl, "<KeyPress>", Command(func(e *Event) {
		if !h.Key(e.Keysym) && rv.logger != nil {
			rv.logger.Debug("unbound key", "keysym", e.Keysym)
		}
	}))
	Focus(lbl)
}

// SetStateLabel updates the gesture mode label.
func (rv *RootView) SetStateLabel(text string) {
	if rv != nil && rv.StateLabel != nil && !rv.closed {
		rv.StateLabel.Configure(Txt(text))
	}
}

// SetSession updates the editing durations.
func (rv *RootView) SetSession(session, total time.Duration) {
	if rv == nil || rv.Session == nil || rv.closed {
		return
	}
	rv.Session.SetSession(session)
	rv.Session.SetTotal(total)
}

func (rv *RootView) ShowFrame(img image.Image) {
	if rv != nil && rv.Preview != nil && !rv.closed {
		rv.Preview.UpdateFrame(img)
	}
}

func (rv *RootView) ShowLoupe(img image.Image) {
	if rv != nil && rv.Preview != nil && !rv.closed {
		rv.Preview.UpdateLoupe(img)
	}
}

func (rv *RootView) SetTitle(title string) {
	if rv != nil && !rv.closed {
		App.WmTitle(title)
	}
}

// SetIdentities replaces the object list.
func (rv *RootView) SetIdentities(lines []string) {
	if rv == nil || rv.identities == nil || rv.closed {
		return
	}
	rv.identities.Configure(State("normal"))
	rv.identities.Delete("1.0", END)
	rv.identities.Insert("1.0", strings.Join(lines, "\n"))
	rv.identities.Configure(State("disabled"))
}

func (rv *RootView) SetName(name string) {
	if rv != nil && rv.Panel != nil && !rv.closed {
		rv.Panel.SetName(name)
	}
}

// Name returns the text of the video name field.
func (rv *RootView) Name() string {
	if rv == nil || rv.Panel == nil || rv.closed {
		return ""
	}
	return rv.Panel.Name()
}

func (rv *RootView) ShowReport(title, text string) {
	if rv != nil && rv.Report != nil && !rv.closed {
		rv.Report.Show(title, text)
	}
}

func (rv *RootView) ShowError(title, text string) {
	if rv == nil || rv.closed {
		return
	}
	MessageBox(Icon("error"), Title(title), Msg(text))
}

// Confirm asks a yes/no question.
func (rv *RootView) Confirm(title, text string) bool {
	if rv == nil || rv.closed {
		return false
	}
	return MessageBox(Icon("warning"), Title(title), Msg(text), Type("yesno")) == "yes"
}

// Close tears the window down, which ends App.Wait.
func (rv *RootView) Close() {
	if rv == nil || rv.closed {
		return
	}
	rv.closed = true
	if rv.Report != nil {
		rv.Report.Close()
	}
	Destroy(App)
}
