package view

import (
	"strings"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders
	. "modernc.org/tk9.0"
)

// ReportWindow shows a validation report in its own window. Reports can be
// long (one line per gap) so they get a scrollable text instead of a message box.
type ReportWindow interface {
	Show(title, text string)
	Close()
}

type reportWindow struct {
	win  *ToplevelWidget
	text *TextWidget
}

func NewReportWindow() ReportWindow { return &reportWindow{} }

func (v *reportWindow) Show(title, text string) {
	if v.win == nil {
		v.open()
	}
	v.win.WmTitle(title)
	lines := strings.Count(text, "\n") + 1
	v.text.Configure(State("normal"), Height(min(max(lines, 3), 25)))
	v.text.Delete("1.0", END)
	v.text.Insert("1.0", text)
	v.text.Configure(State("disabled"))
}

func (v *reportWindow) open() {
	win := App.Toplevel(Borderwidth(2))
	v.win = win
	GridRowConfigure(win.Window, 0, Weight(1))
	GridColumnConfigure(win.Window, 0, Weight(1))
	v.text = win.Text(Width(72), Height(10), Wrap("word"))
	Grid(v.text, Row(0), Column(0), Sticky("nsew"), Padx("0.4m"), Pady("0.4m"))
	closeBtn := win.Button(Txt("Close [Esc]"), Command(v.Close))
	Grid(closeBtn, Row(1), Column(0), Sticky("e"), Padx("0.4m"), Pady("0.4m"))
	Bind(win, "<Return>", Command(v.Close))
	Bind(win, "<Escape>", Command(v.Close))
	WmProtocol(win.Window, "WM_DELETE_WINDOW", v.Close)
}

func (v *reportWindow) Close() {
	if v.win != nil {
		Destroy(v.win)
		v.win = nil
		v.text = nil
	}
}
