package view

import (
	"strconv"
	"strings"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ObjectPanel holds the editable fields of the session: video name, frame
// jump and per-object class assignment.
type ObjectPanel interface {
	Build(startRow int) (endRow int) // constructs widgets starting at startRow, returns next free row
	SetName(name string)
	Name() string
}

// PanelHandlers receive the panel's apply actions.
type PanelHandlers struct {
	Rename      func(name string)
	Goto        func(text string)
	AssignClass func(objectID string, choice int)
}

type objectPanel struct {
	parent   *FrameWidget
	classes  []string
	h        PanelHandlers
	widgets  map[string]*TextWidget // keyed by internal field id
	classSel *TComboboxWidget
}

// NewObjectPanel creates the panel inside parent. classes are the class
// names; the selector gets an extra leading "<none>" entry.
func NewObjectPanel(parent *FrameWidget, classes []string, h PanelHandlers) ObjectPanel {
	return &objectPanel{parent: parent, classes: classes, h: h, widgets: make(map[string]*TextWidget)}
}

func (v *objectPanel) Build(startRow int) (row int) {
	row = startRow
	makeRow := func(id, label, value, action string, apply func()) {
		lbl := Label(Txt(label), Anchor("w"))
		Grid(lbl, In(v.parent), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
		w := Text(Height(1), Width(16))
		Grid(w, In(v.parent), Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
		w.Delete("1.0", END)
		w.Insert("1.0", value)
		Bind(w, "<Return>", Command(apply))
		btn := Button(Txt(action), Command(apply))
		Grid(btn, In(v.parent), Row(row), Column(2), Sticky("we"), Padx("0.2m"), Pady("0.15m"))
		v.widgets[id] = w
		row++
	}
	makeRow("name", "Video name", "", "Rename", v.applyName)
	makeRow("goto", "Go to frame", "1", "Go", v.applyGoto)
	makeRow("object", "Object id", "1", "Assign", v.applyClass)

	choices := append([]string{"<none>"}, v.classNames()...)
	v.classSel = TCombobox(Values(choices), Width(16))
	Grid(Label(Txt("Class"), Anchor("w")), In(v.parent), Row(row), Column(0), Sticky("w"), Padx("0.4m"), Pady("0.15m"))
	Grid(v.classSel, In(v.parent), Row(row), Column(1), Sticky("we"), Padx("0.4m"), Pady("0.15m"))
	v.classSel.Current(0)
	row++
	return row
}

func (v *objectPanel) classNames() []string {
	out := make([]string, len(v.classes))
	for i, n := range v.classes {
		out[i] = strconv.Itoa(i+1) + " " + n
	}
	return out
}

// SetName shows name in the name field.
func (v *objectPanel) SetName(name string) {
	if w := v.widgets["name"]; w != nil {
		w.Delete("1.0", END)
		w.Insert("1.0", name)
	}
}

// Name returns the name field as typed, applied or not.
func (v *objectPanel) Name() string { return v.text("name") }

func (v *objectPanel) text(id string) string {
	w := v.widgets[id]
	if w == nil {
		return ""
	}
	return strings.TrimSpace(strings.Join(w.Get("1.0", END), ""))
}

func (v *objectPanel) applyName() {
	if v.h.Rename != nil {
		v.h.Rename(v.text("name"))
	}
}

func (v *objectPanel) applyGoto() {
	if v.h.Goto != nil {
		v.h.Goto(v.text("goto"))
	}
}

func (v *objectPanel) applyClass() {
	if v.h.AssignClass == nil || v.classSel == nil {
		return
	}
	choice, err := strconv.Atoi(v.classSel.Current(nil))
	if err != nil || choice < 0 {
		choice = 0
	}
	v.h.AssignClass(v.text("object"), choice)
}
