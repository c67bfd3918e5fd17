package app

import (
	"log/slog"

	"github.com/soocke/frame-annotator-go/config"
	"github.com/soocke/frame-annotator-go/domain/workspace"
	"github.com/soocke/frame-annotator-go/ui/presenter"
	"github.com/soocke/frame-annotator-go/ui/theme"
	"github.com/soocke/frame-annotator-go/ui/view"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

type app struct {
	c       *AppContainer
	afterID string
	done    bool
}

// NewApp prepares the window for an opened workspace.
func NewApp(cfg *config.Config, logger *slog.Logger, ws *workspace.Workspace) *app {
	return &app{c: BuildContainer(cfg, logger, ws)}
}

// Start builds the UI and runs the Tk event loop until the window closes.
func (a *app) Start() {
	c := a.c
	theme.SetDark(c.Config.Dark)
	p := c.Annotation
	p.SetStyle(theme.OverlayStyle())
	c.RootView.Build(c.Config.ClassNames, view.Handlers{
		PointerDown:    p.OnPointerDown,
		AltPointerDown: p.OnAltPointerDown,
		PointerMove:    p.OnPointerMove,
		PointerUp:      p.OnPointerUp,
		Key:            p.OnKey,
		Save:           p.OnSave,
		Quit:           a.quit,
		Panel: view.PanelHandlers{
			Rename:      p.OnRename,
			Goto:        p.OnGoto,
			AssignClass: p.OnAssignClass,
		},
	})
	c.Loop = presenter.NewLoop(c.Session, c.State, a.scheduleUpdate)
	p.Start()
	a.scheduleUpdate()

	App.Wait()
	a.shutdown()
}

func (a *app) quit() {
	if a.c.Annotation.OnQuit() {
		a.shutdown()
	}
}

// shutdown cancels the status loop and releases the tracker. Safe to call twice.
func (a *app) shutdown() {
	if a.done {
		return
	}
	a.done = true
	if a.afterID != "" {
		TclAfterCancel(a.afterID)
	}
	if err := a.c.Workspace.Controller.Close(); err != nil {
		a.c.Logger.Warn("close failed", "error", err)
	}
	a.c.Logger.Info("session closed", "modified", a.c.Workspace.Controller.Modified())
}

func (a *app) scheduleUpdate() {
	if a.done {
		return
	}
	// TclAfter keeps the loop on Tk's event loop thread.
	a.afterID = TclAfter(tick, func() { a.c.Loop.Tick() })
}
