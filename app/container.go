package app

import (
	"log/slog"
	"time"

	"github.com/soocke/frame-annotator-go/config"
	"github.com/soocke/frame-annotator-go/domain/workspace"
	"github.com/soocke/frame-annotator-go/ui/model"
	"github.com/soocke/frame-annotator-go/ui/presenter"
	"github.com/soocke/frame-annotator-go/ui/view"
)

// AppContainer assembles the workspace, models, presenters and the root view.
type AppContainer struct {
	Config    *config.Config
	Logger    *slog.Logger
	Workspace *workspace.Workspace
	Activity  *model.ActivityModel
	Viewport  *model.ViewportModel
	RootView  *view.RootView

	// Presenters
	Annotation *presenter.AnnotationPresenter
	Session    *presenter.SessionPresenter
	State      *presenter.StatePresenter
	Loop       *presenter.Loop
}

// BuildContainer constructs all components over an opened workspace. No Tk
// widgets are created here; Start builds the window.
func BuildContainer(cfg *config.Config, logger *slog.Logger, ws *workspace.Workspace) *AppContainer {
	c := &AppContainer{Config: cfg, Logger: logger, Workspace: ws}
	c.Activity = model.NewActivityModel(model.DefaultIdleAfter)
	c.Viewport = &model.ViewportModel{}
	c.RootView = view.NewRootView(logger)

	opts := presenter.DefaultOptions()
	opts.RecoveryPath = cfg.RecoveryPath
	c.Annotation = presenter.NewAnnotationPresenter(ws.Controller, c.RootView, c.Viewport, c.Activity, opts, logger)
	c.Session = presenter.NewSessionPresenter(c.Activity, c.RootView)
	c.State = presenter.NewStatePresenter(c.RootView)
	ws.Controller.AddGestureListener(c.State.OnState)
	return c
}

// tick is the status refresh period.
const tick = time.Second
