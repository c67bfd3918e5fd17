// Package workspace opens an annotation session from the command line inputs:
// the frame prefix, the output file and the configuration.
package workspace

import (
	"log/slog"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/soocke/frame-annotator-go/config"
	"github.com/soocke/frame-annotator-go/domain/annofile"
	"github.com/soocke/frame-annotator-go/domain/annotation"
	"github.com/soocke/frame-annotator-go/domain/controller"
	"github.com/soocke/frame-annotator-go/domain/frames"
	"github.com/soocke/frame-annotator-go/domain/gesture"
	"github.com/soocke/frame-annotator-go/domain/propagation"
	"github.com/soocke/frame-annotator-go/domain/tracking"
)

// Params are the inputs of Open.
type Params struct {
	Prefix string
	Output string
	Config *config.Config
	// Opener creates the tracker; nil uses tracking.Open.
	Opener tracking.Opener
}

// Workspace is an opened session.
type Workspace struct {
	Frames     *frames.Source
	Document   *annofile.Document
	Controller *controller.Controller
	// Created reports that the output file did not exist and was initialized.
	Created bool
}

// Open expands the frame prefix, creates the output file when missing, loads
// it and builds the controller. Tracker failures degrade to copying; every
// other failure is returned and nothing is opened.
func Open(p Params, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := p.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	matches, err := frames.Glob(p.Prefix)
	if err != nil {
		return nil, err
	}
	files := exclude(matches, p.Output, cfg.RecoveryPath)
	if len(files) == 0 {
		return nil, errors.Wrapf(frames.ErrNoFrames, "prefix %q", p.Prefix)
	}
	src, err := frames.NewSource(files, cfg.FrameCacheSize, logger)
	if err != nil {
		return nil, err
	}

	created, err := annofile.Ensure(p.Output, src.Files())
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info("annotation file created", "path", p.Output)
	}
	doc, err := annofile.Load(p.Output, src.Files())
	if err != nil {
		return nil, err
	}
	for _, n := range doc.Notices {
		logger.Warn("annotation notice", "path", p.Output, "notice", n)
	}

	tracker := openTracker(p.Opener, cfg, logger)
	ctrl := controller.New(doc, src, tracker, ControllerOptions(cfg, p.Output), logger)
	return &Workspace{Frames: src, Document: doc, Controller: ctrl, Created: created}, nil
}

// ControllerOptions maps the configuration onto controller options.
func ControllerOptions(cfg *config.Config, output string) controller.Options {
	g := gesture.DefaultConfig()
	g.Thresholds = annotation.Thresholds{Corner: cfg.CornerThreshold, Center: cfg.CenterThreshold}
	g.ClickThreshold = cfg.ClickThreshold
	g.IdentityStep = cfg.IdentityStep
	g.MaxObjectID = cfg.MaxObjectID
	return controller.Options{
		Gesture:      g,
		JumpFrames:   cfg.JumpFrames,
		OutputPath:   output,
		RecoveryPath: cfg.RecoveryPath,
		ClassNames:   cfg.ClassNames,
	}
}

func openTracker(open tracking.Opener, cfg *config.Config, logger *slog.Logger) propagation.Tracker {
	if open == nil {
		open = tracking.Open
	}
	t, err := open(tracking.Settings{
		Kind:         cfg.Tracker.Kind,
		SearchRadius: cfg.Tracker.SearchRadius,
		Stride:       cfg.Tracker.Stride,
		Threshold:    cfg.Tracker.Threshold,
		Smooth:       cfg.Tracker.Smooth,
	}, logger)
	switch {
	case errors.Is(err, tracking.ErrDisabled):
		logger.Info("tracking disabled, propagation copies rectangles")
		return nil
	case err != nil:
		logger.Warn("tracker unavailable, propagation copies rectangles", "kind", cfg.Tracker.Kind, "error", err)
		return nil
	}
	return t
}

// exclude drops the annotation files from the frame list when the prefix
// happens to match them too.
func exclude(files []string, paths ...string) []string {
	skip := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			skip[abs] = true
		}
	}
	out := files[:0:0]
	for _, f := range files {
		if abs, err := filepath.Abs(f); err == nil && skip[abs] {
			continue
		}
		out = append(out, f)
	}
	return out
}
