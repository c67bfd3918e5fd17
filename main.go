package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/soocke/frame-annotator-go/app"
	"github.com/soocke/frame-annotator-go/config"
	"github.com/soocke/frame-annotator-go/debug"
	"github.com/soocke/frame-annotator-go/domain/annofile"
	"github.com/soocke/frame-annotator-go/domain/workspace"
)

const usageText = `usage: annotator [flags] <frame-prefix> <output.xml>

Annotates the frames matching <frame-prefix>* (sorted by name) and stores
the boxes in <output.xml>, which is created when missing.

flags:
`

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type cliArgs struct {
	configPath string
	debug      bool
	tracker    string
	prefix     string
	output     string
}

func parseArgs(args []string, stderr io.Writer) (cliArgs, error) {
	var a cliArgs
	fs := flag.NewFlagSet("annotator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&a.configPath, "config", "annotator.json", "configuration file (JSON)")
	fs.BoolVar(&a.debug, "debug", false, "debug logging and resource statistics")
	fs.StringVar(&a.tracker, "tracker", "", `tracker kind overriding the configuration ("ncc" or "none")`)
	fs.Usage = func() {
		fmt.Fprint(stderr, usageText)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return a, err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return a, errors.Errorf("expected 2 arguments, got %d", fs.NArg())
	}
	a.prefix, a.output = fs.Arg(0), fs.Arg(1)
	return a, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := config.Load(a.configPath)
	level := slog.LevelInfo
	if a.debug || cfg.Debug {
		cfg.Debug = true
		level = slog.LevelDebug
	}
	logger := NewLogger(stdout, level)
	if err != nil {
		logger.Warn("config unreadable, using defaults", "path", a.configPath, "error", err)
	}
	if a.tracker != "" {
		cfg.Tracker.Kind = a.tracker
		_ = cfg.Validate()
	}

	ws, err := workspace.Open(workspace.Params{Prefix: a.prefix, Output: a.output, Config: cfg}, logger)
	if err != nil {
		var se *annofile.StructuralError
		if errors.As(err, &se) {
			fmt.Fprintf(stderr, "annotator: %s is malformed: %v\n", a.output, err)
		} else {
			fmt.Fprintf(stderr, "annotator: %v\n", err)
		}
		logger.Error("open failed", "prefix", a.prefix, "output", a.output, "error", err)
		return exitFailure
	}

	if cfg.Debug {
		debug.StartResourceLogger(time.Duration(cfg.ResourceLogSeconds)*time.Second, logger)
	}

	app.NewApp(cfg, logger, ws).Start()
	return exitOK
}
