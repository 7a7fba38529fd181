// Package cli wires the tweenline commands.
package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/tweenline/internal/config"
	"github.com/ivlev/tweenline/internal/timeline"
	"github.com/ivlev/tweenline/internal/tui"
)

// App is shared by every command.
type App struct {
	ConfigPath string
	Version    string

	Config *config.Config

	policy string
	zoom   float64
	snap   bool
	grid   float64
	loop   bool
	speed  float64
}

// runEditor is swapped out in tests.
var runEditor = tui.Run

func NewRootCmd(version string) *cobra.Command {
	app := &App{Version: version}

	cmd := &cobra.Command{
		Use:          "tweenline [file]",
		Short:        "Timeline position resolver and terminal editor",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		Example: strings.TrimSpace(`
  # Edit the newest timeline in timelines/
  tweenline

  # Print resolved start times
  tweenline resolve intro.yaml outro.yaml

  # Move a tween half a second to the right at 100px/s
  tweenline drag intro.yaml <id> --dx 50
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, args)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.loadConfig(cmd)
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigPath, "config", "", "Config file (default: ./"+config.DefaultFile+" when present)")
	pf.StringVar(&app.policy, "policy", "", "Drag write-back: literal or relative")
	pf.Float64Var(&app.zoom, "zoom", 0, "Pixels per second")
	pf.BoolVar(&app.snap, "snap", false, "Snap drags to the grid")
	pf.Float64Var(&app.grid, "grid", 0, "Grid size in seconds")
	pf.BoolVar(&app.loop, "loop", false, "Loop playback")
	pf.Float64Var(&app.speed, "speed", 0, "Playback speed")

	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newResolveCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newDragCmd(app))
	cmd.AddCommand(newPlayCmd(app))
	cmd.AddCommand(newRenderCmd(app))

	return cmd
}

// loadConfig reads the config file and lets explicitly set flags win.
func (app *App) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return err
	}
	cfg.BuildVersion = app.Version

	fl := cmd.Flags()
	if fl.Changed("policy") {
		cfg.Editor.PositionPolicy = string(timeline.ParsePolicy(app.policy))
	}
	if fl.Changed("zoom") && app.zoom > 0 {
		cfg.Editor.Zoom = app.zoom
	}
	if fl.Changed("snap") {
		cfg.Editor.SnapToGrid = app.snap
	}
	if fl.Changed("grid") && app.grid > 0 {
		cfg.Editor.GridSize = app.grid
	}
	if fl.Changed("loop") {
		cfg.Playback.Loop = app.loop
	}
	if fl.Changed("speed") && app.speed > 0 {
		cfg.Playback.Speed = app.speed
	}
	app.Config = cfg
	return nil
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file]",
		Short: "Open the terminal editor",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd, app, args)
		},
	}
}

func runEdit(cmd *cobra.Command, app *App, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else if latest, err := timeline.FindLatestDocument(app.Config.Paths.Timelines); err == nil {
		path = latest
		fmt.Fprintf(cmd.OutOrStdout(), "[*] Opening %s\n", path)
	}

	var (
		tl   *timeline.Model
		name string
	)
	if path != "" {
		doc, m, err := app.open(path)
		if err != nil {
			return err
		}
		tl, name = m, doc.Name
	} else {
		tl = app.newModel()
	}
	if name == "" && path != "" {
		name = docName(path)
	}

	return runEditor(tui.Options{
		Timeline: tl,
		Path:     path,
		Name:     name,
		Config:   app.Config,
	})
}

func (app *App) newModel() *timeline.Model {
	return timeline.NewModel(app.Config.TweenDefaults(), timeline.ParsePolicy(app.Config.Editor.PositionPolicy))
}

// open reads a document into an editable model.
func (app *App) open(path string) (*timeline.Document, *timeline.Model, error) {
	doc, err := readDoc(path)
	if err != nil {
		return nil, nil, err
	}
	m := timeline.FromDocument(doc, app.Config.TweenDefaults(), timeline.ParsePolicy(app.Config.Editor.PositionPolicy))
	return doc, m, nil
}

func readDoc(path string) (*timeline.Document, error) {
	doc, err := timeline.ReadDocument(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return doc, nil
}

func (app *App) save(path string, doc *timeline.Document, m *timeline.Model) error {
	name := doc.Name
	if name == "" {
		name = docName(path)
	}
	if err := timeline.WriteDocument(m.Document(name), path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func docName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
