package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ivlev/tweenline/internal/drag"
	"github.com/ivlev/tweenline/internal/timeline"
	"github.com/ivlev/tweenline/internal/tween"
)

// SampleDocument is what init writes: a title that fades in, a split-text
// stagger overlapping it, and a box that starts with the title.
func SampleDocument(name string) *timeline.Document {
	f := func(v float64) *float64 { return &v }
	return &timeline.Document{
		Version:  timeline.DocumentVersion,
		Name:     name,
		Settings: timeline.DefaultSettings(),
		Tweens: []tween.Tween{
			{
				ID: tween.NewID(), Label: "Title in", Target: ".title", Type: tween.From,
				Duration: 0.8, Ease: "power2.out", Color: tween.Palette[0],
				Properties: map[string]tween.Endpoint{
					"opacity": {To: 0},
					"y":       {To: 40, Unit: "px"},
				},
			},
			{
				ID: tween.NewID(), Label: "Box slide", Target: ".box", Type: tween.To,
				Duration: 1, Position: "<", Ease: "back.out", Color: tween.Palette[1],
				Properties: map[string]tween.Endpoint{
					"x": {To: 300, Unit: "px"},
				},
			},
			{
				ID: tween.NewID(), Label: "Letters", Target: ".subtitle", Type: tween.FromTo,
				Duration: 0.4, Position: "-=0.3", Ease: "expo.out", Color: tween.Palette[2],
				Stagger:   &tween.Stagger{Each: 0.05},
				SplitText: &tween.SplitText{Type: "chars", Text: "tweenline"},
				Properties: map[string]tween.Endpoint{
					"opacity": {From: f(0), To: 1},
					"y":       {From: f(20), To: 0, Unit: "px"},
				},
			},
			{
				ID: tween.NewID(), Label: "Hide box", Target: ".box", Type: tween.Set,
				Position: "+=0.5", Color: tween.Palette[3],
				Properties: map[string]tween.Endpoint{
					"autoAlpha": {To: 0},
				},
			},
		},
	}
}

func newInitCmd(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init <file>",
		Short: "Write a sample timeline document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := timeline.WriteDocument(SampleDocument(docName(path)), path); err != nil {
				return fmt.Errorf("init %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+] Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newAddCmd(app *App) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Append a tween after the current end",
		Example: strings.TrimSpace(`
  tweenline add intro.yaml --set target=.logo --set duration=0.5 --set scale.to=1.2
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			doc, m, err := app.open(path)
			if err != nil {
				return err
			}
			t := m.Add()
			for _, kv := range sets {
				field, value, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("--set %q: expected field=value", kv)
				}
				var serr error
				if err := m.Update(t.ID, func(t *tween.Tween) { serr = timeline.SetField(t, strings.TrimSpace(field), value) }); err != nil {
					return err
				}
				if serr != nil {
					return fmt.Errorf("--set %q: %w", kv, serr)
				}
			}
			if err := app.save(path, doc, m); err != nil {
				return err
			}
			start, _ := m.StartOf(t.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "[+] Added %s at %.3fs\n", t.ID, start)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value applied to the new tween (repeatable)")
	return cmd
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <file> <id>",
		Short: "Delete a tween",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, id := args[0], args[1]
			doc, m, err := app.open(path)
			if err != nil {
				return err
			}
			if err := m.Delete(id); err != nil {
				return fmt.Errorf("rm %s: %w", id, err)
			}
			if err := app.save(path, doc, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+] Removed %s, span now %.3fs\n", id, m.Span())
			return nil
		},
	}
}

func newDragCmd(app *App) *cobra.Command {
	var (
		modeName string
		dx       float64
	)
	cmd := &cobra.Command{
		Use:   "drag <file> <id>",
		Short: "Apply one pointer drag of dx pixels and save",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, id := args[0], args[1]
			mode, ok := drag.ParseMode(modeName)
			if !ok {
				return fmt.Errorf("unknown drag mode %q (move, resize-left, resize-right)", modeName)
			}
			doc, m, err := app.open(path)
			if err != nil {
				return err
			}
			v := drag.View{
				Zoom:       app.Config.Editor.Zoom,
				SnapToGrid: app.Config.Editor.SnapToGrid,
				GridSize:   app.Config.Editor.GridSize,
			}
			r, err := m.Drag(id, mode, v, dx)
			if errors.Is(err, timeline.ErrNotFound) {
				return fmt.Errorf("drag %s: %w", id, err)
			}
			if err != nil {
				return err
			}
			if err := app.save(path, doc, m); err != nil {
				return err
			}
			t, _ := m.Get(id)
			pos := t.Position
			if pos == "" {
				pos = `""`
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+] %s %s: start %.3fs, duration %.3fs, position %s\n",
				mode, id, r.Position, r.Duration, pos)
			return nil
		},
	}
	cmd.Flags().StringVar(&modeName, "mode", "move", "move, resize-left or resize-right")
	cmd.Flags().Float64Var(&dx, "dx", 0, "Horizontal pointer delta in pixels")
	return cmd
}
