package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ivlev/tweenline/internal/preview"
)

func newRenderCmd(app *App) *cobra.Command {
	var (
		output   string
		preset   string
		width    int
		height   int
		playhead float64
	)
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Draw the resolved timeline as a PNG strip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			doc, err := readDoc(path)
			if err != nil {
				return err
			}

			cfg := app.Config
			if preset != "" {
				cfg.Preview.Preset = preset
				cfg.ApplyPreset()
			}
			if width > 0 {
				cfg.Preview.Width = width
			}
			if height > 0 {
				cfg.Preview.Height = height
			}
			if output == "" {
				output = filepath.Join(cfg.Paths.Output, docName(path)+".png")
			}
			if dir := filepath.Dir(output); dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("render: %w", err)
				}
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}
			opts := preview.Options{
				Width:        cfg.Preview.Width,
				Height:       cfg.Preview.Height,
				Playhead:     playhead,
				ShowPlayhead: cmd.Flags().Changed("playhead"),
			}
			if err := preview.RenderPNG(f, doc.Tweens, opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[+++] Preview written: %s (%dx%d)\n", output, opts.Width, opts.Height)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "PNG path (default: <paths.output>/<name>.png)")
	f.StringVar(&preset, "preset", "", "Size preset: wide, 16:9, 4:3")
	f.IntVar(&width, "width", 0, "Width in pixels")
	f.IntVar(&height, "height", 0, "Height in pixels")
	f.Float64Var(&playhead, "playhead", 0, "Draw the playhead at this time")
	return cmd
}
