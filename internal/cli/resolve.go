package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/tweenline/internal/preview"
	"github.com/ivlev/tweenline/internal/timeline"
)

func newResolveCmd(app *App) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "resolve <file>...",
		Short: "Print the resolved start times of each document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				workers = app.Config.Workers
			}
			docs, err := loadAll(cmd, args, workers)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, doc := range docs {
				if len(docs) > 1 {
					fmt.Fprintf(out, "== %s ==\n", args[i])
				}
				fmt.Fprint(out, preview.Schedule(doc.Tweens))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "Documents read in parallel (default from config)")
	return cmd
}

// loadAll reads paths concurrently, keeping their order.
func loadAll(cmd *cobra.Command, paths []string, workers int) ([]*timeline.Document, error) {
	docs := make([]*timeline.Document, len(paths))
	g, ctx := errgroup.WithContext(cmd.Context())
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := timeline.ReadDocument(path)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", path, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
