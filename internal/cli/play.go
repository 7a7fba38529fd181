package cli

import (
	"fmt"
	"io"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/tweenline/internal/engine/clock"
	"github.com/ivlev/tweenline/internal/playback"
	"github.com/ivlev/tweenline/internal/system"
)

type playOptions struct {
	fps      int
	duration float64
	every    int
	realtime bool
	stats    bool
	repeat   int
	yoyo     bool
}

func newPlayCmd(app *App) *cobra.Command {
	var o playOptions
	cmd := &cobra.Command{
		Use:   "play <file>",
		Short: "Play a document headlessly and print sampled values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fl := cmd.Flags()
			if !fl.Changed("fps") {
				o.fps = app.Config.Playback.FPS
			}
			if !fl.Changed("stats") {
				o.stats = app.Config.ShowStats
			}
			return runPlay(cmd.OutOrStdout(), app, args[0], o, fl.Changed("repeat"), fl.Changed("yoyo"))
		},
	}
	f := cmd.Flags()
	f.IntVar(&o.fps, "fps", 0, "Engine ticks per second (default from config)")
	f.Float64Var(&o.duration, "duration", 0, "Seconds of wall time to play (default: one full run including repeats)")
	f.IntVar(&o.every, "every", 0, "Print values every N frames (default: twice a second)")
	f.BoolVar(&o.realtime, "realtime", false, "Sleep between frames instead of stepping as fast as possible")
	f.BoolVar(&o.stats, "stats", false, "Print a performance report and append it to the benchmark log (default from config showStats)")
	f.IntVar(&o.repeat, "repeat", 0, "Override the document's repeat count (-1 forever)")
	f.BoolVar(&o.yoyo, "yoyo", false, "Override the document's yoyo setting")
	return cmd
}

func runPlay(out io.Writer, app *App, path string, o playOptions, setRepeat, setYoyo bool) error {
	doc, m, err := app.open(path)
	if err != nil {
		return err
	}
	if setRepeat || setYoyo {
		s := m.Settings()
		if setRepeat {
			s.Repeat = o.repeat
		}
		if setYoyo {
			s.Yoyo = o.yoyo
		}
		m.SetSettings(s)
	}
	if o.fps <= 0 {
		o.fps = 30
	}
	if o.every <= 0 {
		o.every = max(1, o.fps/2)
	}

	eng := clock.New()
	b := playback.New(m, playback.Options{
		Delay: app.Config.Playback.RebuildDelay,
		Loop:  app.Config.Playback.Loop,
		Speed: app.Config.Playback.Speed,
	})
	defer b.Close()
	b.SetEngine(eng)

	st := b.State()
	if st.Duration <= 0 {
		fmt.Fprintf(out, "[!] %s has nothing to play\n", path)
		return nil
	}
	limit := o.duration
	if limit <= 0 {
		// one full run after the start delay, repeats included, unless it
		// never ends
		length := st.Duration
		if h, ok := b.Handle().(*clock.Handle); ok && !math.IsInf(h.TotalDuration(), 1) {
			length = h.TotalDuration()
		}
		limit = (m.Settings().Delay + length) / st.Speed
	}
	fmt.Fprintf(out, "[*] Playing %s: %d tweens, %.3fs at %gx\n", path, m.Len(), st.Duration, st.Speed)

	dt := 1 / float64(o.fps)
	started := time.Now()
	b.Play()
	frames, wall := 0, 0.0
	for wall < limit-1e-9 {
		if o.realtime {
			time.Sleep(time.Duration(dt * float64(time.Second)))
		}
		eng.Tick(dt)
		frames++
		wall += dt
		if frames%o.every == 0 {
			printFrame(out, b)
		}
		if !b.State().IsPlaying {
			break
		}
	}
	if frames%o.every != 0 {
		printFrame(out, b)
	}
	elapsed := time.Since(started)
	fmt.Fprintf(out, "[+++] Done: %d frames, playhead %.3fs\n", frames, b.State().CurrentTime)

	if !o.stats {
		return nil
	}
	run := system.PlaybackRun{
		Build:    app.Config.BuildVersion,
		Input:    path,
		Tweens:   len(doc.Tweens),
		Frames:   frames,
		Span:     st.Duration,
		Elapsed:  elapsed,
		Rebuilds: b.Rebuilds(),
	}
	ps, err := system.CollectStats()
	if err != nil {
		log.Printf("[!] Process stats unavailable: %v", err)
	}
	fmt.Fprint(out, system.FormatReport(run, ps))
	if p := app.Config.Paths.BenchmarkLog; p != "" {
		if err := system.AppendBenchmarkLog(p, run, ps); err != nil {
			log.Printf("[!] Benchmark log: %v", err)
		}
	}
	return nil
}

// printFrame writes the playhead and the active tweens' values.
func printFrame(out io.Writer, b *playback.Bridge) {
	t := b.State().CurrentTime
	h, ok := b.Handle().(*clock.Handle)
	if !ok {
		fmt.Fprintf(out, "[>] %7.3fs\n", t)
		return
	}
	var parts []string
	for _, s := range h.Values(t) {
		if !s.Active {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s{%s}", s.Label, formatProps(s.Props)))
	}
	fmt.Fprintf(out, "[>] %7.3fs %s\n", t, strings.Join(parts, " "))
}

func formatProps(props map[string]float64) string {
	names := make([]string, 0, len(props))
	for k := range props {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = fmt.Sprintf("%s=%.2f", k, props[k])
	}
	return strings.Join(parts, " ")
}
