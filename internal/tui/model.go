// Package tui is the interactive terminal timeline editor.
package tui

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/tweenline/internal/config"
	"github.com/ivlev/tweenline/internal/drag"
	"github.com/ivlev/tweenline/internal/engine/clock"
	"github.com/ivlev/tweenline/internal/playback"
	"github.com/ivlev/tweenline/internal/preview"
	"github.com/ivlev/tweenline/internal/system"
	"github.com/ivlev/tweenline/internal/timeline"
)

// Screen rows above the tracks.
const (
	rulerRow = 1
	trackTop = 2
)

var speeds = []float64{0.25, 0.5, 1, 1.5, 2, 4}

type tickMsg time.Time

// rebuildMsg carries a debounced rebuild onto the event loop.
type rebuildMsg struct{ fn func() }

// dispatcher forwards bridge rebuilds to the running program, or runs them
// in place when there is none.
type dispatcher struct {
	mu sync.Mutex
	p  *tea.Program
}

func (d *dispatcher) attach(p *tea.Program) {
	d.mu.Lock()
	d.p = p
	d.mu.Unlock()
}

func (d *dispatcher) send(fn func()) {
	d.mu.Lock()
	p := d.p
	d.mu.Unlock()
	if p == nil {
		fn()
		return
	}
	p.Send(rebuildMsg{fn: fn})
}

// Options configure the editor.
type Options struct {
	Timeline *timeline.Model
	Path     string // save target; empty generates one under Config.Paths.Timelines
	Name     string
	Config   *config.Config
	// Scheduler overrides the rebuild timer, for tests.
	Scheduler system.Scheduler
}

// Model is the bubbletea model of the editor.
type Model struct {
	tl       *timeline.Model
	eng      *clock.Engine
	bridge   *playback.Bridge
	dispatch *dispatcher

	cfg  *config.Config
	path string
	name string

	sel    timeline.Selection
	cursor int

	view      drag.View
	cellWidth float64
	width     int
	height    int

	session   *drag.Session
	scrubbing bool

	prompt    textinput.Model
	prompting bool

	keys     keyMap
	help     help.Model
	status   string
	lastTick time.Time
	quitting bool
}

// New wires a timeline to a clock engine through a playback bridge.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	tl := opts.Timeline
	if tl == nil {
		tl = timeline.NewModel(cfg.TweenDefaults(), timeline.ParsePolicy(cfg.Editor.PositionPolicy))
	}

	d := &dispatcher{}
	b := playback.New(tl, playback.Options{
		Scheduler: opts.Scheduler,
		Delay:     cfg.Playback.RebuildDelay,
		Dispatch:  d.send,
		Loop:      cfg.Playback.Loop,
		Speed:     cfg.Playback.Speed,
	})
	tl.OnChange(b.Invalidate)
	eng := clock.New()
	b.SetEngine(eng)

	in := textinput.New()
	in.Placeholder = "field=value  (e.g. duration=0.8, ease=expo.out, x.to=200)"
	in.CharLimit = 200
	in.Width = 60

	m := Model{
		tl:       tl,
		eng:      eng,
		bridge:   b,
		dispatch: d,
		cfg:      cfg,
		path:     opts.Path,
		name:     opts.Name,
		view: drag.View{
			Zoom:       cfg.Editor.Zoom,
			SnapToGrid: cfg.Editor.SnapToGrid,
			GridSize:   cfg.Editor.GridSize,
		},
		cellWidth: float64(cfg.Editor.CellWidth),
		width:     80,
		height:    24,
		prompt:    in,
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
	if ts := tl.Tweens(); len(ts) > 0 {
		m.sel.Select(ts[0].ID)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	fps := m.cfg.Playback.FPS
	if fps <= 0 {
		fps = 30
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) grid() preview.Grid {
	return preview.Grid{View: m.view, CellWidth: m.cellWidth, Columns: m.width}
}

// pixelAt is the pixel x at the middle of terminal column col.
func (m Model) pixelAt(col int) float64 {
	return m.grid().Pixel(col) + m.cellWidth/2
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			m.eng.Tick(now.Sub(m.lastTick).Seconds())
		}
		m.lastTick = now
		if m.quitting {
			return m, nil
		}
		return m, m.tick()

	case rebuildMsg:
		msg.fn()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		if m.prompting {
			return m.handlePrompt(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// Selected returns the selected ids, for tests and callers.
func (m Model) Selected() []string { return m.sel.IDs() }

// Bridge exposes playback state.
func (m Model) Bridge() *playback.Bridge { return m.bridge }

// View state of the editing surface.
func (m Model) ViewState() drag.View { return m.view }

// Status is the last status line message.
func (m Model) Status() string { return m.status }

// Run starts the editor full screen with mouse support.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	m.dispatch.attach(p)
	_, err := p.Run()
	m.bridge.Close()
	if err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	return nil
}

func clampf(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
