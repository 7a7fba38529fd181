// Package clock is an in-process engine.Engine driven by explicit ticks.
//
// Time only moves when the host calls Engine.Tick, and OnUpdate/OnComplete
// callbacks only fire from Tick, after every lock is released. Callers may
// therefore call back into a handle from a callback.
package clock

import (
	"math"
	"strings"
	"sync"

	"github.com/ivlev/tweenline/internal/ease"
	"github.com/ivlev/tweenline/internal/engine"
	"github.com/ivlev/tweenline/internal/position"
	"github.com/ivlev/tweenline/internal/tween"
)

// Engine owns every live timeline it built.
type Engine struct {
	mu      sync.Mutex
	handles []*Handle
}

// New creates an engine with no timelines.
func New() *Engine {
	return &Engine{}
}

// Build creates a paused timeline.
func (e *Engine) Build(opts engine.BuildOptions) engine.Handle {
	return e.build(opts)
}

func (e *Engine) build(opts engine.BuildOptions) *Handle {
	h := &Handle{opts: opts, rate: 1, paused: true, delayLeft: opts.Delay, owner: e}
	e.mu.Lock()
	e.handles = append(e.handles, h)
	e.mu.Unlock()
	return h
}

// Live is the number of timelines that have not been killed.
func (e *Engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handles)
}

// Tick advances every playing timeline by dt seconds of wall time.
func (e *Engine) Tick(dt float64) {
	if dt <= 0 || math.IsNaN(dt) {
		return
	}
	e.mu.Lock()
	hs := make([]*Handle, len(e.handles))
	copy(hs, e.handles)
	e.mu.Unlock()

	for _, h := range hs {
		h.advance(dt)
	}
}

func (e *Engine) remove(h *Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, x := range e.handles {
		if x == h {
			e.handles = append(e.handles[:i], e.handles[i+1:]...)
			return
		}
	}
}

type entry struct {
	t       tween.Tween
	targets int
	dur     float64 // effective: fan-out included, 0 for set
	start   float64
}

// Handle is one timeline built by the clock engine.
type Handle struct {
	mu    sync.Mutex
	owner *Engine
	opts  engine.BuildOptions

	entries []entry
	span    float64

	total     float64 // played time across iterations, delay excluded
	delayLeft float64
	rate      float64
	paused    bool
	killed    bool

	onUpdate   func(float64)
	onComplete func()
}

// Add appends a tween and re-resolves the timeline.
func (h *Handle) Add(t tween.Tween, pos string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.killed {
		return
	}
	t = t.Clone()
	t.Position = pos
	if t.Ease == "" {
		t.Ease = h.opts.DefaultEase
	}
	if t.Duration <= 0 && t.Type != tween.Set && h.opts.DefaultDuration > 0 {
		t.Duration = h.opts.DefaultDuration
	}
	n := Targets(t)
	h.entries = append(h.entries, entry{t: t, targets: n, dur: EffectiveDuration(t)})
	h.resolve()
}

func (h *Handle) resolve() {
	items := make([]position.Item, len(h.entries))
	for i, e := range h.entries {
		items[i] = position.Item{Position: e.t.Position, Duration: e.dur}
	}
	res := position.Resolve(items)
	for i := range h.entries {
		h.entries[i].start = res.Starts[i]
	}
	h.span = res.End
}

// Targets is how many animated targets a tween fans out to: split parts for
// split text, otherwise one per comma-separated selector.
func Targets(t tween.Tween) int {
	if t.SplitText != nil {
		return t.SplitText.Parts()
	}
	n := 0
	for _, sel := range strings.Split(t.Target, ",") {
		if strings.TrimSpace(sel) != "" {
			n++
		}
	}
	if n == 0 {
		return 1
	}
	return n
}

// EffectiveDuration is how long a tween occupies the timeline.
func EffectiveDuration(t tween.Tween) float64 {
	if t.Type == tween.Set {
		return 0
	}
	d := t.Duration
	if d < 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		d = 0
	}
	return d + t.Stagger.Spread(Targets(t))
}

// Play resumes from the current time.
func (h *Handle) Play() {
	h.mu.Lock()
	if !h.killed {
		h.paused = false
	}
	h.mu.Unlock()
}

// Pause freezes the playhead.
func (h *Handle) Pause() {
	h.mu.Lock()
	h.paused = true
	h.mu.Unlock()
}

// Restart rewinds to 0, re-arms the delay and plays.
func (h *Handle) Restart() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.killed {
		return
	}
	h.total = 0
	h.delayLeft = h.opts.Delay
	h.paused = false
}

// Paused reports whether the timeline is stopped.
func (h *Handle) Paused() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.paused
}

// Time is the playhead within the current iteration; yoyo iterations run
// backwards.
func (h *Handle) Time() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.local()
}

func (h *Handle) local() float64 {
	if h.span <= 0 {
		return 0
	}
	if td := h.totalDuration(); !math.IsInf(td, 1) && h.total >= td {
		// the final iteration ends on its last frame, not on 0
		if h.opts.Yoyo && h.opts.Repeat%2 == 1 {
			return 0
		}
		return h.span
	}
	iter := math.Floor(h.total / h.span)
	t := h.total - iter*h.span
	if h.opts.Yoyo && int(iter)%2 == 1 {
		t = h.span - t
	}
	return t
}

// Seek moves the playhead inside the current iteration without playing.
func (h *Handle) Seek(t float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > h.span {
		t = h.span
	}
	iter := 0.0
	if h.span > 0 {
		iter = math.Floor(h.total / h.span)
		if td := h.totalDuration(); !math.IsInf(td, 1) && h.total >= td {
			iter = math.Max(0, iter-1)
		}
	}
	h.total = iter*h.span + t
	h.delayLeft = 0
}

// Progress is the fraction of the whole run, repeats included. An endlessly
// repeating timeline reports progress within the current iteration.
func (h *Handle) Progress() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	td := h.totalDuration()
	if math.IsInf(td, 1) {
		if h.span <= 0 {
			return 0
		}
		return h.local() / h.span
	}
	if td <= 0 {
		return 1
	}
	return math.Min(1, h.total/td)
}

// Duration is the length of one iteration.
func (h *Handle) Duration() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.span
}

// TotalDuration includes repeats; +Inf for endless repeats.
func (h *Handle) TotalDuration() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.totalDuration()
}

func (h *Handle) totalDuration() float64 {
	if h.opts.Repeat < 0 {
		return math.Inf(1)
	}
	return h.span * float64(h.opts.Repeat+1)
}

// TimeScale sets the playback rate; non-positive rates are ignored.
func (h *Handle) TimeScale(rate float64) {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return
	}
	h.mu.Lock()
	h.rate = rate
	h.mu.Unlock()
}

func (h *Handle) OnUpdate(fn func(t float64)) {
	h.mu.Lock()
	h.onUpdate = fn
	h.mu.Unlock()
}

func (h *Handle) OnComplete(fn func()) {
	h.mu.Lock()
	h.onComplete = fn
	h.mu.Unlock()
}

// Kill detaches the timeline from its engine and drops its callbacks.
func (h *Handle) Kill() {
	h.mu.Lock()
	if h.killed {
		h.mu.Unlock()
		return
	}
	h.killed = true
	h.paused = true
	h.onUpdate, h.onComplete = nil, nil
	h.entries = nil
	h.mu.Unlock()
	h.owner.remove(h)
}

func (h *Handle) advance(dt float64) {
	h.mu.Lock()
	if h.paused || h.killed {
		h.mu.Unlock()
		return
	}
	step := dt * h.rate
	if h.delayLeft > 0 {
		used := math.Min(step, h.delayLeft)
		h.delayLeft -= used
		step -= used
	}
	h.total += step

	completed := false
	if td := h.totalDuration(); !math.IsInf(td, 1) && h.total >= td {
		h.total = td
		h.paused = true
		completed = true
	}
	now := h.local()
	update, complete := h.onUpdate, h.onComplete
	h.mu.Unlock()

	if update != nil {
		update(now)
	}
	if completed && complete != nil {
		complete()
	}
}

// Sample is the interpolated state of one tween at a point in time, for its
// first target.
type Sample struct {
	ID       string
	Label    string
	Start    float64
	Active   bool
	Progress float64
	Props    map[string]float64
}

// Values samples every tween at iteration time t.
func (h *Handle) Values(t float64) []Sample {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Sample, len(h.entries))
	for i, e := range h.entries {
		out[i] = sample(e, t)
	}
	return out
}

func sample(e entry, t float64) Sample {
	s := Sample{ID: e.t.ID, Label: e.t.Name(), Start: e.start, Props: map[string]float64{}}
	local := t - e.start - e.t.Stagger.Delay(0, e.targets)

	var p float64
	switch {
	case e.t.Type == tween.Set || e.t.Duration <= 0:
		if local >= 0 {
			p = 1
		}
	default:
		p = math.Max(0, math.Min(1, local/e.t.Duration))
	}
	s.Progress = p
	s.Active = t >= e.start && t <= e.start+e.dur
	eased := ease.Apply(e.t.Ease, p)

	for _, name := range e.t.PropertyNames() {
		ep := e.t.Properties[name]
		base := Baseline(name)
		if ep.From != nil {
			base = *ep.From
		}
		switch e.t.Type {
		case tween.From:
			s.Props[name] = ease.Lerp(ep.To, Baseline(name), eased)
		case tween.Set:
			if p >= 1 {
				s.Props[name] = ep.To
			} else {
				s.Props[name] = base
			}
		default:
			s.Props[name] = ease.Lerp(base, ep.To, eased)
		}
	}
	return s
}

// Baseline is the resting value assumed for a property that has no explicit
// start value.
func Baseline(prop string) float64 {
	switch prop {
	case "opacity", "autoAlpha", "scale", "scaleX", "scaleY":
		return 1
	}
	return 0
}

var _ engine.Engine = (*Engine)(nil)
var _ engine.Handle = (*Handle)(nil)
