// Package playback keeps the engine clock and the editor playhead in step.
//
// The bridge owns the engine handle: it builds it from the current tween
// sequence, tears it down on every rebuild and mirrors the handle's clock
// into State for the UI.
package playback

import (
	"math"
	"sync"
	"time"

	"github.com/ivlev/tweenline/internal/engine"
	"github.com/ivlev/tweenline/internal/system"
	"github.com/ivlev/tweenline/internal/timeline"
	"github.com/ivlev/tweenline/internal/tween"
)

// DefaultRebuildDelay is the quiet period before a rebuild after an edit.
const DefaultRebuildDelay = 150 * time.Millisecond

// State is what the UI shows about playback.
type State struct {
	IsPlaying   bool
	CurrentTime float64
	Duration    float64
	Loop        bool
	Speed       float64
}

// Source is the tween sequence the bridge builds from.
type Source interface {
	Tweens() []tween.Tween
	Settings() timeline.Settings
}

// Options configure a bridge.
type Options struct {
	Scheduler system.Scheduler
	Delay     time.Duration
	// Dispatch runs the debounced rebuild on the caller's event loop. Nil
	// rebuilds on the timer goroutine.
	Dispatch func(fn func())
	Loop     bool
	Speed    float64
}

// Bridge drives one engine handle from a tween source.
type Bridge struct {
	src      Source
	debounce *system.Debouncer
	dispatch func(fn func())

	mu       sync.Mutex
	eng      engine.Engine
	handle   engine.Handle
	state    State
	rebuilds int

	listeners []func(State)
}

// New creates a bridge with no engine; it is not Ready until SetEngine.
func New(src Source, opts Options) *Bridge {
	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultRebuildDelay
	}
	speed := opts.Speed
	if speed <= 0 || math.IsNaN(speed) {
		speed = 1
	}
	return &Bridge{
		src:      src,
		debounce: system.NewDebouncer(delay, opts.Scheduler),
		dispatch: opts.Dispatch,
		state:    State{Loop: opts.Loop, Speed: speed},
	}
}

// SetEngine provides the engine and builds immediately.
func (b *Bridge) SetEngine(e engine.Engine) {
	b.mu.Lock()
	b.eng = e
	b.mu.Unlock()
	b.Rebuild()
}

// Ready reports whether an engine is available.
func (b *Bridge) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.eng != nil
}

// OnChange registers fn to receive every state change.
func (b *Bridge) OnChange(fn func(State)) {
	b.mu.Lock()
	b.listeners = append(b.listeners, fn)
	b.mu.Unlock()
}

// State returns the current playback state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Handle is the live engine handle, nil before the first build.
func (b *Bridge) Handle() engine.Handle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.handle
}

// Rebuilds counts completed builds.
func (b *Bridge) Rebuilds() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rebuilds
}

// Invalidate schedules a debounced rebuild; a newer call supersedes a
// pending one.
func (b *Bridge) Invalidate() {
	b.debounce.Schedule(func() {
		if b.dispatch != nil {
			b.dispatch(b.Rebuild)
			return
		}
		b.Rebuild()
	})
}

// RebuildPending reports whether a debounced rebuild is waiting.
func (b *Bridge) RebuildPending() bool {
	return b.debounce.Pending()
}

// Rebuild tears down the handle and builds a new one from the source. The
// playhead and play state carry over. Without an engine it does nothing.
func (b *Bridge) Rebuild() {
	b.mu.Lock()
	if b.eng == nil {
		b.mu.Unlock()
		return
	}
	if b.handle != nil {
		b.handle.Kill()
	}

	h := b.eng.Build(engine.OptionsFrom(b.src.Settings()))
	engine.Populate(h, b.src.Tweens())
	h.TimeScale(b.state.Speed)
	h.OnUpdate(func(t float64) { b.onUpdate(h, t) })
	h.OnComplete(func() { b.onComplete(h) })

	b.handle = h
	b.rebuilds++
	b.state.Duration = h.Duration()
	b.state.CurrentTime = clamp(b.state.CurrentTime, b.state.Duration)
	// a fresh handle at 0 keeps its start delay armed
	if b.state.CurrentTime > 0 {
		h.Seek(b.state.CurrentTime)
	}
	if b.state.IsPlaying && b.state.Duration > 0 {
		h.Play()
	} else {
		h.Pause()
		b.state.IsPlaying = false
	}
	b.unlockAndEmit()
}

// Play starts playback, from 0 when the previous run had completed.
func (b *Bridge) Play() {
	b.mu.Lock()
	h := b.handle
	if h == nil || b.state.Duration <= 0 {
		b.mu.Unlock()
		return
	}
	if h.Progress() >= 1 {
		h.Restart()
		b.state.CurrentTime = 0
	} else {
		h.Play()
	}
	b.state.IsPlaying = true
	b.unlockAndEmit()
}

// Pause stops playback and takes the playhead from the engine.
func (b *Bridge) Pause() {
	b.mu.Lock()
	if h := b.handle; h != nil {
		h.Pause()
		b.state.CurrentTime = h.Time()
	}
	b.state.IsPlaying = false
	b.unlockAndEmit()
}

// TogglePlay plays when paused and pauses when playing.
func (b *Bridge) TogglePlay() {
	if b.State().IsPlaying {
		b.Pause()
		return
	}
	b.Play()
}

// Restart resets to 0 and pauses.
func (b *Bridge) Restart() {
	b.mu.Lock()
	if h := b.handle; h != nil {
		h.Restart()
		h.Pause()
	}
	b.state.CurrentTime = 0
	b.state.IsPlaying = false
	b.unlockAndEmit()
}

// Seek pauses and jumps to t.
func (b *Bridge) Seek(t float64) {
	b.mu.Lock()
	t = b.clampTime(t)
	if h := b.handle; h != nil {
		h.Pause()
		h.Seek(t)
	}
	b.state.CurrentTime = t
	b.state.IsPlaying = false
	b.unlockAndEmit()
}

// Scrub jumps to t and leaves the play flag alone.
func (b *Bridge) Scrub(t float64) {
	b.mu.Lock()
	t = b.clampTime(t)
	if h := b.handle; h != nil {
		h.Seek(t)
	}
	b.state.CurrentTime = t
	b.unlockAndEmit()
}

// SetSpeed changes the engine rate; non-positive rates are ignored.
func (b *Bridge) SetSpeed(rate float64) {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return
	}
	b.mu.Lock()
	b.state.Speed = rate
	if h := b.handle; h != nil {
		h.TimeScale(rate)
	}
	b.unlockAndEmit()
}

// SetLoop sets whether completion restarts playback.
func (b *Bridge) SetLoop(loop bool) {
	b.mu.Lock()
	b.state.Loop = loop
	b.unlockAndEmit()
}

// Close cancels a pending rebuild and kills the handle.
func (b *Bridge) Close() {
	b.debounce.Cancel()
	b.mu.Lock()
	if b.handle != nil {
		b.handle.Kill()
		b.handle = nil
	}
	b.state.IsPlaying = false
	b.mu.Unlock()
}

func (b *Bridge) onUpdate(h engine.Handle, t float64) {
	b.mu.Lock()
	if h != b.handle {
		b.mu.Unlock()
		return
	}
	b.state.CurrentTime = t
	b.unlockAndEmit()
}

func (b *Bridge) onComplete(h engine.Handle) {
	b.mu.Lock()
	if h != b.handle {
		b.mu.Unlock()
		return
	}
	if b.state.Loop {
		h.Restart()
		b.state.CurrentTime = 0
	} else {
		b.state.IsPlaying = false
		b.state.CurrentTime = h.Time()
	}
	b.unlockAndEmit()
}

func (b *Bridge) clampTime(t float64) float64 {
	if b.handle == nil {
		if math.IsNaN(t) || t < 0 {
			return 0
		}
		return t
	}
	return clamp(t, b.state.Duration)
}

// unlockAndEmit releases the lock and hands the new state to listeners.
func (b *Bridge) unlockAndEmit() {
	st := b.state
	ls := make([]func(State), len(b.listeners))
	copy(ls, b.listeners)
	b.mu.Unlock()
	for _, fn := range ls {
		fn(st)
	}
}

func clamp(t, max float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > max {
		return max
	}
	return t
}
