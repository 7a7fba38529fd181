// Package engine describes the animation engine the editor drives. The
// engine builds its own timeline from tweens and their symbolic positions;
// it is authoritative for total duration.
package engine

import (
	"github.com/ivlev/tweenline/internal/timeline"
	"github.com/ivlev/tweenline/internal/tween"
)

// BuildOptions are per-build options of an engine timeline.
type BuildOptions struct {
	DefaultEase     string
	DefaultDuration float64
	Repeat          int // -1 repeats forever
	Yoyo            bool
	Delay           float64
}

// OptionsFrom maps timeline settings to build options.
func OptionsFrom(s timeline.Settings) BuildOptions {
	return BuildOptions{
		DefaultEase:     s.DefaultEase,
		DefaultDuration: s.DefaultDuration,
		Repeat:          s.Repeat,
		Yoyo:            s.Yoyo,
		Delay:           s.Delay,
	}
}

// Engine creates timelines.
type Engine interface {
	Build(opts BuildOptions) Handle
}

// Handle is one built timeline.
type Handle interface {
	// Add appends a tween at a symbolic position; the engine resolves it.
	Add(t tween.Tween, position string)

	Play()
	Pause()
	Restart()
	Paused() bool

	// Time is the playhead in seconds; Seek sets it without playing.
	Time() float64
	Seek(t float64)
	Progress() float64
	Duration() float64
	TimeScale(rate float64)

	OnUpdate(fn func(t float64))
	OnComplete(fn func())

	// Kill tears the timeline down; the handle is unusable afterwards.
	Kill()
}

// Populate hands every tween to h in array order with its symbolic position.
func Populate(h Handle, tweens []tween.Tween) {
	for _, t := range tweens {
		h.Add(t, t.Position)
	}
}
