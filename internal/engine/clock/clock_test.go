package clock

import (
	"math"
	"testing"

	"github.com/ivlev/tweenline/internal/engine"
	"github.com/ivlev/tweenline/internal/tween"
)

func tw(id string, dur float64, pos string) tween.Tween {
	return tween.Tween{
		ID:         id,
		Target:     "." + id,
		Type:       tween.To,
		Duration:   dur,
		Position:   pos,
		Ease:       "none",
		Properties: map[string]tween.Endpoint{"x": {To: 100}},
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func build(opts engine.BuildOptions, ts ...tween.Tween) (*Engine, *Handle) {
	e := New()
	h := e.build(opts)
	engine.Populate(h, ts)
	return e, h
}

func TestDurationMatchesResolver(t *testing.T) {
	_, h := build(engine.BuildOptions{}, tw("a", 0.6, ""), tw("b", 0.4, ">-=0.1"), tw("c", 1, "<"))
	if !approx(h.Duration(), 1.5) {
		t.Errorf("Expected 1.5, got %f", h.Duration())
	}
}

func TestEffectiveDurations(t *testing.T) {
	tests := []struct {
		name string
		tw   tween.Tween
		want float64
	}{
		{"plain", tw("a", 1, ""), 1},
		{"set", tween.Tween{Type: tween.Set, Duration: 2, Target: ".a"}, 0},
		{"stagger each", tween.Tween{Type: tween.To, Duration: 1, Target: ".a, .b, .c", Stagger: &tween.Stagger{Each: 0.2}}, 1.4},
		{"stagger amount", tween.Tween{Type: tween.To, Duration: 1, Target: ".a,.b", Stagger: &tween.Stagger{Amount: 0.5}}, 1.5},
		{"stagger from center", tween.Tween{Type: tween.To, Duration: 1, Target: ".a,.b,.c,.d,.e", Stagger: &tween.Stagger{Each: 0.2, From: "center"}}, 1.4},
		{"split words", tween.Tween{Type: tween.To, Duration: 0.5, Target: "h1", SplitText: &tween.SplitText{Type: "words", Text: "one two three four"}, Stagger: &tween.Stagger{Each: 0.1}}, 0.8},
		{"negative", tween.Tween{Type: tween.To, Duration: -1, Target: ".a"}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := EffectiveDuration(tc.tw); !approx(got, tc.want) {
				t.Errorf("Expected %f, got %f", tc.want, got)
			}
		})
	}
}

func TestStaggerExtendsSpan(t *testing.T) {
	a := tw("a", 1, "")
	a.Target = ".a, .b, .c"
	a.Stagger = &tween.Stagger{Each: 0.5}
	_, h := build(engine.BuildOptions{}, a, tw("b", 1, ""))
	// b starts after the whole fan-out
	if !approx(h.Duration(), 3) {
		t.Errorf("Expected 3, got %f", h.Duration())
	}
	if s := h.Values(0); !approx(s[1].Start, 2) {
		t.Errorf("Expected b at 2, got %f", s[1].Start)
	}
}

func TestTickPlaysAndCompletes(t *testing.T) {
	e, h := build(engine.BuildOptions{}, tw("a", 1, ""))
	var updates []float64
	completed := 0
	h.OnUpdate(func(t float64) { updates = append(updates, t) })
	h.OnComplete(func() { completed++ })

	e.Tick(0.5)
	if len(updates) != 0 {
		t.Fatal("A paused timeline must not update")
	}

	h.Play()
	e.Tick(0.5)
	e.Tick(0.75)
	if completed != 1 {
		t.Errorf("Expected one completion, got %d", completed)
	}
	if !h.Paused() || !approx(h.Time(), 1) || h.Progress() != 1 {
		t.Errorf("Expected paused at end, got paused=%v time=%f progress=%f", h.Paused(), h.Time(), h.Progress())
	}
	if len(updates) != 2 || !approx(updates[0], 0.5) {
		t.Errorf("Unexpected updates %v", updates)
	}
}

func TestTimeScale(t *testing.T) {
	e, h := build(engine.BuildOptions{}, tw("a", 4, ""))
	h.TimeScale(2)
	h.TimeScale(-1)
	h.Play()
	e.Tick(1)
	if !approx(h.Time(), 2) {
		t.Errorf("Expected 2 at double speed, got %f", h.Time())
	}
}

func TestRepeatAndYoyo(t *testing.T) {
	e, h := build(engine.BuildOptions{Repeat: 1, Yoyo: true}, tw("a", 2, ""))
	done := false
	h.OnComplete(func() { done = true })
	h.Play()

	e.Tick(1.5)
	if !approx(h.Time(), 1.5) {
		t.Errorf("Expected 1.5, got %f", h.Time())
	}
	e.Tick(1)
	// second iteration runs backwards
	if !approx(h.Time(), 1.5) || done {
		t.Errorf("Expected yoyo back at 1.5, got %f (done=%v)", h.Time(), done)
	}
	e.Tick(2)
	if !done || !approx(h.Time(), 0) {
		t.Errorf("Expected completion at 0, got %f (done=%v)", h.Time(), done)
	}
}

func TestEndlessRepeatNeverCompletes(t *testing.T) {
	e, h := build(engine.BuildOptions{Repeat: -1}, tw("a", 1, ""))
	done := false
	h.OnComplete(func() { done = true })
	h.Play()
	for i := 0; i < 10; i++ {
		e.Tick(0.35)
	}
	if done || h.Paused() {
		t.Error("Endless timeline must keep playing")
	}
	if !approx(h.Time(), 0.5) {
		t.Errorf("Expected 0.5 into the iteration, got %f", h.Time())
	}
}

func TestDelayOnlyOnStart(t *testing.T) {
	e, h := build(engine.BuildOptions{Delay: 1}, tw("a", 2, ""))
	h.Play()
	e.Tick(1.5)
	if !approx(h.Time(), 0.5) {
		t.Errorf("Expected delay consumed, got %f", h.Time())
	}
	h.Seek(0)
	e.Tick(0.5)
	if !approx(h.Time(), 0.5) {
		t.Errorf("Seek must skip the delay, got %f", h.Time())
	}
}

func TestSeekClampsAndDoesNotPlay(t *testing.T) {
	e, h := build(engine.BuildOptions{}, tw("a", 2, ""))
	fired := false
	h.OnUpdate(func(float64) { fired = true })
	h.Seek(5)
	if !approx(h.Time(), 2) {
		t.Errorf("Expected clamp to 2, got %f", h.Time())
	}
	h.Seek(-1)
	if h.Time() != 0 || !h.Paused() {
		t.Errorf("Expected paused at 0, got %f", h.Time())
	}
	e.Tick(1)
	if fired {
		t.Error("Seek must not fire callbacks")
	}
}

func TestRestartAfterCompletion(t *testing.T) {
	e, h := build(engine.BuildOptions{}, tw("a", 1, ""))
	h.Play()
	e.Tick(2)
	h.Restart()
	if h.Paused() || h.Time() != 0 {
		t.Errorf("Expected playing from 0, got paused=%v time=%f", h.Paused(), h.Time())
	}
}

func TestKillDetaches(t *testing.T) {
	e, h := build(engine.BuildOptions{}, tw("a", 1, ""))
	if e.Live() != 1 {
		t.Fatalf("Expected one live timeline, got %d", e.Live())
	}
	h.Kill()
	h.Kill()
	if e.Live() != 0 {
		t.Errorf("Expected none after kill, got %d", e.Live())
	}
	h.Play()
	if !h.Paused() {
		t.Error("Killed timeline must stay paused")
	}
}

func TestCallbackMayReenterHandle(t *testing.T) {
	e, h := build(engine.BuildOptions{}, tw("a", 1, ""))
	h.OnComplete(func() { h.Restart() })
	h.Play()
	e.Tick(1.2)
	if h.Paused() {
		t.Error("Expected restart from the completion callback")
	}
}

func TestValues(t *testing.T) {
	from := 10.0
	ft := tween.Tween{ID: "ft", Target: ".a", Type: tween.FromTo, Duration: 2, Ease: "none",
		Properties: map[string]tween.Endpoint{"x": {From: &from, To: 30}}}
	fr := tween.Tween{ID: "fr", Target: ".b", Type: tween.From, Duration: 2, Position: "<", Ease: "none",
		Properties: map[string]tween.Endpoint{"opacity": {To: 0}}}
	set := tween.Tween{ID: "set", Target: ".c", Type: tween.Set, Position: "1",
		Properties: map[string]tween.Endpoint{"x": {To: 5}}}
	_, h := build(engine.BuildOptions{}, ft, fr, set)

	s := h.Values(1)
	if !approx(s[0].Props["x"], 20) {
		t.Errorf("fromTo midpoint: expected 20, got %f", s[0].Props["x"])
	}
	if !approx(s[1].Props["opacity"], 0.5) {
		t.Errorf("from midpoint: expected 0.5, got %f", s[1].Props["opacity"])
	}
	if s[2].Props["x"] != 5 || s[2].Progress != 1 {
		t.Errorf("set at its start should be applied, got %+v", s[2])
	}
	if before := h.Values(0.5); before[2].Props["x"] != 0 {
		t.Errorf("set before its start should be at baseline, got %f", before[2].Props["x"])
	}
}

func TestBuildDefaults(t *testing.T) {
	a := tw("a", 0, "")
	a.Ease = ""
	_, h := build(engine.BuildOptions{DefaultDuration: 0.8, DefaultEase: "sine.in"}, a)
	if !approx(h.Duration(), 0.8) {
		t.Errorf("Expected default duration 0.8, got %f", h.Duration())
	}
}
