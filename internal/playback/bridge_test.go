package playback

import (
	"math"
	"testing"
	"time"

	"github.com/ivlev/tweenline/internal/engine/clock"
	"github.com/ivlev/tweenline/internal/system"
	"github.com/ivlev/tweenline/internal/timeline"
	"github.com/ivlev/tweenline/internal/tween"
)

func tw(id string, dur float64, pos string) tween.Tween {
	return tween.Tween{
		ID: id, Target: "." + id, Type: tween.To, Duration: dur, Position: pos,
		Properties: map[string]tween.Endpoint{"x": {To: 100}},
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

type fixture struct {
	model  *timeline.Model
	sched  *system.ManualScheduler
	eng    *clock.Engine
	bridge *Bridge
	states []State
}

func newFixture(t *testing.T, loop bool, ts ...tween.Tween) *fixture {
	t.Helper()
	f := &fixture{
		model: timeline.NewModel(tween.Defaults{}, timeline.Literal, ts...),
		sched: &system.ManualScheduler{},
		eng:   clock.New(),
	}
	f.bridge = New(f.model, Options{Scheduler: f.sched, Delay: 100 * time.Millisecond, Loop: loop})
	f.model.OnChange(f.bridge.Invalidate)
	f.bridge.OnChange(func(s State) { f.states = append(f.states, s) })
	f.bridge.SetEngine(f.eng)
	return f
}

func TestNotReadyIsInert(t *testing.T) {
	m := timeline.NewModel(tween.Defaults{}, timeline.Literal, tw("a", 1, ""))
	b := New(m, Options{Scheduler: &system.ManualScheduler{}})
	if b.Ready() {
		t.Fatal("Bridge without engine must not be ready")
	}
	b.Rebuild()
	b.Play()
	if b.Handle() != nil || b.State().IsPlaying {
		t.Error("Rebuild and play must be no-ops without an engine")
	}
	b.Seek(2)
	if b.State().CurrentTime != 2 {
		t.Errorf("Seek should still move the UI playhead, got %f", b.State().CurrentTime)
	}

	b.SetEngine(clock.New())
	if !b.Ready() || b.Handle() == nil || b.State().Duration != 1 {
		t.Errorf("Expected a build once the engine arrives, got %+v", b.State())
	}
	if b.State().CurrentTime != 1 {
		t.Errorf("Playhead should clamp into the new duration, got %f", b.State().CurrentTime)
	}
}

func TestPlayPauseSyncsFromEngine(t *testing.T) {
	f := newFixture(t, false, tw("a", 2, ""))
	f.bridge.Play()
	f.eng.Tick(0.75)
	f.bridge.Pause()

	st := f.bridge.State()
	if st.IsPlaying || !approx(st.CurrentTime, 0.75) {
		t.Errorf("Expected paused at 0.75, got %+v", st)
	}
	f.eng.Tick(1)
	if !approx(f.bridge.State().CurrentTime, 0.75) {
		t.Error("Paused engine must not move the playhead")
	}
}

func TestCompletionWithoutLoopPausesAtEnd(t *testing.T) {
	f := newFixture(t, false, tw("a", 1, ""))
	f.bridge.Play()
	f.eng.Tick(1.5)
	st := f.bridge.State()
	if st.IsPlaying || !approx(st.CurrentTime, 1) {
		t.Errorf("Expected paused at end, got %+v", st)
	}

	// play after completion restarts from 0
	f.bridge.Play()
	if st := f.bridge.State(); !st.IsPlaying || st.CurrentTime != 0 {
		t.Errorf("Expected restart from 0, got %+v", st)
	}
	f.eng.Tick(0.25)
	if !approx(f.bridge.State().CurrentTime, 0.25) {
		t.Errorf("Expected 0.25, got %f", f.bridge.State().CurrentTime)
	}
}

func TestCompletionWithLoopRestarts(t *testing.T) {
	f := newFixture(t, true, tw("a", 1, ""))
	f.bridge.Play()
	f.eng.Tick(1.2)
	if st := f.bridge.State(); !st.IsPlaying || st.CurrentTime != 0 {
		t.Errorf("Expected loop back to 0 while playing, got %+v", st)
	}
	f.eng.Tick(0.5)
	if !approx(f.bridge.State().CurrentTime, 0.5) {
		t.Errorf("Expected 0.5 into the second run, got %f", f.bridge.State().CurrentTime)
	}
}

func TestStartDelayOnFirstPlayAndRestart(t *testing.T) {
	f := newFixture(t, false, tw("a", 2, ""))
	s := f.model.Settings()
	s.Delay = 1
	f.model.SetSettings(s)
	f.bridge.Rebuild()

	f.bridge.Play()
	f.eng.Tick(0.5)
	if got := f.bridge.State().CurrentTime; got != 0 {
		t.Fatalf("First play should still be in the delay, got %f", got)
	}
	f.eng.Tick(1)
	if got := f.bridge.State().CurrentTime; !approx(got, 0.5) {
		t.Errorf("Expected 0.5 after the delay, got %f", got)
	}

	f.bridge.Restart()
	f.bridge.Play()
	f.eng.Tick(0.5)
	if got := f.bridge.State().CurrentTime; got != 0 {
		t.Errorf("Restart should re-arm the delay, got %f", got)
	}
}

func TestRestartGoesIdleAtZero(t *testing.T) {
	f := newFixture(t, false, tw("a", 2, ""))
	f.bridge.Play()
	f.eng.Tick(1)
	f.bridge.Restart()
	f.eng.Tick(1)
	st := f.bridge.State()
	if st.IsPlaying || st.CurrentTime != 0 || !f.bridge.Handle().Paused() {
		t.Errorf("Expected idle at 0, got %+v", st)
	}
}

func TestSeekPausesScrubDoesNot(t *testing.T) {
	f := newFixture(t, false, tw("a", 4, ""))
	f.bridge.Play()
	f.bridge.Scrub(1.5)
	if st := f.bridge.State(); !st.IsPlaying || st.CurrentTime != 1.5 {
		t.Errorf("Scrub must keep the play flag, got %+v", st)
	}
	if !approx(f.bridge.Handle().Time(), 1.5) {
		t.Errorf("Scrub must move the engine, got %f", f.bridge.Handle().Time())
	}

	f.bridge.Seek(9)
	st := f.bridge.State()
	if st.IsPlaying || st.CurrentTime != 4 {
		t.Errorf("Seek must pause and clamp, got %+v", st)
	}
	if !f.bridge.Handle().Paused() {
		t.Error("Seek must pause the engine")
	}
}

func TestSpeed(t *testing.T) {
	f := newFixture(t, false, tw("a", 4, ""))
	f.bridge.SetSpeed(2)
	f.bridge.SetSpeed(0)
	f.bridge.Play()
	f.eng.Tick(1)
	st := f.bridge.State()
	if st.Speed != 2 || !approx(st.CurrentTime, 2) || !st.IsPlaying {
		t.Errorf("Expected double speed without state change, got %+v", st)
	}
}

func TestRebuildIsDebounced(t *testing.T) {
	f := newFixture(t, false, tw("a", 1, ""))
	before := f.bridge.Rebuilds()

	f.model.Add()
	f.sched.Advance(50 * time.Millisecond)
	f.model.Add()
	f.sched.Advance(50 * time.Millisecond)
	if f.bridge.Rebuilds() != before {
		t.Fatal("Rebuild must wait for the quiet period")
	}
	if !f.bridge.RebuildPending() {
		t.Fatal("Expected a pending rebuild")
	}

	f.sched.Advance(100 * time.Millisecond)
	if f.bridge.Rebuilds() != before+1 {
		t.Errorf("Expected exactly one rebuild, got %d", f.bridge.Rebuilds()-before)
	}
	if !approx(f.bridge.State().Duration, 3) {
		t.Errorf("Expected duration 3 after two adds, got %f", f.bridge.State().Duration)
	}
	if f.eng.Live() != 1 {
		t.Errorf("Old timelines must be killed, %d live", f.eng.Live())
	}
}

func TestRebuildKeepsPlayhead(t *testing.T) {
	f := newFixture(t, false, tw("a", 2, ""), tw("b", 2, ""))
	f.bridge.Play()
	f.eng.Tick(1.5)
	if err := f.model.Resize("b", 3, nil); err != nil {
		t.Fatal(err)
	}
	f.sched.Advance(time.Second)

	st := f.bridge.State()
	if !st.IsPlaying || !approx(st.CurrentTime, 1.5) || !approx(st.Duration, 5) {
		t.Errorf("Expected playing at 1.5 of 5, got %+v", st)
	}
	f.eng.Tick(0.5)
	if !approx(f.bridge.State().CurrentTime, 2) {
		t.Errorf("New handle should drive the playhead, got %f", f.bridge.State().CurrentTime)
	}
}

func TestDispatchMarshalsRebuild(t *testing.T) {
	m := timeline.NewModel(tween.Defaults{}, timeline.Literal, tw("a", 1, ""))
	sched := &system.ManualScheduler{}
	var queued []func()
	b := New(m, Options{Scheduler: sched, Dispatch: func(fn func()) { queued = append(queued, fn) }})
	b.SetEngine(clock.New())

	b.Invalidate()
	sched.Advance(time.Second)
	if b.Rebuilds() != 1 || len(queued) != 1 {
		t.Fatalf("Expected the rebuild to be queued, rebuilds=%d queued=%d", b.Rebuilds(), len(queued))
	}
	queued[0]()
	if b.Rebuilds() != 2 {
		t.Errorf("Expected rebuild once the loop runs it, got %d", b.Rebuilds())
	}
}

func TestEmptyTimelineControlsInert(t *testing.T) {
	f := newFixture(t, false)
	f.bridge.Play()
	if f.bridge.State().IsPlaying {
		t.Error("Empty timeline must not play")
	}
}

func TestCloseCancelsPendingRebuild(t *testing.T) {
	f := newFixture(t, false, tw("a", 1, ""))
	f.model.Add()
	f.bridge.Close()
	f.sched.Advance(time.Second)
	if f.bridge.Rebuilds() != 1 || f.eng.Live() != 0 {
		t.Errorf("Expected no rebuild after close, rebuilds=%d live=%d", f.bridge.Rebuilds(), f.eng.Live())
	}
}

func TestListenersSeeChanges(t *testing.T) {
	f := newFixture(t, false, tw("a", 1, ""))
	n := len(f.states)
	f.bridge.SetLoop(true)
	if len(f.states) != n+1 || !f.states[len(f.states)-1].Loop {
		t.Errorf("Expected a loop change notification, got %v", f.states[n:])
	}
}
