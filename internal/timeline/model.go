package timeline

import (
	"errors"
	"math"
	"sync"

	"github.com/ivlev/tweenline/internal/drag"
	"github.com/ivlev/tweenline/internal/position"
	"github.com/ivlev/tweenline/internal/tween"
)

// ErrNotFound is returned when an id is not on the timeline.
var ErrNotFound = errors.New("tween not found")

// PositionPolicy decides what a drag writes into a tween's position field.
type PositionPolicy string

const (
	// Literal replaces the expression with the new absolute time.
	Literal PositionPolicy = "literal"
	// Relative keeps the expression's form and only changes its offset.
	Relative PositionPolicy = "relative"
)

// ParsePolicy maps config strings to a policy; anything unknown is Literal.
func ParsePolicy(s string) PositionPolicy {
	if PositionPolicy(s) == Relative {
		return Relative
	}
	return Literal
}

// Model owns the ordered tween sequence. Array order is authoring order;
// resolved times are recomputed from it on every read.
type Model struct {
	mu       sync.RWMutex
	tweens   []tween.Tween
	settings Settings
	defaults tween.Defaults
	policy   PositionPolicy
	created  int

	listeners []func()
}

// NewModel builds a model over a copy of tweens.
func NewModel(defaults tween.Defaults, policy PositionPolicy, tweens ...tween.Tween) *Model {
	m := &Model{
		defaults: defaults,
		policy:   policy,
		settings: DefaultSettings(),
	}
	for _, t := range tweens {
		m.tweens = append(m.tweens, t.Clone())
	}
	m.created = len(m.tweens)
	return m
}

// OnChange registers fn to run after every mutation.
func (m *Model) OnChange(fn func()) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

func (m *Model) notify() {
	m.mu.RLock()
	ls := make([]func(), len(m.listeners))
	copy(ls, m.listeners)
	m.mu.RUnlock()
	for _, fn := range ls {
		fn()
	}
}

// Policy returns the drag write-back policy.
func (m *Model) Policy() PositionPolicy {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.policy
}

// SetPolicy changes the drag write-back policy.
func (m *Model) SetPolicy(p PositionPolicy) {
	m.mu.Lock()
	m.policy = p
	m.mu.Unlock()
}

// Settings returns the timeline-wide build settings.
func (m *Model) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// SetSettings replaces the build settings.
func (m *Model) SetSettings(s Settings) {
	m.mu.Lock()
	m.settings = s
	m.mu.Unlock()
	m.notify()
}

// Tweens returns a deep copy of the sequence in array order.
func (m *Model) Tweens() []tween.Tween {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]tween.Tween, len(m.tweens))
	for i, t := range m.tweens {
		out[i] = t.Clone()
	}
	return out
}

// Len is the number of tweens.
func (m *Model) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tweens)
}

// Get returns a copy of the tween with the given id.
func (m *Model) Get(id string) (tween.Tween, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.index(id)
	if i < 0 {
		return tween.Tween{}, false
	}
	return m.tweens[i].Clone(), true
}

// Index returns the array index of id, or -1.
func (m *Model) Index(id string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.index(id)
}

func (m *Model) index(id string) int {
	for i := range m.tweens {
		if m.tweens[i].ID == id {
			return i
		}
	}
	return -1
}

// Schedule resolves the current sequence.
func (m *Model) Schedule() position.Resolution {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return position.Resolve(items(m.tweens))
}

// Span is the resolved end of the last-finishing tween.
func (m *Model) Span() float64 {
	return m.Schedule().End
}

// DisplayDuration is the span floored for the ruler.
func (m *Model) DisplayDuration() float64 {
	return position.DisplayDuration(m.Span())
}

// StartOf returns the resolved start of id.
func (m *Model) StartOf(id string) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i := m.index(id)
	if i < 0 {
		return 0, false
	}
	return position.Resolve(items(m.tweens[:i+1])).Starts[i], true
}

func items(ts []tween.Tween) []position.Item {
	out := make([]position.Item, len(ts))
	for i, t := range ts {
		out[i] = position.Item{Position: t.Position, Duration: t.Duration}
	}
	return out
}

// Add appends a tween with default duration and an empty position.
func (m *Model) Add() tween.Tween {
	m.mu.Lock()
	t := tween.New(m.defaults, m.created)
	m.created++
	m.tweens = append(m.tweens, t)
	m.mu.Unlock()
	m.notify()
	return t.Clone()
}

// Insert places a copy of t at index (clamped); a missing id is generated.
func (m *Model) Insert(index int, t tween.Tween) tween.Tween {
	t = t.Clone()
	if t.ID == "" {
		t.ID = tween.NewID()
	}
	t.Duration = clampDuration(t.Duration)

	m.mu.Lock()
	if index < 0 || index > len(m.tweens) {
		index = len(m.tweens)
	}
	m.tweens = append(m.tweens, tween.Tween{})
	copy(m.tweens[index+1:], m.tweens[index:])
	m.tweens[index] = t
	m.created++
	m.mu.Unlock()
	m.notify()
	return t.Clone()
}

// Duplicate inserts a copy of id right after it.
func (m *Model) Duplicate(id string) (tween.Tween, error) {
	m.mu.RLock()
	i := m.index(id)
	var src tween.Tween
	if i >= 0 {
		src = m.tweens[i].Clone()
	}
	m.mu.RUnlock()
	if i < 0 {
		return tween.Tween{}, ErrNotFound
	}
	src.ID = tween.NewID()
	if src.Label != "" {
		src.Label += " copy"
	}
	return m.Insert(i+1, src), nil
}

// Delete removes id. Siblings keep their expressions, so a "<" after it now
// refers to whatever takes its array slot.
func (m *Model) Delete(id string) error {
	m.mu.Lock()
	i := m.index(id)
	if i < 0 {
		m.mu.Unlock()
		return ErrNotFound
	}
	m.tweens = append(m.tweens[:i], m.tweens[i+1:]...)
	m.mu.Unlock()
	m.notify()
	return nil
}

// Reorder moves id to a new array index without touching any expression.
func (m *Model) Reorder(id string, index int) error {
	m.mu.Lock()
	i := m.index(id)
	if i < 0 {
		m.mu.Unlock()
		return ErrNotFound
	}
	t := m.tweens[i]
	m.tweens = append(m.tweens[:i], m.tweens[i+1:]...)
	if index < 0 {
		index = 0
	}
	if index > len(m.tweens) {
		index = len(m.tweens)
	}
	m.tweens = append(m.tweens, tween.Tween{})
	copy(m.tweens[index+1:], m.tweens[index:])
	m.tweens[index] = t
	m.mu.Unlock()
	m.notify()
	return nil
}

// Move puts id at the absolute time abs. Array order is not changed.
func (m *Model) Move(id string, abs float64) error {
	m.mu.Lock()
	i := m.index(id)
	if i < 0 {
		m.mu.Unlock()
		return ErrNotFound
	}
	m.setStart(i, abs)
	m.mu.Unlock()
	m.notify()
	return nil
}

// Resize sets the duration of id and, for left-edge resizes, its start.
func (m *Model) Resize(id string, dur float64, abs *float64) error {
	m.mu.Lock()
	i := m.index(id)
	if i < 0 {
		m.mu.Unlock()
		return ErrNotFound
	}
	m.tweens[i].Duration = clampDuration(dur)
	if abs != nil {
		m.setStart(i, *abs)
	}
	m.mu.Unlock()
	m.notify()
	return nil
}

// Commit writes the outcome of a drag back to the tween.
func (m *Model) Commit(id string, mode drag.Mode, r drag.Result) error {
	switch mode {
	case drag.ResizeRight:
		return m.Resize(id, r.Duration, nil)
	case drag.ResizeLeft:
		pos := r.Position
		return m.Resize(id, r.Duration, &pos)
	default:
		return m.Move(id, r.Position)
	}
}

// Drag applies a whole drag of dx pixels in one step, starting from the
// tween's current resolved placement.
func (m *Model) Drag(id string, mode drag.Mode, v drag.View, dx float64) (drag.Result, error) {
	start, ok := m.StartOf(id)
	if !ok {
		return drag.Result{}, ErrNotFound
	}
	t, _ := m.Get(id)
	r := v.Apply(mode, start, t.Duration, dx)
	return r, m.Commit(id, mode, r)
}

// Update runs fn on the stored tween. Duration is clamped afterwards and
// the id cannot be changed.
func (m *Model) Update(id string, fn func(t *tween.Tween)) error {
	m.mu.Lock()
	i := m.index(id)
	if i < 0 {
		m.mu.Unlock()
		return ErrNotFound
	}
	t := m.tweens[i].Clone()
	fn(&t)
	t.ID = id
	t.Duration = clampDuration(t.Duration)
	m.tweens[i] = t
	m.mu.Unlock()
	m.notify()
	return nil
}

// setStart writes abs into the position field of index i according to the
// policy. Caller holds the lock.
func (m *Model) setStart(i int, abs float64) {
	if math.IsNaN(abs) || math.IsInf(abs, 0) || abs < 0 {
		abs = 0
	}
	if m.policy == Relative {
		res := position.Resolve(items(m.tweens[:i+1]))
		m.tweens[i].Position = position.Rewrite(m.tweens[i].Position, abs, res.Anchors[i])
		return
	}
	m.tweens[i].Position = position.Literal(abs)
}

func clampDuration(d float64) float64 {
	if math.IsNaN(d) || math.IsInf(d, 0) || d < drag.MinDuration {
		return drag.MinDuration
	}
	return d
}
