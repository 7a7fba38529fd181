// Package tween defines one timed animation instruction on the timeline.
package tween

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ivlev/tweenline/internal/ease"
)

// Type decides which endpoints of a property the engine reads.
type Type string

const (
	From   Type = "from"
	To     Type = "to"
	FromTo Type = "fromTo"
	Set    Type = "set"
)

// ParseType accepts the four GSAP method names (case-insensitive).
func ParseType(s string) (Type, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "from":
		return From, true
	case "to":
		return To, true
	case "fromto":
		return FromTo, true
	case "set":
		return Set, true
	}
	return To, false
}

// Endpoint describes how one property animates.
type Endpoint struct {
	From *float64 `yaml:"from,omitempty"`
	To   float64  `yaml:"to"`
	Unit string   `yaml:"unit,omitempty"`
}

// Stagger fans a tween out over its targets.
type Stagger struct {
	Each   float64 `yaml:"each,omitempty"`   // delay between consecutive targets
	Amount float64 `yaml:"amount,omitempty"` // total spread; wins over Each
	From   string  `yaml:"from,omitempty"`   // start, end, center
}

// Spread is the extra time the fan-out adds for n targets: the latest
// target's delay.
func (s *Stagger) Spread(n int) float64 {
	if s == nil || n <= 1 {
		return 0
	}
	var spread float64
	for i := 0; i < n; i++ {
		spread = math.Max(spread, s.Delay(i, n))
	}
	return spread
}

// Delay is the start offset of target i out of n.
func (s *Stagger) Delay(i, n int) float64 {
	if s == nil || n <= 1 {
		return 0
	}
	step := s.Each
	if s.Amount > 0 {
		step = s.Amount / float64(n-1)
	}
	switch s.From {
	case "end":
		return step * float64(n-1-i)
	case "center":
		mid := float64(n-1) / 2
		return step * math.Abs(float64(i)-mid)
	default:
		return step * float64(i)
	}
}

// SplitText breaks a text target into chars, words or lines, each animated
// as its own target.
type SplitText struct {
	Type string `yaml:"type"` // chars, words, lines
	Text string `yaml:"text,omitempty"`
}

// Parts is how many targets the split produces (at least 1).
func (s *SplitText) Parts() int {
	if s == nil || s.Text == "" {
		return 1
	}
	var n int
	switch s.Type {
	case "words":
		n = len(strings.Fields(s.Text))
	case "lines":
		n = len(strings.Split(strings.TrimRight(s.Text, "\n"), "\n"))
	default:
		for _, r := range s.Text {
			if r != ' ' && r != '\n' && r != '\t' {
				n++
			}
		}
	}
	if n < 1 {
		return 1
	}
	return n
}

// Tween is one operation in the timeline sequence.
type Tween struct {
	ID         string              `yaml:"id"`
	Target     string              `yaml:"target"`
	Type       Type                `yaml:"type"`
	Duration   float64             `yaml:"duration"`
	Position   string              `yaml:"position,omitempty"`
	Properties map[string]Endpoint `yaml:"properties,omitempty"`
	Stagger    *Stagger            `yaml:"stagger,omitempty"`
	SplitText  *SplitText          `yaml:"splitText,omitempty"`
	Ease       string              `yaml:"ease,omitempty"`
	Color      string              `yaml:"color,omitempty"`
	Label      string              `yaml:"label,omitempty"`
}

// Defaults are applied to newly created tweens.
type Defaults struct {
	Duration float64
	Ease     string
	Target   string
	Type     Type
}

// Palette is cycled through for display colors of new tweens.
var Palette = []string{
	"#6366f1", "#22c55e", "#f59e0b", "#ef4444", "#06b6d4", "#a855f7", "#ec4899", "#84cc16",
}

// New creates a tween with an empty position, so it plays after whatever
// is already on the timeline. n picks the palette color.
func New(d Defaults, n int) Tween {
	dur := d.Duration
	if dur <= 0 || math.IsNaN(dur) {
		dur = 1
	}
	typ := d.Type
	if typ == "" {
		typ = To
	}
	target := d.Target
	if target == "" {
		target = ".box"
	}
	easeName := d.Ease
	if easeName == "" {
		easeName = ease.Default
	}
	if n < 0 {
		n = 0
	}
	return Tween{
		ID:       NewID(),
		Target:   target,
		Type:     typ,
		Duration: dur,
		Ease:     easeName,
		Color:    Palette[n%len(Palette)],
		Label:    fmt.Sprintf("Tween %d", n+1),
		Properties: map[string]Endpoint{
			"x": {To: 100, Unit: "px"},
		},
	}
}

// NewID returns a fresh opaque identifier.
func NewID() string {
	return uuid.NewString()
}

// Clone deep-copies the tween, including its property map and descriptors.
func (t Tween) Clone() Tween {
	c := t
	if t.Properties != nil {
		c.Properties = make(map[string]Endpoint, len(t.Properties))
		for k, v := range t.Properties {
			if v.From != nil {
				f := *v.From
				v.From = &f
			}
			c.Properties[k] = v
		}
	}
	if t.Stagger != nil {
		s := *t.Stagger
		c.Stagger = &s
	}
	if t.SplitText != nil {
		s := *t.SplitText
		c.SplitText = &s
	}
	return c
}

// PropertyNames returns the animated property names in sorted order.
func (t Tween) PropertyNames() []string {
	names := make([]string, 0, len(t.Properties))
	for k := range t.Properties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Name is the label, or the target when there is no label.
func (t Tween) Name() string {
	if t.Label != "" {
		return t.Label
	}
	return t.Target
}

// Validate lists problems with the tween. They are warnings for the editor,
// nothing refuses to play a tween that has them.
func (t Tween) Validate() []string {
	var problems []string
	if strings.TrimSpace(t.Target) == "" {
		problems = append(problems, "empty target")
	}
	if _, ok := ParseType(string(t.Type)); !ok {
		problems = append(problems, fmt.Sprintf("unknown type %q", t.Type))
	}
	if t.Duration < 0 || math.IsNaN(t.Duration) {
		problems = append(problems, "negative duration")
	}
	if t.Ease != "" && !ease.Known(t.Ease) {
		problems = append(problems, fmt.Sprintf("unknown ease %q", t.Ease))
	}
	if len(t.Properties) == 0 {
		problems = append(problems, "no properties")
	}
	if t.Type == FromTo {
		for _, name := range t.PropertyNames() {
			if t.Properties[name].From == nil {
				problems = append(problems, fmt.Sprintf("fromTo property %q has no from value", name))
			}
		}
	}
	return problems
}
