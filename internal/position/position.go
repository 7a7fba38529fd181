// Package position resolves the timeline position mini-language
// ("<", ">", "+=N", "-=N", absolute) into absolute start times.
package position

import (
	"math"
	"strconv"
	"strings"
)

// MinDisplayDuration is the ruler length used when a timeline is empty or shorter.
const MinDisplayDuration = 5.0

// Kind is the syntactic form of a position expression.
type Kind int

const (
	// Sequential starts at the running end of everything before it ("" or ">=").
	Sequential Kind = iota
	// WithPrevious is relative to the previous item's start ("<", "<+=N", "<-=N").
	WithPrevious
	// AfterEnd is relative to the running end (">+=N", ">-=N", ">N", "+=N", "-=N").
	AfterEnd
	// Absolute is a literal number of seconds.
	Absolute
)

func (k Kind) String() string {
	switch k {
	case WithPrevious:
		return "with-previous"
	case AfterEnd:
		return "after-end"
	case Absolute:
		return "absolute"
	default:
		return "sequential"
	}
}

// Expr is a parsed position expression.
type Expr struct {
	Kind   Kind
	Offset float64 // seconds; the absolute value for Absolute
}

// Item is what the resolver needs from one timed operation.
type Item struct {
	Position string
	Duration float64
}

// Anchor holds the two reference points an item could be positioned against.
type Anchor struct {
	PrevStart  float64
	RunningEnd float64
}

// Resolution is the derived schedule for a sequence, index-aligned with it.
type Resolution struct {
	Starts  []float64
	Anchors []Anchor
	End     float64
}

// Parse turns an expression into its kind and offset. Unparsable input is
// sequential; malformed offsets degrade to 0.
func Parse(pos string) Expr {
	p := strings.TrimSpace(pos)
	switch {
	case p == "" || p == ">=":
		return Expr{Kind: Sequential}
	case p == "<":
		return Expr{Kind: WithPrevious}
	case p == ">":
		return Expr{Kind: AfterEnd}
	case strings.HasPrefix(p, "<"):
		return Expr{Kind: WithPrevious, Offset: parseRelative(p[1:])}
	case strings.HasPrefix(p, ">"):
		return Expr{Kind: AfterEnd, Offset: parseRelative(p[1:])}
	case strings.HasPrefix(p, "+=") || strings.HasPrefix(p, "-="):
		return Expr{Kind: AfterEnd, Offset: parseRelative(p)}
	}

	v, err := strconv.ParseFloat(p, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Expr{Kind: Sequential}
	}
	return Expr{Kind: Absolute, Offset: v}
}

// parseRelative reads "+=N", "-=N" or a bare signed number.
func parseRelative(s string) float64 {
	s = strings.TrimSpace(s)
	sign := 1.0
	switch {
	case strings.HasPrefix(s, "+="):
		s = s[2:]
	case strings.HasPrefix(s, "-="):
		s = s[2:]
		sign = -1
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return sign * v
}

// Resolve computes absolute starts in array order. It has no state and
// returns the same result for the same input.
func Resolve(items []Item) Resolution {
	res := Resolution{
		Starts:  make([]float64, len(items)),
		Anchors: make([]Anchor, len(items)),
	}

	runningEnd := 0.0
	for i, it := range items {
		prevStart := 0.0
		if i > 0 {
			prevStart = res.Starts[i-1]
		}
		res.Anchors[i] = Anchor{PrevStart: prevStart, RunningEnd: runningEnd}

		start := Start(Parse(it.Position), res.Anchors[i])
		res.Starts[i] = start

		dur := it.Duration
		if math.IsNaN(dur) || dur < 0 {
			dur = 0
		}
		if end := start + dur; end > runningEnd {
			runningEnd = end
		}
	}
	res.End = runningEnd
	return res
}

// Start evaluates a parsed expression against its anchor, clamped to >= 0.
func Start(e Expr, a Anchor) float64 {
	var start float64
	switch e.Kind {
	case WithPrevious:
		start = a.PrevStart + e.Offset
	case AfterEnd:
		start = a.RunningEnd + e.Offset
	case Absolute:
		start = e.Offset
	default:
		start = a.RunningEnd
	}
	if start < 0 {
		return 0
	}
	return start
}

// DisplayDuration floors a span so an empty or very short timeline still
// gets a usable ruler.
func DisplayDuration(span float64) float64 {
	if math.IsNaN(span) || span < MinDisplayDuration {
		return MinDisplayDuration
	}
	return span
}

// Rewrite expresses the absolute start t in the same form as the original
// expression, relative to the same anchor. Absolute and unparsable
// expressions become literals.
func Rewrite(orig string, t float64, a Anchor) string {
	e := Parse(orig)
	trimmed := strings.TrimSpace(orig)
	switch {
	case e.Kind == WithPrevious:
		return "<" + offset(t-a.PrevStart)
	case e.Kind == AfterEnd, trimmed == "", trimmed == ">=":
		return offset(t - a.RunningEnd)
	default:
		return Literal(t)
	}
}

// Literal formats an absolute time as a position expression.
func Literal(t float64) string {
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	return strconv.FormatFloat(round(t), 'f', -1, 64)
}

func offset(d float64) string {
	d = round(d)
	switch {
	case d == 0:
		return ""
	case d < 0:
		return "-=" + strconv.FormatFloat(-d, 'f', -1, 64)
	default:
		return "+=" + strconv.FormatFloat(d, 'f', -1, 64)
	}
}

// round drops float noise below a microsecond.
func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
