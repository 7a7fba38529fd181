// Package ease implements the named easing curves tweens refer to.
package ease

import (
	"math"
	"sort"
	"strings"
)

// Default is used for empty and unknown names.
const Default = "power1.out"

// Func maps linear progress in [0,1] to eased progress.
type Func func(t float64) float64

// power curves are ordered power0 (linear) .. power4 (quint)
var powers = []float64{1, 2, 3, 4, 5}

var registry = map[string]Func{}

func init() {
	for i, p := range powers {
		p := p
		in := func(t float64) float64 { return math.Pow(t, p) }
		register(powerName(i), in)
	}
	// GSAP aliases
	alias("none", "power0")
	alias("linear", "power0")
	alias("quad", "power1")
	alias("cubic", "power2")
	alias("quart", "power3")
	alias("quint", "power4")
	alias("strong", "power4")

	register("sine", func(t float64) float64 { return 1 - math.Cos(t*math.Pi/2) })
	register("expo", func(t float64) float64 {
		if t == 0 {
			return 0
		}
		return math.Pow(2, 10*(t-1))
	})
	register("circ", func(t float64) float64 { return 1 - math.Sqrt(1-t*t) })
	register("back", func(t float64) float64 {
		const s = 1.70158
		return t * t * ((s+1)*t - s)
	})
}

func powerName(i int) string {
	return "power" + string(rune('0'+i))
}

// register adds name.in, name.out and name.inOut derived from the in-curve.
// The bare name means .out, as in GSAP.
func register(name string, in Func) {
	out := func(t float64) float64 { return 1 - in(1-t) }
	inOut := func(t float64) float64 {
		if t < 0.5 {
			return in(t*2) / 2
		}
		return 1 - in((1-t)*2)/2
	}
	registry[name+".in"] = in
	registry[name+".out"] = out
	registry[name+".inout"] = inOut
	registry[name] = out
}

func alias(name, target string) {
	for _, suffix := range []string{"", ".in", ".out", ".inout"} {
		registry[name+suffix] = registry[target+suffix]
	}
}

// Lookup returns the curve for a GSAP-style name ("power2.inOut"), falling
// back to Default. Matching ignores case.
func Lookup(name string) Func {
	key := strings.ToLower(strings.TrimSpace(name))
	if f, ok := registry[key]; ok {
		return f
	}
	return registry[strings.ToLower(Default)]
}

// Known reports whether name is a registered curve.
func Known(name string) bool {
	_, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Names lists the registered names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Apply eases progress t (clamped to [0,1]).
func Apply(name string, t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return Lookup(name)(t)
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
