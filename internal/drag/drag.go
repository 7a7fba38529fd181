// Package drag maps pointer movement on the timeline to time edits.
package drag

import (
	"math"
)

// MinDuration is the smallest duration a drag can leave a tween with.
const MinDuration = 0.05

// Mode says which part of a bar is being dragged.
type Mode int

const (
	Move Mode = iota
	ResizeLeft
	ResizeRight
)

func (m Mode) String() string {
	switch m {
	case ResizeLeft:
		return "resize-left"
	case ResizeRight:
		return "resize-right"
	default:
		return "move"
	}
}

// ParseMode accepts the names produced by String.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "move":
		return Move, true
	case "resize-left":
		return ResizeLeft, true
	case "resize-right":
		return ResizeRight, true
	}
	return Move, false
}

// View is the presentational state of the editing surface. It only affects
// how coarse interactive edits are, never how positions resolve.
type View struct {
	Zoom       float64 // pixels per second
	SnapToGrid bool
	GridSize   float64 // seconds
	ScrollX    float64 // pixels
}

// DeltaTime converts a pixel displacement into seconds.
func (v View) DeltaTime(dx float64) float64 {
	z := v.Zoom
	if z <= 0 || math.IsNaN(z) {
		z = 1
	}
	return dx / z
}

// Snap quantizes to the grid when snapping is on.
func (v View) Snap(t float64) float64 {
	if !v.SnapToGrid || v.GridSize <= 0 {
		return t
	}
	return Snap(t, v.GridSize)
}

// Snap rounds t to the nearest multiple of grid.
func Snap(t, grid float64) float64 {
	if grid <= 0 {
		return t
	}
	return math.Round(t/grid) * grid
}

// TimeAt maps a viewport x coordinate to a timeline time.
func (v View) TimeAt(x float64) float64 {
	t := v.DeltaTime(x + v.ScrollX)
	if t < 0 {
		return 0
	}
	return t
}

// PixelAt maps a time to a viewport x coordinate.
func (v View) PixelAt(t float64) float64 {
	z := v.Zoom
	if z <= 0 {
		z = 1
	}
	return t*z - v.ScrollX
}

// Result is where a bar lands after a drag.
type Result struct {
	Position float64
	Duration float64
}

// Apply computes the new absolute position and duration for a drag of dx
// pixels that started at (startPos, startDur). A snapped duration never
// rounds below MinDuration.
func (v View) Apply(mode Mode, startPos, startDur, dx float64) Result {
	startPos = sanitize(startPos, 0)
	startDur = sanitize(startDur, MinDuration)
	dt := v.DeltaTime(dx)

	switch mode {
	case ResizeRight:
		return Result{
			Position: startPos,
			Duration: math.Max(MinDuration, v.Snap(math.Max(MinDuration, startDur+dt))),
		}
	case ResizeLeft:
		// right edge stays at startPos+startDur; the left edge can't pass
		// the minimum duration or time zero
		clamped := math.Max(math.Min(dt, startDur-MinDuration), -startPos)
		return Result{
			Position: v.Snap(math.Max(0, startPos+clamped)),
			Duration: math.Max(MinDuration, v.Snap(math.Max(MinDuration, startDur-clamped))),
		}
	default:
		return Result{
			Position: v.Snap(math.Max(0, startPos+dt)),
			Duration: startDur,
		}
	}
}

func sanitize(v, min float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < min {
		return min
	}
	return v
}
