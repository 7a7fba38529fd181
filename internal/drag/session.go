package drag

// HandleWidth is how many pixels at each end of a bar grab a resize handle.
const HandleWidth = 8.0

// Session is the state of one pointer-down..pointer-up interaction. It is
// owned by the active drag and thrown away on release.
type Session struct {
	ID       string
	Mode     Mode
	OriginX  float64
	StartPos float64
	StartDur float64

	last Result
}

// Begin starts a drag on a bar that currently sits at startPos/startDur.
func Begin(id string, mode Mode, originX, startPos, startDur float64) *Session {
	return &Session{
		ID:       id,
		Mode:     mode,
		OriginX:  originX,
		StartPos: startPos,
		StartDur: startDur,
		last:     Result{Position: startPos, Duration: startDur},
	}
}

// Update maps the current pointer x to a new bar placement. The result is
// always computed from the drag start, so repeated updates don't accumulate
// rounding from the grid.
func (s *Session) Update(v View, x float64) Result {
	s.last = v.Apply(s.Mode, s.StartPos, s.StartDur, x-s.OriginX)
	return s.last
}

// Last is the most recent placement (the start placement before any update).
func (s *Session) Last() Result {
	return s.last
}

// Changed reports whether the drag moved the bar at all.
func (s *Session) Changed() bool {
	return s.last.Position != s.StartPos || s.last.Duration != s.StartDur
}

// HitTest picks the drag mode from where the pointer went down relative to
// a bar spanning [left, right] pixels. Bars narrower than two handles only move.
func HitTest(x, left, right float64) Mode {
	if right-left < 2*HandleWidth {
		return Move
	}
	switch {
	case x <= left+HandleWidth:
		return ResizeLeft
	case x >= right-HandleWidth:
		return ResizeRight
	default:
		return Move
	}
}
