package tui

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/tweenline/internal/drag"
	"github.com/ivlev/tweenline/internal/timeline"
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.bridge.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Play):
		m.bridge.TogglePlay()
	case key.Matches(msg, m.keys.Restart):
		m.bridge.Restart()
	case key.Matches(msg, m.keys.Loop):
		loop := !m.bridge.State().Loop
		m.bridge.SetLoop(loop)
		m.status = fmt.Sprintf("loop %v", loop)
	case key.Matches(msg, m.keys.Faster):
		m.bridge.SetSpeed(stepSpeed(m.bridge.State().Speed, 1))
		m.status = fmt.Sprintf("speed %gx", m.bridge.State().Speed)
	case key.Matches(msg, m.keys.Slower):
		m.bridge.SetSpeed(stepSpeed(m.bridge.State().Speed, -1))
		m.status = fmt.Sprintf("speed %gx", m.bridge.State().Speed)

	case key.Matches(msg, m.keys.ZoomIn):
		m.view.Zoom = clampf(m.view.Zoom*1.25, 10, 2000)
	case key.Matches(msg, m.keys.ZoomOut):
		m.view.Zoom = clampf(m.view.Zoom/1.25, 10, 2000)
	case key.Matches(msg, m.keys.Snap):
		m.view.SnapToGrid = !m.view.SnapToGrid
		m.status = fmt.Sprintf("snap %v (grid %gs)", m.view.SnapToGrid, m.view.GridSize)
	case key.Matches(msg, m.keys.Policy):
		p := timeline.Relative
		if m.tl.Policy() == timeline.Relative {
			p = timeline.Literal
		}
		m.tl.SetPolicy(p)
		m.status = "drags write " + string(p) + " positions"
	case key.Matches(msg, m.keys.ScrollL):
		m.view.ScrollX = math.Max(0, m.view.ScrollX-10*m.cellWidth)
	case key.Matches(msg, m.keys.ScrollR):
		m.view.ScrollX += 10 * m.cellWidth

	case key.Matches(msg, m.keys.Add):
		t := m.tl.Add()
		m.cursor = m.tl.Index(t.ID)
		m.sel.Select(t.ID)
		m.status = "added " + t.Name()
	case key.Matches(msg, m.keys.Delete):
		ids := m.sel.IDs()
		for _, id := range ids {
			m.tl.Delete(id)
		}
		m.sel.Prune(m.tl)
		m.fixCursor()
		if len(ids) > 0 {
			m.status = fmt.Sprintf("deleted %d", len(ids))
		}
	case key.Matches(msg, m.keys.Duplicate):
		if id := m.sel.Primary(); id != "" {
			if t, err := m.tl.Duplicate(id); err == nil {
				m.cursor = m.tl.Index(t.ID)
				m.sel.Select(t.ID)
			}
		}
	case key.Matches(msg, m.keys.Next):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Prev):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Multi):
		if id := m.cursorID(); id != "" {
			m.sel.Toggle(id)
		}
	case key.Matches(msg, m.keys.ExtendN):
		m.extend(1)
	case key.Matches(msg, m.keys.ExtendP):
		m.extend(-1)
	case key.Matches(msg, m.keys.Earlier):
		m.reorder(-1)
	case key.Matches(msg, m.keys.Later):
		m.reorder(1)

	case key.Matches(msg, m.keys.NudgeL):
		m.nudge(-m.step(), 0)
	case key.Matches(msg, m.keys.NudgeR):
		m.nudge(m.step(), 0)
	case key.Matches(msg, m.keys.Grow):
		m.nudge(0, m.step())
	case key.Matches(msg, m.keys.Shrink):
		m.nudge(0, -m.step())

	case key.Matches(msg, m.keys.Edit):
		if m.sel.Len() == 0 {
			m.status = "nothing selected"
			break
		}
		m.prompting = true
		m.prompt.SetValue("")
		return m, m.prompt.Focus()
	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompting = false
		m.prompt.Blur()
		return m, nil
	case tea.KeyEnter:
		m.prompting = false
		m.prompt.Blur()
		m.applyPrompt(m.prompt.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// applyPrompt applies "field=value" to every selected tween.
func (m *Model) applyPrompt(input string) {
	field, value, ok := strings.Cut(input, "=")
	field = strings.TrimSpace(field)
	if !ok || field == "" {
		m.status = "expected field=value"
		return
	}
	if err := timeline.ApplyBulk(m.tl, &m.sel, field, value); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("%s set on %d", field, m.sel.Len())
}

func (m *Model) save() {
	path := m.path
	if path == "" {
		path = timeline.GenerateDocumentPath(m.cfg.Paths.Timelines)
	}
	name := m.name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := timeline.WriteDocument(m.tl.Document(name), path); err != nil {
		m.status = "save failed: " + err.Error()
		return
	}
	m.path = path
	m.status = "saved " + path
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		if msg.Y == rulerRow {
			m.scrubbing = true
			m.bridge.Seek(m.view.TimeAt(m.pixelAt(msg.X)))
			return m
		}
		m.pressTrack(msg)

	case tea.MouseActionMotion:
		switch {
		case m.scrubbing:
			m.bridge.Scrub(m.view.TimeAt(m.pixelAt(msg.X)))
		case m.session != nil:
			r := m.session.Update(m.view, m.pixelAt(msg.X))
			if err := m.tl.Commit(m.session.ID, m.session.Mode, r); errors.Is(err, timeline.ErrNotFound) {
				m.session = nil
			}
		}

	case tea.MouseActionRelease:
		if m.session != nil && m.session.Changed() {
			r := m.session.Last()
			m.status = fmt.Sprintf("%s → %.3fs / %.3fs", m.session.Mode, r.Position, r.Duration)
		}
		m.session = nil
		m.scrubbing = false
	}
	return m
}

func (m *Model) pressTrack(msg tea.MouseMsg) {
	i := msg.Y - trackTop
	ts := m.tl.Tweens()
	if i < 0 || i >= len(ts) {
		return
	}
	t := ts[i]
	m.cursor = i
	if msg.Shift || msg.Ctrl {
		m.sel.Toggle(t.ID)
	} else if !m.sel.Has(t.ID) || m.sel.Len() == 1 {
		m.sel.Select(t.ID)
	}

	start, _ := m.tl.StartOf(t.ID)
	g := m.grid()
	left, right := g.Span(start, t.Duration)
	if msg.X < left || msg.X >= right {
		return
	}
	x := m.pixelAt(msg.X)
	mode := drag.HitTest(x, g.Pixel(left), g.Pixel(right))
	m.session = drag.Begin(t.ID, mode, x, start, t.Duration)
}

// nudge moves and resizes the selection by whole steps.
func (m *Model) nudge(dPos, dDur float64) {
	for _, id := range m.sel.IDs() {
		t, ok := m.tl.Get(id)
		if !ok {
			continue
		}
		start, _ := m.tl.StartOf(id)
		if dPos != 0 {
			m.tl.Move(id, m.view.Snap(math.Max(0, start+dPos)))
		}
		if dDur != 0 {
			m.tl.Resize(id, m.view.Snap(math.Max(drag.MinDuration, t.Duration+dDur)), nil)
		}
	}
}

// step is one nudge: the grid when snapping, else a tenth of a second.
func (m Model) step() float64 {
	if m.view.SnapToGrid && m.view.GridSize > 0 {
		return m.view.GridSize
	}
	return 0.1
}

func (m *Model) moveCursor(delta int) {
	n := m.tl.Len()
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
	m.sel.Select(m.cursorID())
}

// extend moves the cursor and adds the tween under it to the selection.
func (m *Model) extend(delta int) {
	n := m.tl.Len()
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
	if id := m.cursorID(); !m.sel.Has(id) {
		m.sel.Toggle(id)
	}
}

// reorder shifts the tween under the cursor in array order. Relative
// positions then resolve against their new predecessor.
func (m *Model) reorder(delta int) {
	id := m.cursorID()
	to := m.cursor + delta
	if id == "" || to < 0 || to >= m.tl.Len() {
		return
	}
	if err := m.tl.Reorder(id, to); err != nil {
		m.status = err.Error()
		return
	}
	m.cursor = to
	m.status = fmt.Sprintf("moved to #%d", to+1)
}

func (m *Model) fixCursor() {
	n := m.tl.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.sel.Len() == 0 && n > 0 {
		m.sel.Select(m.cursorID())
	}
}

func (m Model) cursorID() string {
	ts := m.tl.Tweens()
	if m.cursor < 0 || m.cursor >= len(ts) {
		return ""
	}
	return ts[m.cursor].ID
}

func stepSpeed(cur float64, dir int) float64 {
	idx := 0
	for i, s := range speeds {
		if math.Abs(s-cur) < math.Abs(speeds[idx]-cur) {
			idx = i
		}
	}
	idx += dir
	if idx < 0 {
		idx = 0
	}
	if idx >= len(speeds) {
		idx = len(speeds) - 1
	}
	return speeds[idx]
}
