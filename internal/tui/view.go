package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ivlev/tweenline/internal/position"
	"github.com/ivlev/tweenline/internal/preview"
	"github.com/ivlev/tweenline/internal/timeline"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a5b4fc"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b"))
	mixedStyle   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#9ca3af"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#374151")).Padding(0, 1)
	fieldStyle   = lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("#9ca3af"))
	playingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e")).Bold(true)
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	st := m.bridge.State()
	span := m.tl.DisplayDuration()
	g := m.grid()

	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(preview.Ruler(g, span, st.CurrentTime))
	b.WriteString("\n")

	ts := m.tl.Tweens()
	res := m.tl.Schedule()
	rows := m.height - trackTop - 12
	if rows < 3 {
		rows = 3
	}
	for i, t := range ts {
		if i >= rows {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("… %d more", len(ts)-rows)))
			b.WriteString("\n")
			break
		}
		bar := preview.Bar{
			Start:    res.Starts[i],
			Duration: t.Duration,
			Label:    t.Name(),
			Color:    preview.ColorHex(t.Color, i),
			Selected: m.sel.Has(t.ID),
		}
		b.WriteString(preview.Track(g, bar, st.CurrentTime))
		b.WriteString("\n")
	}
	if len(ts) == 0 {
		b.WriteString(mutedStyle.Render("empty timeline: press a to add a tween"))
		b.WriteString("\n")
	}

	b.WriteString(m.inspector())
	b.WriteString("\n")
	if m.prompting {
		b.WriteString(m.prompt.View())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(mutedStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) header() string {
	st := m.bridge.State()
	state := "paused"
	if st.IsPlaying {
		state = playingStyle.Render("playing")
	}
	name := m.name
	if name == "" {
		name = "untitled"
	}
	flags := []string{fmt.Sprintf("%gx", st.Speed)}
	if st.Loop {
		flags = append(flags, "loop")
	}
	if m.view.SnapToGrid {
		flags = append(flags, fmt.Sprintf("snap %gs", m.view.GridSize))
	}
	flags = append(flags, string(m.tl.Policy()))
	return fmt.Sprintf("%s  %s  %.2f / %.2fs  %s",
		titleStyle.Render(name), state, st.CurrentTime, st.Duration, mutedStyle.Render(strings.Join(flags, " · ")))
}

// inspector shows the selection's fields; values that differ across a
// multi-selection read "mixed".
func (m Model) inspector() string {
	if m.sel.Len() == 0 {
		return panelStyle.Render(mutedStyle.Render("no selection"))
	}
	var lines []string
	if m.sel.Len() > 1 {
		lines = append(lines, titleStyle.Render(fmt.Sprintf("%d tweens selected", m.sel.Len())))
	}

	fields := append([]string{}, timeline.Fields...)
	primary, ok := m.tl.Get(m.sel.Primary())
	if ok {
		for _, p := range primary.PropertyNames() {
			fields = append(fields, p+".to", p+".from")
		}
	}
	for _, f := range fields {
		v, err := timeline.BulkValue(m.tl, &m.sel, f)
		if err != nil {
			continue
		}
		shown := v
		switch {
		case v == timeline.Mixed:
			shown = mixedStyle.Render(v)
		case v == "" && f == "position":
			shown = mutedStyle.Render(`"" (after previous)`)
		}
		lines = append(lines, fieldStyle.Render(f)+" "+shown)
	}

	if ok && m.sel.Len() == 1 {
		start, _ := m.tl.StartOf(primary.ID)
		expr := position.Parse(primary.Position)
		lines = append(lines, fieldStyle.Render("start")+" "+fmt.Sprintf("%.3fs (%s)", start, expr.Kind))
		for _, w := range primary.Validate() {
			lines = append(lines, warnStyle.Render("! "+w))
		}
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}
