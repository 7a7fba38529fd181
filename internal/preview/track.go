package preview

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ivlev/tweenline/internal/drag"
	"github.com/ivlev/tweenline/internal/position"
	"github.com/ivlev/tweenline/internal/tween"
)

// Grid maps the editor's pixel space onto terminal columns.
type Grid struct {
	View      drag.View
	CellWidth float64 // pixels per column
	Columns   int
}

func (g Grid) cell() float64 {
	if g.CellWidth <= 0 {
		return 1
	}
	return g.CellWidth
}

// Column is the terminal column that shows time t.
func (g Grid) Column(t float64) int {
	return int(math.Floor(g.View.PixelAt(t) / g.cell()))
}

// Pixel is the pixel x at the left edge of column col.
func (g Grid) Pixel(col int) float64 {
	return float64(col) * g.cell()
}

// Span returns the columns [left, right) a bar covers, at least one wide.
func (g Grid) Span(start, dur float64) (left, right int) {
	left = g.Column(start)
	right = int(math.Ceil(g.View.PixelAt(start+dur) / g.cell()))
	if right <= left {
		right = left + 1
	}
	return left, right
}

// Bar is one track row.
type Bar struct {
	Start    float64
	Duration float64
	Label    string
	Color    string
	Selected bool
}

// PlainTrack renders a bar as Columns runes: spaces around a block of '█'
// with the label written over it, plus '▐'/'▌' handles when wide enough.
func PlainTrack(g Grid, b Bar) string {
	row := []rune(strings.Repeat(" ", max(g.Columns, 0)))
	left, right := g.Span(b.Start, b.Duration)
	for c := max(left, 0); c < right && c < len(row); c++ {
		row[c] = '█'
	}
	if right-left >= 4 {
		set(row, left, '▐')
		set(row, right-1, '▌')
	}
	lbl := []rune(b.Label)
	for i := 0; i < len(lbl) && left+1+i < right-1; i++ {
		set(row, left+1+i, lbl[i])
	}
	return string(row)
}

func set(row []rune, i int, r rune) {
	if i >= 0 && i < len(row) {
		row[i] = r
	}
}

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	rulerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	headStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
	headerStyle   = lipgloss.NewStyle().Bold(true)
)

// Track renders a styled bar row. The playhead column, when inside the row,
// is drawn as '│'.
func Track(g Grid, b Bar, playhead float64) string {
	row := []rune(PlainTrack(g, b))
	left, right := g.Span(b.Start, b.Duration)
	head := g.Column(playhead)

	style := lipgloss.NewStyle().Foreground(lipgloss.Color(b.Color))
	if b.Selected {
		style = style.Inherit(selectedStyle)
	}

	var out strings.Builder
	for i, r := range row {
		switch {
		case i == head:
			out.WriteString(headStyle.Render("│"))
		case i >= left && i < right:
			out.WriteString(style.Render(string(r)))
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

// PlainRuler renders second marks: '|' on each tick with its label after it.
func PlainRuler(g Grid, span float64) string {
	row := []rune(strings.Repeat("─", max(g.Columns, 0)))
	step := TickStep(span)
	for t := 0.0; t <= span+1e-9; t += step {
		c := g.Column(t)
		if c < 0 || c >= len(row) {
			continue
		}
		row[c] = '|'
		for i, r := range strconv.FormatFloat(t, 'f', -1, 64) + "s" {
			if c+1+i < len(row) {
				row[c+1+i] = r
			}
		}
	}
	return string(row)
}

// Ruler is PlainRuler styled, with the playhead marked.
func Ruler(g Grid, span, playhead float64) string {
	row := []rune(PlainRuler(g, span))
	head := g.Column(playhead)
	var out strings.Builder
	for i, r := range row {
		if i == head {
			out.WriteString(headStyle.Render("▼"))
			continue
		}
		out.WriteString(rulerStyle.Render(string(r)))
	}
	return out.String()
}

// Schedule formats the resolved schedule as a table.
func Schedule(tweens []tween.Tween) string {
	res := position.Resolve(items(tweens))
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-3s %-10s %-18s %-10s %8s %8s %8s", "#", "ID", "LABEL", "POSITION", "START", "DUR", "END")))
	b.WriteString("\n")
	for i, t := range tweens {
		pos := t.Position
		if pos == "" {
			pos = `""`
		}
		fmt.Fprintf(&b, "%-3d %-10s %-18s %-10s %8.3f %8.3f %8.3f\n",
			i, short(t.ID, 8), short(t.Name(), 18), short(pos, 10),
			res.Starts[i], t.Duration, res.Starts[i]+t.Duration)
	}
	fmt.Fprintf(&b, "span %.3fs (display %.3fs)\n", res.End, position.DisplayDuration(res.End))
	return b.String()
}

func short(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
