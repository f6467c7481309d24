package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fentz26/projsuite/internal/gantt"
	"github.com/mattn/go-runewidth"
)

// Glyphs drawn for each cell kind. Colors carry the rest.
const (
	glyphBar      = "█"
	glyphWeekend  = "░"
	glyphPastDue  = "·"
	glyphToday    = "│"
	glyphPlain    = " "
	maxNameWidth  = 24
	nameHeader    = "Task"
	weekdayLetter = "SMTWTFS"
)

// RenderChart draws g as text, one character per day. width caps the line
// length; zero or less draws every column.
func RenderChart(g *gantt.Grid, p gantt.Palette, width int) string {
	return renderChart(g, p, 0, width)
}

// visibleColumns returns how many day columns fit next to the name column.
func visibleColumns(g *gantt.Grid, offset, width int) int {
	n := g.Columns() - offset
	if width > 0 {
		if avail := width - nameWidth(g) - 1; avail < n {
			n = avail
		}
	}
	if n < 0 {
		return 0
	}
	return n
}

func renderChart(g *gantt.Grid, p gantt.Palette, offset, width int) string {
	if g == nil {
		return ""
	}
	nw := nameWidth(g)
	n := visibleColumns(g, offset, width)
	todayStyle := lipgloss.NewStyle().Foreground(hexColor(p.Today)).Bold(true)

	var b strings.Builder

	// Month labels, written at the first visible column of each month.
	months := []rune(strings.Repeat(" ", n))
	for c := 0; c < n; c++ {
		d := g.Days[offset+c].Date
		if c == 0 || d.Day() == 1 {
			label := []rune(d.Format("Jan 2006"))
			for i := 0; i < len(label) && c+i < n; i++ {
				months[c+i] = label[i]
			}
		}
	}
	b.WriteString(pad("", nw) + " " + string(months) + "\n")

	b.WriteString(pad(nameHeader, nw) + " ")
	for c := 0; c < n; c++ {
		col := offset + c
		letter := string(weekdayLetter[g.Days[col].Date.Weekday()])
		if col == g.TodayCol {
			letter = todayStyle.Render(letter)
		}
		b.WriteString(letter)
	}
	b.WriteString("\n")

	for _, row := range g.Rows {
		b.WriteString(pad(row.Task.Name, nw) + " ")
		for c := 0; c < n; c++ {
			b.WriteString(renderCell(g, p, row, offset+c))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderCell(g *gantt.Grid, p gantt.Palette, row gantt.Row, col int) string {
	kind := row.Cells[col]
	style := lipgloss.NewStyle()
	if fill := p.Fill(row, col); fill != "" {
		style = style.Foreground(hexColor(fill))
	}

	var glyph string
	switch kind {
	case gantt.CellBar:
		glyph = glyphBar
		if row.Task.Milestone && col == row.EndCol {
			glyph = gantt.MilestoneMark
		}
	case gantt.CellSaturday, gantt.CellSunday:
		glyph = glyphWeekend
	case gantt.CellPastDue:
		glyph = glyphPastDue
	default:
		glyph = glyphPlain
	}
	if col == g.TodayCol && kind != gantt.CellBar {
		glyph = glyphToday
		style = style.Foreground(hexColor(p.Today))
	}
	return style.Render(glyph)
}

// RenderLegend lists the palette as colored swatches on one line.
func RenderLegend(p gantt.Palette) string {
	var parts []string
	for _, e := range p.Legend() {
		swatch := lipgloss.NewStyle().Foreground(hexColor(e.Color)).Render(glyphBar)
		parts = append(parts, swatch+" "+e.Label)
	}
	return strings.Join(parts, "  ")
}

func nameWidth(g *gantt.Grid) int {
	w := lipgloss.Width(nameHeader)
	for _, r := range g.Rows {
		if rw := lipgloss.Width(r.Task.Name); rw > w {
			w = rw
		}
	}
	if w > maxNameWidth {
		w = maxNameWidth
	}
	return w
}

// pad truncates or right-pads s to exactly w cells.
func pad(s string, w int) string {
	if runewidth.StringWidth(s) > w {
		s = runewidth.Truncate(s, w, "…")
	}
	return runewidth.FillRight(s, w)
}

func hexColor(hex string) lipgloss.Color {
	return lipgloss.Color("#" + hex)
}
