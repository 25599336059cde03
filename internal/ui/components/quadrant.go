package components

import (
	"fmt"
	"math"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/profiler/internal/assessment"
	"github.com/abhisek/profiler/internal/ui/theme"
)

// Default plot area, in terminal cells. Odd heights put the horizontal
// divider on a whole row.
const (
	DefaultChartWidth  = 48
	DefaultChartHeight = 17
)

const yMargin = 4 // tick label plus axis line

var markerGlyphs = map[string]rune{
	"star":    '★',
	"diamond": '◆',
	"circle":  '●',
	"square":  '■',
}

type cellKind int

const (
	cellBlank cellKind = iota
	cellGrid
	cellLabel
	cellMarker
)

type cell struct {
	r       rune
	kind    cellKind
	profile assessment.Profile
}

// QuadrantChart draws a PlotSpec as a character grid: dashed dividers,
// the four quadrant names and the respondent's marker.
type QuadrantChart struct {
	Spec   assessment.PlotSpec
	Width  int
	Height int
}

// NewQuadrantChart sizes the plot area, falling back to the defaults for
// non-positive dimensions.
func NewQuadrantChart(spec assessment.PlotSpec, width, height int) QuadrantChart {
	if width <= 0 {
		width = DefaultChartWidth
	}
	if height <= 0 {
		height = DefaultChartHeight
	}
	return QuadrantChart{Spec: spec, Width: width, Height: height}
}

func (c QuadrantChart) column(x float64) int {
	span := c.Spec.XAxis.Max - c.Spec.XAxis.Min
	if span <= 0 {
		return 0
	}
	col := int(math.Round((x - c.Spec.XAxis.Min) / span * float64(c.Width-1)))
	return min(max(col, 0), c.Width-1)
}

func (c QuadrantChart) row(y float64) int {
	span := c.Spec.YAxis.Max - c.Spec.YAxis.Min
	if span <= 0 {
		return c.Height - 1
	}
	r := c.Height - 1 - int(math.Round((y-c.Spec.YAxis.Min)/span*float64(c.Height-1)))
	return min(max(r, 0), c.Height-1)
}

// project maps plot coordinates to a (column, row) cell, row 0 on top.
func (c QuadrantChart) project(p assessment.Point) (int, int) {
	return c.column(p.X), c.row(p.Y)
}

func (c QuadrantChart) grid() [][]cell {
	g := make([][]cell, c.Height)
	for i := range g {
		g[i] = make([]cell, c.Width)
		for j := range g[i] {
			g[i][j] = cell{r: ' '}
		}
	}

	vertical := -1
	for _, d := range c.Spec.Dividers {
		switch d.Orientation {
		case assessment.Vertical:
			vertical = c.column(d.At)
			for r := range g {
				g[r][vertical] = cell{r: dividerRune(g[r][vertical].r, '┆', d.Dashed), kind: cellGrid}
			}
		case assessment.Horizontal:
			r := c.row(d.At)
			for col := range g[r] {
				g[r][col] = cell{r: dividerRune(g[r][col].r, '┄', d.Dashed), kind: cellGrid}
			}
		}
	}

	for _, q := range c.Spec.Quadrants {
		c.placeLabel(g, q, vertical)
	}

	col, r := c.project(c.Spec.Marker.Position)
	glyph, ok := markerGlyphs[c.Spec.Marker.Style.Symbol]
	if !ok {
		glyph = '●'
	}
	g[r][col] = cell{r: glyph, kind: cellMarker, profile: c.Spec.Profile}
	return g
}

func dividerRune(existing, line rune, dashed bool) rune {
	if existing == '┆' || existing == '┄' || existing == '│' || existing == '─' {
		return '┼'
	}
	if !dashed {
		if line == '┆' {
			return '│'
		}
		return '─'
	}
	return line
}

// placeLabel centers the quadrant name on its anchor, wrapping words onto
// the rows below and keeping the text on its side of the vertical divider.
func (c QuadrantChart) placeLabel(g [][]cell, q assessment.QuadrantLabel, vertical int) {
	col, r := c.project(q.Anchor)
	lo, hi := 0, c.Width-1
	if vertical >= 0 {
		if col > vertical {
			lo = vertical + 1
		} else {
			hi = vertical - 1
		}
	}
	space := hi - lo + 1
	if space <= 0 {
		return
	}

	for i, line := range wrapWords(q.Text, space) {
		row := r + i
		if row >= c.Height {
			return
		}
		runes := []rune(line)
		start := min(max(col-len(runes)/2, lo), hi-len(runes)+1)
		for j, ch := range runes {
			if g[row][start+j].kind == cellGrid {
				continue
			}
			g[row][start+j] = cell{r: ch, kind: cellLabel, profile: q.Profile}
		}
	}
}

func wrapWords(text string, width int) []string {
	var lines []string
	var cur string
	for _, w := range strings.Fields(text) {
		if len([]rune(w)) > width {
			w = string([]rune(w)[:width])
		}
		switch {
		case cur == "":
			cur = w
		case len([]rune(cur))+1+len([]rune(w)) <= width:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func (c QuadrantChart) cellStyle(k cellKind, p assessment.Profile) lipgloss.Style {
	switch k {
	case cellGrid:
		return lipgloss.NewStyle().Foreground(theme.Grid)
	case cellLabel:
		return lipgloss.NewStyle().Foreground(theme.ProfileColor(p))
	case cellMarker:
		return lipgloss.NewStyle().Foreground(theme.ProfileColor(p)).Bold(true)
	}
	return lipgloss.NewStyle()
}

// View renders title, axes, grid and a legend line for the marker.
func (c QuadrantChart) View() string {
	axis := lipgloss.NewStyle().Foreground(theme.TextDim)
	totalWidth := yMargin + c.Width

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(totalWidth, lipgloss.Center, theme.Heading.Render(c.Spec.Title)))
	b.WriteString("\n")
	b.WriteString(axis.Render("↑ " + c.Spec.YAxis.Title))
	b.WriteString("\n")

	ticks := c.yTicks()
	for r, line := range c.grid() {
		b.WriteString(axis.Render(fmt.Sprintf("%2s │", ticks[r])))
		// Consecutive cells of one kind and profile share a style run.
		var run []rune
		runKind, runProfile := cellBlank, assessment.Profile(-1)
		flush := func() {
			if len(run) > 0 {
				b.WriteString(c.cellStyle(runKind, runProfile).Render(string(run)))
				run = run[:0]
			}
		}
		for _, cl := range line {
			if cl.kind != runKind || cl.profile != runProfile {
				flush()
				runKind, runProfile = cl.kind, cl.profile
			}
			run = append(run, cl.r)
		}
		flush()
		b.WriteString("\n")
	}

	b.WriteString(axis.Render("   └" + strings.Repeat("─", c.Width)))
	b.WriteString("\n")
	b.WriteString(axis.Render(c.xTickLine()))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(totalWidth, lipgloss.Right, axis.Render(c.Spec.XAxis.Title+" →")))
	b.WriteString("\n\n")

	m := c.Spec.Marker
	glyph, ok := markerGlyphs[m.Style.Symbol]
	if !ok {
		glyph = '●'
	}
	b.WriteString(c.cellStyle(cellMarker, c.Spec.Profile).Render(string(glyph)))
	b.WriteString(theme.Body.Render(fmt.Sprintf(" %s (%.1f, %.1f)  ", m.Caption, m.Position.X, m.Position.Y)))
	b.WriteString(theme.Profile(c.Spec.Profile, c.Spec.Profile.String()))
	return b.String()
}

// yTicks returns a label per grid row, blank where no tick falls.
func (c QuadrantChart) yTicks() []string {
	labels := make([]string, c.Height)
	a := c.Spec.YAxis
	if a.Tick <= 0 {
		return labels
	}
	for v := a.Min; v <= a.Max+1e-9; v += a.Tick {
		labels[c.row(v)] = fmt.Sprintf("%g", v)
	}
	return labels
}

func (c QuadrantChart) xTickLine() string {
	line := []rune(strings.Repeat(" ", yMargin+c.Width+2))
	a := c.Spec.XAxis
	if a.Tick <= 0 {
		return string(line)
	}
	for v := a.Min; v <= a.Max+1e-9; v += a.Tick {
		label := fmt.Sprintf("%g", v)
		start := yMargin + c.column(v) - len(label)/2
		for i, ch := range label {
			if start+i >= 0 && start+i < len(line) {
				line[start+i] = ch
			}
		}
	}
	return strings.TrimRight(string(line), " ")
}
