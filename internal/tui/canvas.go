package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// rect is a cell-coordinate rectangle, used for hit testing.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// paint is one row's worth of a placed block, clipped to the canvas.
type paint struct {
	x, w int
	z    int
	seq  int
	line string
}

// canvas composes absolutely-positioned blocks into terminal rows. Within
// a row the highest z wins its columns outright; overlapped lower paints
// are dropped whole rather than sliced, so a covered toast simply does not
// draw on that row.
type canvas struct {
	width, height int
	rows          [][]paint
	seq           int
}

func newCanvas(width, height int) *canvas {
	return &canvas{
		width:  width,
		height: height,
		rows:   make([][]paint, height),
	}
}

// place adds a multi-line block with its top-left corner at (x, y). Rows
// outside the canvas are skipped; lines crossing the left or right edge
// are clipped to it, which is how swiped toasts slide off screen.
func (c *canvas) place(x, y, z int, block string) {
	if block == "" {
		return
	}
	c.seq++
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 || row >= c.height || line == "" {
			continue
		}

		px, w := x, ansi.StringWidth(line)
		if px >= c.width || px+w <= 0 {
			continue
		}
		if px < 0 {
			line = ansi.Cut(line, -px, w)
			w += px
			px = 0
		}
		if px+w > c.width {
			line = ansi.Cut(line, 0, c.width-px)
			w = c.width - px
		}

		c.rows[row] = append(c.rows[row], paint{x: px, w: w, z: z, seq: c.seq, line: line})
	}
}

// render assembles the rows into one frame string.
func (c *canvas) render() string {
	lines := make([]string, c.height)
	for i := range c.rows {
		lines[i] = renderRow(c.rows[i])
	}
	return strings.Join(lines, "\n")
}

// renderRow lays out one row: paints are considered in z order and kept
// only when their columns are still free, then emitted left to right with
// space gaps.
func renderRow(paints []paint) string {
	if len(paints) == 0 {
		return ""
	}

	sorted := make([]paint, len(paints))
	copy(sorted, paints)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].z != sorted[j].z {
			return sorted[i].z > sorted[j].z
		}
		return sorted[i].seq > sorted[j].seq
	})

	var kept []paint
	for _, p := range sorted {
		if !overlapsAny(p, kept) {
			kept = append(kept, p)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].x < kept[j].x })

	var b strings.Builder
	col := 0
	for _, p := range kept {
		if p.x > col {
			b.WriteString(strings.Repeat(" ", p.x-col))
			col = p.x
		}
		b.WriteString(p.line)
		col += p.w
	}
	return b.String()
}

func overlapsAny(p paint, kept []paint) bool {
	for _, k := range kept {
		if p.x < k.x+k.w && k.x < p.x+p.w {
			return true
		}
	}
	return false
}
