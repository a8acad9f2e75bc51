package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize/english"

	"github.com/wispkit/wisp/internal/engine"
	"github.com/wispkit/wisp/internal/toast"
)

const (
	headerRows = 1
	barRows    = 1

	// peekRows is how far each stacked toast shows from behind the front
	// one while collapsed.
	peekRows = 1

	closeControl = "✕"
)

// toastRect is the hit geometry of one live toast in the current frame.
type toastRect struct {
	id string
	z  int

	box    rect
	close  rect
	button rect

	hasClose  bool
	hasButton bool
	actionKey string
}

// scene is one assembled frame plus everything the update loop needs to
// route pointer events and report measured heights back to the engine.
type scene struct {
	view       string
	rects      []toastRect
	heights    map[string]int
	hasLoading bool
}

// hitTest returns the front-most toast under (x, y), or nil.
func (s *scene) hitTest(x, y int) *toastRect {
	for i := range s.rects {
		if s.rects[i].box.contains(x, y) {
			return &s.rects[i]
		}
	}
	return nil
}

// buildScene renders every stack onto a fresh canvas and collects hit
// geometry. Called from Update so both View and the mouse handlers work
// from the same frame.
func (m Model) buildScene() *scene {
	sc := &scene{heights: make(map[string]int)}
	if m.width <= 0 || m.height <= headerRows+barRows {
		return sc
	}

	cv := newCanvas(m.width, m.height)
	cv.place(0, 0, 1<<20, m.renderHeader())
	cv.place(0, m.height-1, 1<<20, m.renderBar())

	stageTop := headerRows
	stageBottom := m.height - 1 - barRows
	boxW := m.toastWidth()

	for pos, items := range m.eng.Stacks() {
		m.placeStack(cv, sc, pos, items, boxW, stageTop, stageBottom)
	}

	// Hit testing walks front-most first.
	for i := 1; i < len(sc.rects); i++ {
		for j := i; j > 0 && sc.rects[j].z > sc.rects[j-1].z; j-- {
			sc.rects[j], sc.rects[j-1] = sc.rects[j-1], sc.rects[j]
		}
	}

	sc.view = cv.render()
	return sc
}

// placeStack lays out one anchored stack. Collapsed stacks show the front
// toast whole with one border row of each toast behind it peeking out;
// expanded stacks place every toast at its engine offset. Occlusion falls
// out of the canvas z order, so exiting toasts drawn at their frozen slot
// cover the newly promoted front until the grace period purges them.
func (m Model) placeStack(cv *canvas, sc *scene, pos toast.Position, items []engine.Item, boxW, stageTop, stageBottom int) {
	if len(items) == 0 {
		return
	}
	bottom := pos.IsBottom()
	expanded := items[0].Expanded

	type placed struct {
		it  engine.Item
		box string
		h   int
	}
	var rendered []placed
	hidden := 0
	for _, it := range items {
		if it.SwipedOut {
			continue
		}
		if it.Removing {
			// A collapsed stack only plays the front slot's exit.
			if !expanded && it.Index > 0 {
				continue
			}
			box := m.renderToast(it.Toast, true, boxW)
			rendered = append(rendered, placed{it, box, lipgloss.Height(box)})
			continue
		}
		if !it.Visible {
			hidden++
			continue
		}
		box := m.renderToast(it.Toast, false, boxW)
		h := lipgloss.Height(box)
		sc.heights[it.Toast.ID] = h
		if it.Toast.Kind == toast.KindLoading {
			sc.hasLoading = true
		}
		rendered = append(rendered, placed{it, box, h})
	}
	if len(rendered) == 0 {
		return
	}

	frontH := rendered[0].h
	for _, p := range rendered {
		if !p.it.Removing && p.it.Index == 0 {
			frontH = p.h
			break
		}
	}

	minTop, maxBottom := stageBottom, stageTop
	for _, p := range rendered {
		x := anchorX(pos, boxW, m.width) + int(math.Round(p.it.SwipeX))

		var top int
		if expanded || p.it.Removing {
			off := int(math.Round(p.it.Offset))
			if bottom {
				top = stageBottom - off - p.h + 1
			} else {
				top = stageTop + off
			}
		} else {
			if bottom {
				top = stageBottom - frontH + 1 - p.it.Index*peekRows
			} else {
				top = stageTop + frontH - 1 + p.it.Index*peekRows - p.h + 1
			}
		}
		top += int(math.Round(p.it.SwipeY))

		cv.place(x, top, p.it.ZIndex, p.box)
		if top < minTop {
			minTop = top
		}
		if b := top + p.h - 1; b > maxBottom {
			maxBottom = b
		}

		if p.it.Removing {
			continue
		}
		tr := toastRect{
			id:  p.it.Toast.ID,
			z:   p.it.ZIndex,
			box: rect{x: x, y: top, w: boxW, h: p.h},
		}
		if p.it.Toast.CanDismiss() {
			tr.hasClose = true
			tr.close = rect{x: x + boxW - 4, y: top + 1, w: 3, h: 1}
		}
		if btn := p.it.Toast.Button; btn != nil {
			bw := lipgloss.Width(m.styles.button.Render(btn.Label))
			tr.hasButton = true
			tr.actionKey = btn.Key
			tr.button = rect{x: x + boxW - 2 - bw, y: top + p.h - 2, w: bw, h: 1}
		}
		sc.rects = append(sc.rects, tr)
	}

	if hidden > 0 {
		m.placeOverflow(cv, pos, boxW, hidden, minTop, maxBottom)
	}
}

// placeOverflow draws the "+N more" hint just beyond the far end of the
// stack.
func (m Model) placeOverflow(cv *canvas, pos toast.Position, boxW, hidden, minTop, maxBottom int) {
	label := m.styles.dim.Render(fmt.Sprintf("+%s", english.Plural(hidden, "more toast", "more toasts")))
	w := lipgloss.Width(label)

	row := maxBottom + 1
	if pos.IsBottom() {
		row = minTop - 1
	}

	x := anchorX(pos, boxW, m.width)
	switch pos.Horizontal() {
	case "left":
		x++
	case "center":
		x += (boxW - w) / 2
	default:
		x += boxW - w - 1
	}
	cv.place(x, row, 0, label)
}

// anchorX returns the left column of a toast box for a horizontal anchor,
// one cell in from the screen edge.
func anchorX(pos toast.Position, boxW, termW int) int {
	switch pos.Horizontal() {
	case "left":
		return 1
	case "center":
		return (termW - boxW) / 2
	default:
		return termW - boxW - 1
	}
}

// toastWidth returns the box width: the configured width clamped to the
// terminal.
func (m Model) toastWidth() int {
	w := m.cfg.Display.Width
	if w <= 0 {
		w = 44
	}
	if max := m.width - 4; max > 0 && w > max {
		w = max
	}
	if w < 20 {
		w = 20
	}
	return w
}

// renderToast draws one toast box. Exiting toasts render dimmed with a
// plain body so they read as fading out.
func (m Model) renderToast(t toast.Toast, dimmed bool, width int) string {
	kindStyle := m.th.StyleFor(t.Kind)
	accent := lipgloss.Color(kindStyle.Color)

	icon := kindStyle.Icon
	if t.Kind == toast.KindLoading && !dimmed {
		icon = m.spinner.View()
	}

	cw := width - 2  // inside the borders
	inner := cw - 2  // inside the padding

	titleStyle, bodyStyle := m.styles.title, m.styles.body
	iconStyle := lipgloss.NewStyle().Foreground(accent)
	borderColor := accent
	if dimmed {
		titleStyle, bodyStyle, iconStyle = m.styles.dim, m.styles.dim, m.styles.dim
		borderColor = lipgloss.Color(m.th.Colors.Dim)
	}

	title := t.Title
	if title == "" {
		title = string(t.Kind)
	}
	reserve := lipgloss.Width(icon) + 1
	if t.CanDismiss() {
		reserve += 2
	}
	title = ansi.Truncate(title, inner-reserve, "…")

	row := iconStyle.Render(icon) + " " + titleStyle.Render(title)
	if t.CanDismiss() {
		pad := inner - lipgloss.Width(row) - 1
		if pad < 1 {
			pad = 1
		}
		row += strings.Repeat(" ", pad) + m.styles.dim.Render(closeControl)
	}

	lines := []string{row}
	if t.Body != "" {
		lines = append(lines, m.renderBodyText(t.Body, inner, bodyStyle, dimmed))
	}
	if t.Button != nil {
		btn := m.styles.button.Render(t.Button.Label)
		pad := inner - lipgloss.Width(btn)
		if pad < 0 {
			pad = 0
		}
		lines = append(lines, strings.Repeat(" ", pad)+btn)
	}

	return lipgloss.NewStyle().
		Border(m.styles.border).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(cw).
		Render(strings.Join(lines, "\n"))
}

// renderBodyText renders a toast body, through glamour when markdown is
// enabled.
func (m Model) renderBodyText(body string, width int, style lipgloss.Style, dimmed bool) string {
	if m.cfg.Behavior.Markdown && !dimmed && m.markdown != nil {
		if out, err := m.markdown.Render(body); err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return style.Width(width).Render(body)
}

// renderHeader draws the single status row across the top.
func (m Model) renderHeader() string {
	left := " " + m.styles.header.Render("wisp")

	parts := []string{english.Plural(m.eng.Count(), "toast", "")}
	if m.eng.Expanded() {
		parts = append(parts, "expanded")
	}
	if m.dnd {
		parts = append(parts, "do not disturb")
	}
	right := m.styles.headerDim.Render(strings.Join(parts, " · ")) + " "

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderBar draws the bottom row: a transient status message when one is
// active, the keybind bar otherwise.
func (m Model) renderBar() string {
	if m.statusText != "" {
		style := m.styles.status
		if m.statusErr {
			style = m.styles.statusErr
		}
		return " " + style.Render(m.statusText)
	}
	return " " + m.buildKeybindBar(m.width-1)
}

// keybind represents a single keybind with priority for the status bar.
type keybind struct {
	key      string
	desc     string
	priority int // lower = more important (shown first)
}

// buildKeybindBar builds a keybind bar that fits within the given width.
func (m Model) buildKeybindBar(width int) string {
	var binds []keybind

	switch m.mode {
	case ModeDetail:
		binds = []keybind{
			{"esc", "back", 1},
			{"j/k", "scroll", 2},
			{"c", "copy body", 3},
			{"J/Y", "copy toast", 4},
			{"q", "quit", 5},
		}
	default:
		binds = []keybind{
			{"q", "quit", 1},
			{"?", "help", 2},
			{"enter", "inspect", 3},
			{"d", "dismiss", 4},
			{"D", "all", 5},
			{"space", "action", 6},
			{"z", "dnd", 7},
			{"J/Y", "copy", 8},
		}
		if m.cfg.Behavior.ExpandByKey {
			binds = append(binds, keybind{"tab", "expand", 3})
		}
		if m.demoKeys {
			binds = append(binds, keybind{"n/s/i/w/e/a/l", "spawn", 9}, keybind{"p", "position", 10})
		}
	}

	for i := 1; i < len(binds); i++ {
		for j := i; j > 0 && binds[j].priority < binds[j-1].priority; j-- {
			binds[j], binds[j-1] = binds[j-1], binds[j]
		}
	}

	// Build the bar, adding keybinds until we run out of space
	const separator = "  "
	result := ""
	for _, b := range binds {
		item := m.styles.barKey.Render(b.key) + " " + b.desc
		testLen := lipgloss.Width(result) + len(separator) + lipgloss.Width(item)
		if width > 0 && testLen > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += item
	}

	return m.styles.bar.Render(result)
}
