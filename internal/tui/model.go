// Package tui renders toast stacks in the terminal with BubbleTea. It is
// the render host for the engine: it measures toast boxes, reports their
// heights back, routes keyboard and mouse input into engine calls, and
// redraws whenever the engine reports a change.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/wispkit/wisp/internal/config"
	"github.com/wispkit/wisp/internal/engine"
	"github.com/wispkit/wisp/internal/registry"
	"github.com/wispkit/wisp/internal/script"
	"github.com/wispkit/wisp/internal/theme"
	"github.com/wispkit/wisp/internal/toast"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeStack Mode = iota
	ModeDetail
	ModeHelp
)

// ConfigMsg delivers a hot-reloaded configuration to a running program,
// typically via Program.Send from the daemon's config watcher.
type ConfigMsg struct {
	Config *config.Config
}

// ThemeMsg delivers a reloaded theme to a running program.
type ThemeMsg struct {
	Theme *theme.Theme
}

// Model is the main TUI model.
type Model struct {
	cfg *config.Config
	reg *registry.Registry
	eng *engine.Engine
	th  *theme.Theme

	styles styleSet
	keys   KeyMap
	help   help.Model

	mode   Mode
	width  int
	height int
	ready  bool

	// scene is the frame built by the last Update; View draws it and the
	// mouse handlers hit-test against it.
	scene    *scene
	changeCh chan struct{}

	spinner  spinner.Model
	spinning bool

	viewport viewport.Model
	selected string

	markdown *glamour.TermRenderer
	mdWidth  int

	statusText string
	statusErr  bool

	scenario  *script.Scenario
	demoKeys  bool
	demoPos   toast.Position
	loadingID string

	dnd         bool
	onAction    func(toastID, actionKey string)
	onToggleDnD func() bool

	logger *slog.Logger
}

// RunOptions configures the TUI.
type RunOptions struct {
	Config   *config.Config
	Registry *registry.Registry
	Engine   *engine.Engine
	Theme    *theme.Theme

	// Scenario, when set, is played back against the registry from program
	// start.
	Scenario *script.Scenario

	// DemoKeys enables the toast-spawning keys.
	DemoKeys bool

	// OnAction is invoked when the user presses a toast's action button,
	// before the toast is dismissed.
	OnAction func(toastID, actionKey string)

	// OnToggleDnD flips do-not-disturb in the host and returns the new
	// state. When nil the toggle only changes the header indicator.
	OnToggleDnD func() bool

	Logger *slog.Logger
}

// New creates a TUI model bound to a registry and engine.
func New(opts RunOptions) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	th := opts.Theme
	if th == nil {
		th = theme.NewDefaultTheme()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	styles := newStyles(th)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(th.StyleFor(toast.KindLoading).Color))

	m := Model{
		cfg:         cfg,
		reg:         opts.Registry,
		eng:         opts.Engine,
		th:          th,
		styles:      styles,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		changeCh:    make(chan struct{}, 1),
		spinner:     sp,
		scenario:    opts.Scenario,
		demoKeys:    opts.DemoKeys,
		demoPos:     cfg.DefaultPosition(),
		dnd:         cfg.DnD.Enabled,
		onAction:    opts.OnAction,
		onToggleDnD: opts.OnToggleDnD,
		logger:      logger,
	}

	// Coalesce engine change callbacks into at most one pending redraw.
	ch := m.changeCh
	m.eng.SetOnChange(func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	})

	return m
}

// Init starts the change listener and, if a scenario is loaded, its
// playback.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitForChange()}
	if m.scenario != nil && len(m.scenario.Steps) > 0 {
		cmds = append(cmds, scheduleStep(0, m.scenario.Steps[0].At.Duration()))
	}
	return tea.Batch(cmds...)
}

// waitForChange blocks until the engine reports a change.
func (m Model) waitForChange() tea.Cmd {
	ch := m.changeCh
	return func() tea.Msg {
		<-ch
		return changeMsg{}
	}
}

type changeMsg struct{}

type scenarioMsg struct {
	index int
}

// scheduleStep delivers scenarioMsg{index} after delay.
func scheduleStep(index int, delay time.Duration) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return scenarioMsg{index: index} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return scenarioMsg{index: index}
	})
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.viewport = viewport.New(msg.Width, msg.Height-3)
		m.viewport.YPosition = 2
		m.refreshMarkdown()
		if m.selected != "" {
			m.refreshDetail()
		}
		m.rebuild()
		return m, nil

	case tea.FocusMsg:
		m.eng.SetHidden(false)
		return m, nil

	case tea.BlurMsg:
		// Losing focus mid-drag would otherwise leave the gesture stuck.
		m.eng.DragEnd()
		m.eng.SetHidden(true)
		return m, nil

	case changeMsg:
		var cmds []tea.Cmd
		if m.mode == ModeDetail && m.selected != "" {
			if _, ok := m.reg.Get(m.selected); !ok {
				m.mode = ModeStack
				m.selected = ""
				m.eng.SetHovering(false)
				cmds = append(cmds, status("Toast closed"))
			}
		}
		m.rebuild()
		if m.scene.hasLoading && !m.spinning {
			m.spinning = true
			cmds = append(cmds, m.spinner.Tick)
		}
		cmds = append(cmds, m.waitForChange())
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if m.scene == nil || !m.scene.hasLoading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.rebuild()
		return m, cmd

	case scenarioMsg:
		return m.handleScenarioStep(msg.index)

	case ConfigMsg:
		if msg.Config == nil {
			return m, nil
		}
		m.cfg = msg.Config
		m.eng.UpdateConfig(msg.Config)
		m.refreshMarkdown()
		m.rebuild()
		return m, nil

	case ThemeMsg:
		if msg.Theme == nil {
			return m, nil
		}
		m.th = msg.Theme
		m.styles = newStyles(msg.Theme)
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(msg.Theme.StyleFor(toast.KindLoading).Color))
		m.rebuild()
		return m, nil

	case statusMsg:
		m.statusText = msg.text
		m.statusErr = msg.isErr
		m.rebuild()
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusText = ""
		m.statusErr = false
		m.rebuild()
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, statusError("Copy failed: " + msg.err.Error())
		}
		return m, status("Copied to clipboard")
	}

	if m.mode == ModeDetail {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// status queues a transient status line.
func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

// statusError queues a transient status line styled as an error.
func statusError(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isErr: true} }
}

// rebuild refreshes the scene and reports measured heights back to the
// engine. Reporting an unchanged height is a no-op there, so the loop
// settles instead of ping-ponging.
func (m *Model) rebuild() {
	m.scene = m.buildScene()
	for id, h := range m.scene.heights {
		m.eng.SetHeight(id, float64(h))
	}
}

// refreshMarkdown rebuilds the glamour renderer for the current toast
// width.
func (m *Model) refreshMarkdown() {
	if !m.cfg.Behavior.Markdown {
		m.markdown = nil
		return
	}
	w := m.toastWidth() - 4
	if m.markdown != nil && m.mdWidth == w {
		return
	}
	m.markdown = markdownRenderer(w)
	m.mdWidth = w
}

func markdownRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// handleScenarioStep applies one scripted step and schedules the next.
func (m Model) handleScenarioStep(index int) (tea.Model, tea.Cmd) {
	if m.scenario == nil || index >= len(m.scenario.Steps) {
		return m, nil
	}

	step := m.scenario.Steps[index]
	switch {
	case step.Publish != nil:
		t, err := step.Publish.Toast()
		if err == nil {
			_, err = m.reg.Publish(t)
		}
		if err != nil {
			m.logger.Warn("scenario publish failed", "error", err)
		}
	case step.Dismiss != "":
		m.reg.Dismiss(step.Dismiss)
	case step.CloseAll:
		m.eng.DismissAll()
	}

	next := index + 1
	if next >= len(m.scenario.Steps) {
		return m, nil
	}
	delay := m.scenario.Steps[next].At.Duration() - step.At.Duration()
	return m, scheduleStep(next, delay)
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeStack
		} else {
			m.mode = ModeHelp
		}
		m.rebuild()
		return m, nil
	}

	switch m.mode {
	case ModeStack:
		return m.handleStackKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeStack
			m.rebuild()
		}
		return m, nil
	}
	return m, nil
}

// handleStackKey handles keys in stack mode.
func (m Model) handleStackKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Expand):
		if !m.cfg.Behavior.ExpandByKey {
			return m, nil
		}
		m.eng.SetExpanded(!m.eng.Expanded())
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		if t, ok := m.frontToast(); ok {
			m.eng.Dismiss(t.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.DismissAll):
		m.eng.DismissAll()
		return m, nil

	case key.Matches(msg, m.keys.Invoke):
		if t, ok := m.frontToast(); ok && t.Button != nil {
			if m.onAction != nil {
				m.onAction(t.ID, t.Button.Key)
			}
			m.eng.Dismiss(t.ID)
			return m, status("Action: " + t.Button.Label)
		}
		return m, nil

	case key.Matches(msg, m.keys.Detail):
		if t, ok := m.frontToast(); ok {
			m.selected = t.ID
			m.mode = ModeDetail
			m.refreshDetail()
			// Hold countdowns while the user reads.
			m.eng.SetHovering(true)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleDnD):
		if m.onToggleDnD != nil {
			m.dnd = m.onToggleDnD()
		} else {
			m.dnd = !m.dnd
		}
		m.rebuild()
		if m.dnd {
			return m, status("Do not disturb on")
		}
		return m, status("Do not disturb off")

	case key.Matches(msg, m.keys.CopyJSON):
		data, err := BuildSnapshot(m.eng).JSON()
		if err != nil {
			return m, statusError("Failed to marshal JSON: " + err.Error())
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.CopyYAML):
		data, err := BuildSnapshot(m.eng).YAML()
		if err != nil {
			return m, statusError("Failed to marshal YAML: " + err.Error())
		}
		return m, m.copyToClipboard(string(data))
	}

	if m.demoKeys {
		return m.handleDemoKey(msg)
	}
	return m, nil
}

// handleDemoKey spawns sample toasts.
func (m Model) handleDemoKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	publish := func(t toast.Toast) (tea.Model, tea.Cmd) {
		t.Position = m.demoPos
		id, err := m.reg.Publish(t)
		if err != nil {
			return m, statusError("Failed to publish: " + err.Error())
		}
		if t.Kind == toast.KindLoading {
			m.loadingID = id
		}
		return m, nil
	}

	switch msg.String() {
	case "n":
		return publish(toast.Toast{Title: "Event created", Body: "Friday, August 29 at 10:00"})
	case "s":
		return publish(toast.Toast{Kind: toast.KindSuccess, Title: "Changes saved"})
	case "i":
		return publish(toast.Toast{Kind: toast.KindInfo, Title: "Update available", Body: "Version **1.4** is ready to install."})
	case "w":
		return publish(toast.Toast{Kind: toast.KindWarning, Title: "Storage almost full", Body: "92% of quota used."})
	case "e":
		return publish(toast.Toast{Kind: toast.KindError, Title: "Payment failed", Body: "Card declined."})
	case "a":
		return publish(toast.Toast{
			Kind:   toast.KindAction,
			Title:  "Message archived",
			Button: &toast.Action{Key: "undo", Label: "Undo"},
		})
	case "l":
		return publish(toast.Toast{Kind: toast.KindLoading, Title: "Uploading backup", Body: "Press u to resolve."})
	case "u":
		if m.loadingID == "" {
			return m, nil
		}
		id := m.loadingID
		m.loadingID = ""
		_, err := m.reg.Publish(toast.Toast{
			ID:    id,
			Kind:  toast.KindSuccess,
			Title: "Backup uploaded",
			Body:  "48 MB in 2.5 seconds.",
		})
		if err != nil {
			return m, statusError("Failed to publish: " + err.Error())
		}
		return m, nil
	case "p":
		m.demoPos = nextPosition(m.demoPos)
		return m, status("Spawning at " + m.demoPos.String())
	}
	return m, nil
}

func nextPosition(pos toast.Position) toast.Position {
	all := toast.Positions()
	for i, p := range all {
		if p == pos {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// handleDetailKey handles keys in the detail overlay.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Detail):
		m.mode = ModeStack
		m.selected = ""
		m.eng.SetHovering(false)
		m.rebuild()
		return m, nil

	case key.Matches(msg, m.keys.CopyBody):
		if t, ok := m.reg.Get(m.selected); ok {
			return m, m.copyToClipboard(t.Body)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyJSON):
		if t, ok := m.reg.Get(m.selected); ok {
			data, err := toastJSON(t)
			if err != nil {
				return m, statusError("Failed to marshal JSON: " + err.Error())
			}
			return m, m.copyToClipboard(data)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyYAML):
		if t, ok := m.reg.Get(m.selected); ok {
			data, err := toastYAML(t)
			if err != nil {
				return m, statusError("Failed to marshal YAML: " + err.Error())
			}
			return m, m.copyToClipboard(data)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleMouse routes pointer events into the engine.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeDetail {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	if m.scene == nil {
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		hit := m.scene.hitTest(msg.X, msg.Y)
		if hit == nil {
			return m, nil
		}
		if hit.hasClose && hit.close.contains(msg.X, msg.Y) {
			m.eng.Dismiss(hit.id)
			return m, nil
		}
		if hit.hasButton && hit.button.contains(msg.X, msg.Y) {
			if m.onAction != nil {
				m.onAction(hit.id, hit.actionKey)
			}
			m.eng.Dismiss(hit.id)
			return m, nil
		}
		m.eng.PointerDown(engine.PointerEvent{
			ID: hit.id,
			X:  float64(msg.X),
			Y:  float64(msg.Y),
		})
		return m, nil

	case tea.MouseActionMotion:
		m.eng.SetHovering(m.scene.hitTest(msg.X, msg.Y) != nil)
		m.eng.PointerMove(engine.PointerEvent{X: float64(msg.X), Y: float64(msg.Y)})
		return m, nil

	case tea.MouseActionRelease:
		m.eng.PointerUp(engine.PointerEvent{X: float64(msg.X), Y: float64(msg.Y)})
		return m, nil
	}
	return m, nil
}

// frontToast returns the front live toast, preferring the default stack.
func (m Model) frontToast() (toast.Toast, bool) {
	if t, ok := frontOf(m.eng.Stack(m.cfg.DefaultPosition())); ok {
		return t, true
	}
	for _, items := range m.eng.Stacks() {
		if t, ok := frontOf(items); ok {
			return t, true
		}
	}
	return toast.Toast{}, false
}

func frontOf(items []engine.Item) (toast.Toast, bool) {
	for _, it := range items {
		if !it.Removing && it.Front {
			return it.Toast, true
		}
	}
	return toast.Toast{}, false
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		err := copyText(text, m.cfg)
		return copyResultMsg{err: err}
	}
}

// refreshDetail fills the viewport with the selected toast.
func (m *Model) refreshDetail() {
	t, ok := m.reg.Get(m.selected)
	if !ok {
		return
	}
	m.viewport.SetContent(m.renderDetail(t))
	m.viewport.GotoTop()
}

// renderDetail renders the detail view for a toast.
func (m Model) renderDetail(t toast.Toast) string {
	kindStyle := m.th.StyleFor(t.Kind)
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(kindStyle.Color))
	labelStyle := m.styles.dim

	var s string
	s += headerStyle.Render(kindStyle.Icon+" "+t.Title) + "\n\n"

	s += labelStyle.Render("Kind: ") + string(t.Kind) + "\n"
	s += labelStyle.Render("Position: ") + m.positionName(t) + "\n"
	s += labelStyle.Render("Created: ") + humanize.Time(t.CreatedAt) + "\n"
	if t.UpdatedAt.After(t.CreatedAt) {
		s += labelStyle.Render("Updated: ") + humanize.Time(t.UpdatedAt) + "\n"
	}
	s += labelStyle.Render("Expiry: ") + m.expiryName(t) + "\n"
	if !t.CanDismiss() {
		s += labelStyle.Render("Dismissible: ") + "no" + "\n"
	}
	if t.Button != nil {
		s += labelStyle.Render("Action: ") + fmt.Sprintf("%s (%s)", t.Button.Label, t.Button.Key) + "\n"
	}
	s += labelStyle.Render("ID: ") + t.ID + "\n"

	if t.Body != "" {
		s += "\n" + labelStyle.Render("Body:") + "\n"
		body := t.Body
		if m.cfg.Behavior.Markdown {
			if r := markdownRenderer(m.width - 4); r != nil {
				if out, err := r.Render(t.Body); err == nil {
					body = strings.Trim(out, "\n")
				}
			}
		}
		s += body + "\n"
	}
	return s
}

func (m Model) positionName(t toast.Toast) string {
	if t.Position == toast.PositionUnspecified {
		return m.cfg.DefaultPosition().String() + " (default)"
	}
	return t.Position.String()
}

func (m Model) expiryName(t toast.Toast) string {
	if t.Kind == toast.KindLoading {
		return "held until resolved"
	}
	switch t.Duration {
	case toast.Forever:
		return "never"
	case 0:
		return m.cfg.DurationFor(t.Kind).String() + " (default)"
	default:
		return t.Duration.String()
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeDetail:
		return m.viewDetail()
	case ModeHelp:
		return m.viewHelp()
	default:
		if m.scene == nil {
			return ""
		}
		return m.scene.view
	}
}

func (m Model) viewDetail() string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render("Toast Detail")
	return header + "\n" + m.viewport.View() + "\n " + m.buildKeybindBar(m.width-1)
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	m.help.ShowAll = true
	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"
	s += m.help.View(m.keys) + "\n"

	if m.demoKeys {
		sectionStyle := m.styles.dim
		keyStyle := m.styles.barKey

		s += "\n" + sectionStyle.Render("Spawning (demo)") + "\n"
		s += keyStyle.Render("  n/s/i/w/e") + "   normal, success, info, warning, error\n"
		s += keyStyle.Render("  a") + "           action toast with a button\n"
		s += keyStyle.Render("  l") + "           loading toast (u resolves it)\n"
		s += keyStyle.Render("  p") + "           cycle spawn position\n"
	}

	s += "\n" + m.styles.dim.Render("Press ? or esc to return")
	return s
}

// NewProgram builds the BubbleTea program with the options the overlay
// needs: the alternate screen, every mouse motion for hover and swipe
// tracking, and focus reporting to pause countdowns while unfocused.
func NewProgram(opts RunOptions) *tea.Program {
	return tea.NewProgram(
		New(opts),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
}

// Run starts the TUI with the given options and blocks until it exits.
func Run(opts RunOptions) error {
	_, err := NewProgram(opts).Run()
	return err
}
