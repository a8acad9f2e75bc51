package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wispkit/wisp/internal/config"
	"github.com/wispkit/wisp/internal/engine"
	"github.com/wispkit/wisp/internal/registry"
	"github.com/wispkit/wisp/internal/script"
	"github.com/wispkit/wisp/internal/theme"
	"github.com/wispkit/wisp/internal/toast"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	mm, cmd := m.Update(msg)
	require.IsType(t, Model{}, mm)
	return mm.(Model), cmd
}

// runCmd executes a command and returns the message it produces.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestModel_ViewBeforeReady(t *testing.T) {
	reg := registry.New(nil)
	eng := engine.New(reg, config.Default(), nil)
	t.Cleanup(eng.Close)

	m := New(RunOptions{Registry: reg, Engine: eng})
	assert.Contains(t, m.View(), "Initializing")
}

func TestModel_WindowSizeBuildsScene(t *testing.T) {
	reg := registry.New(nil)
	cfg := config.Default()
	cfg.Behavior.Markdown = false
	eng := engine.New(reg, cfg, nil)
	t.Cleanup(eng.Close)

	m := New(RunOptions{Config: cfg, Registry: reg, Engine: eng})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	require.NotNil(t, m.scene)
	assert.True(t, m.ready)
	assert.Contains(t, m.View(), "wisp")
}

func TestModel_DismissKey(t *testing.T) {
	m, reg, eng := newTestModel(t, nil)
	publish(t, reg, toast.Toast{ID: "a", Title: "bye"})
	settle(&m)

	m, _ = send(t, m, keyMsg("d"))

	items := eng.Stack(toast.PositionBottomRight)
	require.Len(t, items, 1)
	assert.True(t, items[0].Removing)
}

func TestModel_DismissAllKey(t *testing.T) {
	m, reg, eng := newTestModel(t, nil)
	publish(t, reg, toast.Toast{ID: "a", Title: "one"})
	publish(t, reg, toast.Toast{ID: "b", Title: "two"})
	settle(&m)

	m, _ = send(t, m, keyMsg("D"))

	for _, it := range eng.Stack(toast.PositionBottomRight) {
		assert.True(t, it.Removing, it.Toast.ID)
	}
}

func TestModel_ExpandKeyToggles(t *testing.T) {
	m, _, eng := newTestModel(t, nil)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, eng.Expanded())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, eng.Expanded())
}

func TestModel_ExpandKeyDisabled(t *testing.T) {
	m, _, eng := newTestModel(t, func(c *config.Config) { c.Behavior.ExpandByKey = false })

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, eng.Expanded())
}

func TestModel_InvokeActionKey(t *testing.T) {
	var gotID, gotKey string

	cfg := config.Default()
	cfg.Behavior.Markdown = false
	reg := registry.New(nil)
	eng := engine.New(reg, cfg, nil)
	t.Cleanup(eng.Close)

	m := New(RunOptions{
		Config:   cfg,
		Registry: reg,
		Engine:   eng,
		OnAction: func(toastID, actionKey string) { gotID, gotKey = toastID, actionKey },
	})
	m.width, m.height, m.ready = 80, 24, true

	publish(t, reg, toast.Toast{
		ID:     "a",
		Kind:   toast.KindAction,
		Title:  "Message archived",
		Button: &toast.Action{Key: "undo", Label: "Undo"},
	})
	settle(&m)

	m, cmd := send(t, m, keyMsg(" "))

	assert.Equal(t, "a", gotID)
	assert.Equal(t, "undo", gotKey)
	assert.True(t, eng.Stack(toast.PositionBottomRight)[0].Removing)

	msg := runCmd(t, cmd)
	assert.Equal(t, statusMsg{text: "Action: Undo"}, msg)
}

func TestModel_InvokeWithoutButtonIsNoop(t *testing.T) {
	m, reg, eng := newTestModel(t, nil)
	publish(t, reg, toast.Toast{ID: "a", Title: "plain"})
	settle(&m)

	m, cmd := send(t, m, keyMsg(" "))
	assert.Nil(t, cmd)
	assert.False(t, eng.Stack(toast.PositionBottomRight)[0].Removing)
}

func TestModel_DetailOpenAndClose(t *testing.T) {
	m, reg, eng := newTestModel(t, nil)
	publish(t, reg, toast.Toast{ID: "a", Kind: toast.KindInfo, Title: "Update available", Body: "details here"})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, ModeDetail, m.mode)
	assert.Equal(t, "a", m.selected)

	view := m.View()
	assert.Contains(t, view, "Toast Detail")
	assert.Contains(t, view, "Update available")

	// Countdowns hold while reading, via the hover latch.
	assert.True(t, eng.Stack(toast.PositionBottomRight)[0].Expanded)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, ModeStack, m.mode)
	assert.Empty(t, m.selected)
}

func TestModel_HelpToggle(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	settle(&m)

	m, _ = send(t, m, keyMsg("?"))
	assert.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m, _ = send(t, m, keyMsg("?"))
	assert.Equal(t, ModeStack, m.mode)
}

func TestModel_DemoSpawnKeys(t *testing.T) {
	m, reg, _ := newTestModel(t, nil)
	settle(&m)

	m, _ = send(t, m, keyMsg("n"))
	assert.Equal(t, 1, reg.Count())

	m, _ = send(t, m, keyMsg("l"))
	require.NotEmpty(t, m.loadingID)
	loading, ok := reg.Get(m.loadingID)
	require.True(t, ok)
	assert.Equal(t, toast.KindLoading, loading.Kind)

	id := m.loadingID
	m, _ = send(t, m, keyMsg("u"))
	assert.Empty(t, m.loadingID)
	resolved, ok := reg.Get(id)
	require.True(t, ok)
	assert.Equal(t, toast.KindSuccess, resolved.Kind)
	assert.Equal(t, "Backup uploaded", resolved.Title)
}

func TestModel_DemoPositionCycle(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	require.Equal(t, toast.PositionBottomRight, m.demoPos)

	m, cmd := send(t, m, keyMsg("p"))
	assert.NotEqual(t, toast.PositionBottomRight, m.demoPos)

	msg := runCmd(t, cmd)
	st, ok := msg.(statusMsg)
	require.True(t, ok)
	assert.Contains(t, st.text, "Spawning at ")
}

func TestModel_DemoKeysDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Behavior.Markdown = false
	reg := registry.New(nil)
	eng := engine.New(reg, cfg, nil)
	t.Cleanup(eng.Close)

	m := New(RunOptions{Config: cfg, Registry: reg, Engine: eng})
	m.width, m.height, m.ready = 80, 24, true

	m, _ = send(t, m, keyMsg("n"))
	assert.Zero(t, reg.Count())
}

func TestModel_ToggleDnDKey(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	settle(&m)

	m, cmd := send(t, m, keyMsg("z"))
	assert.True(t, m.dnd)
	assert.Equal(t, statusMsg{text: "Do not disturb on"}, runCmd(t, cmd))

	m, cmd = send(t, m, keyMsg("z"))
	assert.False(t, m.dnd)
	assert.Equal(t, statusMsg{text: "Do not disturb off"}, runCmd(t, cmd))
}

func TestModel_ToggleDnDCallback(t *testing.T) {
	cfg := config.Default()
	cfg.Behavior.Markdown = false
	reg := registry.New(nil)
	eng := engine.New(reg, cfg, nil)
	t.Cleanup(eng.Close)

	calls := 0
	m := New(RunOptions{
		Config:      cfg,
		Registry:    reg,
		Engine:      eng,
		OnToggleDnD: func() bool { calls++; return true },
	})
	m.width, m.height, m.ready = 80, 24, true

	m, _ = send(t, m, keyMsg("z"))
	assert.Equal(t, 1, calls)
	assert.True(t, m.dnd, "header state follows the host")
}

func TestModel_MouseCloseControl(t *testing.T) {
	m, reg, eng := newTestModel(t, nil)
	publish(t, reg, toast.Toast{ID: "a", Title: "clickable"})
	settle(&m)

	require.Len(t, m.scene.rects, 1)
	r := m.scene.rects[0]
	require.True(t, r.hasClose)

	m, _ = send(t, m, tea.MouseMsg{
		X:      r.close.x + 1,
		Y:      r.close.y,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})

	assert.True(t, eng.Stack(toast.PositionBottomRight)[0].Removing)
}

func TestModel_MouseActionButton(t *testing.T) {
	var gotKey string

	cfg := config.Default()
	cfg.Behavior.Markdown = false
	reg := registry.New(nil)
	eng := engine.New(reg, cfg, nil)
	t.Cleanup(eng.Close)

	m := New(RunOptions{
		Config:   cfg,
		Registry: reg,
		Engine:   eng,
		OnAction: func(_, actionKey string) { gotKey = actionKey },
	})
	m.width, m.height, m.ready = 80, 24, true

	publish(t, reg, toast.Toast{
		ID:     "a",
		Kind:   toast.KindAction,
		Title:  "Message archived",
		Button: &toast.Action{Key: "undo", Label: "Undo"},
	})
	settle(&m)

	require.Len(t, m.scene.rects, 1)
	r := m.scene.rects[0]
	require.True(t, r.hasButton)

	m, _ = send(t, m, tea.MouseMsg{
		X:      r.button.x,
		Y:      r.button.y,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})

	assert.Equal(t, "undo", gotKey)
	assert.True(t, eng.Stack(toast.PositionBottomRight)[0].Removing)
}

func TestModel_MouseDragRoutesSwipe(t *testing.T) {
	m, reg, eng := newTestModel(t, nil)
	publish(t, reg, toast.Toast{ID: "a", Title: "draggable"})
	settle(&m)

	r := m.scene.rects[0]
	x, y := r.box.x+5, r.box.y+1

	m, _ = send(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = send(t, m, tea.MouseMsg{X: x + 3, Y: y, Action: tea.MouseActionMotion})

	items := eng.Stack(toast.PositionBottomRight)
	require.Len(t, items, 1)
	assert.Equal(t, 3.0, items[0].SwipeX)
	assert.True(t, items[0].Swiped)

	// Focus loss aborts the drag without dismissing.
	m, _ = send(t, m, tea.BlurMsg{})
	items = eng.Stack(toast.PositionBottomRight)
	assert.Zero(t, items[0].SwipeX)
	assert.False(t, items[0].Removing)
}

func TestModel_ConfigMsgReflows(t *testing.T) {
	m, reg, _ := newTestModel(t, nil)
	publish(t, reg, toast.Toast{ID: "a", Title: "resize me"})
	settle(&m)
	require.Equal(t, 44, m.scene.rects[0].box.w)

	next := config.Default()
	next.Behavior.Markdown = false
	next.Display.Width = 60
	m, _ = send(t, m, ConfigMsg{Config: next})

	assert.Same(t, next, m.cfg)
	assert.Equal(t, 60, m.scene.rects[0].box.w)
}

func TestModel_ThemeMsgRestyles(t *testing.T) {
	m, reg, _ := newTestModel(t, nil)
	publish(t, reg, toast.Toast{ID: "a", Title: "styled"})
	settle(&m)

	th, err := theme.Parse("boxy", []byte("name = \"boxy\"\nborder = \"double\"\n"))
	require.NoError(t, err)

	m, _ = send(t, m, ThemeMsg{Theme: th})
	assert.Equal(t, "boxy", m.th.Name)
	assert.Contains(t, m.scene.view, "╔", "double border corners appear")
}

func TestModel_StatusLifecycle(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	settle(&m)

	m, cmd := send(t, m, statusMsg{text: "hello"})
	assert.Equal(t, "hello", m.statusText)
	assert.NotNil(t, cmd, "expiry tick scheduled")
	assert.Contains(t, m.View(), "hello")

	m, _ = send(t, m, clearStatusMsg{})
	assert.Empty(t, m.statusText)
}

func TestModel_CopyResultMsg(t *testing.T) {
	m, _, _ := newTestModel(t, nil)
	settle(&m)

	_, cmd := send(t, m, copyResultMsg{})
	assert.Equal(t, statusMsg{text: "Copied to clipboard"}, runCmd(t, cmd))

	_, cmd = send(t, m, copyResultMsg{err: assert.AnError})
	st, ok := runCmd(t, cmd).(statusMsg)
	require.True(t, ok)
	assert.True(t, st.isErr)
	assert.Contains(t, st.text, "Copy failed")
}

func TestModel_ScenarioPlayback(t *testing.T) {
	sc, err := script.Parse("demo", []byte(`
name: demo
steps:
  - at: 0ms
    publish:
      id: hello
      title: Hello
  - at: 100ms
    close_all: true
`))
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Behavior.Markdown = false
	reg := registry.New(nil)
	eng := engine.New(reg, cfg, nil)
	t.Cleanup(eng.Close)

	m := New(RunOptions{Config: cfg, Registry: reg, Engine: eng, Scenario: sc})
	m.width, m.height, m.ready = 80, 24, true

	require.NotNil(t, m.Init())

	m, cmd := send(t, m, scenarioMsg{index: 0})
	assert.Equal(t, 1, reg.Count())
	assert.NotNil(t, cmd, "next step scheduled")

	m, cmd = send(t, m, scenarioMsg{index: 1})
	assert.Nil(t, cmd, "last step schedules nothing")
	items := eng.Stack(toast.PositionBottomRight)
	require.Len(t, items, 1)
	assert.True(t, items[0].Removing)
}
