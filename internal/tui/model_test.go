package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/rechenwerk/internal/calc/history"
	"github.com/msto63/rechenwerk/internal/calc/session"
	"github.com/msto63/rechenwerk/internal/service"
)

var specialKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEscape,
	"backspace": tea.KeyBackspace,
	"delete":    tea.KeyDelete,
	"tab":       tea.KeyTab,
	"shift+tab": tea.KeyShiftTab,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"ctrl+t":    tea.KeyCtrlT,
	"ctrl+o":    tea.KeyCtrlO,
}

func key(s string) tea.KeyMsg {
	if t, ok := specialKeys[s]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) (Model, *session.Session) {
	t.Helper()
	ctx := context.Background()
	sess := session.New(ctx,
		session.WithHistory(history.New(history.DefaultCapacity)),
		session.WithPreferences(session.NewMemoryPreferences()),
	)
	m := NewModel(ctx, sess, service.New(service.DefaultConfig()))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), sess
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(Model)
	}
	return m
}

// submit presses enter in a query view and feeds the result back.
func submit(t *testing.T, m Model) Model {
	t.Helper()
	next, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, resultMsg{}, msg)
	next, _ = next.(Model).Update(msg)
	return next.(Model)
}

func TestCalculatorKeys(t *testing.T) {
	m, sess := newTestModel(t)

	m = press(m, "1", "2", "+", "3")
	assert.Equal(t, "12 +", m.Snapshot().Expression)
	m = press(m, "enter")
	assert.Equal(t, "15", m.Snapshot().Display)
	assert.Equal(t, 1, sess.History().Len())

	m = press(m, "esc", "5", "0", "%")
	assert.Equal(t, "0.5", m.Snapshot().Display)

	m = press(m, "esc", "2", "^", "1", "0", "=")
	assert.Equal(t, "1,024", m.Snapshot().Display)

	m = press(m, "esc", "1", "2", "backspace", "n")
	assert.Equal(t, "-1", m.Snapshot().Display)

	m = press(m, "esc", "1", "/", "0", "=")
	assert.Equal(t, "Error", m.Snapshot().Display)
	assert.NotEmpty(t, m.Snapshot().Error)
}

func TestCommandLine(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(m, "a")
	assert.Equal(t, "DEG", m.Snapshot().AngleMode)

	m = press(m, "9", "0", ":")
	assert.True(t, m.command)
	m = press(m, "sin", "enter")
	assert.False(t, m.command)
	assert.Equal(t, "1", m.Snapshot().Display)

	m = press(m, ":", "bogus", "enter")
	assert.NotEmpty(t, m.err)
	assert.Equal(t, "1", m.Snapshot().Display)

	m = press(m, ":", "esc")
	assert.False(t, m.command)
}

func TestThemeToggle(t *testing.T) {
	m, sess := newTestModel(t)
	assert.Equal(t, session.ThemeDark, m.styles.Theme)

	m = press(m, "ctrl+t")
	assert.Equal(t, session.ThemeLight, m.styles.Theme)
	assert.Equal(t, session.ThemeLight, sess.Theme(context.Background()))

	m = press(m, "ctrl+t")
	assert.Equal(t, session.ThemeDark, m.styles.Theme)
}

func TestSolverView(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(m, "tab")
	require.Equal(t, ViewSolver, m.view)

	m = press(m, "quadratic 1 0 -4")
	m = submit(t, m)
	assert.Equal(t, []string{"x₁ = 2", "x₂ = -2", "Δ = 16"}, m.output[ViewSolver])
	assert.Empty(t, m.err)

	m = press(m, "ctrl+o")
	assert.Equal(t, ViewCalculator, m.view)
	assert.Equal(t, "2", m.Snapshot().Display)
}

func TestStatsAndConvertViews(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(m, "tab", "tab")
	require.Equal(t, ViewStats, m.view)
	m = press(m, "1, 2, 3, 4")
	m = submit(t, m)
	require.Len(t, m.output[ViewStats], 12)
	assert.Equal(t, "Mean: 2.5", m.output[ViewStats][2])

	m = press(m, "tab")
	require.Equal(t, ViewConvert, m.view)
	m = press(m, "base ff hex")
	m = submit(t, m)
	assert.Equal(t, []string{"DEC: 255", "BIN: 11111111", "OCT: 377", "HEX: FF"}, m.output[ViewConvert])

	m = press(m, "esc", "temp 1 c")
	m = submit(t, m)
	assert.NotEmpty(t, m.err)
	assert.Empty(t, m.output[ViewConvert])
}

func TestHistoryView(t *testing.T) {
	m, sess := newTestModel(t)

	m = press(m, "1", "+", "1", "=", "2", "*", "3", "=")
	require.Equal(t, 2, sess.History().Len())

	m = press(m, "shift+tab")
	require.Equal(t, ViewHistory, m.view)
	assert.Equal(t, 0, m.cursor)

	m = press(m, "down", "down")
	assert.Equal(t, 1, m.cursor)

	m = press(m, "enter")
	assert.Equal(t, ViewCalculator, m.view)
	assert.Equal(t, "2", m.Snapshot().Display)

	m = press(m, "shift+tab", "d")
	assert.Equal(t, 0, sess.History().Len())
}

func TestViewRendering(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "4", "2")

	out := m.View()
	assert.Contains(t, out, "Rechner")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "RAD")

	assert.Equal(t, "Lade...", NewModel(context.Background(), session.New(context.Background()), service.New(service.DefaultConfig())).View())
}
