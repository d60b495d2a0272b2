package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mdwerror "github.com/msto63/rechenwerk/foundation/core/error"
	"github.com/msto63/rechenwerk/internal/calc/accumulator"
	"github.com/msto63/rechenwerk/internal/calc/session"
	"github.com/msto63/rechenwerk/internal/service"
	"github.com/msto63/rechenwerk/pkg/core/logging"
)

const (
	displayWidth = 28
	historyWidth = 40
)

// View represents different views in the TUI
type View int

const (
	ViewCalculator View = iota
	ViewSolver
	ViewStats
	ViewConvert
	ViewHistory
	viewCount
)

var viewTitles = [...]string{
	ViewCalculator: "Rechner",
	ViewSolver:     "Gleichungen",
	ViewStats:      "Statistik",
	ViewConvert:    "Umrechnung",
	ViewHistory:    "Verlauf",
}

func (v View) String() string {
	if v < 0 || v >= viewCount {
		return "?"
	}
	return viewTitles[v]
}

// calculatorKeys maps key presses in the calculator view to calculator keys.
// Digits are handled separately.
var calculatorKeys = map[string]session.Key{
	"+":         session.Op(accumulator.OpAdd),
	"-":         session.Op(accumulator.OpSub),
	"*":         session.Op(accumulator.OpMul),
	"/":         session.Op(accumulator.OpDiv),
	"^":         session.Op(accumulator.OpPow),
	"%":         session.Fn(accumulator.FnPercent),
	".":         session.KeyDecimal,
	",":         session.KeyDecimal,
	"=":         session.KeyEquals,
	"enter":     session.KeyEquals,
	"esc":       session.KeyClear,
	"backspace": session.KeyBackspace,
	"delete":    session.KeyClearEntry,
	"n":         session.KeyNegate,
	"a":         session.KeyToggleAngle,
	"p":         session.Const(accumulator.ConstPi),
	"e":         session.Const(accumulator.ConstE),
}

var placeholders = [...]string{
	ViewCalculator: "Tasten, z.B. sqrt oder 2 ^ 10 =",
	ViewSolver:     "quadratic 1 0 -4",
	ViewStats:      "1, 2, 3, 4",
	ViewConvert:    "base ff hex | unit length 1 km m | temp 100 c f",
}

// resultMsg carries the outcome of a solver, statistics or conversion query.
type resultMsg struct {
	view  View
	lines []string
	value *float64
	err   error
}

// Model is the main TUI model
type Model struct {
	ctx context.Context

	// State
	view   View
	width  int
	height int
	ready  bool
	err    string

	// Components
	input    textinput.Model
	viewport viewport.Model
	styles   Styles

	// Calculator state
	session  *session.Session
	snapshot session.Snapshot
	command  bool

	// Query views
	service *service.Service
	output  map[View][]string
	values  map[View]*float64

	// History selection, 0 is the newest entry
	cursor int

	logger *logging.Logger
}

// NewModel creates the calculator UI around sess. The theme is read from
// the session preferences.
func NewModel(ctx context.Context, sess *session.Session, svc *service.Service) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Width = 60

	m := Model{
		ctx:      ctx,
		view:     ViewCalculator,
		input:    ti,
		viewport: viewport.New(historyWidth, 10),
		styles:   NewStyles(sess.Theme(ctx)),
		session:  sess,
		snapshot: sess.Snapshot(),
		service:  svc,
		output:   make(map[View][]string),
		values:   make(map[View]*float64),
		logger:   logging.New("tui"),
	}
	m.updatePlaceholder()
	m.updateHistory()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.viewport.Width = historyWidth
		m.viewport.Height = max(3, msg.Height-10)
		m.input.Width = max(20, msg.Width-8)
		m.updateHistory()

	case resultMsg:
		if msg.err != nil {
			m.err = errorText(msg.err)
			m.output[msg.view] = nil
			m.values[msg.view] = nil
		} else {
			m.err = ""
			m.output[msg.view] = msg.lines
			m.values[msg.view] = msg.value
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		m.switchView((m.view + 1) % viewCount)
		return m, nil

	case "shift+tab":
		m.switchView((m.view + viewCount - 1) % viewCount)
		return m, nil

	case "ctrl+t":
		m.toggleTheme()
		return m, nil
	}

	switch m.view {
	case ViewCalculator:
		if m.command {
			return m.handleCommandLine(msg)
		}
		return m.handleCalculatorKey(msg)
	case ViewHistory:
		return m.handleHistoryKey(msg)
	default:
		return m.handleQueryKey(msg)
	}
}

func (m Model) handleCalculatorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == ":" {
		m.command = true
		m.input.Reset()
		return m, m.input.Focus()
	}
	if key == "q" {
		return m, tea.Quit
	}

	if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
		m.press(session.Digit(int(key[0] - '0')))
		return m, nil
	}
	if k, ok := calculatorKeys[key]; ok {
		m.press(k)
	}
	return m, nil
}

// handleCommandLine runs a line of key names, e.g. "sqrt" or "12 * 3 =".
func (m Model) handleCommandLine(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.command = false
		m.input.Blur()
		return m, nil
	case "enter":
		line := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		m.command = false
		m.input.Blur()
		if line == "" {
			return m, nil
		}
		keys, err := session.ParseKeys(line)
		if err != nil {
			m.err = errorText(err)
			return m, nil
		}
		m.err = ""
		m.snapshot = m.session.PressAll(keys)
		m.updateHistory()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.session.History().Len()
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "enter":
		snap, err := m.session.RecallIndex(m.cursor)
		if err != nil {
			m.err = errorText(err)
			return m, nil
		}
		m.err = ""
		m.snapshot = snap
		m.switchView(ViewCalculator)
	case "d", "delete":
		if err := m.session.ClearHistory(m.ctx); err != nil {
			m.err = errorText(err)
		}
		m.cursor = 0
	case "q":
		return m, tea.Quit
	}
	m.updateHistory()
	return m, nil
}

func (m Model) handleQueryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Reset()
		m.output[m.view] = nil
		m.values[m.view] = nil
		m.err = ""
		return m, nil
	case "enter":
		line := strings.TrimSpace(m.input.Value())
		if line == "" {
			return m, nil
		}
		return m, m.runQuery(m.view, line)
	case "ctrl+o":
		if v := m.values[m.view]; v != nil {
			m.snapshot = m.session.SetValue(*v)
			m.switchView(ViewCalculator)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) press(k session.Key) {
	m.snapshot = m.session.Press(k)
	m.err = ""
	m.updateHistory()
}

func (m *Model) switchView(v View) {
	m.view = v
	m.command = false
	m.input.Reset()
	m.updatePlaceholder()
	if v == ViewSolver || v == ViewStats || v == ViewConvert {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	if v == ViewHistory {
		m.cursor = 0
	}
	m.updateHistory()
}

func (m *Model) toggleTheme() {
	theme := session.ThemeLight
	if m.styles.Theme == session.ThemeLight {
		theme = session.ThemeDark
	}
	if err := m.session.SetTheme(m.ctx, theme); err != nil {
		m.logger.Warn("theme not persisted", "theme", theme, "error", err)
		m.err = errorText(err)
	}
	m.styles = NewStyles(theme)
	m.updateHistory()
}

func (m *Model) updatePlaceholder() {
	if int(m.view) < len(placeholders) {
		m.input.Placeholder = placeholders[m.view]
	}
}

// runQuery evaluates one line of the solver, statistics or conversion view.
func (m *Model) runQuery(view View, line string) tea.Cmd {
	ctx, svc := m.ctx, m.service
	return func() tea.Msg {
		lines, value, err := query(ctx, svc, view, line)
		return resultMsg{view: view, lines: lines, value: value, err: err}
	}
}

func query(ctx context.Context, svc *service.Service, view View, line string) ([]string, *float64, error) {
	args := strings.Fields(line)
	switch view {
	case ViewSolver:
		req, err := service.ParseSolveArgs(args)
		if err != nil {
			return nil, nil, err
		}
		resp, err := svc.Solve(ctx, req)
		if err != nil {
			return nil, nil, err
		}
		var value *float64
		switch {
		case resp.X != nil:
			value = resp.X
		case len(resp.Roots) > 0 && resp.Roots[0].Imag == 0:
			value = &resp.Roots[0].Real
		}
		return resp.Lines, value, nil

	case ViewStats:
		resp, err := svc.Statistics(ctx, &service.StatsRequest{Input: line})
		if err != nil {
			return nil, nil, err
		}
		return resp.Lines(), nil, nil

	case ViewConvert:
		req, err := service.ParseConvertArgs(args)
		if err != nil {
			return nil, nil, err
		}
		resp, err := svc.Convert(ctx, req)
		if err != nil {
			return nil, nil, err
		}
		return resp.Lines(), resp.Value, nil
	}
	return nil, nil, nil
}

// updateHistory renders the history list into the viewport.
func (m *Model) updateHistory() {
	entries := m.session.History().Entries()
	if len(entries) == 0 {
		m.viewport.SetContent(m.styles.Subtitle.Render("Noch keine Berechnungen"))
		return
	}

	var s strings.Builder
	for i, e := range entries {
		line := fmt.Sprintf("%s = %s", e.Expression, e.Result)
		if m.view == ViewHistory && i == m.cursor {
			s.WriteString(m.styles.Selected.Render("▸ " + line))
		} else {
			s.WriteString(m.styles.HistoryItem.Render(line))
		}
		s.WriteString("\n")
	}
	m.viewport.SetContent(s.String())
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Lade..."
	}

	var s strings.Builder
	s.WriteString(m.renderHeader())
	s.WriteString("\n\n")

	switch m.view {
	case ViewCalculator:
		s.WriteString(m.renderCalculatorView())
	case ViewHistory:
		s.WriteString(m.renderHistoryView())
	default:
		s.WriteString(m.renderQueryView())
	}

	if m.err != "" {
		s.WriteString("\n")
		s.WriteString(m.styles.RenderError(m.err))
	}

	s.WriteString("\n")
	s.WriteString(m.renderFooter())
	return s.String()
}

func (m *Model) renderHeader() string {
	var tabs []string
	for v := ViewCalculator; v < viewCount; v++ {
		if v == m.view {
			tabs = append(tabs, m.styles.ActiveTab.Render(v.String()))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(v.String()))
		}
	}
	title := m.styles.Title.Render("meinRECHENWERK")
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m *Model) renderCalculatorView() string {
	snap := m.snapshot

	display := m.styles.Display
	if snap.Small {
		display = m.styles.DisplaySmall
	}
	value := display.Render(snap.Display)
	if snap.Error != "" {
		value = display.Foreground(m.styles.Error.GetForeground()).Render(snap.Display)
	}

	var calc strings.Builder
	calc.WriteString(m.styles.Indicator.Render(snap.AngleMode))
	calc.WriteString("\n")
	calc.WriteString(m.styles.Expression.Render(snap.Expression))
	calc.WriteString("\n")
	calc.WriteString(value)
	if snap.Error != "" {
		calc.WriteString("\n")
		calc.WriteString(m.styles.Error.Render(snap.Error))
	}
	if m.command {
		calc.WriteString("\n\n")
		calc.WriteString(m.styles.Input.Render(m.input.View()))
	}

	left := m.styles.FocusedBox.Render(calc.String())
	right := m.styles.Box.Render(m.styles.Subtitle.Render("Verlauf") + "\n" + m.viewport.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (m *Model) renderHistoryView() string {
	return m.styles.FocusedBox.Render(m.viewport.View())
}

func (m *Model) renderQueryView() string {
	var s strings.Builder
	s.WriteString(m.styles.Input.Render(m.input.View()))
	s.WriteString("\n\n")

	lines := m.output[m.view]
	if len(lines) == 0 {
		s.WriteString(m.styles.Subtitle.Render("Enter zum Berechnen"))
	}
	for _, line := range lines {
		s.WriteString(m.styles.Result.Render(line))
		s.WriteString("\n")
	}
	return m.styles.Box.Render(s.String())
}

func (m *Model) renderFooter() string {
	var help string
	switch m.view {
	case ViewCalculator:
		help = ": Befehl • n: ± • a: DEG/RAD • Esc: C • Ctrl+T: Theme • q: Beenden"
	case ViewHistory:
		help = "↑/↓: Auswahl • Enter: Übernehmen • d: Löschen • q: Beenden"
	default:
		help = "Enter: Berechnen • Ctrl+O: Übernehmen • Esc: Leeren • Ctrl+C: Beenden"
	}
	help = m.styles.RenderHelp("Tab: Wechseln • " + help)
	mode := m.snapshot.AngleMode

	return m.styles.StatusBar.Width(m.width).Render(
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			help,
			strings.Repeat(" ", max(0, m.width-lipgloss.Width(help)-lipgloss.Width(mode)-4)),
			mode,
		),
	)
}

// Snapshot returns the calculator state currently shown.
func (m Model) Snapshot() session.Snapshot {
	return m.snapshot
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, sess *session.Session, svc *service.Service, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewModel(ctx, sess, svc), opts...)
	_, err := p.Run()
	return err
}

func errorText(err error) string {
	if e, ok := mdwerror.As(err); ok {
		return e.Message()
	}
	return err.Error()
}
