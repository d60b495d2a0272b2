// Package session ties one accumulator engine to the state its user owns:
// the angle mode, the calculation history and persisted preferences. Every
// front-end (terminal UI, REPL, WebSocket connection) drives exactly one
// Session through key presses and renders the returned Snapshot.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/msto63/rechenwerk/foundation/core/errors"
	"github.com/msto63/rechenwerk/internal/calc/accumulator"
	"github.com/msto63/rechenwerk/internal/calc/history"
	"github.com/msto63/rechenwerk/internal/calc/numfmt"
	"github.com/msto63/rechenwerk/pkg/core/logging"
)

// SmallDisplayLength is the display length above which front-ends should
// switch to a smaller font.
const SmallDisplayLength = 12

// Preference keys.
const (
	PrefAngleMode = "angle_mode"
	PrefTheme     = "theme"
)

// Themes accepted by SetTheme.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

const prefTimeout = 2 * time.Second

// PreferenceStore persists per-user settings as string pairs.
type PreferenceStore interface {
	GetPreference(ctx context.Context, key string) (value string, ok bool, err error)
	SetPreference(ctx context.Context, key, value string) error
}

// Snapshot is what a front-end renders after a key press.
type Snapshot struct {
	SessionID  string `json:"session_id"`
	Display    string `json:"display"`
	Raw        string `json:"raw"`
	Expression string `json:"expression"`
	Error      string `json:"error,omitempty"`
	AngleMode  string `json:"angle_mode"`
	Small      bool   `json:"small"`
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the session id instead of a random UUID.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithHistory records completed calculations into log.
func WithHistory(log *history.Log) Option {
	return func(s *Session) { s.history = log }
}

// WithPreferences loads and stores angle mode and theme through p.
func WithPreferences(p PreferenceStore) Option {
	return func(s *Session) { s.prefs = p }
}

// WithAngleMode sets the initial angle mode. A stored preference wins.
func WithAngleMode(mode accumulator.AngleMode) Option {
	return func(s *Session) { s.angle.Store(int32(mode)) }
}

// WithMaxInputLength limits the digits per entry.
func WithMaxInputLength(n int) Option {
	return func(s *Session) { s.engineOpts = append(s.engineOpts, accumulator.WithMaxInputLength(n)) }
}

// WithRandom replaces the random source of the random constant.
func WithRandom(random func() float64) Option {
	return func(s *Session) { s.engineOpts = append(s.engineOpts, accumulator.WithRandom(random)) }
}

// WithGrouping turns thousands separators in the display on or off.
func WithGrouping(group bool) Option {
	return func(s *Session) { s.group = group }
}

// WithLogger sets the session logger.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// Session is one interactive calculator. Methods are safe for concurrent
// use, but key presses are applied one at a time.
type Session struct {
	id         string
	mu         sync.Mutex
	engine     *accumulator.Engine
	engineOpts []accumulator.Option
	angle      atomic.Int32
	history    *history.Log
	prefs      PreferenceStore
	group      bool
	logger     *logging.Logger
}

// New creates a session. Preferences are loaded from the preference store
// when one is configured; failures to read them are logged and ignored.
func New(ctx context.Context, opts ...Option) *Session {
	s := &Session{group: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.logger == nil {
		s.logger = logging.New("session")
	}
	s.logger = s.logger.WithSession(s.id)
	if s.history == nil {
		s.history = history.New(history.DefaultCapacity, history.WithLogger(s.logger))
	}

	engineOpts := append([]accumulator.Option{
		accumulator.WithAngleSource(s),
		accumulator.WithRecorder(s.history),
	}, s.engineOpts...)
	s.engine = accumulator.New(engineOpts...)

	s.loadPreferences(ctx)
	return s
}

func (s *Session) loadPreferences(ctx context.Context) {
	if s.prefs == nil {
		return
	}
	value, ok, err := s.prefs.GetPreference(ctx, PrefAngleMode)
	if err != nil {
		s.logger.LogError(errors.StoreFailure("session.load_preferences", err))
		return
	}
	if !ok {
		return
	}
	if mode, ok := accumulator.ParseAngleMode(value); ok {
		s.angle.Store(int32(mode))
	}
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// AngleMode implements accumulator.AngleSource.
func (s *Session) AngleMode() accumulator.AngleMode {
	return accumulator.AngleMode(s.angle.Load())
}

// SetAngleMode changes the angle mode and stores it as a preference.
func (s *Session) SetAngleMode(ctx context.Context, mode accumulator.AngleMode) error {
	s.angle.Store(int32(mode))
	if s.prefs == nil {
		return nil
	}
	if err := s.prefs.SetPreference(ctx, PrefAngleMode, mode.String()); err != nil {
		return errors.StoreFailure("session.set_angle_mode", err)
	}
	return nil
}

// Theme returns the stored theme, ThemeDark by default.
func (s *Session) Theme(ctx context.Context) string {
	if s.prefs == nil {
		return ThemeDark
	}
	value, ok, err := s.prefs.GetPreference(ctx, PrefTheme)
	if err != nil || !ok {
		return ThemeDark
	}
	return value
}

// SetTheme stores the theme preference.
func (s *Session) SetTheme(ctx context.Context, theme string) error {
	if theme != ThemeDark && theme != ThemeLight {
		return errors.InvalidInput(errors.ModuleSession, "set_theme", theme, "dark or light")
	}
	if s.prefs == nil {
		return nil
	}
	if err := s.prefs.SetPreference(ctx, PrefTheme, theme); err != nil {
		return errors.StoreFailure("session.set_theme", err)
	}
	return nil
}

// History returns the session's history log.
func (s *Session) History() *history.Log {
	return s.history
}

// Press applies one key and returns the new snapshot.
func (s *Session) Press(k Key) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.press(k)
	return s.snapshot()
}

// PressAll applies keys in order and returns the final snapshot.
func (s *Session) PressAll(keys []Key) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		s.press(k)
	}
	return s.snapshot()
}

func (s *Session) press(k Key) {
	e := s.engine
	switch k.Kind {
	case KindDigit:
		e.InputDigit(k.Digit)
	case KindDecimal:
		e.InputDecimalPoint()
	case KindOperator:
		e.ApplyOperator(k.Operator)
	case KindFunction:
		e.ApplyUnary(k.Function)
	case KindConstant:
		e.SetConstant(k.Constant)
	case KindEquals:
		e.Equals()
	case KindClear:
		e.Clear()
	case KindClearEntry:
		e.ClearEntry()
	case KindBackspace:
		e.Backspace()
	case KindNegate:
		e.Negate()
	case KindToggleAngle:
		ctx, cancel := context.WithTimeout(context.Background(), prefTimeout)
		defer cancel()
		if err := s.SetAngleMode(ctx, s.AngleMode().Toggle()); err != nil {
			s.logger.LogError(err)
		}
	}

	if err := e.Err(); err != nil {
		s.logger.Debug("calculation failed", "key", k.String(), "error", err.Message())
	}
}

// Snapshot returns the current state without pressing a key.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	st := s.engine.State()
	display := st.Display
	if s.group {
		display = numfmt.Group(display)
	}
	snap := Snapshot{
		SessionID:  s.id,
		Display:    display,
		Raw:        st.Display,
		Expression: st.Expression,
		AngleMode:  s.AngleMode().String(),
		Small:      utf8.RuneCountInString(display) > SmallDisplayLength,
	}
	if err := s.engine.Err(); err != nil {
		snap.Error = err.Message()
	}
	return snap
}

// Recall loads the result of the history entry with the given id onto the
// display.
func (s *Session) Recall(id string) (Snapshot, error) {
	entry, err := s.history.Find(id)
	if err != nil {
		return s.Snapshot(), err
	}
	return s.recall(entry.Result)
}

// RecallIndex loads the result of the i-th newest history entry.
func (s *Session) RecallIndex(i int) (Snapshot, error) {
	entry, ok := s.history.At(i)
	if !ok {
		return s.Snapshot(), errors.NotFound(errors.ModuleSession, "recall", i)
	}
	return s.recall(entry.Result)
}

func (s *Session) recall(result string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.engine.Recall(result)
	return s.snapshot(), err
}

// SetValue puts x on the display, e.g. a solver root picked by the user.
func (s *Session) SetValue(x float64) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetValue(x)
	return s.snapshot()
}

// ClearHistory empties the session history.
func (s *Session) ClearHistory(ctx context.Context) error {
	return s.history.Clear(ctx)
}
