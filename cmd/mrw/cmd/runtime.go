package cmd

import (
	"context"

	"github.com/msto63/rechenwerk/internal/calc/accumulator"
	"github.com/msto63/rechenwerk/internal/calc/history"
	"github.com/msto63/rechenwerk/internal/calc/session"
	"github.com/msto63/rechenwerk/internal/service"
	"github.com/msto63/rechenwerk/internal/store"
	"github.com/msto63/rechenwerk/pkg/core/config"
	"github.com/msto63/rechenwerk/pkg/core/logging"
)

// environment bundles the collaborators every calculator command needs.
type environment struct {
	config  *config.Config
	store   *store.SQLiteStore
	history *history.Log
	prefs   session.PreferenceStore
	service *service.Service
	logger  *logging.Logger
}

// openEnvironment opens the configured history store and loads the stored
// history. The caller must Close the environment.
func openEnvironment(ctx context.Context) (*environment, error) {
	cfg := appConfig
	if cfg == nil {
		cfg = config.Default()
	}
	env := &environment{
		config: cfg,
		logger: logging.New("mrw"),
	}

	var hs history.Store
	if cfg.History.Store == "memory" {
		hs = history.NewMemoryStore()
		env.prefs = session.NewMemoryPreferences()
	} else {
		st, err := store.Open(store.Config{Path: cfg.History.Path})
		if err != nil {
			return nil, err
		}
		env.store = st
		env.prefs = st
		hs = st
	}

	env.history = history.New(cfg.Engine.HistoryCapacity,
		history.WithStore(hs),
		history.WithLogger(env.logger),
	)
	if err := env.history.Load(ctx); err != nil {
		env.Close()
		return nil, err
	}

	env.service = service.New(service.Config{
		AngleMode:      env.angleMode(),
		MaxInputLength: cfg.Engine.MaxInputLength,
		Grouping:       cfg.Display.Grouping(),
	})
	env.logger.Debug("environment ready", "store", cfg.History.Store, "entries", env.history.Len())
	return env, nil
}

func (e *environment) angleMode() accumulator.AngleMode {
	mode, _ := accumulator.ParseAngleMode(e.config.Engine.AngleMode)
	return mode
}

// sessionOptions are the options every session of this process shares.
// The stored angle mode preference overrides the configured one.
func (e *environment) sessionOptions() []session.Option {
	return []session.Option{
		session.WithHistory(e.history),
		session.WithPreferences(e.prefs),
		session.WithAngleMode(e.angleMode()),
		session.WithMaxInputLength(e.config.Engine.MaxInputLength),
		session.WithGrouping(e.config.Display.Grouping()),
	}
}

func (e *environment) newSession(ctx context.Context) *session.Session {
	return session.New(ctx, e.sessionOptions()...)
}

// Close closes the store.
func (e *environment) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}
