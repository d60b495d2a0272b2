package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/rechenwerk/internal/calc/history"
	"github.com/msto63/rechenwerk/internal/calc/session"
	"github.com/msto63/rechenwerk/pkg/core/logging"
)

// Compile-time interface checks
var (
	_ history.Store           = (*SQLiteStore)(nil)
	_ session.PreferenceStore = (*SQLiteStore)(nil)
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "data", "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAndList(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	now := time.Date(2025, 10, 19, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := s.Append(ctx, history.Entry{
			ID:         fmt.Sprintf("id-%d", i),
			Expression: fmt.Sprintf("%d + 1", i),
			Result:     fmt.Sprint(i + 1),
			Timestamp:  now.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	entries, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "id-2", entries[0].ID)
	assert.Equal(t, "2 + 1", entries[0].Expression)
	assert.Equal(t, "3", entries[0].Result)
	assert.True(t, entries[0].Timestamp.Equal(now.Add(2*time.Second)))
	assert.Equal(t, "id-1", entries[1].ID)

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAppendRequiresID(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.Append(context.Background(), history.Entry{Expression: "1"}))
}

func TestTrimAndClear(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Append(ctx, history.Entry{ID: fmt.Sprint(i), Expression: "x", Result: "y"}))
	}

	require.NoError(t, s.Trim(ctx, 2))
	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "4", entries[0].ID)
	assert.Equal(t, "3", entries[1].ID)

	require.NoError(t, s.Clear(ctx))
	entries, err = s.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, ok, err := s.GetPreference(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetPreference(ctx, "theme", "dark"))
	require.NoError(t, s.SetPreference(ctx, "theme", "light"))

	v, ok, err := s.GetPreference(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)

	assert.Error(t, s.SetPreference(ctx, "", "x"))
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "persist.db")

	s, err := Open(Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Append(ctx, history.Entry{ID: "a", Expression: "1 + 1", Result: "2"}))
	require.NoError(t, s.SetPreference(ctx, session.PrefAngleMode, "DEG"))
	require.NoError(t, s.Close())

	s, err = Open(Config{Path: path})
	require.NoError(t, err)
	defer s.Close()

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2", entries[0].Result)

	v, ok, err := s.GetPreference(ctx, session.PrefAngleMode)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "DEG", v)
}

func TestHistoryLogOverSQLite(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	quiet := logging.Discard("history")

	log := history.New(3, history.WithStore(s), history.WithLogger(quiet))
	for i := 0; i < 5; i++ {
		log.Record(fmt.Sprintf("%d + 0", i), fmt.Sprint(i))
	}

	stats, err := s.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats["history_entries"])

	reloaded := history.New(3, history.WithStore(s), history.WithLogger(quiet))
	require.NoError(t, reloaded.Load(ctx))
	require.Equal(t, 3, reloaded.Len())
	first, _ := reloaded.At(0)
	assert.Equal(t, "4", first.Result)
}

func TestSessionOverSQLite(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	sess := session.New(ctx, session.WithPreferences(s), session.WithLogger(logging.Discard("session")))
	sess.Press(session.KeyToggleAngle)

	again := session.New(ctx, session.WithPreferences(s), session.WithLogger(logging.Discard("session")))
	assert.Equal(t, "DEG", again.Snapshot().AngleMode)
}

func TestMemoryPath(t *testing.T) {
	ctx := context.Background()
	s, err := Open(Config{Path: MemoryPath})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Append(ctx, history.Entry{ID: "m", Expression: "1", Result: "1"}))
	entries, err := s.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestClosedStoreFails(t *testing.T) {
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "closed.db")})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Error(t, s.Ping(context.Background()))
	_, err = s.List(context.Background(), 1)
	assert.Error(t, err)
}
