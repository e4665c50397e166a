package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// exerciseStore runs the shared Store contract against any backend.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()

	ctx := context.Background()

	_, err := store.Get(ctx, "alarms")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "alarms", `[{"id":"1"}]`))
	require.NoError(t, store.Set(ctx, "alarmSettings", `{"snoozeMinutes":5}`))

	got, err := store.Get(ctx, "alarms")
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"1"}]`, got)

	// Overwrite keeps the latest value only.
	require.NoError(t, store.Set(ctx, "alarms", `[]`))

	got, err = store.Get(ctx, "alarms")
	require.NoError(t, err)
	require.Equal(t, `[]`, got)

	got, err = store.Get(ctx, "alarmSettings")
	require.NoError(t, err)
	require.JSONEq(t, `{"snoozeMinutes":5}`, got)
}

// TestMemory_Contract verifies the in-memory backend.
func TestMemory_Contract(t *testing.T) {
	t.Parallel()
	exerciseStore(t, NewMemory())
}

// TestFile_Contract verifies the file backend and that values survive a new instance.
func TestFile_Contract(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "storage.json")
	exerciseStore(t, NewFile(path))

	_, err := os.Stat(path)
	require.NoError(t, err)

	reopened := NewFile(path)
	got, err := reopened.Get(context.Background(), "alarms")
	require.NoError(t, err)
	require.Equal(t, `[]`, got)
}

// TestFile_CorruptDocument ensures decoding failures surface as errors, not ErrNotFound.
func TestFile_CorruptDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewFile(path)

	_, err := store.Get(context.Background(), "alarms")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)

	err = store.Set(context.Background(), "alarms", "[]")
	require.Error(t, err)
}

// TestSQLite_Contract verifies the SQLite backend on a temporary database file.
func TestSQLite_Contract(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alarm-clock.db")

	store, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	exerciseStore(t, store)
}

// TestPostgres_Contract runs against a real database when ALARM_CLOCK_TEST_PG_DSN is set.
func TestPostgres_Contract(t *testing.T) {
	t.Parallel()

	dsn := os.Getenv("ALARM_CLOCK_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("ALARM_CLOCK_TEST_PG_DSN is not set")
	}

	store, err := OpenPostgres(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	// Start from a clean table.
	_, err = store.pool.Exec(context.Background(), "DELETE FROM alarm_clock_kv")
	require.NoError(t, err)

	exerciseStore(t, store)
}

// TestOpen verifies driver selection.
func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	store, closeStore, err := Open(ctx, Options{Driver: DriverMemory})
	require.NoError(t, err)
	require.IsType(t, new(Memory), store)
	require.NoError(t, closeStore())

	store, closeStore, err = Open(ctx, Options{Path: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	require.IsType(t, new(File), store)
	require.NoError(t, closeStore())

	store, closeStore, err = Open(ctx, Options{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "s.db")})
	require.NoError(t, err)
	require.IsType(t, new(SQLite), store)
	require.NoError(t, closeStore())

	_, _, err = Open(ctx, Options{Driver: DriverPostgres})
	require.ErrorIs(t, err, errEmptyDSN)

	_, closeStore, err = Open(ctx, Options{Driver: "redis"})
	require.ErrorIs(t, err, ErrUnknownDriver)
	require.NotNil(t, closeStore)
}
