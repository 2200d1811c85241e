package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()
	w, err := New(testLogger(), path, Options{SettleDelay: 30 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx) //nolint:errcheck // returns nil on shutdown

	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	return w
}

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()
	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for event")
		return Event{}
	}
}

func TestWatcher_Modified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte(`{"countries":{"holanda":"netherlands"}}`), 0o644))

	ev := waitEvent(t, w)
	assert.Equal(t, EventModified, ev.Type)
	assert.Equal(t, w.Path(), ev.Path)
	assert.NotZero(t, ev.Size)
}

func TestWatcher_CreatedLater(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.json")
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	ev := waitEvent(t, w)
	assert.Equal(t, EventModified, ev.Type)
}

func TestWatcher_Removed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))
	w := startWatcher(t, path)

	require.NoError(t, os.Remove(path))

	ev := waitEvent(t, w)
	assert.Equal(t, EventRemoved, ev.Type)
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.json")
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0o644))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %v", ev)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	_, err := New(testLogger(), filepath.Join(t.TempDir(), "nope", "aliases.json"), Options{})
	assert.Error(t, err)
}

func TestWatcher_StopIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.json")
	w, err := New(testLogger(), path, Options{})
	require.NoError(t, err)

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "modified", EventModified.String())
	assert.Equal(t, "removed", EventRemoved.String())
	assert.Equal(t, "unknown", EventType(9).String())
}
