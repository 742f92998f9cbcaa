package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_DebouncesRelevantChanges(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Config{
			Paths:    []string{dir},
			Relevant: func(p string) bool { return strings.HasSuffix(p, ".qml") },
			Debounce: 50 * time.Millisecond,
			Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		}, func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}()

	// Give the watcher time to register.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Main.qml"), []byte{byte(i)}, 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "burst collapses into one run")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_FileReplacedByRename(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "types.yaml")
	require.NoError(t, os.WriteFile(target, []byte("types: []"), 0644))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	go Run(ctx, Config{
		Paths:    []string{dir},
		Relevant: func(p string) bool { return filepath.Clean(p) == target },
		Debounce: 20 * time.Millisecond,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	time.Sleep(100 * time.Millisecond)
	save := func() {
		tmp := filepath.Join(dir, ".types.yaml.swp")
		require.NoError(t, os.WriteFile(tmp, []byte("types: []\n"), 0644))
		require.NoError(t, os.Rename(tmp, target))
	}
	save()
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	save()
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestRun_MissingPath(t *testing.T) {
	err := Run(context.Background(), Config{Paths: []string{filepath.Join(t.TempDir(), "missing")}},
		func(context.Context) error { return nil })
	assert.Error(t, err)
}
