package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		op       fsnotify.Op
		want     ChangeType
		relevant bool
	}{
		{fsnotify.Write, ChangeTypeWritten, true},
		{fsnotify.Create, ChangeTypeWritten, true},
		{fsnotify.Remove, ChangeTypeRemoved, true},
		{fsnotify.Rename, ChangeTypeRemoved, true},
		{fsnotify.Chmod, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got, relevant := classify(tt.op)
			assert.Equal(t, tt.relevant, relevant)
			if relevant {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAnalyzeChanges(t *testing.T) {
	written := AnalyzeChanges(ChangeEvent{Type: ChangeTypeWritten, Paths: []string{"g.toml"}})
	assert.True(t, written.NeedReload)
	assert.False(t, written.FileRemoved)
	assert.Equal(t, []string{"g.toml"}, written.ChangedFiles)

	removed := AnalyzeChanges(ChangeEvent{Type: ChangeTypeRemoved})
	assert.False(t, removed.NeedReload)
	assert.True(t, removed.FileRemoved)
}

func TestAppendUnique(t *testing.T) {
	got := appendUnique([]string{"a.toml"}, "b.toml", "a.toml", "b.toml", "c.toml")
	assert.Equal(t, []string{"a.toml", "b.toml", "c.toml"}, got)
}

func TestDebouncerBatchesBurst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan ChangeEvent)
	d := NewDebouncer(in, 30*time.Millisecond, time.Second)
	d.Start(ctx)

	in <- ChangeEvent{Type: ChangeTypeWritten, Paths: []string{"g.toml"}}
	in <- ChangeEvent{Type: ChangeTypeRemoved, Paths: []string{"g.toml"}}
	in <- ChangeEvent{Type: ChangeTypeWritten, Paths: []string{"g.toml"}}

	select {
	case batch := <-d.Output():
		assert.Equal(t, ChangeTypeWritten, batch.Type)
		assert.Equal(t, []string{"g.toml"}, batch.Paths)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for debounced batch")
	}

	select {
	case batch := <-d.Output():
		t.Fatalf("unexpected second batch: %+v", batch)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncerMaxWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan ChangeEvent)
	d := NewDebouncer(in, time.Hour, 50*time.Millisecond)
	d.Start(ctx)

	in <- ChangeEvent{Type: ChangeTypeWritten, Paths: []string{"g.toml"}}

	select {
	case batch := <-d.Output():
		assert.Equal(t, ChangeTypeWritten, batch.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("max wait did not force a flush")
	}
}

func TestDebouncerFlushesOnInputClose(t *testing.T) {
	in := make(chan ChangeEvent, 1)
	d := NewDebouncer(in, time.Hour, time.Hour)
	d.Start(context.Background())

	in <- ChangeEvent{Type: ChangeTypeRemoved, Paths: []string{"g.toml"}}
	close(in)

	batch, ok := <-d.Output()
	require.True(t, ok)
	assert.Equal(t, ChangeTypeRemoved, batch.Type)

	_, ok = <-d.Output()
	assert.False(t, ok, "output closes after input closes")
}

func TestFileWatcherSeesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph.toml")
	other := filepath.Join(dir, "other.toml")
	require.NoError(t, os.WriteFile(path, []byte("# v1\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fw, err := NewFileWatcher(path)
	require.NoError(t, err)
	require.NoError(t, fw.Start(ctx))

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("# v2\n"), 0o644))

	select {
	case ev := <-fw.Events():
		assert.Equal(t, ChangeTypeWritten, ev.Type)
		require.Len(t, ev.Paths, 1)
		assert.Equal(t, fw.Path(), filepath.Clean(ev.Paths[0]))
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for write event")
	}

	cancel()
	for range fw.Events() {
	}
}
