package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/bfs-visualizer/pkg/logging"
)

// ChangeType represents the type of file change detected
type ChangeType int

const (
	// ChangeTypeWritten covers creation, writes and atomic replace-by-rename.
	ChangeTypeWritten ChangeType = iota
	// ChangeTypeRemoved means the file is gone (deleted or renamed away).
	ChangeTypeRemoved
)

func (c ChangeType) String() string {
	switch c {
	case ChangeTypeWritten:
		return "written"
	case ChangeTypeRemoved:
		return "removed"
	default:
		return fmt.Sprintf("ChangeType(%d)", int(c))
	}
}

// ChangeEvent represents a batch of file system changes
type ChangeEvent struct {
	Type      ChangeType
	Paths     []string
	Timestamp time.Time
}

// FileWatcher watches a single graph definition file. It watches the
// containing directory so that editors which save by rename are seen.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	events  chan ChangeEvent
	once    sync.Once
}

// NewFileWatcher creates a watcher for the file at path
func NewFileWatcher(path string) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher: watcher,
		path:    filepath.Clean(abs),
		events:  make(chan ChangeEvent, 100),
	}, nil
}

// Path returns the absolute path being watched.
func (fw *FileWatcher) Path() string {
	return fw.path
}

// Start begins watching. Events stop and the Events channel is closed when
// ctx is cancelled or Close is called.
func (fw *FileWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(fw.path)
	if err := fw.watcher.Add(dir); err != nil {
		_ = fw.watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	logging.Info("watching graph file", "path", fw.path)

	go fw.processEvents(ctx)
	return nil
}

// classify maps an fsnotify operation on the watched file to a ChangeType.
func classify(op fsnotify.Op) (ChangeType, bool) {
	switch {
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return ChangeTypeRemoved, true
	case op.Has(fsnotify.Create), op.Has(fsnotify.Write):
		return ChangeTypeWritten, true
	default:
		// Chmod alone does not change content.
		return 0, false
	}
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	defer close(fw.events)
	defer fw.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			kind, relevant := classify(event.Op)
			if !relevant {
				continue
			}

			logging.Trace("graph file event", "op", event.Op.String(), "change", kind.String())
			select {
			case fw.events <- ChangeEvent{Type: kind, Paths: []string{event.Name}, Timestamp: time.Now()}:
			case <-ctx.Done():
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Close stops the underlying fsnotify watcher. It is safe to call more than once.
func (fw *FileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		err = fw.watcher.Close()
	})
	return err
}
