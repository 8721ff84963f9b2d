package watcher

import (
	"context"
	"slices"
	"time"

	"github.com/ritzau/bfs-visualizer/pkg/logging"
)

// Debouncer batches rapid file system events so that an editor save,
// which often arrives as several events, triggers a single reload.
type Debouncer struct {
	input       <-chan ChangeEvent
	output      chan ChangeEvent
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a new event debouncer. A batch is emitted after
// quietPeriod without new events, or maxWait after its first event.
func NewDebouncer(input <-chan ChangeEvent, quietPeriod, maxWait time.Duration) *Debouncer {
	return &Debouncer{
		input:       input,
		output:      make(chan ChangeEvent, 10),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins processing events with debouncing
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

func (d *Debouncer) run(ctx context.Context) {
	defer close(d.output)

	var (
		quiet   <-chan time.Time
		maxWait <-chan time.Time
		pending *ChangeEvent
		count   int
	)

	flush := func() {
		quiet, maxWait = nil, nil
		if pending == nil {
			return
		}
		logging.Debug("flushing accumulated events", "count", count, "change", pending.Type.String())

		batch := *pending
		batch.Timestamp = time.Now()
		pending, count = nil, 0

		select {
		case d.output <- batch:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-d.input:
			if !ok {
				flush()
				return
			}

			if pending == nil {
				pending = &ChangeEvent{}
				maxWait = time.After(d.maxWait)
			}
			// The latest event decides whether the file exists at flush time.
			pending.Type = event.Type
			pending.Paths = appendUnique(pending.Paths, event.Paths...)
			count++
			quiet = time.After(d.quietPeriod)

		case <-quiet:
			flush()

		case <-maxWait:
			flush()
		}
	}
}

// Output returns the channel of debounced events
func (d *Debouncer) Output() <-chan ChangeEvent {
	return d.output
}

func appendUnique(dst []string, paths ...string) []string {
	for _, p := range paths {
		if !slices.Contains(dst, p) {
			dst = append(dst, p)
		}
	}
	return dst
}
