// Package reload loads the graph definition and swaps it into the running
// server, publishing a graph_status event for every attempt.
package reload

import (
	"context"
	"fmt"
	"sync"

	"github.com/ritzau/bfs-visualizer/pkg/graphfile"
	"github.com/ritzau/bfs-visualizer/pkg/logging"
	"github.com/ritzau/bfs-visualizer/pkg/metrics"
	"github.com/ritzau/bfs-visualizer/pkg/pubsub"
	"github.com/ritzau/bfs-visualizer/pkg/watcher"
)

// Target receives every successfully loaded graph.
type Target interface {
	SetSource(src *graphfile.Source)
}

// Config selects the graph and optional endpoint overrides.
type Config struct {
	Path  string // empty serves the built-in graph
	Start string // overrides the definition's start when set
	Goal  string // overrides the definition's goal when set
}

// Reloader orchestrates graph loads
type Reloader struct {
	cfg       Config
	target    Target
	publisher pubsub.Publisher
	load      func(path string) (*graphfile.Source, error)

	mu      sync.Mutex // serializes loads
	reloads int
}

// NewReloader creates a reloader. publisher may be nil.
func NewReloader(cfg Config, target Target, publisher pubsub.Publisher) *Reloader {
	return &Reloader{
		cfg:       cfg,
		target:    target,
		publisher: publisher,
		load:      graphfile.Load,
	}
}

// Load resolves the configured graph without publishing it anywhere.
func Load(cfg Config) (*graphfile.Source, error) {
	return NewReloader(cfg, nil, nil).resolve()
}

func (r *Reloader) resolve() (*graphfile.Source, error) {
	var (
		src *graphfile.Source
		err error
	)
	if r.cfg.Path == "" {
		src = graphfile.Default()
	} else if src, err = r.load(r.cfg.Path); err != nil {
		return nil, err
	}

	if r.cfg.Start != "" {
		if !src.Graph.HasNode(r.cfg.Start) {
			return nil, fmt.Errorf("%w: start %q is not a node of %s", graphfile.ErrInvalidDefinition, r.cfg.Start, src.Name)
		}
		src.Start = r.cfg.Start
	}
	if r.cfg.Goal != "" {
		if !src.Graph.HasNode(r.cfg.Goal) {
			return nil, fmt.Errorf("%w: goal %q is not a node of %s", graphfile.ErrInvalidDefinition, r.cfg.Goal, src.Name)
		}
		src.Goal = r.cfg.Goal
	}
	return src, nil
}

// Run loads the graph once. On failure the target keeps its current graph.
func (r *Reloader) Run(ctx context.Context, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	status := pubsub.GraphStatus{
		State:   pubsub.StatusLoading,
		Message: "Loading graph: " + reason,
		Path:    r.cfg.Path,
		Reload:  r.reloads,
	}
	r.publish(status)
	logging.InfoContext(ctx, "loading graph", "reason", reason, "path", r.cfg.Path)

	src, err := r.resolve()
	if err != nil {
		metrics.ObserveGraphLoad(0, err)
		logging.ErrorContext(ctx, "graph load failed", "path", r.cfg.Path, "error", err)

		status.State = pubsub.StatusError
		status.Message = err.Error()
		r.publish(status)
		return fmt.Errorf("loading graph: %w", err)
	}

	if r.target != nil {
		r.target.SetSource(src)
	}
	metrics.ObserveGraphLoad(src.Graph.Len(), nil)

	status.State = pubsub.StatusReady
	status.Message = fmt.Sprintf("Graph %s ready", src.Name)
	status.Name = src.Name
	status.Nodes = src.Graph.Len()
	status.Edges = len(src.Graph.Edges())
	status.Start = src.Start
	status.Goal = src.Goal
	r.publish(status)

	logging.InfoContext(ctx, "graph ready",
		"name", src.Name,
		"nodes", status.Nodes,
		"edges", status.Edges,
		"start", src.Start,
		"goal", src.Goal,
	)
	r.reloads++
	return nil
}

// Watch reloads on every debounced change batch until events closes or
// ctx is done. Failed reloads are reported and do not stop the loop.
func (r *Reloader) Watch(ctx context.Context, events <-chan watcher.ChangeEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			change := watcher.AnalyzeChanges(ev)
			switch {
			case change.FileRemoved:
				logging.WarnContext(ctx, "graph file removed, keeping last good graph", "path", r.cfg.Path)
			case change.NeedReload:
				_ = r.Run(ctx, "file changed")
			}
		}
	}
}

func (r *Reloader) publish(status pubsub.GraphStatus) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(pubsub.TopicGraphStatus, status.State, status); err != nil {
		logging.Warn("failed to publish graph status", "state", status.State, "error", err)
	}
}
