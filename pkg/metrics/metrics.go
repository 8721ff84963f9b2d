// Package metrics holds the Prometheus collectors for traversals and graph loads.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ritzau/bfs-visualizer/pkg/bfs"
)

// Traversal outcome labels.
const (
	ResultFound    = "found"
	ResultNotFound = "not_found"
	ResultInvalid  = "invalid"
	ResultInternal = "internal"
)

var (
	// traversals counts finished traversal requests.
	// Labels: result (found, not_found, invalid, internal)
	traversals = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bfs",
		Name:      "traversals_total",
		Help:      "Total BFS traversals by outcome",
	}, []string{"result"})

	traversalSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bfs",
		Name:      "traversal_steps",
		Help:      "Number of recorded steps per successful traversal",
		Buckets:   prometheus.ExponentialBuckets(2, 2, 10),
	})

	traversalDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "bfs",
		Name:      "traversal_duration_seconds",
		Help:      "Wall time spent running a traversal",
		Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	})

	// graphLoads counts graph definition loads.
	// Labels: result (ok, error)
	graphLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bfs",
		Name:      "graph_loads_total",
		Help:      "Total graph definition loads by outcome",
	}, []string{"result"})

	graphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "bfs",
		Name:      "graph_nodes",
		Help:      "Number of nodes in the currently served graph",
	})
)

// TraversalResult maps the outcome of bfs.Traverse to a result label.
func TraversalResult(res *bfs.Result, err error) string {
	switch {
	case errors.Is(err, bfs.ErrInvalidInput):
		return ResultInvalid
	case err != nil:
		return ResultInternal
	case res != nil && res.Found:
		return ResultFound
	default:
		return ResultNotFound
	}
}

// ObserveTraversal records one traversal. Step counts are only observed for
// traversals that produced a trace.
func ObserveTraversal(res *bfs.Result, err error, elapsed time.Duration) {
	traversals.WithLabelValues(TraversalResult(res, err)).Inc()
	traversalDuration.Observe(elapsed.Seconds())
	if err == nil && res != nil {
		traversalSteps.Observe(float64(res.TotalSteps))
	}
}

// ObserveGraphLoad records a graph load. On success nodes becomes the
// served graph size.
func ObserveGraphLoad(nodes int, err error) {
	if err != nil {
		graphLoads.WithLabelValues("error").Inc()
		return
	}
	graphLoads.WithLabelValues("ok").Inc()
	graphNodes.Set(float64(nodes))
}
