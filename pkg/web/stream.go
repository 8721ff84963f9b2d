package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ritzau/bfs-visualizer/pkg/logging"
	"github.com/ritzau/bfs-visualizer/pkg/metrics"
	"github.com/ritzau/bfs-visualizer/pkg/pubsub"
)

// topicTraversal labels events on the per-request step stream.
const topicTraversal = "traversal"

// Stream event types.
const (
	eventStep   = "step"
	eventResult = "result"
)

func startSSE(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Initial comment so the connection is established right away (Safari)
	fmt.Fprintf(w, ": connected\n\n")
	flush(w)
}

func flush(w http.ResponseWriter) {
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (s *Server) handleSubscribeGraphStatus(w http.ResponseWriter, r *http.Request) {
	sub, err := s.publisher.Subscribe(r.Context(), pubsub.TopicGraphStatus)
	if err != nil {
		writeError(w, r, http.StatusServiceUnavailable, err)
		return
	}
	defer sub.Close()

	startSSE(w)

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-sub.Events():
			if !ok {
				return
			}
			if err := pubsub.WriteSSE(w, event); err != nil {
				logging.WarnContext(r.Context(), "error writing SSE event", "error", err)
				return
			}
			flush(w)
		}
	}
}

// handleRunBFSStream plays a traversal back one step per interval. The
// whole traversal is computed up front, so errors are still reported as
// plain JSON responses.
func (s *Server) handleRunBFSStream(w http.ResponseWriter, r *http.Request) {
	src, ok := s.current(w, r)
	if !ok {
		return
	}

	req, err := s.parseTraversal(r, src)
	if err != nil {
		metrics.ObserveTraversal(nil, err, 0)
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	interval := s.interval
	if req.Interval > 0 {
		interval = time.Duration(req.Interval) * time.Millisecond
	}

	res, err := s.traverse(r.Context(), src, req.Start, req.Goal)
	if err != nil {
		s.failTraversal(w, r, req, err)
		return
	}

	startSSE(w)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i, step := range res.Steps {
		if i > 0 {
			select {
			case <-r.Context().Done():
				logging.DebugContext(r.Context(), "stream abandoned by client", "step", step.Step, "of", res.TotalSteps)
				return
			case <-ticker.C:
			}
		}
		if !s.writeEvent(w, r, eventStep, step.Step, step) {
			return
		}
	}

	s.writeEvent(w, r, eventResult, res.TotalSteps+1, res)
}

func (s *Server) writeEvent(w http.ResponseWriter, r *http.Request, eventType string, version int, data any) bool {
	event, err := pubsub.NewEvent(topicTraversal, eventType, version, data)
	if err == nil {
		err = pubsub.WriteSSE(w, event)
	}
	if err != nil {
		logging.WarnContext(r.Context(), "error writing SSE event", "type", eventType, "error", err)
		return false
	}
	flush(w)
	return true
}
