package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ritzau/bfs-visualizer/pkg/bfs"
	"github.com/ritzau/bfs-visualizer/pkg/graphfile"
	"github.com/ritzau/bfs-visualizer/pkg/logging"
	"github.com/ritzau/bfs-visualizer/pkg/pubsub"
)

// errNoGraph is reported until the first graph has been loaded.
var errNoGraph = errors.New("graph not loaded yet")

// Server represents the web server
type Server struct {
	router    *mux.Router
	source    atomic.Pointer[graphfile.Source]
	publisher *pubsub.SSEPublisher
	validate  *validator.Validate
	interval  time.Duration // default delay between streamed steps
	search    func(g bfs.Graph, start, goal string) (*bfs.Result, error)
}

// NewServer creates a new web server. interval is the default delay
// between steps on the streaming endpoint.
func NewServer(interval time.Duration) *Server {
	ssePublisher := pubsub.NewSSEPublisher()

	// graph_status: new subscribers only need the current state
	ssePublisher.ConfigureTopic(pubsub.TopicGraphStatus, pubsub.TopicConfig{Retain: true})

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("query"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	s := &Server{
		router:    mux.NewRouter(),
		publisher: ssePublisher,
		validate:  v,
		interval:  interval,
		search:    bfs.Traverse,
	}
	s.setupRoutes()
	return s
}

// SetSource swaps in a new graph. Requests already running keep the
// snapshot they started with.
func (s *Server) SetSource(src *graphfile.Source) {
	s.source.Store(src)
}

// Source returns the graph currently served, or nil before the first load.
func (s *Server) Source() *graphfile.Source {
	return s.source.Load()
}

// Publisher exposes the status publisher so loaders can report progress.
func (s *Server) Publisher() pubsub.Publisher {
	return s.publisher
}

func (s *Server) setupRoutes() {
	// SSE subscription endpoints
	s.router.HandleFunc("/api/subscribe/graph_status", s.handleSubscribeGraphStatus).Methods(http.MethodGet)

	s.router.HandleFunc("/api/graph-info", s.handleGraphInfo).Methods(http.MethodGet)
	s.router.HandleFunc("/api/graph-structure", s.handleGraphStructure).Methods(http.MethodGet)
	s.router.HandleFunc("/api/run-bfs/stream", s.handleRunBFSStream).Methods(http.MethodGet)
	s.router.HandleFunc("/api/run-bfs", s.handleRunBFS).Methods(http.MethodGet)

	s.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
}

// Handler returns the root handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return logging.RequestIDMiddleware(s.router)
}

// Start serves on port until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Long-lived SSE requests end with ctx.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("starting web server", "url", fmt.Sprintf("http://localhost:%d", port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server: %w", err)
	case <-ctx.Done():
	}

	logging.Info("shutting down web server")
	_ = s.publisher.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown: %w", err)
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.WarnContext(r.Context(), "failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}
