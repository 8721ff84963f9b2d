package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ritzau/bfs-visualizer/pkg/bfs"
	"github.com/ritzau/bfs-visualizer/pkg/graph"
	"github.com/ritzau/bfs-visualizer/pkg/graphfile"
	"github.com/ritzau/bfs-visualizer/pkg/logging"
	"github.com/ritzau/bfs-visualizer/pkg/metrics"
)

// GraphInfo is the response of /api/graph-info.
type GraphInfo struct {
	Name         string       `json:"name"`
	Nodes        []string     `json:"nodes"`
	Edges        [][2]string  `json:"edges"` // one entry per adjacency, so both directions
	Weights      []graph.Edge `json:"weights"`
	Components   [][]string   `json:"components"`
	InitialState string       `json:"initial_state"`
	GoalState    string       `json:"goal_state"`
	GoalHops     *int         `json:"goal_hops"` // nil when the goal is unreachable
}

// GraphStructure is the response of /api/graph-structure.
type GraphStructure struct {
	Graph        map[string][]string `json:"graph"`
	Order        []string            `json:"order"`
	Weights      map[string]float64  `json:"weights"` // keyed "(A, B)", both directions
	InitialState string              `json:"initial_state"`
	GoalState    string              `json:"goal_state"`
}

// traversalRequest carries the query parameters of the run-bfs endpoints.
type traversalRequest struct {
	Start    string `query:"start" validate:"required"`
	Goal     string `query:"goal" validate:"required,nefield=Start"`
	Interval int    `query:"interval" validate:"omitempty,min=50,max=60000"` // milliseconds
}

func weightKey(a, b string) string {
	return fmt.Sprintf("(%s, %s)", a, b)
}

func (s *Server) current(w http.ResponseWriter, r *http.Request) (*graphfile.Source, bool) {
	src := s.Source()
	if src == nil {
		writeError(w, r, http.StatusServiceUnavailable, errNoGraph)
		return nil, false
	}
	return src, true
}

func (s *Server) handleGraphInfo(w http.ResponseWriter, r *http.Request) {
	src, ok := s.current(w, r)
	if !ok {
		return
	}
	g := src.Graph

	nodes := g.Nodes()
	edges := make([][2]string, 0, 2*len(nodes))
	for _, id := range nodes {
		neighbors, err := g.Neighbors(id)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		for _, nb := range neighbors {
			edges = append(edges, [2]string{id, nb})
		}
	}

	info := GraphInfo{
		Name:         src.Name,
		Nodes:        nodes,
		Edges:        edges,
		Weights:      g.Edges(),
		Components:   g.Components(),
		InitialState: src.Start,
		GoalState:    src.Goal,
	}
	if hops, reachable, err := g.HopDistance(src.Start, src.Goal); err == nil && reachable {
		info.GoalHops = &hops
	}

	writeJSON(w, r, http.StatusOK, info)
}

func (s *Server) handleGraphStructure(w http.ResponseWriter, r *http.Request) {
	src, ok := s.current(w, r)
	if !ok {
		return
	}
	g := src.Graph

	weights := make(map[string]float64)
	for _, e := range g.Edges() {
		weights[weightKey(e.A, e.B)] = e.Weight
		weights[weightKey(e.B, e.A)] = e.Weight
	}

	writeJSON(w, r, http.StatusOK, GraphStructure{
		Graph:        g.Adjacency(),
		Order:        g.Nodes(),
		Weights:      weights,
		InitialState: src.Start,
		GoalState:    src.Goal,
	})
}

// parseTraversal reads and validates the query. Missing endpoints fall back
// to the graph's defaults. Failures wrap bfs.ErrInvalidInput.
func (s *Server) parseTraversal(r *http.Request, src *graphfile.Source) (traversalRequest, error) {
	q := r.URL.Query()
	req := traversalRequest{
		Start: strings.TrimSpace(q.Get("start")),
		Goal:  strings.TrimSpace(q.Get("goal")),
	}
	if req.Start == "" {
		req.Start = src.Start
	}
	if req.Goal == "" {
		req.Goal = src.Goal
	}
	if raw := q.Get("interval"); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("%w: interval %q is not a number of milliseconds", bfs.ErrInvalidInput, raw)
		}
		req.Interval = ms
	}

	if err := s.validate.Struct(req); err != nil {
		return req, fmt.Errorf("%w: %s", bfs.ErrInvalidInput, describeValidation(err))
	}
	return req, nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "nefield":
			msgs = append(msgs, "start and goal must differ")
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("%s must be within [50, 60000]", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// traverse runs one traversal against src, records its metrics and logs
// every step at trace level.
func (s *Server) traverse(ctx context.Context, src *graphfile.Source, start, goal string) (*bfs.Result, error) {
	began := time.Now()
	res, err := s.search(src.Graph, start, goal)
	metrics.ObserveTraversal(res, err, time.Since(began))
	if err != nil {
		return nil, err
	}
	if !logging.Logger().Enabled(ctx, logging.LevelTrace) {
		return res, nil
	}
	for _, st := range res.Steps {
		logging.TraceContext(ctx, "traversal step",
			"graph", src.Name,
			"step", st.Step,
			"action", string(st.Action),
			"expanded", st.ExpandedNodes,
		)
	}
	return res, nil
}

func statusFor(err error) int {
	if errors.Is(err, bfs.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) handleRunBFS(w http.ResponseWriter, r *http.Request) {
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

	res, err := s.traverse(r.Context(), src, req.Start, req.Goal)
	if err != nil {
		s.failTraversal(w, r, req, err)
		return
	}

	logging.DebugContext(r.Context(), "traversal finished",
		"graph", src.Name,
		"start", req.Start,
		"goal", req.Goal,
		"found", res.Found,
		"steps", res.TotalSteps,
	)
	writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) failTraversal(w http.ResponseWriter, r *http.Request, req traversalRequest, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.ErrorContext(r.Context(), "traversal failed", "start", req.Start, "goal", req.Goal, "error", err)
	}
	writeError(w, r, status, err)
}
