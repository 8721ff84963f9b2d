package bfs

import (
	"errors"
	"slices"
)

// Sentinel errors for traversal.
var (
	// ErrInvalidInput is returned when start or goal is not in the graph, or
	// when they are equal. It signals a bad request.
	ErrInvalidInput = errors.New("bfs: invalid input")

	// ErrInternal wraps graph consistency failures hit during a traversal.
	// It signals a malformed graph, not a bad request.
	ErrInternal = errors.New("bfs: internal error")
)

// Action is the kind of event a Step records.
type Action string

const (
	ActionStart    Action = "start"
	ActionExpand   Action = "expand"
	ActionFound    Action = "found"
	ActionNotFound Action = "not_found"
)

// Terminal reports whether the action ends a traversal.
func (a Action) Terminal() bool {
	return a == ActionFound || a == ActionNotFound
}

// Path is a simple walk from the start node. Paths placed in the frontier are
// never modified; Extend returns a new Path.
type Path []string

// Last returns the node the path ends at.
func (p Path) Last() string {
	return p[len(p)-1]
}

// Extend returns a copy of p with node appended.
func (p Path) Extend(node string) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, node)
}

// Edges returns the number of edges on the path.
func (p Path) Edges() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Step is an immutable snapshot of the traversal state after one event.
type Step struct {
	Step          int      `json:"step"` // 1-based
	Action        Action   `json:"action"`
	Description   string   `json:"description"`
	CurrentNode   *string  `json:"current_node"` // nil for not_found
	ExpandedNodes []string `json:"expanded_nodes"`
	Visited       []string `json:"visited"` // discovery order
	Queue         []Path   `json:"queue"`
}

// Current returns the current node and whether the step has one.
func (s Step) Current() (string, bool) {
	if s.CurrentNode == nil {
		return "", false
	}
	return *s.CurrentNode, true
}

// clone deep-copies every slice so the returned Step shares no memory with s.
func (s Step) clone() Step {
	out := s
	if s.CurrentNode != nil {
		node := *s.CurrentNode
		out.CurrentNode = &node
	}
	out.ExpandedNodes = cloneStrings(s.ExpandedNodes)
	out.Visited = cloneStrings(s.Visited)
	out.Queue = make([]Path, len(s.Queue))
	for i, p := range s.Queue {
		out.Queue[i] = Path(cloneStrings(p))
	}
	return out
}

// cloneStrings copies in, turning nil into an empty slice so snapshots
// serialize as [] rather than null.
func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}

// Result is the outcome of one traversal.
type Result struct {
	Steps      []Step  `json:"steps"`
	Found      bool    `json:"found"`
	Path       Path    `json:"path"` // nil when not found
	TotalSteps int     `json:"total_steps"`
	PathCost   float64 `json:"path_cost"` // informational, sum of declared weights
}

// Final returns the last recorded step.
func (r *Result) Final() Step {
	return r.Steps[len(r.Steps)-1]
}
