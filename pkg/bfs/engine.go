package bfs

import (
	"fmt"
	"strings"
)

// Graph is the read-only view of a graph that a traversal needs.
// *graph.Graph satisfies it.
type Graph interface {
	HasNode(id string) bool
	Neighbors(id string) ([]string, error)
	PathWeight(path []string) (float64, error)
}

// walker holds the private state of one traversal.
type walker struct {
	graph    Graph
	start    string
	goal     string
	frontier []Path
	visited  map[string]bool
	order    []string // visited nodes in discovery order
	recorder *Recorder
	solution Path
}

// Traverse runs breadth-first search over g from start toward goal and
// returns every recorded step together with the outcome.
//
// Nodes are marked visited when they are discovered, and the goal test is
// applied at discovery: the step that expands the goal's parent is recorded
// as ActionFound and ends the search. Neighbors are expanded in the order g
// reports them, which makes the step sequence reproducible.
//
// Returns ErrInvalidInput when start or goal is missing or when they are
// equal, and ErrInternal when g fails a lookup during the search.
func Traverse(g Graph, start, goal string) (*Result, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: graph is nil", ErrInvalidInput)
	}
	if !g.HasNode(start) {
		return nil, fmt.Errorf("%w: start node %q not in graph", ErrInvalidInput, start)
	}
	if !g.HasNode(goal) {
		return nil, fmt.Errorf("%w: goal node %q not in graph", ErrInvalidInput, goal)
	}
	if start == goal {
		return nil, fmt.Errorf("%w: start and goal are both %q", ErrInvalidInput, start)
	}

	w := &walker{
		graph:    g,
		start:    start,
		goal:     goal,
		visited:  make(map[string]bool),
		recorder: NewRecorder(),
	}
	if err := w.run(); err != nil {
		return nil, err
	}
	return assemble(g, w.recorder, w.solution)
}

// run drives the search loop and records one step per dequeue.
func (w *walker) run() error {
	w.discover(Path{w.start})
	w.record(ActionStart, &w.start, nil,
		fmt.Sprintf("Initialize the queue with the start node [%s]", w.start))

	for len(w.frontier) > 0 {
		p := w.dequeue()
		current := p.Last()

		neighbors, err := w.graph.Neighbors(current)
		if err != nil {
			return fmt.Errorf("%w: expanding %q: %w", ErrInternal, current, err)
		}

		expanded := make([]string, 0, len(neighbors))
		for _, n := range neighbors {
			if w.visited[n] {
				continue
			}
			child := p.Extend(n)
			w.discover(child)
			expanded = append(expanded, n)

			if n == w.goal {
				w.solution = child
				w.record(ActionFound, &current, expanded,
					fmt.Sprintf("Expand %s → generate: %s; goal %s found! Path: %s",
						current, formatNodes(expanded), w.goal, formatPath(child)))
				return nil
			}
		}

		w.record(ActionExpand, &current, expanded, describeExpand(current, expanded))
	}

	w.record(ActionNotFound, nil, nil,
		fmt.Sprintf("Queue is empty; goal %s is not reachable from %s", w.goal, w.start))
	return nil
}

// discover marks the path's last node visited and appends the path to the frontier.
func (w *walker) discover(p Path) {
	node := p.Last()
	w.visited[node] = true
	w.order = append(w.order, node)
	w.frontier = append(w.frontier, p)
}

// dequeue pops the head of the frontier.
func (w *walker) dequeue() Path {
	p := w.frontier[0]
	w.frontier = w.frontier[1:]
	return p
}

// record snapshots the live state. The recorder copies everything it is given.
func (w *walker) record(action Action, current *string, expanded []string, description string) {
	w.recorder.Record(Step{
		Action:        action,
		Description:   description,
		CurrentNode:   current,
		ExpandedNodes: expanded,
		Visited:       w.order,
		Queue:         w.frontier,
	})
}

func describeExpand(current string, expanded []string) string {
	if len(expanded) == 0 {
		return fmt.Sprintf("Expand %s → no new nodes, every neighbor was already discovered", current)
	}
	return fmt.Sprintf("Expand %s → generate: %s", current, formatNodes(expanded))
}

func formatNodes(nodes []string) string {
	return "[" + strings.Join(nodes, ", ") + "]"
}

func formatPath(p Path) string {
	return strings.Join(p, " → ")
}
