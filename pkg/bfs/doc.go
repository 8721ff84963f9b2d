// Package bfs implements a step-recording breadth-first search used to
// replay the algorithm one event at a time.
//
// Traverse explores the graph over paths rather than bare nodes: the
// frontier is a FIFO queue of Paths from the start node, so the winning path
// needs no parent bookkeeping. Each dequeue produces one Step, a deep copy of
// the frontier, the visited set and the nodes discovered by that expansion.
//
// Step policy
//
//   - Step 1 is "start": the frontier holds [start] and start is visited.
//   - Every dequeue records "expand", with the queue snapshot taken after the
//     dequeued path was removed and its new children appended.
//   - The goal test runs when a node is discovered, not when it is dequeued.
//     When the goal is discovered during an expansion, that expansion is
//     recorded as "found" instead and the search stops. Its current node is
//     therefore the goal's parent, the node being expanded, and the goal
//     itself appears as the last entry of its expanded nodes.
//   - When the frontier runs dry, a final "not_found" step with no current
//     node is recorded.
//
// Edge weights never influence the order of expansion. The returned path is
// a shortest path by edge count; Result.PathCost only reports its weight.
//
// A traversal owns all of its state and never mutates the graph, so any
// number of traversals may share one graph concurrently.
package bfs
