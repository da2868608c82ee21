// SPDX-License-Identifier: MPL-2.0

// Package graph provides directed acyclic graph operations for ordering task
// dependencies. The execution pipeline builds a graph from task deps, takes
// the closure of the requested task, and runs the result in topological order.
package graph

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing
	// topological ordering.
	CycleError struct {
		// Cycle contains the nodes involved in the cycle (enough to
		// identify the problem, not necessarily a minimal cycle).
		Cycle []string
	}

	// UnknownNodeError indicates a closure request for a node that was
	// never added to the graph.
	UnknownNodeError struct {
		Node string
	}

	// Graph is a directed graph for topological sorting.
	// An edge from A to B means A must complete before B starts.
	Graph struct {
		// succ maps each node to its outgoing neighbors.
		succ map[string][]string
		// pred maps each node to its incoming neighbors, kept for
		// closure computation.
		pred map[string][]string
		// nodes tracks insertion order for deterministic output.
		nodes []string
		// nodeSet provides O(1) node existence checks.
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("unknown node %q", e.Node)
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		succ:    make(map[string][]string),
		pred:    make(map[string][]string),
		nodeSet: make(map[string]bool),
	}
}

// AddNode adds a node to the graph. Adding an existing node is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to, meaning "from" must run before
// "to". Both nodes are implicitly added if they don't exist.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.succ[from] = append(g.succ[from], to)
	g.pred[to] = append(g.pred[to], from)
}

// Has reports whether the node exists in the graph.
func (g *Graph) Has(name string) bool {
	return g.nodeSet[name]
}

// TopologicalSort returns a valid execution order using Kahn's algorithm.
// Returns CycleError if the graph contains a cycle. The order is
// deterministic: nodes at the same topological level appear in the order
// they were first added.
func (g *Graph) TopologicalSort() ([]string, error) {
	return g.sortSubset(g.nodes)
}

// Closure returns the nodes that must run for target to run (its transitive
// predecessors plus target itself), in a valid execution order.
// Returns UnknownNodeError if target is not in the graph and CycleError if
// the closure contains a cycle.
func (g *Graph) Closure(target string) ([]string, error) {
	if !g.nodeSet[target] {
		return nil, &UnknownNodeError{Node: target}
	}

	needed := map[string]bool{target: true}
	stack := []string{target}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, dep := range g.pred[node] {
			if !needed[dep] {
				needed[dep] = true
				stack = append(stack, dep)
			}
		}
	}

	// Filter insertion order down to the needed set so ties stay deterministic.
	subset := make([]string, 0, len(needed))
	for _, node := range g.nodes {
		if needed[node] {
			subset = append(subset, node)
		}
	}

	return g.sortSubset(subset)
}

// sortSubset runs Kahn's algorithm restricted to the given nodes.
// Edges to nodes outside the subset are ignored.
func (g *Graph) sortSubset(subset []string) ([]string, error) {
	if len(subset) == 0 {
		return nil, nil
	}

	inSubset := make(map[string]bool, len(subset))
	for _, node := range subset {
		inSubset[node] = true
	}

	inDegree := make(map[string]int, len(subset))
	for _, node := range subset {
		inDegree[node] = 0
	}
	for _, node := range subset {
		for _, next := range g.succ[node] {
			if inSubset[next] {
				inDegree[next]++
			}
		}
	}

	queue := make([]string, 0, len(subset))
	for _, node := range subset {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, next := range g.succ[node] {
			if !inSubset[next] {
				continue
			}
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(result) != len(subset) {
		// Remaining nodes with non-zero in-degree form the cycle.
		var cycleNodes []string
		for _, node := range subset {
			if inDegree[node] > 0 {
				cycleNodes = append(cycleNodes, node)
			}
		}
		return nil, &CycleError{Cycle: cycleNodes}
	}

	return result, nil
}
