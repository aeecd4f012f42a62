package orchestration

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/VladislavFirsov/staffplan/contracts"
)

// Node colors for the depth-first traversal.
const (
	white = iota // unvisited
	gray         // on the current path
	black        // finished
)

// dependencyResolver implements contracts.DependencyResolver.
// It builds the precedence graph from task declarations and linearizes it
// into layers: a task's layer is one more than the deepest of its dependencies.
//
// Thread-safety: The resolver is stateless and thread-safe.
type dependencyResolver struct{}

// NewDependencyResolver creates a new DependencyResolver.
func NewDependencyResolver() contracts.DependencyResolver {
	return &dependencyResolver{}
}

// BuildGraph constructs the dependency graph for a list of tasks.
// Dependencies that reference no task in the input are recorded in
// GraphNode.Missing and impose no ordering. Empty references are dropped.
// Returns ErrInvalidInput for nil input or duplicate task IDs.
func (dr *dependencyResolver) BuildGraph(tasks []contracts.Task) (*contracts.DependencyGraph, error) {
	// Edge case: nil input
	if tasks == nil {
		return nil, contracts.ErrInvalidInput
	}

	graph := &contracts.DependencyGraph{
		Nodes: make(map[contracts.TaskID]*contracts.GraphNode, len(tasks)),
		Order: make([]contracts.TaskID, 0, len(tasks)),
	}

	for i := range tasks {
		id := tasks[i].ID
		if _, dup := graph.Nodes[id]; dup {
			return nil, fmt.Errorf("duplicate task %q: %w", id, contracts.ErrInvalidInput)
		}
		graph.Nodes[id] = &contracts.GraphNode{ID: id, Index: i}
		graph.Order = append(graph.Order, id)
	}

	for i := range tasks {
		task := &tasks[i]
		node := graph.Nodes[task.ID]
		seen := make(map[contracts.TaskID]bool, len(task.Deps))

		for _, depID := range task.Deps {
			if depID == "" || seen[depID] {
				continue
			}
			seen[depID] = true

			depNode, ok := graph.Nodes[depID]
			if !ok {
				node.Missing = append(node.Missing, depID)
				continue
			}
			node.Deps = append(node.Deps, depID)
			// Forward edges accumulate in input order of the dependent.
			depNode.Next = append(depNode.Next, task.ID)
		}
	}

	return graph, nil
}

// Resolve returns the tasks in execution order.
//
// Order: layer ascending, then priority descending, then input position.
// Invariant: every present dependency appears strictly before its dependent.
// Returns *CycleError naming the task at which the cycle was detected.
// A task depending on itself is a cycle.
func (dr *dependencyResolver) Resolve(tasks []contracts.Task) (contracts.ExecutionOrder, error) {
	graph, err := dr.BuildGraph(tasks)
	if err != nil {
		return nil, err
	}

	if err := assignLayers(graph); err != nil {
		return nil, err
	}

	indices := make([]int, len(tasks))
	for i := range indices {
		indices[i] = i
	}
	slices.SortStableFunc(indices, func(a, b int) int {
		na, nb := graph.Nodes[tasks[a].ID], graph.Nodes[tasks[b].ID]
		if c := cmp.Compare(na.Layer, nb.Layer); c != 0 {
			return c
		}
		// Higher priority first.
		if c := cmp.Compare(tasks[b].Priority, tasks[a].Priority); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	order := make(contracts.ExecutionOrder, len(indices))
	for i, idx := range indices {
		order[i] = tasks[idx]
	}
	return order, nil
}

// assignLayers runs a three-color DFS over dependency edges, visiting roots in
// input order, and sets each node's Layer in post-order.
func assignLayers(graph *contracts.DependencyGraph) error {
	colors := make(map[contracts.TaskID]int, len(graph.Nodes))

	var visit func(id contracts.TaskID) error
	visit = func(id contracts.TaskID) error {
		colors[id] = gray
		node := graph.Nodes[id]

		layer := 0
		for _, depID := range node.Deps {
			switch colors[depID] {
			case gray:
				// Back edge: the dependency is on the current path.
				return &contracts.CycleError{TaskID: depID}
			case white:
				if err := visit(depID); err != nil {
					return err
				}
			}
			if l := graph.Nodes[depID].Layer + 1; l > layer {
				layer = l
			}
		}

		node.Layer = layer
		colors[id] = black
		return nil
	}

	for _, id := range graph.Order {
		if colors[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}
