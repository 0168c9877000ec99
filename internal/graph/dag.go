package graph

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Vertex is a node of a DirectedAcyclicGraph.
type Vertex[T cmp.Ordered] struct {
	ID T
	// Order breaks ties between vertices that become ready together.
	Order int
	// DependsOn holds the vertices that must come before this one.
	DependsOn map[T]struct{}
}

// DirectedAcyclicGraph is a dependency graph that refuses cycles.
type DirectedAcyclicGraph[T cmp.Ordered] struct {
	Vertices map[T]*Vertex[T]
}

// NewDirectedAcyclicGraph returns an empty graph.
func NewDirectedAcyclicGraph[T cmp.Ordered]() *DirectedAcyclicGraph[T] {
	return &DirectedAcyclicGraph[T]{Vertices: make(map[T]*Vertex[T])}
}

// AddVertex adds a vertex. Adding the same id twice is an error.
func (d *DirectedAcyclicGraph[T]) AddVertex(id T, order int) error {
	if _, exists := d.Vertices[id]; exists {
		return fmt.Errorf("vertex %v already exists", id)
	}
	d.Vertices[id] = &Vertex[T]{ID: id, Order: order, DependsOn: make(map[T]struct{})}
	return nil
}

// AddDependencies records that from depends on every id in dependencies.
// Unknown vertices, self references and edges that would close a cycle are
// rejected; a rejected call leaves the graph unchanged.
func (d *DirectedAcyclicGraph[T]) AddDependencies(from T, dependencies []T) error {
	vertex, ok := d.Vertices[from]
	if !ok {
		return fmt.Errorf("vertex %v does not exist", from)
	}

	var added []T
	for _, dep := range dependencies {
		if dep == from {
			return fmt.Errorf("vertex %v cannot depend on itself", from)
		}
		if _, ok := d.Vertices[dep]; !ok {
			return fmt.Errorf("vertex %v depends on unknown vertex %v", from, dep)
		}
		if _, exists := vertex.DependsOn[dep]; !exists {
			vertex.DependsOn[dep] = struct{}{}
			added = append(added, dep)
		}
	}

	if cyclic, cycle := d.hasCycle(); cyclic {
		for _, dep := range added {
			delete(vertex.DependsOn, dep)
		}
		return &CycleError[T]{Cycle: cycle}
	}

	return nil
}

// TopologicalSort returns every vertex so that dependencies come first.
// The result is the concatenation of Levels.
func (d *DirectedAcyclicGraph[T]) TopologicalSort() ([]T, error) {
	levels, err := d.Levels()
	if err != nil {
		return nil, err
	}

	order := make([]T, 0, len(d.Vertices))
	for _, level := range levels {
		order = append(order, level...)
	}
	return order, nil
}

// Levels groups vertices into waves. Every dependency of a vertex lies in an
// earlier wave, and vertices inside a wave are sorted by Order, then ID.
func (d *DirectedAcyclicGraph[T]) Levels() ([][]T, error) {
	if cyclic, cycle := d.hasCycle(); cyclic {
		return nil, &CycleError[T]{Cycle: cycle}
	}

	remaining := make(map[T]int, len(d.Vertices))
	dependents := make(map[T][]T, len(d.Vertices))
	var ready []T
	for id, v := range d.Vertices {
		remaining[id] = len(v.DependsOn)
		for dep := range v.DependsOn {
			dependents[dep] = append(dependents[dep], id)
		}
		if len(v.DependsOn) == 0 {
			ready = append(ready, id)
		}
	}

	var levels [][]T
	for len(ready) > 0 {
		d.sortByOrder(ready)
		levels = append(levels, ready)

		var next []T
		for _, id := range ready {
			for _, dependent := range dependents[id] {
				remaining[dependent]--
				if remaining[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		ready = next
	}

	return levels, nil
}

func (d *DirectedAcyclicGraph[T]) sortByOrder(ids []T) {
	slices.SortFunc(ids, func(a, b T) int {
		if c := cmp.Compare(d.Vertices[a].Order, d.Vertices[b].Order); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
}

// hasCycle runs a depth-first search and returns one cycle if found.
func (d *DirectedAcyclicGraph[T]) hasCycle() (bool, []T) {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[T]int, len(d.Vertices))
	var stack []T

	ids := make([]T, 0, len(d.Vertices))
	for id := range d.Vertices {
		ids = append(ids, id)
	}
	d.sortByOrder(ids)

	var visit func(id T) []T
	visit = func(id T) []T {
		state[id] = visiting
		stack = append(stack, id)

		deps := make([]T, 0, len(d.Vertices[id].DependsOn))
		for dep := range d.Vertices[id].DependsOn {
			deps = append(deps, dep)
		}
		d.sortByOrder(deps)

		for _, dep := range deps {
			switch state[dep] {
			case visiting:
				start := slices.Index(stack, dep)
				cycle := slices.Clone(stack[start:])
				return append(cycle, dep)
			case unvisited:
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[id] = done
		return nil
	}

	for _, id := range ids {
		if state[id] == unvisited {
			if cycle := visit(id); cycle != nil {
				return true, cycle
			}
		}
	}
	return false, nil
}

// CycleError reports a dependency cycle, listing the vertices along it with
// the first vertex repeated at the end.
type CycleError[T cmp.Ordered] struct {
	Cycle []T
}

func (e *CycleError[T]) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, id := range e.Cycle {
		parts[i] = fmt.Sprint(id)
	}
	return "graph contains a cycle: " + strings.Join(parts, " -> ")
}

// AsCycleError returns the CycleError in err's chain, or nil.
func AsCycleError[T cmp.Ordered](err error) *CycleError[T] {
	var ce *CycleError[T]
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}
