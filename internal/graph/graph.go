package graph

import (
	"slices"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
)

// Graph is an ordered set of nodes with DependsOn edges.
type Graph struct {
	nodes map[ID]*Node
	order []ID
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[ID]*Node)}
}

// Add inserts a node. Duplicate ids are rejected.
func (g *Graph) Add(n *Node) error {
	if n == nil || n.ID == "" {
		return integrityf("node without id")
	}
	if _, exists := g.nodes[n.ID]; exists {
		return integrityf("duplicate node %q", n.ID)
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id ID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Validate checks that every dependency is a node of the graph and that the
// graph is acyclic.
func (g *Graph) Validate() error {
	_, err := g.dag()
	return err
}

// ApplyWaves groups nodes into waves: every dependency of a node is in an
// earlier wave, so a wave may be applied concurrently once the previous one
// completed.
func (g *Graph) ApplyWaves() ([][]*Node, error) {
	d, err := g.dag()
	if err != nil {
		return nil, err
	}

	levels, err := d.Levels()
	if err != nil {
		return nil, &GraphIntegrityError{Reason: "cannot order nodes", Err: err}
	}

	waves := make([][]*Node, 0, len(levels))
	for _, level := range levels {
		wave := make([]*Node, 0, len(level))
		for _, id := range level {
			wave = append(wave, g.nodes[id])
		}
		waves = append(waves, wave)
	}
	return waves, nil
}

// DestroyWaves is ApplyWaves reversed: dependents go before their
// dependencies.
func (g *Graph) DestroyWaves() ([][]*Node, error) {
	waves, err := g.ApplyWaves()
	if err != nil {
		return nil, err
	}
	slices.Reverse(waves)
	return waves, nil
}

// ApplyOrder flattens ApplyWaves into a single sequence.
func (g *Graph) ApplyOrder() ([]*Node, error) {
	waves, err := g.ApplyWaves()
	if err != nil {
		return nil, err
	}

	out := make([]*Node, 0, g.Len())
	for _, wave := range waves {
		out = append(out, wave...)
	}
	return out, nil
}

// Protected returns the nodes marked Protect, in insertion order.
func (g *Graph) Protected() []*Node {
	var out []*Node
	for _, n := range g.Nodes() {
		if n.Protect {
			out = append(out, n)
		}
	}
	return out
}

func (g *Graph) dag() (*DirectedAcyclicGraph[ID], error) {
	d := NewDirectedAcyclicGraph[ID]()
	for i, id := range g.order {
		if err := d.AddVertex(id, i); err != nil {
			return nil, &GraphIntegrityError{Reason: "duplicate node", Err: err}
		}
	}

	for _, id := range g.order {
		n := g.nodes[id]
		for _, dep := range n.DependsOn {
			if _, ok := g.nodes[dep]; !ok {
				return nil, integrityf("node %q depends on %q which is not part of the graph", id, dep)
			}
		}
		if err := d.AddDependencies(id, n.DependsOn); err != nil {
			return nil, &GraphIntegrityError{Reason: "invalid dependency of " + string(id), Err: err}
		}
	}

	return d, nil
}

// Resource is an object to place in the graph under a kind.
type Resource struct {
	Kind   Kind
	Object *unstructured.Unstructured
}

// Assemble builds a validated graph from resources, attaching the fixed
// dependency edges of each kind and the protect flag to every node. It fails
// with a *GraphIntegrityError when a required dependency is missing.
func Assemble(resources []Resource, protect bool) (*Graph, error) {
	sorted := slices.Clone(resources)
	slices.SortStableFunc(sorted, func(a, b Resource) int {
		return kindOrder(a.Kind) - kindOrder(b.Kind)
	})

	g := New()
	for _, r := range sorted {
		if r.Object == nil {
			return nil, integrityf("resource of kind %s has no object", r.Kind)
		}

		deps := DependenciesOf(r.Kind)
		dependsOn := make([]ID, 0, len(deps))
		for _, dep := range deps {
			dependsOn = append(dependsOn, IDFor(dep))
		}

		n := &Node{
			ID:        IDFor(r.Kind),
			Kind:      r.Kind,
			Name:      r.Object.GetName(),
			Namespace: r.Object.GetNamespace(),
			DependsOn: dependsOn,
			Protect:   protect,
			Object:    r.Object,
		}
		if err := g.Add(n); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
