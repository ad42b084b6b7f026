// Package graph builds the strand-aware contig connectivity graph
// and finds the weakly connected, cyclic pieces of it that look like
// a circular genome.
package graph

import (
	"fmt"
	"strconv"

	"github.com/chloroExtractorTeam/graph-parser/internal/store"
)

// Node is one end of a contig: a sequence id with a strand
type Node struct {
	// Seq is the underlying sequence id
	Seq int

	// Rev is true for the reverse complement strand
	Rev bool
}

// String serializes a node as its decimal sequence id, suffixed
// with the reverse marker for the reverse strand (eg "12" vs "12'").
// This exact encoding is also the vertex ordering tie-break, so it
// must stay stable
func (n Node) String() string {
	if n.Rev {
		return strconv.Itoa(n.Seq) + "'"
	}
	return strconv.Itoa(n.Seq)
}

// Graph is a directed multigraph over oriented contig nodes.
// adjacency is kept as index slices so parallel edges survive
type Graph struct {
	nodes []Node
	index map[Node]int
	out   [][]int
	in    [][]int
}

// New creates an empty contig graph
func New() *Graph {
	return &Graph{index: make(map[Node]int)}
}

// Build creates the connectivity graph from parsed hints. Every name
// in a hint must resolve against the store: an unknown name means the
// input's connectivity is unusable and the whole run should abort
func Build(s *store.Store, hints []store.Hint) (*Graph, error) {
	g := New()

	for _, h := range hints {
		fromID, ok := s.ID(h.From)
		if !ok {
			return nil, fmt.Errorf("connectivity references unknown sequence %s", h.From)
		}
		from := Node{Seq: fromID, Rev: h.FromRev}
		g.add(from)

		for _, t := range h.To {
			toID, ok := s.ID(t.Name)
			if !ok {
				return nil, fmt.Errorf("connectivity references unknown sequence %s", t.Name)
			}
			g.AddEdge(from, Node{Seq: toID, Rev: t.Rev})
		}
	}

	return g, nil
}

// add registers a vertex on first reference and returns its index
func (g *Graph) add(n Node) int {
	if i, ok := g.index[n]; ok {
		return i
	}

	i := len(g.nodes)
	g.index[n] = i
	g.nodes = append(g.nodes, n)
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return i
}

// AddEdge adds a directed edge, creating vertices as needed
func (g *Graph) AddEdge(u, v Node) {
	ui := g.add(u)
	vi := g.add(v)
	g.out[ui] = append(g.out[ui], vi)
	g.in[vi] = append(g.in[vi], ui)
}

// Order is the vertex count
func (g *Graph) Order() int {
	return len(g.nodes)
}

// Size is the edge count, parallel edges included
func (g *Graph) Size() (size int) {
	for _, edges := range g.out {
		size += len(edges)
	}
	return
}

// Nodes lists the graph's vertices in insertion order
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, len(g.nodes))
	copy(nodes, g.nodes)
	return nodes
}

// Has reports whether the vertex is in the graph
func (g *Graph) Has(n Node) bool {
	_, ok := g.index[n]
	return ok
}

// Degree is a vertex's total degree: in plus out, parallel edges
// counted individually. Unknown vertices have degree zero
func (g *Graph) Degree(n Node) int {
	i, ok := g.index[n]
	if !ok {
		return 0
	}
	return len(g.out[i]) + len(g.in[i])
}

// Induced returns the subgraph over exactly the passed vertices:
// the same vertex identities and every original edge whose two
// endpoints are both present
func (g *Graph) Induced(nodes []Node) *Graph {
	sub := New()
	for _, n := range nodes {
		sub.add(n)
	}

	for _, n := range nodes {
		ui := g.index[n]
		for _, vi := range g.out[ui] {
			if sub.Has(g.nodes[vi]) {
				sub.AddEdge(n, g.nodes[vi])
			}
		}
	}

	return sub
}
