// Package movegraph compiles a declarative graph of guarded, change-vector
// edges into a single "apply one ply" operator over LDFAs.
package movegraph

import (
	"fmt"

	"github.com/ldfagames/solver/change"
	"github.com/ldfagames/solver/ldfa"
	"github.com/ldfagames/solver/shape"
)

// NodeID identifies a node by its topological position: every edge's To
// must be a strictly larger NodeID than its From, enforced at AddEdge time.
type NodeID int

// Edge is one guarded, change-vector transition between two nodes.
// Pre and Post hold the pre/post guard LDFAs intersected against the
// traveling position set before and after the change is applied.
type Edge struct {
	Name   string
	From   NodeID
	To     NodeID
	Pre    []*ldfa.LDFA
	Change change.Vector
	Post   []*ldfa.LDFA
}

// Graph is an acyclic graph of named nodes built in topological order.
// The conventional source/sink are the nodes named "begin" and "end".
type Graph struct {
	shape     shape.Shape
	names     []string
	nameIndex map[string]NodeID
	edgeNames map[string]struct{}
	outgoing  [][]Edge // outgoing[id] = edges leaving node id
}

// NewGraph creates an empty move graph over s.
func NewGraph(s shape.Shape) *Graph {
	return &Graph{
		shape:     s,
		nameIndex: make(map[string]NodeID),
		edgeNames: make(map[string]struct{}),
	}
}

// Shape returns the shape this graph's guard and image LDFAs are defined
// over.
func (g *Graph) Shape() shape.Shape {
	return g.shape
}

// AddNode appends a new node, returning its id. Node ids are assigned in
// addition order, which is also their topological order.
func (g *Graph) AddNode(name string) (NodeID, error) {
	if _, exists := g.nameIndex[name]; exists {
		return 0, newError(DuplicateName, fmt.Sprintf("AddNode: node %q already exists", name))
	}
	id := NodeID(len(g.names))
	g.names = append(g.names, name)
	g.nameIndex[name] = id
	g.outgoing = append(g.outgoing, nil)
	return id, nil
}

// Node looks up a node by name.
func (g *Graph) Node(name string) (NodeID, error) {
	id, ok := g.nameIndex[name]
	if !ok {
		return 0, newError(UnknownNode, fmt.Sprintf("Node: no node named %q", name))
	}
	return id, nil
}

// Begin returns the conventional source node, named "begin".
func (g *Graph) Begin() (NodeID, error) {
	return g.Node("begin")
}

// End returns the conventional sink node, named "end".
func (g *Graph) End() (NodeID, error) {
	return g.Node("end")
}

// NumNodes returns the number of nodes added so far.
func (g *Graph) NumNodes() int {
	return len(g.names)
}

// NodeName returns the name of the node with the given id.
func (g *Graph) NodeName(id NodeID) string {
	return g.names[id]
}

// AddEdge adds a guarded, change-vector edge from from to to. to must be
// strictly greater than from, which is the construction-time topological-
// order guarantee the rest of the graph relies on; edgeName must be
// unique across the whole graph.
func (g *Graph) AddEdge(edgeName string, from, to NodeID, pre []*ldfa.LDFA, c change.Vector, post []*ldfa.LDFA) error {
	if _, exists := g.edgeNames[edgeName]; exists {
		return newError(DuplicateName, fmt.Sprintf("AddEdge: edge %q already exists", edgeName))
	}
	if int(from) < 0 || int(from) >= len(g.names) || int(to) < 0 || int(to) >= len(g.names) {
		return newError(UnknownNode, "AddEdge: from/to references a node that does not exist")
	}
	if to <= from {
		return newError(OutOfOrder, fmt.Sprintf("AddEdge: edge %q has to (%d) <= from (%d)", edgeName, to, from))
	}
	if err := c.Validate(g.shape); err != nil {
		return wrapError(EvalFailure, "AddEdge: invalid change vector", err)
	}
	g.edgeNames[edgeName] = struct{}{}
	g.outgoing[from] = append(g.outgoing[from], Edge{
		Name: edgeName, From: from, To: to,
		Pre: pre, Change: c, Post: post,
	})
	return nil
}

// Edges returns the edges leaving node id, in the order they were added.
func (g *Graph) Edges(id NodeID) []Edge {
	return g.outgoing[id]
}

// Reverse returns a new graph with every edge's direction, pre/post
// guards, and change descriptor swapped.
// Node ids are renumbered (newID = lastID - oldID) so the strictly-forward
// invariant still holds once direction is swapped. The node named "begin"
// becomes the new topological sink and the node named "end" becomes the
// new source, so their names are swapped along with their positions —
// Begin()/End() must keep resolving to the source/sink respectively, not
// to whichever node originally carried that name. Every other node name
// passes through unchanged.
func (g *Graph) Reverse() *Graph {
	out := NewGraph(g.shape)

	remap := make([]NodeID, len(g.names))
	for old := len(g.names) - 1; old >= 0; old-- {
		name := g.names[old]
		switch name {
		case "begin":
			name = "end"
		case "end":
			name = "begin"
		}
		newID, _ := out.AddNode(name)
		remap[old] = newID
	}

	for from := range g.outgoing {
		for _, e := range g.outgoing[from] {
			newFrom := remap[e.To]
			newTo := remap[e.From]
			_ = out.AddEdge(e.Name, newFrom, newTo, e.Post, e.Change.Reverse(), e.Pre)
		}
	}
	return out
}
