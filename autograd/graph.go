// Package autograd implements a scalar reverse-mode automatic differentiation
// engine. Values live in a Graph arena and are referenced by small handles;
// every operation appends exactly one node and Backward walks the nodes
// reachable from a root in reverse topological order.
package autograd

import "fmt"

// noParent marks an unused parent slot.
const noParent = -1

// node is one arena entry.
type node struct {
	data     float64
	grad     float64
	op       Op
	parents  [2]int
	exponent float64 // only meaningful for OpPowConst
	label    string
	gen      uint64
}

func (n *node) parentIDs() []int {
	switch {
	case n.parents[0] == noParent:
		return nil
	case n.parents[1] == noParent:
		return n.parents[:1]
	default:
		return n.parents[:2]
	}
}

// Logger defines the logging interface. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Graph is an append-only arena of computation nodes.
// A Graph is not safe for concurrent use.
type Graph struct {
	nodes  []node
	gen    uint64 // bumped by Truncate so reused slots reject old handles
	logger Logger
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// SetLogger sets the logger for the graph.
func (g *Graph) SetLogger(logger Logger) {
	g.logger = logger
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Truncate drops every node at index n or above. Handles to dropped nodes
// become stale. Typical use is to keep parameters and discard the expression
// built by a training step.
func (g *Graph) Truncate(n int) {
	if n < 0 || n > len(g.nodes) {
		panic(fmt.Sprintf("autograd: truncate to %d out of range [0, %d]", n, len(g.nodes)))
	}
	clear(g.nodes[n:])
	g.nodes = g.nodes[:n]
	g.gen++
}

// ZeroGrad resets the gradient of every node in the graph.
func (g *Graph) ZeroGrad() {
	for i := range g.nodes {
		g.nodes[i].grad = 0
	}
}

// Leaf creates a new leaf value.
func (g *Graph) Leaf(data float64) Value {
	return g.push(node{data: data, op: OpLeaf, parents: [2]int{noParent, noParent}})
}

// Labeled creates a new leaf value carrying a label.
func (g *Graph) Labeled(data float64, label string) Value {
	v := g.Leaf(data)
	g.nodes[v.id].label = label
	return v
}

// Leaves creates one leaf per input, in order.
func (g *Graph) Leaves(data ...float64) []Value {
	out := make([]Value, len(data))
	for i, d := range data {
		out[i] = g.Leaf(d)
	}
	return out
}

func (g *Graph) push(n node) Value {
	n.gen = g.gen
	g.nodes = append(g.nodes, n)
	return Value{g: g, id: len(g.nodes) - 1, gen: g.gen}
}

func (g *Graph) unary(op Op, data float64, x Value) Value {
	return g.push(node{data: data, op: op, parents: [2]int{x.id, noParent}})
}

func (g *Graph) binary(op Op, data float64, l, r Value) Value {
	return g.push(node{data: data, op: op, parents: [2]int{l.id, r.id}})
}
