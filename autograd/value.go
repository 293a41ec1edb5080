package autograd

import "fmt"

// Value is a handle to a scalar node in a Graph.
// Values are cheap to copy; the zero Value is detached.
type Value struct {
	g   *Graph
	id  int
	gen uint64
}

// Graph returns the graph the value belongs to.
func (v Value) Graph() *Graph {
	return v.g
}

// Data returns the forward value.
func (v Value) Data() float64 {
	return v.node().data
}

// SetData overwrites the forward value. It is meant for updating leaves such
// as parameters; nodes already computed from v are not recomputed.
func (v Value) SetData(d float64) {
	v.node().data = d
}

// Grad returns the accumulated gradient.
func (v Value) Grad() float64 {
	return v.node().grad
}

// ZeroGrad resets the gradient to 0.
func (v Value) ZeroGrad() {
	v.node().grad = 0
}

// Op returns the operation that produced the value.
func (v Value) Op() Op {
	return v.node().op
}

// Label returns the value's label, if any.
func (v Value) Label() string {
	return v.node().label
}

// WithLabel sets the label and returns v for chaining.
func (v Value) WithLabel(label string) Value {
	v.node().label = label
	return v
}

// Exponent returns the constant exponent of an OpPowConst node.
func (v Value) Exponent() float64 {
	return v.node().exponent
}

// Parents returns the values v was computed from. Leaves have none.
func (v Value) Parents() []Value {
	ids := v.node().parentIDs()
	out := make([]Value, len(ids))
	for i, id := range ids {
		out[i] = Value{g: v.g, id: id, gen: v.g.nodes[id].gen}
	}
	return out
}

// IsLeaf reports whether v was created directly rather than by an operation.
func (v Value) IsLeaf() bool {
	return v.node().op == OpLeaf
}

// Same reports whether v and other refer to the same node.
func (v Value) Same(other Value) bool {
	return v.g == other.g && v.id == other.id && v.gen == other.gen
}

// String implements the Stringer interface for pretty printing.
func (v Value) String() string {
	if err := v.check(); err != nil {
		return "Value(<invalid>)"
	}
	n := v.node()
	op := n.op.String()
	if n.op == OpPowConst {
		op = fmt.Sprintf("**%g", n.exponent)
	}
	if n.label != "" {
		return fmt.Sprintf("Value(%s, data=%f, grad=%f, op=%s)", n.label, n.data, n.grad, op)
	}
	return fmt.Sprintf("Value(data=%f, grad=%f, op=%s)", n.data, n.grad, op)
}

// check validates the handle against its graph.
func (v Value) check() error {
	if v.g == nil {
		return ErrDetached
	}
	if v.id < 0 || v.id >= len(v.g.nodes) || v.g.nodes[v.id].gen != v.gen {
		return ErrStaleValue
	}
	return nil
}

func (v Value) node() *node {
	if err := v.check(); err != nil {
		panic(err)
	}
	return &v.g.nodes[v.id]
}

// sameGraph validates both operands and checks they share a graph.
func sameGraph(l, r Value) error {
	if err := l.check(); err != nil {
		return err
	}
	if err := r.check(); err != nil {
		return err
	}
	if l.g != r.g {
		return ErrForeignValue
	}
	return nil
}

func mustSameGraph(l, r Value) {
	if err := sameGraph(l, r); err != nil {
		panic(err)
	}
}
