package autograd

import (
	"fmt"
	"math"
)

// Op identifies the operation that produced a node.
type Op uint8

const (
	OpLeaf Op = iota
	OpAdd
	OpMul
	OpPow      // base ** exponent, both tracked
	OpPowConst // base ** constant
	OpExp
	OpLog
	OpSin
	OpCos
	OpTan
	OpTanh
	OpReLU
	numOps
)

var opNames = [numOps]string{
	OpLeaf:     "",
	OpAdd:      "+",
	OpMul:      "*",
	OpPow:      "**",
	OpPowConst: "**c",
	OpExp:      "exp",
	OpLog:      "log",
	OpSin:      "sin",
	OpCos:      "cos",
	OpTan:      "tan",
	OpTanh:     "tanh",
	OpReLU:     "ReLU",
}

// String returns the operation tag.
func (op Op) String() string {
	if op < numOps {
		return opNames[op]
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// backwardRule adds the local chain-rule contribution of out into its parents.
// Parents are looked up by index, so a node used twice (a*a) gets both terms.
type backwardRule func(nodes []node, out *node)

// backwardRules is the dispatch table indexed by Op.
var backwardRules = [numOps]backwardRule{
	OpLeaf: func([]node, *node) {},
	OpAdd: func(nodes []node, out *node) {
		nodes[out.parents[0]].grad += out.grad
		nodes[out.parents[1]].grad += out.grad
	},
	OpMul: func(nodes []node, out *node) {
		l, r := &nodes[out.parents[0]], &nodes[out.parents[1]]
		ld, rd := l.data, r.data
		l.grad += rd * out.grad
		r.grad += ld * out.grad
	},
	OpPow: func(nodes []node, out *node) {
		l, r := &nodes[out.parents[0]], &nodes[out.parents[1]]
		ld, rd := l.data, r.data
		l.grad += rd * math.Pow(ld, rd-1) * out.grad
		r.grad += out.data * math.Log(ld) * out.grad
	},
	OpPowConst: func(nodes []node, out *node) {
		if out.exponent == 0 {
			return // x**0 is constant
		}
		x := &nodes[out.parents[0]]
		x.grad += out.exponent * math.Pow(x.data, out.exponent-1) * out.grad
	},
	OpExp: func(nodes []node, out *node) {
		nodes[out.parents[0]].grad += out.data * out.grad
	},
	OpLog: func(nodes []node, out *node) {
		x := &nodes[out.parents[0]]
		x.grad += out.grad / x.data
	},
	OpSin: func(nodes []node, out *node) {
		x := &nodes[out.parents[0]]
		x.grad += math.Cos(x.data) * out.grad
	},
	OpCos: func(nodes []node, out *node) {
		x := &nodes[out.parents[0]]
		x.grad += -math.Sin(x.data) * out.grad
	},
	OpTan: func(nodes []node, out *node) {
		x := &nodes[out.parents[0]]
		sec := 1 / math.Cos(x.data)
		x.grad += sec * sec * out.grad
	},
	OpTanh: func(nodes []node, out *node) {
		nodes[out.parents[0]].grad += (1 - out.data*out.data) * out.grad
	},
	OpReLU: func(nodes []node, out *node) {
		if out.data > 0 {
			nodes[out.parents[0]].grad += out.grad
		}
	},
}
