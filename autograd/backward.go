package autograd

import "fmt"

// frame is one entry of the explicit DFS stack.
type frame struct {
	id   int
	next int // next parent slot to visit
}

// topoOrder returns the ids reachable from root in DFS postorder, so every
// node comes after all of its parents and root comes last. The walk uses an
// explicit stack so deep chains cannot overflow the goroutine stack.
func (g *Graph) topoOrder(root int) []int {
	visited := make([]bool, len(g.nodes))
	order := make([]int, 0, root+1)
	stack := []frame{{id: root}}
	visited[root] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		parents := g.nodes[top.id].parentIDs()
		if top.next < len(parents) {
			p := parents[top.next]
			top.next++
			if !visited[p] {
				visited[p] = true
				stack = append(stack, frame{id: p})
			}
			continue
		}
		order = append(order, top.id)
		stack = stack[:len(stack)-1]
	}
	return order
}

func (g *Graph) handle(id int) Value {
	return Value{g: g, id: id, gen: g.nodes[id].gen}
}

// TopologicalOrder returns every value reachable from v, parents before
// children, with v last.
func (v Value) TopologicalOrder() ([]Value, error) {
	if err := v.check(); err != nil {
		return nil, err
	}
	ids := v.g.topoOrder(v.id)
	out := make([]Value, len(ids))
	for i, id := range ids {
		out[i] = v.g.handle(id)
	}
	return out, nil
}

// Backward computes the gradients for the graph using topological sort.
// The root gradient is set to 1; every other gradient accumulates, so call
// ZeroGrad between passes if that is not wanted.
func (v Value) Backward() error {
	return v.BackwardWithHook(nil)
}

// BackwardWithHook is Backward, calling hook with each node right after the
// node's backward rule has run.
func (v Value) BackwardWithHook(hook func(Value)) error {
	if err := v.check(); err != nil {
		return fmt.Errorf("backward: %w", err)
	}
	g := v.g
	order := g.topoOrder(v.id)

	g.nodes[v.id].grad = 1.0
	// Go in reverse order of topological sort
	for i := len(order) - 1; i >= 0; i-- {
		n := &g.nodes[order[i]]
		backwardRules[n.op](g.nodes, n)
		if hook != nil {
			hook(g.handle(order[i]))
		}
	}

	if g.logger != nil {
		g.logger.Debug("backward pass complete", "root", v.id, "nodes", len(order), "graph_size", len(g.nodes))
	}
	return nil
}
