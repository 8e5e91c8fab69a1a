package autograd

// Backward computes d(v)/d(n) for every node n reachable from v and adds it
// to n's gradient map under v's ID.
//
// Gradients are never reset here: each pass adds exactly one more d(v)/d(n),
// so running Backward twice on an uncleared graph doubles every entry.
// Clear the gradients you care about between passes.
func (v Var) Backward() {
	v.get()
	t := v.tape
	order := t.topo(v.slot)

	// The pass runs in a scratch buffer indexed by slot so that totals
	// left by earlier passes are not propagated again.
	pass := make([]float64, v.slot+1)
	pass[v.slot] = 1

	// Reverse post-order: every consumer runs before the nodes it reads,
	// so a node's gradient is complete when its own rule fires.
	for i := len(order) - 1; i >= 0; i-- {
		applyBackward(t, order[i], pass)
	}
	for _, s := range order {
		t.nodes[s].grads.Add(v.id, pass[s])
	}
}

// Topo returns every node reachable from v, each after all of its operands.
func (v Var) Topo() []Var {
	v.get()
	order := v.tape.topo(v.slot)
	out := make([]Var, len(order))
	for i, s := range order {
		out[i] = v.tape.at(s)
	}
	return out
}

// topo is a depth-first post-order walk from root. It is iterative so that
// long chains do not grow the goroutine stack.
func (t *Tape) topo(root int) []int {
	// Operands always sit at lower slots, so root+1 bounds the visited set.
	visited := make([]bool, root+1)
	var order []int

	type frame struct {
		slot int
		next int
	}
	stack := []frame{{slot: root}}
	visited[root] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		operands := t.nodes[top.slot].operands
		if top.next < len(operands) {
			child := operands[top.next]
			top.next++
			if !visited[child] {
				visited[child] = true
				stack = append(stack, frame{slot: child})
			}
			continue
		}
		order = append(order, top.slot)
		stack = stack[:len(stack)-1]
	}
	return order
}
