package autograd

import "fmt"

// Var is a handle to a scalar node on a tape. It is a small value type;
// copies refer to the same node.
type Var struct {
	tape *Tape
	slot int
	id   NodeID
}

func (v Var) get() *node {
	if v.tape == nil {
		panic("autograd: use of zero Var")
	}
	if v.slot >= len(v.tape.nodes) || v.tape.nodes[v.slot].id != v.id {
		panic(fmt.Sprintf("autograd: node %d no longer on tape (rewound)", v.id))
	}
	return &v.tape.nodes[v.slot]
}

// Valid reports whether v refers to a live node.
func (v Var) Valid() bool {
	return v.tape != nil && v.slot < len(v.tape.nodes) && v.tape.nodes[v.slot].id == v.id
}

// Tape returns the tape owning v.
func (v Var) Tape() *Tape { return v.tape }

// ID returns the node's process-unique identity.
func (v Var) ID() NodeID { return v.id }

// Value returns the node's current value.
func (v Var) Value() float64 { return v.get().value }

// SetValue overwrites the node's value in place. Only parameter updates
// should do this; operators always create new nodes.
func (v Var) SetValue(x float64) { v.get().value = x }

// AddValue adds delta to the node's value in place.
func (v Var) AddValue(delta float64) { v.get().value += delta }

// Op returns the operator that produced v. Leaves report OpNone.
func (v Var) Op() Op { return v.get().op }

// IsLeaf reports whether v was created without an operator.
func (v Var) IsLeaf() bool { return v.get().op.Kind == OpNone }

// Operands returns the nodes v was computed from, in order.
func (v Var) Operands() []Var {
	n := v.get()
	if len(n.operands) == 0 {
		return nil
	}
	out := make([]Var, len(n.operands))
	for i, s := range n.operands {
		out[i] = v.tape.at(s)
	}
	return out
}

// Grad returns d(root)/d(v) as accumulated by root.Backward().
// It is 0 when v was never reached from root.
func (v Var) Grad(root Var) float64 {
	return v.get().grads.Get(root.id)
}

// GradMap returns a copy of every gradient recorded on v.
func (v Var) GradMap() GradMap {
	return v.get().grads.Clone()
}

// ClearGrads drops every gradient recorded on v.
func (v Var) ClearGrads() {
	v.get().grads.Clear()
}

func (v Var) String() string {
	if !v.Valid() {
		return "Var(invalid)"
	}
	n := v.get()
	if n.op.Kind == OpNone {
		return fmt.Sprintf("Var(id=%d, value=%g)", n.id, n.value)
	}
	return fmt.Sprintf("Var(id=%d, value=%g, op=%s)", n.id, n.value, n.op)
}

// Values returns the current values of vs.
func Values(vs []Var) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = v.Value()
	}
	return out
}

// ClearGrads clears the gradient maps of every var in vs.
func ClearGrads(vs []Var) {
	for _, v := range vs {
		v.ClearGrads()
	}
}
