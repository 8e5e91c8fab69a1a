package autograd

import (
	"fmt"
	"sync/atomic"
)

// NodeID identifies a node for the lifetime of the process.
// IDs are never reused, even after a tape rewind.
type NodeID uint64

var lastID atomic.Uint64

func newNodeID() NodeID {
	return NodeID(lastID.Add(1))
}

type node struct {
	id       NodeID
	value    float64
	op       Op
	operands []int // slots on the owning tape
	grads    GradMap
}

// Tape is the arena that owns every node of a computation graph.
// Operators append to it and never modify existing entries, so the graph
// only grows forward and operands always live at lower slots than their users.
//
// A Tape is not safe for concurrent use.
type Tape struct {
	nodes []node
}

// NewTape returns an empty tape.
func NewTape() *Tape {
	return &Tape{}
}

// Leaf creates a node with no operator, for parameters and inputs.
func (t *Tape) Leaf(value float64) Var {
	return t.push(value, Op{})
}

// Const creates a leaf holding a constant. It is the node a bare number
// turns into when used as an operand.
func (t *Tape) Const(value float64) Var {
	return t.push(value, Op{})
}

// Leaves creates one leaf per value.
func (t *Tape) Leaves(values ...float64) []Var {
	out := make([]Var, len(values))
	for i, v := range values {
		out[i] = t.Leaf(v)
	}
	return out
}

// Len returns the number of nodes on the tape.
func (t *Tape) Len() int {
	return len(t.nodes)
}

// Mark is a position on a tape that can be rewound to.
type Mark int

// Mark returns the current end of the tape.
func (t *Tape) Mark() Mark {
	return Mark(len(t.nodes))
}

// Rewind drops every node created after m. Vars referring to dropped
// nodes become invalid and panic on use.
func (t *Tape) Rewind(m Mark) {
	if m < 0 || int(m) > len(t.nodes) {
		panic(fmt.Sprintf("autograd: rewind to %d outside tape of length %d", m, len(t.nodes)))
	}
	clear(t.nodes[m:])
	t.nodes = t.nodes[:m]
}

func (t *Tape) push(value float64, op Op, operands ...int) Var {
	id := newNodeID()
	t.nodes = append(t.nodes, node{
		id:       id,
		value:    value,
		op:       op,
		operands: operands,
	})
	return Var{tape: t, slot: len(t.nodes) - 1, id: id}
}

func (t *Tape) at(slot int) Var {
	return Var{tape: t, slot: slot, id: t.nodes[slot].id}
}
