package autograd

import (
	"fmt"
	"math"
)

// OpKind is the operator that produced a node.
type OpKind uint8

const (
	OpNone OpKind = iota
	OpAdd
	OpMul
	OpPow
	OpReLU
	OpTanh
	OpExp
)

var opNames = [...]string{
	OpNone: "",
	OpAdd:  "+",
	OpMul:  "*",
	OpPow:  "^",
	OpReLU: "ReLU",
	OpTanh: "tanh",
	OpExp:  "exp",
}

// String returns the operator tag, or "" for leaves.
func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return fmt.Sprintf("OpKind(%d)", uint8(k))
}

// Op is a tagged variant over the operator set. Exponent is only
// meaningful for OpPow.
type Op struct {
	Kind     OpKind
	Exponent float64
}

func (o Op) String() string { return o.Kind.String() }

// Arity returns how many operands an operator records.
// Pow records its exponent as a constant second operand.
func (k OpKind) Arity() int {
	switch k {
	case OpNone:
		return 0
	case OpAdd, OpMul, OpPow:
		return 2
	case OpReLU, OpTanh, OpExp:
		return 1
	}
	panic(fmt.Sprintf("autograd: unknown operator %d", uint8(k)))
}

// localGrads returns d(out)/d(operand_i) for an operator given its operand
// values and its own output value. Operands that receive no gradient
// (the exponent of Pow) get 0.
func localGrads(op Op, in []float64, out float64) [2]float64 {
	switch op.Kind {
	case OpNone:
		return [2]float64{}
	case OpAdd:
		return [2]float64{1, 1}
	case OpMul:
		return [2]float64{in[1], in[0]}
	case OpPow:
		k := op.Exponent
		return [2]float64{k * math.Pow(in[0], k-1), 0}
	case OpReLU:
		if in[0] > 0 {
			return [2]float64{1, 0}
		}
		return [2]float64{}
	case OpTanh:
		return [2]float64{1 - out*out, 0}
	case OpExp:
		return [2]float64{out, 0}
	}
	panic(fmt.Sprintf("autograd: unknown operator %d", uint8(op.Kind)))
}

// applyBackward pushes the pass gradient of the node at slot into its
// operands' entries in pass. Contributions are added, never assigned.
func applyBackward(t *Tape, slot int, pass []float64) {
	out := &t.nodes[slot]
	if out.op.Kind == OpNone {
		return
	}
	g := pass[slot]

	var in [2]float64
	for i, s := range out.operands {
		in[i] = t.nodes[s].value
	}
	local := localGrads(out.op, in[:len(out.operands)], out.value)

	for i, s := range out.operands {
		if out.op.Kind == OpPow && i == 1 {
			continue
		}
		pass[s] += local[i] * g
	}
}
