package autograd

import (
	"fmt"
	"math"
)

// Operand is anything an operator accepts as its second argument:
// a Var on the same tape, or a Const.
type Operand interface {
	on(t *Tape) Var
}

// Const is a bare number used as an operand. It becomes a constant leaf
// on the tape of the Var it is combined with.
type Const float64

func (c Const) on(t *Tape) Var {
	return t.Const(float64(c))
}

func (v Var) on(t *Tape) Var {
	if v.tape != t {
		panic(fmt.Sprintf("autograd: operand %d belongs to a different tape", v.id))
	}
	v.get()
	return v
}

// Add returns v + o.
func (v Var) Add(o Operand) Var {
	a := v.get().value
	w := o.on(v.tape)
	return v.tape.push(a+w.Value(), Op{Kind: OpAdd}, v.slot, w.slot)
}

// Mul returns v * o.
func (v Var) Mul(o Operand) Var {
	a := v.get().value
	w := o.on(v.tape)
	return v.tape.push(a*w.Value(), Op{Kind: OpMul}, v.slot, w.slot)
}

// Pow returns v^k. The exponent is a plain number; no gradient flows
// into it.
func (v Var) Pow(k float64) Var {
	a := v.get().value
	e := v.tape.Const(k)
	return v.tape.push(math.Pow(a, k), Op{Kind: OpPow, Exponent: k}, v.slot, e.slot)
}

// ReLU returns max(0, v).
func (v Var) ReLU() Var {
	a := v.get().value
	if a < 0 {
		a = 0
	}
	return v.tape.push(a, Op{Kind: OpReLU}, v.slot)
}

// Tanh returns tanh(v).
func (v Var) Tanh() Var {
	return v.tape.push(math.Tanh(v.get().value), Op{Kind: OpTanh}, v.slot)
}

// Exp returns e^v.
func (v Var) Exp() Var {
	return v.tape.push(math.Exp(v.get().value), Op{Kind: OpExp}, v.slot)
}

// Neg returns -v, built as v * -1.
func (v Var) Neg() Var {
	return v.Mul(Const(-1))
}

// Sub returns v - o, built as v + (-o).
func (v Var) Sub(o Operand) Var {
	return v.Add(o.on(v.tape).Neg())
}

// Div returns v / o, built as v * o^-1.
func (v Var) Div(o Operand) Var {
	return v.Mul(o.on(v.tape).Pow(-1))
}

// RevDiv returns o / v, built as o * v^-1.
func (v Var) RevDiv(o Operand) Var {
	return o.on(v.tape).Mul(v.Pow(-1))
}

// Sum adds vs left to right. It panics on an empty slice.
func Sum(vs []Var) Var {
	if len(vs) == 0 {
		panic("autograd: sum of no values")
	}
	acc := vs[0]
	for _, v := range vs[1:] {
		acc = acc.Add(v)
	}
	return acc
}
