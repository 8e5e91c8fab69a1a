package nn

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/djeday123/gograd/autograd"
)

// NeuronOptions configures a neuron. The zero value uses tanh.
type NeuronOptions struct {
	Activation Activation
}

func (o NeuronOptions) activation() Activation {
	if o.Activation == nil {
		return Tanh
	}
	return o.Activation
}

// Neuron computes act(Σ x_i*w_i + b).
type Neuron struct {
	Bias    autograd.Var
	Weights []autograd.Var
	act     Activation
}

// NewNeuron creates a neuron with nin weights. Bias and weights are drawn
// independently from [-1, 1).
func NewNeuron(tape *autograd.Tape, nin int, opts NeuronOptions, rng *rand.Rand) *Neuron {
	n := &Neuron{
		Bias:    tape.Leaf(uniform(rng)),
		Weights: make([]autograd.Var, nin),
		act:     opts.activation(),
	}
	for i := range n.Weights {
		n.Weights[i] = tape.Leaf(uniform(rng))
	}
	return n
}

// NumInputs returns the number of inputs the neuron accepts.
func (n *Neuron) NumInputs() int { return len(n.Weights) }

// Forward runs the neuron on inputs. It does not modify them.
func (n *Neuron) Forward(inputs []autograd.Var) (autograd.Var, error) {
	if len(inputs) != len(n.Weights) {
		return autograd.Var{}, errors.Wrapf(ErrShapeMismatch,
			"neuron expects %d inputs, got %d", len(n.Weights), len(inputs))
	}
	if len(inputs) == 0 {
		return n.act(n.Bias), nil
	}

	sum := inputs[0].Mul(n.Weights[0])
	for i := 1; i < len(inputs); i++ {
		sum = sum.Add(inputs[i].Mul(n.Weights[i]))
	}
	return n.act(sum.Add(n.Bias)), nil
}

// Parameters returns [bias, w0, ..., wn-1].
func (n *Neuron) Parameters() []autograd.Var {
	params := make([]autograd.Var, 0, len(n.Weights)+1)
	params = append(params, n.Bias)
	return append(params, n.Weights...)
}
