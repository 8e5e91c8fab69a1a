package nn

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/djeday123/gograd/autograd"
)

// Layer is a set of neurons that all read the same inputs.
type Layer struct {
	Neurons []*Neuron
	InF     int
	OutF    int
}

// NewLayer creates nout neurons with nin inputs each.
func NewLayer(tape *autograd.Tape, nin, nout int, opts NeuronOptions, rng *rand.Rand) *Layer {
	l := &Layer{Neurons: make([]*Neuron, nout), InF: nin, OutF: nout}
	for i := range l.Neurons {
		l.Neurons[i] = NewNeuron(tape, nin, opts, rng)
	}
	return l
}

// Forward returns one output per neuron, in neuron order.
func (l *Layer) Forward(inputs []autograd.Var) ([]autograd.Var, error) {
	outs := make([]autograd.Var, len(l.Neurons))
	for i, n := range l.Neurons {
		out, err := n.Forward(inputs)
		if err != nil {
			return nil, errors.Wrapf(err, "neuron %d", i)
		}
		outs[i] = out
	}
	return outs, nil
}

// Parameters concatenates the parameters of every neuron.
func (l *Layer) Parameters() []autograd.Var {
	var params []autograd.Var
	for _, n := range l.Neurons {
		params = append(params, n.Parameters()...)
	}
	return params
}
