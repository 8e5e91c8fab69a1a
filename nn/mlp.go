package nn

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/djeday123/gograd/autograd"
)

// MLP is a stack of fully connected layers.
type MLP struct {
	Layers []*Layer
}

// NewMLP builds layers sized [nin, sizes[0]], [sizes[0], sizes[1]], ...
// Every layer uses the same neuron options.
func NewMLP(tape *autograd.Tape, nin int, sizes []int, opts NeuronOptions, rng *rand.Rand) (*MLP, error) {
	if nin <= 0 {
		return nil, errors.Errorf("mlp needs at least one input, got %d", nin)
	}
	if len(sizes) == 0 {
		return nil, errors.New("mlp needs at least one layer")
	}

	m := &MLP{Layers: make([]*Layer, len(sizes))}
	in := nin
	for i, out := range sizes {
		if out <= 0 {
			return nil, errors.Errorf("layer %d has invalid size %d", i, out)
		}
		m.Layers[i] = NewLayer(tape, in, out, opts, rng)
		in = out
	}
	return m, nil
}

// Forward feeds inputs through every layer in order.
func (m *MLP) Forward(inputs []autograd.Var) ([]autograd.Var, error) {
	x := inputs
	for i, l := range m.Layers {
		out, err := l.Forward(x)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		x = out
	}
	return x, nil
}

// Parameters concatenates the parameters of every layer.
func (m *MLP) Parameters() []autograd.Var {
	var params []autograd.Var
	for _, l := range m.Layers {
		params = append(params, l.Parameters()...)
	}
	return params
}

// NumInputs returns the width of the first layer's input.
func (m *MLP) NumInputs() int { return m.Layers[0].InF }

// NumOutputs returns the width of the last layer.
func (m *MLP) NumOutputs() int { return m.Layers[len(m.Layers)-1].OutF }
