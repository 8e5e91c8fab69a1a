package nn

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/djeday123/gograd/autograd"
)

// Activation is the nonlinearity a neuron applies to its weighted sum.
type Activation func(autograd.Var) autograd.Var

// Tanh is the default activation.
func Tanh(x autograd.Var) autograd.Var { return x.Tanh() }

// ReLU clamps negative sums to zero.
func ReLU(x autograd.Var) autograd.Var { return x.ReLU() }

// Linear passes the sum through unchanged.
func Linear(x autograd.Var) autograd.Var { return x }

// ActivationByName maps a config name to an Activation.
func ActivationByName(name string) (Activation, error) {
	switch strings.ToLower(name) {
	case "", "tanh":
		return Tanh, nil
	case "relu":
		return ReLU, nil
	case "linear", "identity", "none":
		return Linear, nil
	}
	return nil, errors.Errorf("unknown activation %q", name)
}
