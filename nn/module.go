package nn

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/djeday123/gograd/autograd"
)

// ErrShapeMismatch is returned when a module receives the wrong number of inputs.
var ErrShapeMismatch = errors.New("shape mismatch")

// Module is anything that owns trainable parameters.
type Module interface {
	Parameters() []autograd.Var
}

// ZeroGrad clears the gradients of every parameter of m.
func ZeroGrad(m Module) {
	autograd.ClearGrads(m.Parameters())
}

// CountParameters returns the number of scalar parameters in m.
func CountParameters(m Module) int {
	return len(m.Parameters())
}

// uniform draws from [-1, 1). A nil rng uses the global source.
func uniform(rng *rand.Rand) float64 {
	if rng == nil {
		return rand.Float64()*2 - 1
	}
	return rng.Float64()*2 - 1
}
