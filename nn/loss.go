package nn

import (
	"github.com/pkg/errors"

	"github.com/djeday123/gograd/autograd"
)

// SquaredError returns Σ (pred_i - truth_i)^2 as a single node.
func SquaredError(truth, pred []autograd.Var) (autograd.Var, error) {
	if len(truth) != len(pred) {
		return autograd.Var{}, errors.Wrapf(ErrShapeMismatch,
			"loss got %d targets for %d predictions", len(truth), len(pred))
	}
	if len(pred) == 0 {
		return autograd.Var{}, errors.Wrap(ErrShapeMismatch, "loss of empty prediction")
	}

	terms := make([]autograd.Var, len(pred))
	for i := range pred {
		terms[i] = pred[i].Sub(truth[i]).Pow(2)
	}
	return autograd.Sum(terms), nil
}

// MeanSquaredError is SquaredError divided by the number of outputs.
func MeanSquaredError(truth, pred []autograd.Var) (autograd.Var, error) {
	sum, err := SquaredError(truth, pred)
	if err != nil {
		return autograd.Var{}, err
	}
	return sum.Div(autograd.Const(float64(len(pred)))), nil
}
