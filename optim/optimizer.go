package optim

import "github.com/djeday123/gograd/autograd"

// Optimizer updates a fixed list of parameters from the gradients they
// hold with respect to a loss root.
type Optimizer interface {
	// ZeroGrad clears every parameter's gradient map.
	ZeroGrad()
	// Step applies one update using gradients keyed by root.
	Step(root autograd.Var)
	GetLR() float64
	SetLR(lr float64)
}

// DefaultLR is the learning rate used when none is given.
const DefaultLR = 0.1

// SGD applies p += -LR * dLoss/dp.
type SGD struct {
	Params []autograd.Var
	LR     float64
}

// NewSGD creates plain gradient descent over params. An unset (zero) lr
// falls back to DefaultLR; any other value is used as given.
func NewSGD(params []autograd.Var, lr float64) *SGD {
	if lr == 0 {
		lr = DefaultLR
	}
	return &SGD{Params: params, LR: lr}
}

// ZeroGrad clears all gradients.
func (opt *SGD) ZeroGrad() {
	autograd.ClearGrads(opt.Params)
}

// Step performs one update against root.
func (opt *SGD) Step(root autograd.Var) {
	for _, p := range opt.Params {
		p.AddValue(-opt.LR * p.Grad(root))
	}
}

// GetLR returns current learning rate.
func (opt *SGD) GetLR() float64 { return opt.LR }

// SetLR updates the learning rate (for scheduling).
func (opt *SGD) SetLR(lr float64) { opt.LR = lr }
