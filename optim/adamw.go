package optim

import (
	"math"

	"github.com/djeday123/gograd/autograd"
)

// AdamW implements the AdamW optimizer (decoupled weight decay) over
// scalar parameters.
type AdamW struct {
	Params      []autograd.Var
	LR          float64 // learning rate
	Beta1       float64 // first moment decay (default 0.9)
	Beta2       float64 // second moment decay (default 0.999)
	Eps         float64 // numerical stability (default 1e-8)
	WeightDecay float64 // decoupled L2 (default 0.01)
	MaxGradNorm float64 // gradient clipping (0 = disabled)

	// State
	m    []float64
	v    []float64
	g    []float64
	step int
}

// NewAdamW creates an optimizer with standard defaults.
func NewAdamW(params []autograd.Var, lr float64) *AdamW {
	if lr == 0 {
		lr = 1e-2
	}
	return &AdamW{
		Params:      params,
		LR:          lr,
		Beta1:       0.9,
		Beta2:       0.999,
		Eps:         1e-8,
		WeightDecay: 0.01,
		m:           make([]float64, len(params)),
		v:           make([]float64, len(params)),
		g:           make([]float64, len(params)),
	}
}

// Step performs one optimization step against root.
func (opt *AdamW) Step(root autograd.Var) {
	opt.step++

	for i, p := range opt.Params {
		opt.g[i] = p.Grad(root)
	}
	if opt.MaxGradNorm > 0 {
		clipGradNorm(opt.g, opt.MaxGradNorm)
	}

	// Bias correction factors
	bc1 := 1.0 - math.Pow(opt.Beta1, float64(opt.step))
	bc2 := 1.0 - math.Pow(opt.Beta2, float64(opt.step))

	for i, p := range opt.Params {
		g := opt.g[i]

		opt.m[i] = opt.Beta1*opt.m[i] + (1-opt.Beta1)*g
		opt.v[i] = opt.Beta2*opt.v[i] + (1-opt.Beta2)*g*g

		mHat := opt.m[i] / bc1
		vHat := opt.v[i] / bc2

		update := mHat / (math.Sqrt(vHat) + opt.Eps)
		p.AddValue(-opt.LR * (update + opt.WeightDecay*p.Value()))
	}
}

// ZeroGrad clears all gradients.
func (opt *AdamW) ZeroGrad() {
	autograd.ClearGrads(opt.Params)
}

// StepCount returns how many updates have been applied.
func (opt *AdamW) StepCount() int { return opt.step }

// GetLR returns current learning rate.
func (opt *AdamW) GetLR() float64 { return opt.LR }

// SetLR updates the learning rate (for scheduling).
func (opt *AdamW) SetLR(lr float64) { opt.LR = lr }

// clipGradNorm scales g in place so its L2 norm is at most maxNorm.
func clipGradNorm(g []float64, maxNorm float64) {
	total := 0.0
	for _, x := range g {
		total += x * x
	}
	total = math.Sqrt(total)
	if total <= maxNorm {
		return
	}
	scale := maxNorm / total
	for i := range g {
		g[i] *= scale
	}
}

// CosineSchedule computes learning rate with warmup + cosine decay.
func CosineSchedule(step, warmupSteps, totalSteps int, maxLR, minLR float64) float64 {
	if step < warmupSteps {
		// Linear warmup
		return maxLR * float64(step) / float64(warmupSteps)
	}
	if totalSteps <= warmupSteps {
		return minLR
	}

	// Cosine decay
	progress := float64(step-warmupSteps) / float64(totalSteps-warmupSteps)
	if progress > 1.0 {
		progress = 1.0
	}
	return minLR + 0.5*(maxLR-minLR)*(1.0+math.Cos(math.Pi*progress))
}
