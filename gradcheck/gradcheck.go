// Package gradcheck compares reverse-mode gradients with central finite
// differences.
package gradcheck

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/djeday123/gograd/autograd"
)

// Settings controls the numeric side of the check.
type Settings struct {
	Step      float64 // finite difference step, default 1e-6
	Tolerance float64 // maximum accepted error, default 1e-4
}

func (s Settings) withDefaults() Settings {
	if s.Step <= 0 {
		s.Step = 1e-6
	}
	if s.Tolerance <= 0 {
		s.Tolerance = 1e-4
	}
	return s
}

// Report is the outcome of a check.
type Report struct {
	Value     float64
	Analytic  []float64
	Numeric   []float64
	RelErr    []float64
	Pass      []bool // per parameter, judged against Settings.Tolerance
	MaxRelErr float64
	MaxAbsErr float64
	OK        bool
}

// BuildFunc rebuilds the expression from the current parameter values.
type BuildFunc func() (autograd.Var, error)

// Check differentiates build with respect to params both ways. Parameter
// values are restored and every node built during the check is dropped
// from the tape.
func Check(params []autograd.Var, build BuildFunc, s Settings) (Report, error) {
	if len(params) == 0 {
		return Report{}, errors.New("gradcheck: no parameters")
	}
	s = s.withDefaults()
	tape := params[0].Tape()
	for i, p := range params {
		if p.Tape() != tape {
			return Report{}, errors.Errorf("gradcheck: parameter %d is on a different tape", i)
		}
	}

	origin := autograd.Values(params)
	defer func() {
		for i, p := range params {
			p.SetValue(origin[i])
		}
	}()

	rep := Report{Analytic: make([]float64, len(params))}

	mark := tape.Mark()
	root, err := build()
	if err != nil {
		return Report{}, errors.Wrap(err, "gradcheck: build")
	}
	rep.Value = root.Value()
	autograd.ClearGrads(params)
	root.Backward()
	for i, p := range params {
		rep.Analytic[i] = p.Grad(root)
	}
	tape.Rewind(mark)

	var buildErr error
	f := func(x []float64) float64 {
		for i, p := range params {
			p.SetValue(x[i])
		}
		m := tape.Mark()
		defer tape.Rewind(m)
		out, err := build()
		if err != nil {
			if buildErr == nil {
				buildErr = err
			}
			return math.NaN()
		}
		return out.Value()
	}
	x0 := append([]float64(nil), origin...)
	rep.Numeric = fd.Gradient(nil, f, x0, &fd.Settings{
		Formula: fd.Central,
		Step:    s.Step,
	})
	if buildErr != nil {
		return Report{}, errors.Wrap(buildErr, "gradcheck: build")
	}

	rep.RelErr = make([]float64, len(params))
	rep.Pass = make([]bool, len(params))
	rep.OK = true
	for i := range params {
		a, n := rep.Analytic[i], rep.Numeric[i]
		rep.RelErr[i] = math.Abs(n-a) / (math.Abs(n) + math.Abs(a) + 1e-8)
		// Near-zero gradients are judged on absolute error.
		rep.Pass[i] = rep.RelErr[i] <= s.Tolerance || math.Abs(n-a) <= s.Tolerance
		rep.OK = rep.OK && rep.Pass[i]
	}
	rep.MaxRelErr = floats.Max(rep.RelErr)
	rep.MaxAbsErr = floats.Distance(rep.Analytic, rep.Numeric, math.Inf(1))
	return rep, nil
}
