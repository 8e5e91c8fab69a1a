package train

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// Losses extracts the loss of every result.
func Losses(results []SampleResult) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Loss
	}
	return out
}

// MeanLoss returns the arithmetic mean of losses, or 0 for none.
func MeanLoss(losses []float64) float64 {
	if len(losses) == 0 {
		return 0
	}
	return floats.Sum(losses) / float64(len(losses))
}

// ThirdsMeans splits losses into three consecutive windows and returns the
// mean of each.
func ThirdsMeans(losses []float64) (first, middle, last float64) {
	n := len(losses)
	a, b := n/3, 2*n/3
	return MeanLoss(losses[:a]), MeanLoss(losses[a:b]), MeanLoss(losses[b:])
}

// SplitSamples keeps the first ratio of samples for training and returns the
// rest for validation. The two sets never share capacity, so appending to
// one leaves the other intact.
func SplitSamples(samples []Sample, ratio float64) (trainSet, validSet []Sample, err error) {
	if ratio <= 0 || ratio > 1 {
		return nil, nil, errors.Errorf("split ratio %v outside (0, 1]", ratio)
	}
	cut := int(float64(len(samples)) * ratio)
	return samples[:cut:cut], samples[cut:], nil
}
