package train

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/djeday123/gograd/autograd"
	"github.com/djeday123/gograd/optim"
	"github.com/djeday123/gograd/pkg/hostinfo"
)

var (
	// ErrCursorOutOfRange is returned by RunNextStep once every sample has been used.
	ErrCursorOutOfRange = errors.New("cursor out of range")
	// ErrNoSamples is returned when an operation needs at least one sample.
	ErrNoSamples = errors.New("no samples")
)

// Sample is one training example.
type Sample struct {
	Input []autograd.Var
	Truth []autograd.Var
}

// SampleResult records the outcome of one training step.
type SampleResult struct {
	Step      int       // number of steps the trainer had run before this one
	Loss      float64   // loss before the update
	Predicted []float64 // predicted output values before the update
	Sample    Sample
}

// PredictFunc runs the model. Its outputs must be built from the inputs and
// the parameters through autograd operators so Backward can reach them.
type PredictFunc func(input []autograd.Var) ([]autograd.Var, error)

// LossFunc reduces a prediction to a single scalar node.
type LossFunc func(truth, pred []autograd.Var) (autograd.Var, error)

// SampleCallback observes each finished step. loss is only valid for the
// duration of the call when Options.Tape is set.
type SampleCallback func(res SampleResult, loss autograd.Var)

// Options configures a Trainer.
type Options struct {
	Samples    []Sample
	Predict    PredictFunc
	Parameters func() []autograd.Var
	Loss       LossFunc

	// LearningRate defaults to optim.DefaultLR when zero. Negative rates
	// are used as given.
	LearningRate float64

	OnSampleComplete SampleCallback

	// NewOptimizer replaces plain SGD. It receives the parameter list and
	// the learning rate.
	NewOptimizer func(params []autograd.Var, lr float64) optim.Optimizer
	// Schedule, if set, gives the learning rate for each step.
	Schedule func(step int) float64

	// Tape, if set, is rewound after every step so that the nodes built for
	// that step do not accumulate. Samples and parameters must already be
	// on it.
	Tape *autograd.Tape

	Logger   *log.Logger
	LogEvery int
}

// Trainer drives forward, backward and update one sample at a time.
type Trainer struct {
	opts   Options
	params []autograd.Var
	opt    optim.Optimizer
	runID  string
	host   hostinfo.Info
	logger *log.Logger

	cursor int
	steps  int
}

// New validates opts and resolves the parameter list once. The trainer
// updates the model's live parameter nodes.
func New(opts Options) (*Trainer, error) {
	if opts.Predict == nil {
		return nil, errors.New("trainer: Predict is required")
	}
	if opts.Loss == nil {
		return nil, errors.New("trainer: Loss is required")
	}
	if opts.Parameters == nil {
		return nil, errors.New("trainer: Parameters is required")
	}
	if opts.LearningRate == 0 {
		opts.LearningRate = optim.DefaultLR
	}

	t := &Trainer{
		opts:   opts,
		params: opts.Parameters(),
		runID:  uuid.New().String(),
		host:   hostinfo.Detect(),
	}
	if opts.NewOptimizer != nil {
		t.opt = opts.NewOptimizer(t.params, opts.LearningRate)
	} else {
		t.opt = optim.NewSGD(t.params, opts.LearningRate)
	}
	if opts.Logger != nil {
		prefix := fmt.Sprintf("[train %s] ", t.runID[:8])
		t.logger = log.New(opts.Logger.Writer(), prefix, opts.Logger.Flags())
		t.logger.Printf("run %s on %s, %d params, %d samples",
			t.runID, t.host, len(t.params), len(opts.Samples))
	}
	return t, nil
}

// RunID identifies this training run in logs.
func (t *Trainer) RunID() string { return t.runID }

// Host describes the CPU the run executes on.
func (t *Trainer) Host() hostinfo.Info { return t.host }

// Parameters returns the parameters being trained.
func (t *Trainer) Parameters() []autograd.Var { return t.params }

// Cursor returns the index of the next sample RunNextStep will use.
func (t *Trainer) Cursor() int { return t.cursor }

// Remaining returns how many samples RunNextStep can still use.
func (t *Trainer) Remaining() int { return len(t.opts.Samples) - t.cursor }

// Steps returns how many samples have been trained on.
func (t *Trainer) Steps() int { return t.steps }

// Reset moves the cursor back to the first sample.
func (t *Trainer) Reset() { t.cursor = 0 }

// RunNextStep trains on the sample at the cursor and advances it.
func (t *Trainer) RunNextStep() (SampleResult, error) {
	if t.cursor < 0 || t.cursor >= len(t.opts.Samples) {
		return SampleResult{}, errors.Wrapf(ErrCursorOutOfRange,
			"cursor %d with %d samples", t.cursor, len(t.opts.Samples))
	}
	res, err := t.RunSample(t.opts.Samples[t.cursor])
	if err != nil {
		return res, errors.Wrapf(err, "sample %d", t.cursor)
	}
	t.cursor++
	return res, nil
}

// RunSample trains on s. It does not move the cursor.
func (t *Trainer) RunSample(s Sample) (SampleResult, error) {
	if tape := t.opts.Tape; tape != nil {
		defer tape.Rewind(tape.Mark())
	}

	pred, err := t.opts.Predict(s.Input)
	if err != nil {
		return SampleResult{}, errors.Wrap(err, "predict")
	}
	loss, err := t.opts.Loss(s.Truth, pred)
	if err != nil {
		return SampleResult{}, errors.Wrap(err, "loss")
	}

	if t.opts.Schedule != nil {
		t.opt.SetLR(t.opts.Schedule(t.steps))
	}

	t.opt.ZeroGrad()
	loss.Backward()
	t.opt.Step(loss)

	res := SampleResult{
		Step:      t.steps,
		Loss:      loss.Value(),
		Predicted: autograd.Values(pred),
		Sample:    s,
	}
	t.steps++

	if t.opts.OnSampleComplete != nil {
		t.opts.OnSampleComplete(res, loss)
	}
	if t.logger != nil && t.opts.LogEvery > 0 && t.steps%t.opts.LogEvery == 0 {
		t.logger.Printf("step %6d | loss %.6f | lr %.2e", t.steps, res.Loss, t.opt.GetLR())
	}
	return res, nil
}

// RunAllSteps trains on every sample once, in order. The cursor is not used.
func (t *Trainer) RunAllSteps() ([]SampleResult, error) {
	results := make([]SampleResult, 0, len(t.opts.Samples))
	for i, s := range t.opts.Samples {
		res, err := t.RunSample(s)
		if err != nil {
			return results, errors.Wrapf(err, "sample %d", i)
		}
		results = append(results, res)
	}
	return results, nil
}

// RunEpochs calls RunAllSteps n times and returns every result in order.
func (t *Trainer) RunEpochs(n int) ([]SampleResult, error) {
	if len(t.opts.Samples) == 0 {
		return nil, ErrNoSamples
	}
	results := make([]SampleResult, 0, n*len(t.opts.Samples))
	for epoch := 0; epoch < n; epoch++ {
		res, err := t.RunAllSteps()
		results = append(results, res...)
		if err != nil {
			return results, errors.Wrapf(err, "epoch %d", epoch)
		}
		if t.logger != nil {
			t.logger.Printf("epoch %d | mean loss %.6f", epoch, MeanLoss(Losses(res)))
		}
	}
	return results, nil
}

// Evaluate returns the mean loss over samples without touching parameters
// or gradients.
func (t *Trainer) Evaluate(samples []Sample) (float64, error) {
	if len(samples) == 0 {
		return 0, ErrNoSamples
	}
	losses := make([]float64, len(samples))
	for i, s := range samples {
		l, err := t.evalOne(s)
		if err != nil {
			return 0, errors.Wrapf(err, "sample %d", i)
		}
		losses[i] = l
	}
	return MeanLoss(losses), nil
}

func (t *Trainer) evalOne(s Sample) (float64, error) {
	if tape := t.opts.Tape; tape != nil {
		defer tape.Rewind(tape.Mark())
	}
	pred, err := t.opts.Predict(s.Input)
	if err != nil {
		return 0, errors.Wrap(err, "predict")
	}
	loss, err := t.opts.Loss(s.Truth, pred)
	if err != nil {
		return 0, errors.Wrap(err, "loss")
	}
	return loss.Value(), nil
}
