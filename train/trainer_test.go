package train

import (
	"bytes"
	"log"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/djeday123/gograd/autograd"
	"github.com/djeday123/gograd/nn"
	"github.com/djeday123/gograd/optim"
)

// linearFixture is y = w*x + b trained with squared error.
type linearFixture struct {
	tape *autograd.Tape
	w, b autograd.Var
}

func newLinearFixture() *linearFixture {
	tape := autograd.NewTape()
	return &linearFixture{tape: tape, w: tape.Leaf(0.5), b: tape.Leaf(0)}
}

func (f *linearFixture) options(samples []Sample) Options {
	return Options{
		Samples: samples,
		Predict: func(in []autograd.Var) ([]autograd.Var, error) {
			return []autograd.Var{in[0].Mul(f.w).Add(f.b)}, nil
		},
		Parameters: func() []autograd.Var { return []autograd.Var{f.w, f.b} },
		Loss:       nn.SquaredError,
	}
}

func (f *linearFixture) sample(x, y float64) Sample {
	return Sample{Input: f.tape.Leaves(x), Truth: f.tape.Leaves(y)}
}

func TestNewRequiresStrategies(t *testing.T) {
	f := newLinearFixture()
	base := f.options(nil)

	tests := []struct {
		name string
		edit func(*Options)
	}{
		{"predict", func(o *Options) { o.Predict = nil }},
		{"loss", func(o *Options) { o.Loss = nil }},
		{"parameters", func(o *Options) { o.Parameters = nil }},
	}
	for _, tt := range tests {
		opts := base
		tt.edit(&opts)
		if _, err := New(opts); err == nil {
			t.Errorf("missing %s: expected error", tt.name)
		}
	}
}

func TestRunSampleUpdatesParameters(t *testing.T) {
	f := newLinearFixture()
	s := f.sample(2, 3)
	tr, err := New(f.options([]Sample{s}))
	if err != nil {
		t.Fatal(err)
	}

	// pred = 0.5*2 + 0 = 1, loss = (1-3)^2 = 4
	// dL/dw = 2*(pred-y)*x = -8, dL/db = 2*(pred-y) = -4
	res, err := tr.RunSample(s)
	if err != nil {
		t.Fatal(err)
	}
	if res.Loss != 4 {
		t.Errorf("loss = %v, want 4", res.Loss)
	}
	if len(res.Predicted) != 1 || res.Predicted[0] != 1 {
		t.Errorf("predicted = %v, want [1]", res.Predicted)
	}
	if got, want := f.w.Value(), 0.5+0.1*8; math.Abs(got-want) > 1e-12 {
		t.Errorf("w = %v, want %v", got, want)
	}
	if got, want := f.b.Value(), 0.1*4; math.Abs(got-want) > 1e-12 {
		t.Errorf("b = %v, want %v", got, want)
	}
	if tr.Cursor() != 0 {
		t.Errorf("RunSample moved the cursor to %d", tr.Cursor())
	}
}

func TestNegativeLearningRateKept(t *testing.T) {
	f := newLinearFixture()
	s := f.sample(2, 3)
	opts := f.options([]Sample{s})
	opts.LearningRate = -0.1
	tr, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.RunSample(s); err != nil {
		t.Fatal(err)
	}
	// dL/dw = -8, so a rate of -0.1 moves w to 0.5 - 0.8.
	if got, want := f.w.Value(), 0.5-0.1*8; math.Abs(got-want) > 1e-12 {
		t.Errorf("w = %v, want %v", got, want)
	}
}

func TestRunSampleClearsGradientsFirst(t *testing.T) {
	f := newLinearFixture()
	s := f.sample(1, 1)

	// A stale gradient under some other root must be gone after a step.
	stale := f.w.Mul(autograd.Const(10))
	stale.Backward()

	tr, err := New(f.options([]Sample{s}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.RunSample(s); err != nil {
		t.Fatal(err)
	}
	if g := f.w.Grad(stale); g != 0 {
		t.Errorf("stale gradient survived: %v", g)
	}
	if m := f.w.GradMap(); m.Len() != 1 {
		t.Errorf("w holds %d gradient entries, want 1", m.Len())
	}
}

func TestRunNextStepBoundsChecked(t *testing.T) {
	f := newLinearFixture()
	samples := []Sample{f.sample(1, 2), f.sample(2, 4)}
	tr, err := New(f.options(samples))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		res, err := tr.RunNextStep()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if res.Sample.Input[0].ID() != samples[i].Input[0].ID() {
			t.Errorf("step %d used the wrong sample", i)
		}
	}
	if tr.Cursor() != 2 || tr.Remaining() != 0 {
		t.Errorf("cursor = %d remaining = %d", tr.Cursor(), tr.Remaining())
	}

	_, err = tr.RunNextStep()
	if !errors.Is(err, ErrCursorOutOfRange) {
		t.Fatalf("err = %v, want ErrCursorOutOfRange", err)
	}
	if tr.Cursor() != 2 {
		t.Errorf("failed step moved cursor to %d", tr.Cursor())
	}

	tr.Reset()
	if _, err := tr.RunNextStep(); err != nil {
		t.Errorf("after Reset: %v", err)
	}
}

func TestRunAllStepsLeavesCursor(t *testing.T) {
	f := newLinearFixture()
	samples := []Sample{f.sample(1, 2), f.sample(2, 4), f.sample(3, 6)}
	tr, err := New(f.options(samples))
	if err != nil {
		t.Fatal(err)
	}

	results, err := tr.RunAllSteps()
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	for i, r := range results {
		if r.Step != i {
			t.Errorf("result %d has step %d", i, r.Step)
		}
		if r.Sample.Truth[0].Value() != samples[i].Truth[0].Value() {
			t.Errorf("result %d out of order", i)
		}
	}
	if tr.Cursor() != 0 {
		t.Errorf("cursor = %d, want 0", tr.Cursor())
	}
	if tr.Steps() != 3 {
		t.Errorf("steps = %d, want 3", tr.Steps())
	}
}

func TestCallbackAndLogging(t *testing.T) {
	f := newLinearFixture()
	opts := f.options([]Sample{f.sample(1, 2), f.sample(2, 4)})

	var calls int
	opts.OnSampleComplete = func(res SampleResult, loss autograd.Var) {
		calls++
		if loss.Value() != res.Loss {
			t.Errorf("callback loss node %v does not match result %v", loss.Value(), res.Loss)
		}
		if loss.Grad(loss) != 1 {
			t.Error("callback got a loss that was not back-propagated")
		}
	}
	var buf bytes.Buffer
	opts.Logger = log.New(&buf, "", 0)
	opts.LogEvery = 1

	tr, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.RunAllSteps(); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("callback called %d times, want 2", calls)
	}
	out := buf.String()
	if !strings.Contains(out, "[train "+tr.RunID()[:8]+"]") || strings.Count(out, "| loss") != 2 {
		t.Errorf("unexpected log output:\n%s", out)
	}
	if !strings.Contains(out, "run "+tr.RunID()+" on "+tr.Host().String()) {
		t.Errorf("run header missing host description:\n%s", out)
	}
}

func TestPredictErrorPropagates(t *testing.T) {
	f := newLinearFixture()
	opts := f.options(nil)
	opts.Predict = func(in []autograd.Var) ([]autograd.Var, error) {
		return nil, nn.ErrShapeMismatch
	}
	tr, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.RunSample(f.sample(1, 1)); !errors.Is(err, nn.ErrShapeMismatch) {
		t.Errorf("err = %v, want shape mismatch", err)
	}
}

func TestTapeRewoundAfterEachStep(t *testing.T) {
	f := newLinearFixture()
	samples := []Sample{f.sample(1, 2), f.sample(2, 4)}
	opts := f.options(samples)
	opts.Tape = f.tape

	before := f.tape.Len()
	tr, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.RunEpochs(5); err != nil {
		t.Fatal(err)
	}
	if f.tape.Len() != before {
		t.Errorf("tape grew from %d to %d", before, f.tape.Len())
	}
	if !f.w.Valid() || !samples[1].Input[0].Valid() {
		t.Error("parameters or samples were dropped by the rewind")
	}
}

func TestEvaluateDoesNotUpdate(t *testing.T) {
	f := newLinearFixture()
	tr, err := New(f.options(nil))
	if err != nil {
		t.Fatal(err)
	}
	loss, err := tr.Evaluate([]Sample{f.sample(2, 3), f.sample(0, 1)})
	if err != nil {
		t.Fatal(err)
	}
	// (1-3)^2 = 4 and (0-1)^2 = 1
	if loss != 2.5 {
		t.Errorf("mean loss = %v, want 2.5", loss)
	}
	if f.w.Value() != 0.5 || f.b.Value() != 0 {
		t.Error("Evaluate changed parameters")
	}
	if _, err := tr.Evaluate(nil); !errors.Is(err, ErrNoSamples) {
		t.Errorf("err = %v, want ErrNoSamples", err)
	}
}

func TestScheduleAndOptimizer(t *testing.T) {
	f := newLinearFixture()
	opts := f.options([]Sample{f.sample(1, 2), f.sample(2, 4)})

	var seen []int
	opts.Schedule = func(step int) float64 {
		seen = append(seen, step)
		return 0.01
	}
	var built optim.Optimizer
	opts.NewOptimizer = func(params []autograd.Var, lr float64) optim.Optimizer {
		built = optim.NewAdamW(params, lr)
		return built
	}

	tr, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.RunAllSteps(); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || seen[0] != 0 || seen[1] != 1 {
		t.Errorf("schedule saw steps %v, want [0 1]", seen)
	}
	if built == nil || built.GetLR() != 0.01 {
		t.Error("custom optimizer not used")
	}
}

func TestLearnsXOR(t *testing.T) {
	tape := autograd.NewTape()
	rng := rand.New(rand.NewSource(42))
	mlp, err := nn.NewMLP(tape, 2, []int{4, 1}, nn.NeuronOptions{}, rng)
	if err != nil {
		t.Fatal(err)
	}

	patterns := [][3]float64{{0, 0, 0}, {0, 1, 1}, {1, 0, 1}, {1, 1, 0}}
	base := make([]Sample, len(patterns))
	for i, p := range patterns {
		base[i] = Sample{Input: tape.Leaves(p[0], p[1]), Truth: tape.Leaves(p[2])}
	}
	samples := make([]Sample, 6000)
	for i := range samples {
		samples[i] = base[rng.Intn(len(base))]
	}

	tr, err := New(Options{
		Samples:    samples,
		Predict:    mlp.Forward,
		Parameters: mlp.Parameters,
		Loss:       nn.SquaredError,
		Tape:       tape,
	})
	if err != nil {
		t.Fatal(err)
	}
	results, err := tr.RunAllSteps()
	if err != nil {
		t.Fatal(err)
	}

	first, middle, last := ThirdsMeans(Losses(results))
	t.Logf("mean loss by third: %.4f %.4f %.4f", first, middle, last)
	if !(first > last) {
		t.Errorf("loss did not decrease: first third %.4f, last third %.4f", first, last)
	}
}

func TestStats(t *testing.T) {
	if m := MeanLoss(nil); m != 0 {
		t.Errorf("MeanLoss(nil) = %v", m)
	}
	first, middle, last := ThirdsMeans([]float64{3, 3, 2, 2, 1, 1})
	if first != 3 || middle != 2 || last != 1 {
		t.Errorf("thirds = %v %v %v", first, middle, last)
	}

	samples := make([]Sample, 10)
	tr, va, err := SplitSamples(samples, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	if len(tr) != 8 || len(va) != 2 {
		t.Errorf("split = %d/%d, want 8/2", len(tr), len(va))
	}
	if _, _, err := SplitSamples(samples, 0); err == nil {
		t.Error("expected error for zero ratio")
	}
}

func TestSplitSamplesDoNotAlias(t *testing.T) {
	f := newLinearFixture()
	samples := []Sample{f.sample(1, 1), f.sample(2, 2), f.sample(3, 3), f.sample(4, 4)}
	trainSet, validSet, err := SplitSamples(samples, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	want := validSet[0].Input[0].ID()

	trainSet = append(trainSet, f.sample(99, 99))
	if len(trainSet) != 3 {
		t.Fatalf("len(trainSet) = %d, want 3", len(trainSet))
	}
	if got := validSet[0].Input[0].ID(); got != want {
		t.Errorf("appending to the training set overwrote validation sample %d with %d", want, got)
	}
}
