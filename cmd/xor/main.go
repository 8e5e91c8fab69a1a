package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/djeday123/gograd/autograd"
	"github.com/djeday123/gograd/nn"
	"github.com/djeday123/gograd/optim"
	"github.com/djeday123/gograd/pkg/config"
	"github.com/djeday123/gograd/pkg/hostinfo"
	"github.com/djeday123/gograd/train"
)

var xorPatterns = [][3]float64{
	{0, 0, 0},
	{0, 1, 1},
	{1, 0, 1},
	{1, 1, 0},
}

func main() {
	configPath := flag.String("config", "", "JSON config file (defaults are used when empty)")
	steps := flag.Int("steps", 0, "Override train.steps")
	lr := flag.Float64("lr", 0, "Override train.learning_rate")
	seed := flag.Int64("seed", 0, "Override train.seed")
	optimizer := flag.String("optimizer", "", "Override train.optimizer (sgd, adamw)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *steps > 0 {
		cfg.Train.Steps = *steps
	}
	if *lr > 0 {
		cfg.Train.LearningRate = *lr
	}
	if *seed != 0 {
		cfg.Train.Seed = *seed
	}
	if *optimizer != "" {
		cfg.Train.Optimizer = *optimizer
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	if cfg.Model.Inputs != 2 || cfg.Model.Layers[len(cfg.Model.Layers)-1] != 1 {
		log.Fatalf("XOR needs a 2-input, 1-output model, got %d -> %v", cfg.Model.Inputs, cfg.Model.Layers)
	}

	fmt.Println("=== XOR ===")
	fmt.Printf("Host: %s\n", hostinfo.Detect())
	fmt.Printf("Model: MLP(%d, %v) activation=%s\n", cfg.Model.Inputs, cfg.Model.Layers, cfg.Model.Activation)
	fmt.Printf("Config: steps=%d, lr=%.2e, optimizer=%s, seed=%d\n\n",
		cfg.Train.Steps, cfg.Train.LearningRate, cfg.Train.Optimizer, cfg.Train.Seed)

	results, err := run(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	first, middle, last := train.ThirdsMeans(train.Losses(results))
	fmt.Printf("\nMean loss by third: %.4f -> %.4f -> %.4f\n", first, middle, last)
	if last < first {
		fmt.Println("✓ Loss decreased")
	} else {
		fmt.Println("✗ Loss did not decrease")
	}
}

func run(cfg *config.Config, out io.Writer) ([]train.SampleResult, error) {
	rng := rand.New(rand.NewSource(cfg.Train.Seed))
	tape := autograd.NewTape()

	act, err := nn.ActivationByName(cfg.Model.Activation)
	if err != nil {
		return nil, err
	}
	mlp, err := nn.NewMLP(tape, cfg.Model.Inputs, cfg.Model.Layers, nn.NeuronOptions{Activation: act}, rng)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "Parameters: %d\n", nn.CountParameters(mlp))

	patterns := make([]train.Sample, len(xorPatterns))
	for i, p := range xorPatterns {
		patterns[i] = train.Sample{Input: tape.Leaves(p[0], p[1]), Truth: tape.Leaves(p[2])}
	}
	samples := make([]train.Sample, cfg.Train.Steps)
	for i := range samples {
		samples[i] = patterns[rng.Intn(len(patterns))]
	}

	opts := train.Options{
		Samples:      samples,
		Predict:      mlp.Forward,
		Parameters:   mlp.Parameters,
		Loss:         nn.SquaredError,
		LearningRate: cfg.Train.LearningRate,
		Logger:       log.New(out, "", 0),
		LogEvery:     cfg.Train.LogEvery,
	}
	if cfg.Train.RewindTape {
		opts.Tape = tape
	}
	if strings.EqualFold(cfg.Train.Optimizer, "adamw") {
		opts.NewOptimizer = func(params []autograd.Var, lr float64) optim.Optimizer {
			return optim.NewAdamW(params, lr)
		}
	}
	if cfg.Train.WarmupSteps > 0 {
		opts.Schedule = func(step int) float64 {
			return optim.CosineSchedule(step, cfg.Train.WarmupSteps, cfg.Train.Steps,
				cfg.Train.LearningRate, cfg.Train.MinLR)
		}
	}

	tr, err := train.New(opts)
	if err != nil {
		return nil, err
	}
	results, err := tr.RunAllSteps()
	if err != nil {
		return results, err
	}

	fmt.Fprintln(out, "\n--- Predictions ---")
	for _, p := range patterns {
		mark := tape.Mark()
		pred, err := mlp.Forward(p.Input)
		if err != nil {
			return results, err
		}
		fmt.Fprintf(out, "  %v xor %v = %.0f  predicted %.4f\n",
			p.Input[0].Value(), p.Input[1].Value(), p.Truth[0].Value(), pred[0].Value())
		tape.Rewind(mark)
	}
	return results, nil
}
