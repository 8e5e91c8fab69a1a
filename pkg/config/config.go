package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the configuration for a training run
type Config struct {
	Model ModelConfig `json:"model"`
	Train TrainConfig `json:"train"`
}

// ModelConfig describes the MLP
type ModelConfig struct {
	Inputs     int    `json:"inputs"`
	Layers     []int  `json:"layers"`     // output width of each layer
	Activation string `json:"activation"` // "tanh", "relu" or "linear"
}

// TrainConfig holds training hyperparameters
type TrainConfig struct {
	LearningRate float64 `json:"learning_rate"`
	Optimizer    string  `json:"optimizer"` // "sgd" or "adamw"
	Steps        int     `json:"steps"`
	WarmupSteps  int     `json:"warmup_steps"` // 0 disables the cosine schedule
	MinLR        float64 `json:"min_lr"`
	Seed         int64   `json:"seed"`
	LogEvery     int     `json:"log_every"`
	RewindTape   bool    `json:"rewind_tape"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Inputs:     2,
			Layers:     []int{4, 1},
			Activation: "tanh",
		},
		Train: TrainConfig{
			LearningRate: 0.1,
			Optimizer:    "sgd",
			Steps:        10000,
			WarmupSteps:  0,
			MinLR:        0.01,
			Seed:         1,
			LogEvery:     1000,
			RewindTape:   true,
		},
	}
}

// Load reads a JSON config from path on top of DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration describes a trainable model.
func (c *Config) Validate() error {
	if c.Model.Inputs <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "model.inputs must be positive, got %d", c.Model.Inputs)
	}
	if len(c.Model.Layers) == 0 {
		return errors.Wrap(ErrInvalidConfig, "model.layers is empty")
	}
	for i, n := range c.Model.Layers {
		if n <= 0 {
			return errors.Wrapf(ErrInvalidConfig, "model.layers[%d] must be positive, got %d", i, n)
		}
	}
	if c.Train.LearningRate <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "train.learning_rate must be positive, got %v", c.Train.LearningRate)
	}
	switch strings.ToLower(c.Train.Optimizer) {
	case "", "sgd", "adamw":
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown train.optimizer %q", c.Train.Optimizer)
	}
	if c.Train.Steps < 0 || c.Train.WarmupSteps < 0 {
		return errors.Wrap(ErrInvalidConfig, "train.steps and train.warmup_steps must not be negative")
	}
	return nil
}
