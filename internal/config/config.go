// Package config holds the configuration of a training run: optimizer,
// learning rate, number of steps, batch size and workers. It is loaded from
// YAML and can be overridden from the command line.
package config

import (
	"io"
	"os"
	"strings"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/optim"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	Optimizer    string  `yaml:"optimizer"`
	LearningRate float32 `yaml:"learning_rate"`
	Momentum     float32 `yaml:"momentum"`
	Steps        int     `yaml:"steps"`
	BatchSize    int     `yaml:"batch_size"`
	NumBatches   int     `yaml:"num_batches"`
	NumWorkers   int     `yaml:"num_workers"`
	Seed         uint64  `yaml:"seed"`
	LogEvery     int     `yaml:"log_every"`
	Checkpoint   string  `yaml:"checkpoint"`
}

// Overrides captures CLI supplied values. Nil fields are left unchanged.
type Overrides struct {
	Optimizer    *string
	LearningRate *float32
	Momentum     *float32
	Steps        *int
	BatchSize    *int
	NumBatches   *int
	NumWorkers   *int
	Seed         *uint64
	LogEvery     *int
	Checkpoint   *string
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Optimizer:    optim.NameSGD,
		LearningRate: 0.05,
		Steps:        200,
		BatchSize:    32,
		NumBatches:   4,
		NumWorkers:   2,
		Seed:         42,
		LogEvery:     50,
	}
}

// Load reads and validates a Config from a YAML file. Fields missing from
// the file keep their Default value.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer func() { _ = f.Close() }()

	cfg, err := Parse(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "config %q", path)
	}
	return cfg, nil
}

// Parse decodes and validates a Config from YAML. Unknown keys are errors.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates c with every non-nil override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Optimizer != nil {
		c.Optimizer = *o.Optimizer
	}
	if o.LearningRate != nil {
		c.LearningRate = *o.LearningRate
	}
	if o.Momentum != nil {
		c.Momentum = *o.Momentum
	}
	if o.Steps != nil {
		c.Steps = *o.Steps
	}
	if o.BatchSize != nil {
		c.BatchSize = *o.BatchSize
	}
	if o.NumBatches != nil {
		c.NumBatches = *o.NumBatches
	}
	if o.NumWorkers != nil {
		c.NumWorkers = *o.NumWorkers
	}
	if o.Seed != nil {
		c.Seed = *o.Seed
	}
	if o.LogEvery != nil {
		c.LogEvery = *o.LogEvery
	}
	if o.Checkpoint != nil {
		c.Checkpoint = *o.Checkpoint
	}
}

// Validate verifies the config is runnable. A non-positive LogEvery is
// reset to 50.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	switch strings.ToLower(c.Optimizer) {
	case optim.NameSGD, optim.NameAdam, optim.NameAdamW:
	default:
		return errors.Errorf("unknown optimizer %q (want %q, %q or %q)",
			c.Optimizer, optim.NameSGD, optim.NameAdam, optim.NameAdamW)
	}
	if c.LearningRate <= 0 {
		return errors.Errorf("learning_rate must be > 0 (got %g)", c.LearningRate)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		return errors.Errorf("momentum must be in [0, 1) (got %g)", c.Momentum)
	}
	if c.Momentum != 0 && strings.ToLower(c.Optimizer) != optim.NameSGD {
		return errors.Errorf("momentum is only used by %q, not %q", optim.NameSGD, c.Optimizer)
	}
	if c.Steps <= 0 {
		return errors.Errorf("steps must be > 0 (got %d)", c.Steps)
	}
	if c.BatchSize <= 0 {
		return errors.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.NumBatches <= 0 {
		return errors.Errorf("num_batches must be > 0 (got %d)", c.NumBatches)
	}
	if c.NumWorkers <= 0 {
		return errors.Errorf("num_workers must be > 0 (got %d)", c.NumWorkers)
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 50
	}
	return nil
}

// NewOptimizer builds the optimizer named by the config.
func (c *Config) NewOptimizer() (autodiff.Optimizer, error) {
	if strings.ToLower(c.Optimizer) == optim.NameSGD && c.Momentum != 0 {
		return optim.NewSGDWithConfig(optim.SGDConfig{LR: c.LearningRate, Momentum: c.Momentum}), nil
	}
	return optim.New(c.Optimizer, c.LearningRate)
}
