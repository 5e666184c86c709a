package main

import (
	"flag"
	"testing"

	"github.com/born-ml/autograd/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainFlags_Overrides(t *testing.T) {
	flags := newTrainFlags(flag.ContinueOnError)
	require.NoError(t, flags.fs.Parse([]string{
		"-optimizer=sgd", "-lr=0.1", "-momentum=0.9", "-steps=7",
		"-batch=16", "-num_batches=3", "-workers=5", "-seed=9", "-log_every=2",
		"-checkpoint=out.safetensors",
	}))
	cfg := config.Default()
	cfg.ApplyOverrides(flags.overrides())
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "sgd", cfg.Optimizer)
	assert.InDelta(t, 0.1, cfg.LearningRate, 1e-7)
	assert.InDelta(t, 0.9, cfg.Momentum, 1e-7)
	assert.Equal(t, 7, cfg.Steps)
	assert.Equal(t, 16, cfg.BatchSize)
	assert.Equal(t, 3, cfg.NumBatches)
	assert.Equal(t, 5, cfg.NumWorkers)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.Equal(t, 2, cfg.LogEvery)
	assert.Equal(t, "out.safetensors", cfg.Checkpoint)
}

func TestTrainFlags_UnsetFlagsKeepConfig(t *testing.T) {
	flags := newTrainFlags(flag.ContinueOnError)
	require.NoError(t, flags.fs.Parse([]string{"-steps=3"}))
	cfg := config.Default()
	cfg.ApplyOverrides(flags.overrides())

	want := config.Default()
	want.Steps = 3
	assert.Equal(t, want, cfg)
}

func TestTrainFlags_ExplicitZeroIsRejected(t *testing.T) {
	flags := newTrainFlags(flag.ContinueOnError)
	require.NoError(t, flags.fs.Parse([]string{"-batch=0"}))
	cfg := config.Default()
	cfg.ApplyOverrides(flags.overrides())
	assert.Error(t, cfg.Validate())
}
