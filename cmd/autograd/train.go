package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/autodiff/ops"
	"github.com/born-ml/autograd/internal/config"
	"github.com/born-ml/autograd/internal/nn"
	"github.com/born-ml/autograd/internal/serialization"
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/born-ml/autograd/internal/workers"
	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

// Coefficients of the synthetic target y = 3 x0 - 2 x1 + 0.5.
var (
	trueWeights = []float32{3, -2}
	trueBias    = float32(0.5)
)

// batch is one slice of the synthetic dataset.
type batch struct {
	x, y autodiff.Computed
}

func newBatches(rng *rand.Rand, numBatches, batchSize int) []batch {
	batches := make([]batch, numBatches)
	for i := range batches {
		xs := make([]float32, 0, batchSize*len(trueWeights))
		ys := make([]float32, 0, batchSize)
		for range batchSize {
			y := trueBias
			for _, w := range trueWeights {
				x := float32(rng.NormFloat64())
				xs = append(xs, x)
				y += w * x
			}
			ys = append(ys, y)
		}
		batches[i] = batch{
			x: autodiff.New(must.M1(tensor.FromSlice(xs, tensor.Shape{batchSize, len(trueWeights)}))),
			y: autodiff.New(must.M1(tensor.FromSlice(ys, tensor.Shape{batchSize, 1}))),
		}
	}
	return batches
}

// trainFlags holds the command line of the train subcommand.
type trainFlags struct {
	fs *flag.FlagSet

	config, optimizer, checkpoint, init *string
	lr, momentum                        *float64
	steps, batch, numBatches, workers   *int
	logEvery                            *int
	seed                                *uint64
	progress                            *bool
}

func newTrainFlags(errorHandling flag.ErrorHandling) *trainFlags {
	fs := flag.NewFlagSet("train", errorHandling)
	return &trainFlags{
		fs:         fs,
		config:     fs.String("config", "", "YAML file with the training configuration. Defaults are used if empty."),
		optimizer:  fs.String("optimizer", "", "Optimizer: sgd, adam or adamw. Overrides the config."),
		lr:         fs.Float64("lr", 0, "Learning rate. Overrides the config."),
		momentum:   fs.Float64("momentum", 0, "SGD momentum. Overrides the config."),
		steps:      fs.Int("steps", 0, "Number of training steps. Overrides the config."),
		batch:      fs.Int("batch", 0, "Examples per batch. Overrides the config."),
		numBatches: fs.Int("num_batches", 0, "Number of batches in the dataset. Overrides the config."),
		workers:    fs.Int("workers", 0, "Number of parallel workers. Overrides the config."),
		seed:       fs.Uint64("seed", 0, "Random seed. Overrides the config."),
		logEvery:   fs.Int("log_every", 0, "Steps between loss reports. Overrides the config."),
		checkpoint: fs.String("checkpoint", "", "SafeTensors file where the trained parameters are saved."),
		init:       fs.String("init", "", "SafeTensors file to initialize the parameters from."),
		progress:   fs.Bool("progress", true, "Display a progress bar."),
	}
}

// overrides returns the config overrides for the flags set on the command
// line. Flags left at their defaults do not override the config.
func (f *trainFlags) overrides() config.Overrides {
	var o config.Overrides
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "optimizer":
			o.Optimizer = f.optimizer
		case "lr":
			lr := float32(*f.lr)
			o.LearningRate = &lr
		case "momentum":
			m := float32(*f.momentum)
			o.Momentum = &m
		case "steps":
			o.Steps = f.steps
		case "batch":
			o.BatchSize = f.batch
		case "num_batches":
			o.NumBatches = f.numBatches
		case "workers":
			o.NumWorkers = f.workers
		case "seed":
			o.Seed = f.seed
		case "log_every":
			o.LogEvery = f.logEvery
		case "checkpoint":
			o.Checkpoint = f.checkpoint
		}
	})
	return o
}

func runTrain(args []string) {
	flags := newTrainFlags(flag.ExitOnError)
	klog.InitFlags(flags.fs)
	must.M(flags.fs.Parse(args))

	cfg := config.Default()
	if *flags.config != "" {
		cfg = must.M1(config.Load(*flags.config))
	}
	cfg.ApplyOverrides(flags.overrides())
	must.M(cfg.Validate())

	model := nn.NewLinear("linear", len(trueWeights), 1, must.M1(cfg.NewOptimizer()), nn.NewRand(cfg.Seed))
	params := model.Parameters()
	if *flags.init != "" {
		must.M(serialization.ReadFile(*flags.init, params))
		klog.Infof("Parameters initialized from %q", *flags.init)
	}
	klog.Infof("Training %s parameters with %s: %d steps, %d batches of %d, %d workers",
		humanize.Comma(int64(nn.NumParameters(params))), model.Weight().Optimizer().Name(),
		cfg.Steps, cfg.NumBatches, cfg.BatchSize, cfg.NumWorkers)

	batches := newBatches(nn.NewRand(cfg.Seed+1), cfg.NumBatches, cfg.BatchSize)
	scale := 1 / float32(len(batches))
	loss := func(b batch) autodiff.Computed {
		return ops.MSE(model.Forward(b.x), b.y).Scale(scale)
	}
	evalLoss := func() float32 {
		var total float32
		for _, b := range batches {
			total += loss(b).Item()
		}
		return total
	}

	var bar *progressbar.ProgressBar
	if *flags.progress {
		bar = progressbar.NewOptions(cfg.Steps,
			progressbar.OptionSetDescription("training"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetTheme(progressbar.ThemeASCII),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	initial := evalLoss()
	start := time.Now()
	ctx := context.Background()
	for step := 1; step <= cfg.Steps; step++ {
		must.M(workers.Step(ctx, batches, cfg.NumWorkers, loss))
		if step%cfg.LogEvery == 0 || step == cfg.Steps {
			current := evalLoss()
			if bar != nil {
				bar.Describe(fmt.Sprintf("training (loss=%.5f)", current))
			} else {
				klog.Infof("step %d: loss=%.5f", step, current)
			}
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	final := evalLoss()
	klog.Infof("Done in %s: loss %.5f -> %.5f", time.Since(start).Round(time.Millisecond), initial, final)
	fmt.Printf("weight = %v (target %v)\n", model.Weight().Value().Data(), trueWeights)
	fmt.Printf("bias   = %v (target %v)\n", model.Bias().Value().Data(), trueBias)

	if cfg.Checkpoint != "" {
		metadata := map[string]string{
			"steps":     fmt.Sprint(cfg.Steps),
			"optimizer": cfg.Optimizer,
			"loss":      fmt.Sprintf("%g", final),
		}
		must.M(serialization.WriteFile(cfg.Checkpoint, params, metadata))
		info := must.M1(os.Stat(cfg.Checkpoint))
		klog.Infof("Checkpoint saved to %q (%s)", cfg.Checkpoint, humanize.Bytes(uint64(info.Size())))
	}
}
