// Package workers computes parameter gradients over independent mini-batches
// in parallel.
//
// Each batch gets its own forward graph, its own backward pass and its own
// autodiff.GradientsAccumulator. The per-batch accumulators are then merged
// in batch order, so the result does not depend on goroutine scheduling.
// Parameters are only read during the parallel phase; updating them (with
// GradientsAccumulator.Optimize) is left to the caller, once all workers are
// done.
package workers

import (
	"context"
	"runtime"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// LossFn builds the forward graph of one batch and returns its scalar loss.
type LossFn[B any] func(batch B) autodiff.Computed

// ComputeGradients runs loss on every batch with at most numWorkers
// goroutines (runtime.NumCPU() if numWorkers <= 0) and returns the summed
// gradients of all parameters read.
//
// A panic inside loss or inside the backward pass (a fatal autodiff error)
// is returned as an error naming the batch, and stops the remaining batches.
func ComputeGradients[B any](ctx context.Context, batches []B, numWorkers int, loss LossFn[B]) (*autodiff.GradientsAccumulator, error) {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	perBatch := make([]*autodiff.GradientsAccumulator, len(batches))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for i, batch := range batches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			acc := autodiff.NewGradientsAccumulator()
			err := exceptions.TryCatch[error](func() {
				acc.Compute(loss(batch))
			})
			if err != nil {
				return errors.Wrapf(err, "batch #%d", i)
			}
			perBatch[i] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := autodiff.NewGradientsAccumulator()
	for _, acc := range perBatch {
		total.Merge(acc)
	}
	if klog.V(2).Enabled() {
		klog.Infof("workers.ComputeGradients: %d batches, %d workers, %d parameters", len(batches), numWorkers, total.Len())
	}
	return total, nil
}

// Step computes the gradients of all batches with ComputeGradients and
// applies them in a single optimizer pass.
func Step[B any](ctx context.Context, batches []B, numWorkers int, loss LossFn[B]) error {
	acc, err := ComputeGradients(ctx, batches, numWorkers, loss)
	if err != nil {
		return err
	}
	acc.Optimize()
	return nil
}
