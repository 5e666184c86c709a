package workers_test

import (
	"context"
	"testing"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/autodiff/ops"
	"github.com/born-ml/autograd/internal/optim"
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/born-ml/autograd/internal/workers"
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	x, y []float32
}

func makeBatches(n int) []sample {
	batches := make([]sample, n)
	for i := range batches {
		x := []float32{float32(i), float32(i) + 0.5, -float32(i)}
		y := make([]float32, len(x))
		for j, v := range x {
			y[j] = 3*v - 1
		}
		batches[i] = sample{x: x, y: y}
	}
	return batches
}

func regressionLoss(w, b *autodiff.Param) workers.LossFn[sample] {
	return func(s sample) autodiff.Computed {
		x := autodiff.New(must.M1(tensor.FromSlice(s.x, tensor.Shape{len(s.x)})))
		y := autodiff.New(must.M1(tensor.FromSlice(s.y, tensor.Shape{len(s.y)})))
		return ops.MSE(w.Get().Mul(x).Add(b.Get()), y)
	}
}

func TestComputeGradients_MatchesSequential(t *testing.T) {
	w := autodiff.NewParam(tensor.Scalar(0.5), "w", optim.NewSGD(0.01))
	b := autodiff.NewParam(tensor.Scalar(0), "b", optim.NewSGD(0.01))
	batches := makeBatches(16)
	loss := regressionLoss(w, b)

	parallel, err := workers.ComputeGradients(context.Background(), batches, 4, loss)
	require.NoError(t, err)

	sequential := autodiff.NewGradientsAccumulator()
	for _, s := range batches {
		sequential.Compute(loss(s))
	}

	require.Equal(t, sequential.Len(), parallel.Len())
	assert.ElementsMatch(t, []*autodiff.Param{w, b}, parallel.Params())
	for _, p := range sequential.Params() {
		want, _ := sequential.Grad(p)
		got, ok := parallel.Grad(p)
		require.True(t, ok)
		assert.True(t, got.AllClose(want, 1e-3), "%s: got %s, want %s", p.Name(), got, want)
	}
}

func TestStep_Converges(t *testing.T) {
	w := autodiff.NewParam(tensor.Scalar(0), "w", optim.NewAdam(optim.AdamConfig{LR: 0.1}))
	b := autodiff.NewParam(tensor.Scalar(0), "b", optim.NewAdam(optim.AdamConfig{LR: 0.1}))
	batches := makeBatches(4)
	for range 500 {
		require.NoError(t, workers.Step(context.Background(), batches, 0, regressionLoss(w, b)))
	}
	assert.InDelta(t, 3, float64(w.Value().Item()), 0.1)
	assert.InDelta(t, -1, float64(b.Value().Item()), 0.2)
}

func TestComputeGradients_PanicBecomesError(t *testing.T) {
	batches := []int{0, 1, 2}
	_, err := workers.ComputeGradients(context.Background(), batches, 2, func(i int) autodiff.Computed {
		if i == 1 {
			exceptions.Panicf("broken batch")
		}
		return autodiff.Constant(float32(i))
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch #1")
	assert.Contains(t, err.Error(), "broken batch")
}

func TestComputeGradients_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := workers.ComputeGradients(ctx, []int{1, 2}, 1, func(int) autodiff.Computed {
		return autodiff.Constant(1)
	})
	assert.ErrorIs(t, err, context.Canceled)
}
