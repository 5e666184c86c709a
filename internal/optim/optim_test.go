package optim_test

import (
	"math"
	"testing"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/autodiff/ops"
	"github.com/born-ml/autograd/internal/optim"
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vec(t *testing.T, data ...float32) *tensor.Tensor {
	t.Helper()
	return must.M1(tensor.FromSlice(data, tensor.Shape{len(data)}))
}

func TestSGD_SimpleUpdate(t *testing.T) {
	sgd := optim.NewSGD(0.1)
	value := vec(t, 1, 2, 3)
	state := sgd.NewState(value.Shape())
	updated := sgd.Update(value, state, vec(t, 0.5, -1, 0))
	assert.True(t, updated.AllClose(vec(t, 0.95, 2.1, 3), 1e-6))
	assert.Equal(t, []float32{1, 2, 3}, value.Data(), "the previous value is untouched")
}

func TestSGD_WithMomentum(t *testing.T) {
	sgd := optim.NewSGDWithConfig(optim.SGDConfig{LR: 0.1, Momentum: 0.9})
	value := vec(t, 1)
	state := sgd.NewState(value.Shape())
	grad := vec(t, 1)

	// velocity: 1, then 0.9*1 + 1 = 1.9.
	value = sgd.Update(value, state, grad)
	assert.InDelta(t, 0.9, float64(value.Item()), 1e-6)
	value = sgd.Update(value, state, grad)
	assert.InDelta(t, 0.71, float64(value.Item()), 1e-6)
}

func TestSGD_Defaults(t *testing.T) {
	sgd := optim.NewSGDWithConfig(optim.SGDConfig{})
	assert.Equal(t, float32(0.01), sgd.LR())
	assert.Equal(t, float32(0), sgd.Momentum())
	assert.Panics(t, func() { optim.NewSGDWithConfig(optim.SGDConfig{Momentum: 1}) })
}

func TestAdam_FirstStepIsLR(t *testing.T) {
	// After bias correction the first step is lr * g / |g| for any gradient.
	adam := optim.NewAdam(optim.AdamConfig{LR: 0.1})
	value := vec(t, 1, 1, 1)
	state := adam.NewState(value.Shape())
	updated := adam.Update(value, state, vec(t, 5, -0.01, 100))
	assert.True(t, updated.AllClose(vec(t, 0.9, 1.1, 0.9), 1e-5), "got %s", updated)
}

func TestAdam_Defaults(t *testing.T) {
	cfg := optim.NewAdam(optim.AdamConfig{}).Config()
	assert.Equal(t, float32(0.001), cfg.LR)
	assert.Equal(t, [2]float32{0.9, 0.999}, cfg.Betas)
	assert.Equal(t, float32(1e-8), cfg.Eps)
	assert.Equal(t, float32(0), cfg.WeightDecay)
	assert.Equal(t, float32(0.01), optim.NewAdamW(optim.AdamConfig{}).Config().WeightDecay)
}

func TestAdamW_DecaysWithZeroGradient(t *testing.T) {
	adamw := optim.NewAdamW(optim.AdamConfig{LR: 0.1, WeightDecay: 0.5})
	value := vec(t, 2)
	state := adamw.NewState(value.Shape())
	updated := adamw.Update(value, state, vec(t, 0))
	assert.InDelta(t, 2*(1-0.05), float64(updated.Item()), 1e-6)
}

func TestUpdate_ShapeMismatchPanics(t *testing.T) {
	sgd := optim.NewSGD(0.1)
	value := vec(t, 1, 2)
	assert.Panics(t, func() { sgd.Update(value, sgd.NewState(value.Shape()), vec(t, 1)) })
}

func TestNew(t *testing.T) {
	for _, name := range []string{"sgd", "Adam", "ADAMW"} {
		opt, err := optim.New(name, 0.05)
		require.NoError(t, err, name)
		assert.Contains(t, opt.Name(), "lr=0.05")
	}
	_, err := optim.New("rmsprop", 0.1)
	require.Error(t, err)
	for _, lr := range []float32{-1, 0, float32(math.NaN())} {
		_, err = optim.New("sgd", lr)
		require.Error(t, err, "lr=%g", lr)
	}
}

func TestConvergence_SimpleQuadratic(t *testing.T) {
	tests := []struct {
		name string
		opt  autodiff.Optimizer
	}{
		{"SGD", optim.NewSGDWithConfig(optim.SGDConfig{LR: 0.1, Momentum: 0.9})},
		{"Adam", optim.NewAdam(optim.AdamConfig{LR: 0.1})},
		{"AdamW", optim.NewAdamW(optim.AdamConfig{LR: 0.1})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// f(x) = x², starting at x = 3.
			x := autodiff.NewParam(tensor.Scalar(3), "x", tt.opt)
			for range 200 {
				v := x.Get()
				autodiff.Optimize(v.Mul(v))
			}
			assert.InDelta(t, 0, float64(x.Value().Item()), 0.1)
			assert.Equal(t, 200, x.Steps())
		})
	}
}

func TestMultipleParameters(t *testing.T) {
	// Independent states: each parameter follows its own gradient.
	opt := optim.NewAdam(optim.AdamConfig{LR: 0.05})
	a := autodiff.NewParam(vec(t, 1, -1), "a", opt)
	b := autodiff.NewParam(tensor.Scalar(4), "b", opt)
	target := autodiff.New(vec(t, 3, 3))
	for range 300 {
		d := a.Get().Sub(target)
		e := b.Get().AddScalar(-2)
		autodiff.Optimize(ops.Sum(d.Mul(d)).Add(e.Mul(e)))
	}
	assert.True(t, a.Value().AllClose(vec(t, 3, 3), 0.1), "a = %s", a.Value())
	assert.InDelta(t, 2, float64(b.Value().Item()), 0.1)
}
