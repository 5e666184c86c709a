package autodiff_test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/optim"
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scalar(v float32) autodiff.Computed {
	return autodiff.Backprop(autodiff.Constant(v))
}

func fromSlice(t *testing.T, data []float32, shape ...int) autodiff.Computed {
	t.Helper()
	return autodiff.New(must.M1(tensor.FromSlice(data, tensor.Shape(shape))))
}

// panicMessage runs fn and returns the message of the error it panics with.
func panicMessage(fn func()) string {
	err := exceptions.TryCatch[error](fn)
	if err == nil {
		return ""
	}
	return err.Error()
}

func TestGradients_SharedInputAccumulates(t *testing.T) {
	x := scalar(3)
	y := x.Add(x)
	g := autodiff.Gradient(y, x, false)
	assert.Equal(t, float32(2), g.Item())
}

func TestGradients_Diamond(t *testing.T) {
	// y = x*x + 3x, dy/dx = 2x + 3.
	x := scalar(2)
	a := x.Mul(x)
	b := x.Scale(3)
	y := a.Add(b)
	g := autodiff.Gradient(y, x, false)
	assert.Equal(t, float32(7), g.Item())
}

func TestGradients_Quotient(t *testing.T) {
	a, b := scalar(3), scalar(2)
	grads := autodiff.Gradients([]autodiff.Computed{a.Div(b)}, []autodiff.Computed{a, b}, false)
	assert.InDelta(t, 0.5, float64(grads[0].Item()), 1e-6)
	assert.InDelta(t, -0.75, float64(grads[1].Item()), 1e-6)
}

func TestGradients_MultipleOutputsAreSummed(t *testing.T) {
	x := scalar(4)
	grads := autodiff.Gradients([]autodiff.Computed{x.Scale(2), x.Neg()}, []autodiff.Computed{x}, false)
	assert.Equal(t, float32(1), grads[0].Item())
}

func TestGradients_BroadcastShapes(t *testing.T) {
	a := autodiff.Backprop(fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, 2, 3))
	b := autodiff.Backprop(fromSlice(t, []float32{10, 20, 30}, 3))
	c := autodiff.Backprop(fromSlice(t, []float32{2, 3}, 2, 1))

	y := a.Add(b).Mul(c)
	assert.Equal(t, tensor.Shape{2, 3}, y.Shape())

	grads := autodiff.Gradients([]autodiff.Computed{y}, []autodiff.Computed{a, b, c}, false)
	require.Len(t, grads, 3)
	assert.Equal(t, tensor.Shape{2, 3}, grads[0].Shape())
	assert.Equal(t, tensor.Shape{3}, grads[1].Shape())
	assert.Equal(t, tensor.Shape{2, 1}, grads[2].Shape())

	// dy/da = c broadcast, dy/db = sum over rows of c, dy/dc = row sums of a+b.
	assert.Equal(t, []float32{2, 2, 2, 3, 3, 3}, grads[0].Tensor().Data())
	assert.Equal(t, []float32{5, 5, 5}, grads[1].Tensor().Data())
	assert.Equal(t, []float32{66, 75}, grads[2].Tensor().Data())
}

func TestCall_NoGraphWithoutGraphInputs(t *testing.T) {
	a := autodiff.Constant(2)
	b := autodiff.Constant(3)
	y := a.Mul(b).Add(a)
	assert.False(t, y.HasCreator())
	assert.Equal(t, float32(8), y.Item())

	// A single graph-bearing input is enough.
	z := autodiff.Backprop(a).Mul(b)
	assert.True(t, z.HasCreator())
	assert.Equal(t, "mul", z.Creator().Name())
}

func TestGradients_DetachedWithoutCreateGraph(t *testing.T) {
	x := scalar(3)
	y := x.Mul(x).Mul(x)
	g := autodiff.Gradient(y, x, false)
	assert.False(t, g.HasCreator())
	assert.Equal(t, float32(27), g.Item())
}

func TestGradients_SecondOrder(t *testing.T) {
	x := scalar(5)
	y := x.Mul(x)
	dy := autodiff.Gradient(y, x, true)
	require.True(t, dy.HasCreator())
	assert.Equal(t, float32(10), dy.Item())

	d2y := autodiff.Gradient(dy, x, false)
	assert.InDelta(t, 2.0, float64(d2y.Item()), 1e-6)
}

func TestGradients_SecondOrderCubic(t *testing.T) {
	// y = x³, y'' = 6x.
	x := scalar(2)
	y := x.Mul(x).Mul(x)
	dy := autodiff.Gradient(y, x, true)
	assert.InDelta(t, 12.0, float64(dy.Item()), 1e-5)
	d2y := autodiff.Gradient(dy, x, false)
	assert.InDelta(t, 12.0, float64(d2y.Item()), 1e-5)
}

func TestGradients_GradNotFound(t *testing.T) {
	x := scalar(1)
	unused := scalar(2).Named("unused")
	y := x.Scale(2)
	msg := panicMessage(func() { autodiff.Gradients([]autodiff.Computed{y}, []autodiff.Computed{unused}, false) })
	assert.Contains(t, msg, "grad not found")
	assert.Contains(t, msg, "unused")
}

type badArityOp struct{}

func (badArityOp) Name() string { return "bad_arity" }

func (badArityOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(inputs[0].Tensor().Add(inputs[1].Tensor()))}
}

func (badArityOp) Backward(_, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{outputGrads[0]}
}

func TestGradients_ArityMismatch(t *testing.T) {
	a, b := scalar(1), scalar(2)
	y := autodiff.CallOne(badArityOp{}, a, b)
	msg := panicMessage(func() { autodiff.Gradient(y, a, false) })
	assert.Contains(t, msg, "bad_arity")
	assert.Contains(t, msg, "returned 1 gradients for 2 inputs")
}

type identityOp struct{}

func (identityOp) Name() string { return "identity" }

func (identityOp) Forward(inputs []autodiff.Computed) []autodiff.Computed { return inputs }

func (identityOp) Backward(_, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	return outputGrads
}

func TestCall_RejectsOutputAliasingInput(t *testing.T) {
	x := autodiff.Constant(1)
	msg := panicMessage(func() { autodiff.CallOne(identityOp{}, x) })
	assert.Contains(t, msg, "must return new handles")
}

// pairOp produces two outputs: the input and its double.
type pairOp struct{}

func (pairOp) Name() string { return "pair" }

func (pairOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	x := inputs[0].Tensor()
	return []autodiff.Computed{autodiff.New(x), autodiff.New(x.Scale(2))}
}

func (pairOp) Backward(_, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{outputGrads[0].Add(outputGrads[1].Scale(2))}
}

func TestGradients_MultiOutputUnusedOutputIsZero(t *testing.T) {
	x := scalar(3)
	outs := autodiff.Call(pairOp{}, x)
	y := outs[1].Mul(outs[1])
	// Keep the unused output alive: only the gradient is missing.
	g := autodiff.Gradient(y, x, false)
	runtime.KeepAlive(outs[0])
	assert.Equal(t, float32(24), g.Item()) // d(2x)²/dx = 8x
}

func TestFunctionCall_DroppedOutput(t *testing.T) {
	x := scalar(3)
	var y autodiff.Computed
	func() {
		outs := autodiff.Call(pairOp{}, x)
		y = outs[1].Mul(outs[1])
	}()
	// outs[0] is unreachable now, while its creator is still referenced by y.
	for range 3 {
		runtime.GC()
	}
	msg := panicMessage(func() { autodiff.Gradient(y, x, false) })
	assert.Contains(t, msg, "dropped while its creator is still referenced")
}

func TestChain(t *testing.T) {
	x := scalar(2)
	// y = x³ computed outside the graph, with a hand-written backward.
	y := autodiff.New(x.Tensor().Pow(3))
	autodiff.Chain([]autodiff.Computed{x}, []autodiff.Computed{y}, false, "cube",
		func(in, _, g []autodiff.Computed) []autodiff.Computed {
			return []autodiff.Computed{g[0].Mul(in[0].Mul(in[0]).Scale(3))}
		})
	require.True(t, y.HasCreator())
	assert.Equal(t, "cube", y.Creator().Name())
	assert.Equal(t, float32(12), autodiff.Gradient(y, x, false).Item())

	// Without graph-bearing inputs nothing is recorded unless forced.
	leaf := autodiff.Constant(1)
	z := autodiff.New(tensor.Scalar(1))
	autodiff.Chain([]autodiff.Computed{leaf}, []autodiff.Computed{z}, false, "noop", nil)
	assert.False(t, z.HasCreator())
	autodiff.Chain([]autodiff.Computed{leaf}, []autodiff.Computed{z}, true, "noop", nil)
	assert.True(t, z.HasCreator())
}

func TestComputed_UnchainAndDetach(t *testing.T) {
	x := scalar(2)
	y := x.Mul(x).Named("y")
	alias := y

	d := y.Detach()
	assert.False(t, d.HasCreator())
	assert.True(t, y.HasCreator())
	assert.Equal(t, "y", d.Name())
	assert.False(t, y == d)

	y.Unchain()
	assert.False(t, alias.HasCreator(), "aliases share the allocation")
	assert.Equal(t, float32(4), alias.Item())
}

func TestComputed_Invalid(t *testing.T) {
	var c autodiff.Computed
	assert.False(t, c.IsValid())
	assert.Equal(t, "Computed(invalid)", c.String())
	assert.Panics(t, func() { c.Tensor() })
	assert.Panics(t, func() { autodiff.New(nil) })
}

func TestParam_GetIsMemoized(t *testing.T) {
	p := autodiff.NewParam(tensor.Scalar(1), "w", optim.NewSGD(0.1))
	a := p.Get()
	b := p.Get()
	assert.True(t, a == b, "repeated reads share one handle")
	assert.True(t, a.HasCreator())
	assert.Equal(t, "w", a.Creator().Name())
	assert.Empty(t, a.Creator().Inputs())
	assert.Equal(t, 1, a.Creator().NumOutputs())
}

func TestParam_UpdateIsolatesPastHandles(t *testing.T) {
	p := autodiff.NewParam(tensor.Scalar(1), "w", optim.NewSGD(0.5))
	before := p.Get()
	p.Update(autodiff.Constant(2))

	after := p.Get()
	assert.False(t, before == after)
	assert.Equal(t, float32(1), before.Item())
	assert.Equal(t, float32(0), after.Item())
	assert.Equal(t, 1, p.Steps())

	assert.Panics(t, func() { p.Update(autodiff.New(tensor.Ones(tensor.Shape{2}))) })
}

func TestParam_Set(t *testing.T) {
	p := autodiff.NewParam(tensor.Zeros(tensor.Shape{2}), "b", optim.NewSGD(0.1))
	before := p.Get()
	p.Set(tensor.Ones(tensor.Shape{2}))
	assert.False(t, before == p.Get())
	assert.Equal(t, []float32{1, 1}, p.GetTensor().Data())
	assert.Panics(t, func() { p.Set(tensor.Ones(tensor.Shape{3})) })
}

func TestOptimize_ConvergesOnQuadratic(t *testing.T) {
	x := autodiff.NewParam(tensor.Scalar(0), "x", optim.NewSGD(0.01))
	loss := func() autodiff.Computed {
		d := x.Get().Scale(2).AddScalar(-6)
		return d.Mul(d)
	}
	initial := loss().Item()
	require.Equal(t, float32(36), initial)
	for range 100 {
		autodiff.Optimize(loss())
	}
	final := loss().Item()
	assert.Less(t, final, initial/100)
	assert.Equal(t, 100, x.Steps())
}

func TestGradientsAccumulator(t *testing.T) {
	w := autodiff.NewParam(tensor.Scalar(2), "w", optim.NewSGD(0.1))
	b := autodiff.NewParam(tensor.Scalar(1), "b", optim.NewSGD(0.1))

	acc := autodiff.NewGradientsAccumulator()
	acc.Compute(w.Get().Mul(w.Get())) // d/dw = 4
	acc.Compute(w.Get().Add(b.Get())) // d/dw = 1, d/db = 1
	require.Equal(t, 2, acc.Len())
	assert.Equal(t, []*autodiff.Param{w, b}, acc.Params())

	gw, ok := acc.Grad(w)
	require.True(t, ok)
	assert.Equal(t, float32(5), gw.Item())

	other := autodiff.NewGradientsAccumulator()
	other.Compute(b.Get().Scale(3))
	acc.Merge(other)
	gb, _ := acc.Grad(b)
	assert.Equal(t, float32(4), gb.Item())

	acc.Optimize()
	assert.Equal(t, 0, acc.Len())
	assert.InDelta(t, 1.5, float64(w.Value().Item()), 1e-6)
	assert.InDelta(t, 0.6, float64(b.Value().Item()), 1e-6)

	// Losses without parameters are ignored.
	acc.Compute(autodiff.Constant(1))
	assert.Equal(t, 0, acc.Len())
}

func TestParamsOf(t *testing.T) {
	w := autodiff.NewParam(tensor.Scalar(2), "w", optim.NewSGD(0.1))
	loss := w.Get().Mul(scalar(3))
	refs := autodiff.ParamsOf(loss)
	require.Len(t, refs, 1)
	assert.Same(t, w, refs[0].Param)
	assert.True(t, w.Get() == refs[0].Handle)
}

func TestToDOT(t *testing.T) {
	x := scalar(1).Named("x")
	y := x.Mul(x).Named("y")
	dot := autodiff.ToDOT(y)
	assert.True(t, strings.HasPrefix(dot, "digraph G {\n"))
	assert.True(t, strings.HasSuffix(dot, "}\n"))
	assert.Contains(t, dot, `label="y []"`)
	assert.Contains(t, dot, `label="mul", shape=box`)
	assert.Contains(t, dot, `label="backprop", shape=box`)
	assert.Contains(t, dot, "-> h0;")
}
