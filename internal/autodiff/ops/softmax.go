package ops

import (
	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
)

// SoftmaxOp normalizes the last axis into probabilities.
//
// Forward (for each row):
//
//	softmax(x)_i = exp(x_i - max(x)) / Σ_j exp(x_j - max(x))
//
// Backward:
//
//	∂L/∂x_j = softmax_j * (∂L/∂softmax_j - Σ_i ∂L/∂softmax_i * softmax_i)
type SoftmaxOp struct{}

// Name implements autodiff.Operation.
func (SoftmaxOp) Name() string { return "softmax" }

// Forward implements autodiff.Operation.
func (SoftmaxOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(softmax(inputs[0].Tensor()))}
}

// Backward implements autodiff.Operation.
func (SoftmaxOp) Backward(_, outputs, outputGrads []autodiff.Computed) []autodiff.Computed {
	y, g := outputs[0], outputGrads[0]
	dot := SumAxes(g.Mul(y), []int{-1}, true)
	return []autodiff.Computed{y.Mul(g.Sub(dot))}
}

// Softmax applies softmax over the last axis of x.
func Softmax(x autodiff.Computed) autodiff.Computed { return autodiff.CallOne(SoftmaxOp{}, x) }

// LogSoftmaxOp computes log(softmax(x)) over the last axis, without
// materializing the softmax.
//
// Backward:
//
//	∂L/∂x_j = ∂L/∂y_j - softmax_j * Σ_i ∂L/∂y_i
type LogSoftmaxOp struct{}

// Name implements autodiff.Operation.
func (LogSoftmaxOp) Name() string { return "log_softmax" }

// Forward implements autodiff.Operation.
func (LogSoftmaxOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(logSoftmax(inputs[0].Tensor()))}
}

// Backward implements autodiff.Operation.
func (LogSoftmaxOp) Backward(_, outputs, outputGrads []autodiff.Computed) []autodiff.Computed {
	g := outputGrads[0]
	probs := Exp(outputs[0])
	return []autodiff.Computed{g.Sub(probs.Mul(SumAxes(g, []int{-1}, true)))}
}

// LogSoftmax applies log-softmax over the last axis of x.
func LogSoftmax(x autodiff.Computed) autodiff.Computed {
	return autodiff.CallOne(LogSoftmaxOp{}, x)
}

// softmax over the last axis, shifted by the row maximum for stability.
func softmax(x *tensor.Tensor) *tensor.Tensor {
	e := x.Sub(x.MaxAxis(-1, true)).Exp()
	return e.Div(e.SumAxes([]int{-1}, true))
}

func logSoftmax(x *tensor.Tensor) *tensor.Tensor {
	shifted := x.Sub(x.MaxAxis(-1, true))
	return shifted.Sub(shifted.Exp().SumAxes([]int{-1}, true).Log())
}
