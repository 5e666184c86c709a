package ops

import "github.com/born-ml/autograd/internal/autodiff"

// LogOp represents y = ln(x).
//
// Backward: grad_input = grad_output / x.
type LogOp struct{}

// Name implements autodiff.Operation.
func (LogOp) Name() string { return "log" }

// Forward implements autodiff.Operation.
func (LogOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(inputs[0].Tensor().Log())}
}

// Backward implements autodiff.Operation.
func (LogOp) Backward(inputs, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{outputGrads[0].Div(inputs[0])}
}

// Log returns the natural logarithm of x elementwise.
func Log(x autodiff.Computed) autodiff.Computed { return autodiff.CallOne(LogOp{}, x) }
