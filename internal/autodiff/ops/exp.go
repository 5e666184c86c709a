package ops

import "github.com/born-ml/autograd/internal/autodiff"

// ExpOp represents y = exp(x).
//
// Backward: dy/dx = exp(x) = y, so grad_input = grad_output * y.
type ExpOp struct{}

// Name implements autodiff.Operation.
func (ExpOp) Name() string { return "exp" }

// Forward implements autodiff.Operation.
func (ExpOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(inputs[0].Tensor().Exp())}
}

// Backward implements autodiff.Operation.
func (ExpOp) Backward(_, outputs, outputGrads []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{outputGrads[0].Mul(outputs[0])}
}

// Exp returns exp(x) elementwise.
func Exp(x autodiff.Computed) autodiff.Computed { return autodiff.CallOne(ExpOp{}, x) }
