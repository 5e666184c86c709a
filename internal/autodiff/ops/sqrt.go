package ops

import "github.com/born-ml/autograd/internal/autodiff"

// SqrtOp represents y = √x.
//
// Backward: grad_input = grad_output / (2y).
type SqrtOp struct{}

// Name implements autodiff.Operation.
func (SqrtOp) Name() string { return "sqrt" }

// Forward implements autodiff.Operation.
func (SqrtOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(inputs[0].Tensor().Sqrt())}
}

// Backward implements autodiff.Operation.
func (SqrtOp) Backward(_, outputs, outputGrads []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{outputGrads[0].Div(outputs[0].Scale(2))}
}

// Sqrt returns √x elementwise.
func Sqrt(x autodiff.Computed) autodiff.Computed { return autodiff.CallOne(SqrtOp{}, x) }
