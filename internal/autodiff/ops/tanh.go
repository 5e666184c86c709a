package ops

import "github.com/born-ml/autograd/internal/autodiff"

// TanhOp represents y = tanh(x).
//
// Backward: grad_input = grad_output * (1 - y²).
type TanhOp struct{}

// Name implements autodiff.Operation.
func (TanhOp) Name() string { return "tanh" }

// Forward implements autodiff.Operation.
func (TanhOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(inputs[0].Tensor().Tanh())}
}

// Backward implements autodiff.Operation.
func (TanhOp) Backward(_, outputs, outputGrads []autodiff.Computed) []autodiff.Computed {
	y := outputs[0]
	return []autodiff.Computed{outputGrads[0].Mul(y.Mul(y).Neg().AddScalar(1))}
}

// Tanh returns tanh(x) elementwise.
func Tanh(x autodiff.Computed) autodiff.Computed { return autodiff.CallOne(TanhOp{}, x) }
