package ops

import "github.com/born-ml/autograd/internal/autodiff"

// SigmoidOp represents y = 1 / (1 + exp(-x)).
//
// Backward: grad_input = grad_output * y * (1 - y).
type SigmoidOp struct{}

// Name implements autodiff.Operation.
func (SigmoidOp) Name() string { return "sigmoid" }

// Forward implements autodiff.Operation.
func (SigmoidOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(inputs[0].Tensor().Sigmoid())}
}

// Backward implements autodiff.Operation.
func (SigmoidOp) Backward(_, outputs, outputGrads []autodiff.Computed) []autodiff.Computed {
	y := outputs[0]
	return []autodiff.Computed{outputGrads[0].Mul(y.Mul(y.Neg().AddScalar(1)))}
}

// Sigmoid returns the logistic function of x elementwise.
func Sigmoid(x autodiff.Computed) autodiff.Computed { return autodiff.CallOne(SigmoidOp{}, x) }
