package ops

import "github.com/born-ml/autograd/internal/autodiff"

// ReLUOp represents y = max(0, x).
//
// Backward: grad_input = grad_output where x > 0, else 0. The mask is a
// constant, so the second derivative is zero.
type ReLUOp struct{}

// Name implements autodiff.Operation.
func (ReLUOp) Name() string { return "relu" }

// Forward implements autodiff.Operation.
func (ReLUOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(inputs[0].Tensor().Map(func(v float32) float32 {
		return max(v, 0)
	}))}
}

// Backward implements autodiff.Operation.
func (ReLUOp) Backward(inputs, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	mask := inputs[0].Tensor().Map(func(v float32) float32 {
		if v > 0 {
			return 1
		}
		return 0
	})
	return []autodiff.Computed{outputGrads[0].Mul(autodiff.New(mask))}
}

// ReLU returns max(0, x) elementwise.
func ReLU(x autodiff.Computed) autodiff.Computed { return autodiff.CallOne(ReLUOp{}, x) }
