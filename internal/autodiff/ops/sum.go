package ops

import "github.com/born-ml/autograd/internal/autodiff"

// SumOp reduces all elements to a scalar.
//
// Backward: the scalar gradient is broadcast back to the input shape.
type SumOp struct{}

// Name implements autodiff.Operation.
func (SumOp) Name() string { return "sum" }

// Forward implements autodiff.Operation.
func (SumOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(inputs[0].Tensor().Sum())}
}

// Backward implements autodiff.Operation.
func (SumOp) Backward(inputs, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{outputGrads[0].BroadcastTo(inputs[0].Shape())}
}

// Sum returns the sum of all elements of x as a scalar.
func Sum(x autodiff.Computed) autodiff.Computed { return autodiff.CallOne(SumOp{}, x) }

// Mean returns the mean of all elements of x as a scalar.
func Mean(x autodiff.Computed) autodiff.Computed {
	n := x.Shape().NumElements()
	if n == 0 {
		return Sum(x)
	}
	return Sum(x).Scale(1 / float32(n))
}
