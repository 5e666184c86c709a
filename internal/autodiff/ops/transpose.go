package ops

import "github.com/born-ml/autograd/internal/autodiff"

// TransposeOp swaps the axes of a matrix.
//
// Backward: the gradient is transposed back.
type TransposeOp struct{}

// Name implements autodiff.Operation.
func (TransposeOp) Name() string { return "transpose" }

// Forward implements autodiff.Operation.
func (TransposeOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(inputs[0].Tensor().Transpose())}
}

// Backward implements autodiff.Operation.
func (TransposeOp) Backward(_, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{Transpose(outputGrads[0])}
}

// Transpose returns the transpose of the matrix x.
func Transpose(x autodiff.Computed) autodiff.Computed { return autodiff.CallOne(TransposeOp{}, x) }
