package ops

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autodiff"
)

// SliceOp keeps the range [Start, End) along Axis.
//
// Backward: the gradient is zero-padded back to the input extent.
type SliceOp struct {
	Axis, Start, End int
}

// Name implements autodiff.Operation.
func (op SliceOp) Name() string { return fmt.Sprintf("slice(%d, %d:%d)", op.Axis, op.Start, op.End) }

// Forward implements autodiff.Operation.
func (op SliceOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(inputs[0].Tensor().Slice(op.Axis, op.Start, op.End))}
}

// Backward implements autodiff.Operation.
func (op SliceOp) Backward(inputs, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	shape := inputs[0].Shape()
	dim := shape[normalizeAxis(op.Axis, len(shape))]
	return []autodiff.Computed{Pad(outputGrads[0], op.Axis, op.Start, dim-op.End)}
}

// Slice returns the elements of x with index in [start, end) along axis.
func Slice(x autodiff.Computed, axis, start, end int) autodiff.Computed {
	return autodiff.CallOne(SliceOp{Axis: axis, Start: start, End: end}, x)
}
