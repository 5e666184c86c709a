package ops

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autodiff"
)

// PadOp surrounds the input with Before and After zeros along Axis.
//
// Backward: the gradient is sliced back to the original extent.
type PadOp struct {
	Axis, Before, After int
}

// Name implements autodiff.Operation.
func (op PadOp) Name() string { return fmt.Sprintf("pad(%d, %d, %d)", op.Axis, op.Before, op.After) }

// Forward implements autodiff.Operation.
func (op PadOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(inputs[0].Tensor().Pad(op.Axis, op.Before, op.After))}
}

// Backward implements autodiff.Operation.
func (op PadOp) Backward(inputs, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	shape := inputs[0].Shape()
	dim := shape[normalizeAxis(op.Axis, len(shape))]
	return []autodiff.Computed{Slice(outputGrads[0], op.Axis, op.Before, op.Before+dim)}
}

// Pad surrounds x with before and after zeros along axis.
func Pad(x autodiff.Computed, axis, before, after int) autodiff.Computed {
	return autodiff.CallOne(PadOp{Axis: axis, Before: before, After: after}, x)
}
