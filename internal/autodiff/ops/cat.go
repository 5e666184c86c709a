package ops

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
)

// ConcatOp joins its inputs along Axis.
//
// Backward: the gradient is sliced back into one piece per input.
type ConcatOp struct {
	Axis int
}

// Name implements autodiff.Operation.
func (op ConcatOp) Name() string { return fmt.Sprintf("concat(%d)", op.Axis) }

// Forward implements autodiff.Operation.
func (op ConcatOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	ts := make([]*tensor.Tensor, len(inputs))
	for i, in := range inputs {
		ts[i] = in.Tensor()
	}
	return []autodiff.Computed{autodiff.New(tensor.Concat(op.Axis, ts...))}
}

// Backward implements autodiff.Operation.
func (op ConcatOp) Backward(inputs, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	grads := make([]autodiff.Computed, len(inputs))
	start := 0
	for i, in := range inputs {
		shape := in.Shape()
		size := shape[normalizeAxis(op.Axis, len(shape))]
		grads[i] = Slice(outputGrads[0], op.Axis, start, start+size)
		start += size
	}
	return grads
}

// Concat joins xs along axis.
func Concat(axis int, xs ...autodiff.Computed) autodiff.Computed {
	return autodiff.CallOne(ConcatOp{Axis: axis}, xs...)
}
