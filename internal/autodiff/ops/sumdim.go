package ops

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autodiff"
)

// SumAxesOp sums over the given axes.
//
// Backward: the gradient is reshaped with the reduced axes kept as size 1,
// then broadcast back to the input shape.
type SumAxesOp struct {
	Axes     []int
	KeepDims bool
}

// Name implements autodiff.Operation.
func (op SumAxesOp) Name() string { return fmt.Sprintf("sum_axes%v", op.Axes) }

// Forward implements autodiff.Operation.
func (op SumAxesOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(inputs[0].Tensor().SumAxes(op.Axes, op.KeepDims))}
}

// Backward implements autodiff.Operation.
func (op SumAxesOp) Backward(inputs, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	shape := inputs[0].Shape()
	g := Reshape(outputGrads[0], keepDimsShape(shape, op.Axes))
	return []autodiff.Computed{g.BroadcastTo(shape)}
}

// SumAxes sums x over axes. Negative axes count from the end.
func SumAxes(x autodiff.Computed, axes []int, keepDims bool) autodiff.Computed {
	return autodiff.CallOne(SumAxesOp{Axes: append([]int(nil), axes...), KeepDims: keepDims}, x)
}
