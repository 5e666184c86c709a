package ops

import (
	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
)

// ReshapeOp changes the shape, keeping the elements.
//
// Backward: the gradient is reshaped back to the input shape.
type ReshapeOp struct {
	Shape tensor.Shape
}

// Name implements autodiff.Operation.
func (op ReshapeOp) Name() string { return "reshape" + op.Shape.String() }

// Forward implements autodiff.Operation.
func (op ReshapeOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(inputs[0].Tensor().Reshape(op.Shape))}
}

// Backward implements autodiff.Operation.
func (op ReshapeOp) Backward(inputs, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{Reshape(outputGrads[0], inputs[0].Shape())}
}

// Reshape returns x with a new shape. It returns x itself if the shape is
// unchanged.
func Reshape(x autodiff.Computed, shape tensor.Shape) autodiff.Computed {
	if x.Shape().Equal(shape) {
		return x
	}
	return autodiff.CallOne(ReshapeOp{Shape: shape.Clone()}, x)
}
