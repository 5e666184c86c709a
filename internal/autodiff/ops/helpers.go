package ops

import (
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/gomlx/exceptions"
)

// normalizeAxis maps a possibly negative axis into [0, rank).
func normalizeAxis(axis, rank int) int {
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		exceptions.Panicf("ops: axis %d out of range for rank %d", axis, rank)
	}
	return axis
}

// keepDimsShape returns shape with every axis in axes set to 1.
func keepDimsShape(shape tensor.Shape, axes []int) tensor.Shape {
	out := shape.Clone()
	for _, a := range axes {
		out[normalizeAxis(a, len(shape))] = 1
	}
	return out
}
