package tensor

import (
	"math"
	"slices"

	"github.com/gomlx/exceptions"
)

// Sum returns the sum of all elements as a scalar.
func (t *Tensor) Sum() *Tensor {
	var sum float32
	for _, v := range t.data {
		sum += v
	}
	return Scalar(sum)
}

// SumAxes sums over the given axes. Negative axes count from the end.
// With keepDims the reduced axes stay in the result with size 1.
func (t *Tensor) SumAxes(axes []int, keepDims bool) *Tensor {
	rank := len(t.shape)
	reduced := make([]bool, rank)
	for _, axis := range axes {
		reduced[normalizeAxis(axis, rank)] = true
	}

	keptShape := t.shape.Clone()
	for i, r := range reduced {
		if r {
			keptShape[i] = 1
		}
	}
	outStrides := broadcastStrides(keptShape, t.shape)
	inStrides := t.shape.ComputeStrides()

	out := make([]float32, keptShape.NumElements())
	for i, v := range t.data {
		off := 0
		rem := i
		for d, stride := range inStrides {
			coord := rem / stride
			rem %= stride
			off += coord * outStrides[d]
		}
		out[off] += v
	}

	if keepDims {
		return newTensor(keptShape, out)
	}
	finalShape := make(Shape, 0, rank)
	for i, dim := range t.shape {
		if !reduced[i] {
			finalShape = append(finalShape, dim)
		}
	}
	return newTensor(finalShape, out)
}

// SumTo reduces t to shape by summing over the axes introduced by
// broadcasting (see BroadcastAxes). It is the exact inverse of broadcasting
// shape to t.Shape(); any other shape panics.
func (t *Tensor) SumTo(shape Shape) *Tensor {
	if t.shape.Equal(shape) {
		return t
	}
	axes := BroadcastAxes(t.shape, shape)
	return t.SumAxes(axes, true).Reshape(shape)
}

// MaxAxis returns the maximum along axis.
func (t *Tensor) MaxAxis(axis int, keepDims bool) *Tensor {
	rank := len(t.shape)
	axis = normalizeAxis(axis, rank)
	outer, dim, inner := splitAt(t.shape, axis)
	if dim == 0 {
		exceptions.Panicf("tensor.MaxAxis: axis %d of shape %s is empty", axis, t.shape)
	}

	out := make([]float32, outer*inner)
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			best := float32(math.Inf(-1))
			for d := 0; d < dim; d++ {
				if v := t.data[(o*dim+d)*inner+in]; v > best {
					best = v
				}
			}
			out[o*inner+in] = best
		}
	}

	shape := t.shape.Clone()
	if keepDims {
		shape[axis] = 1
	} else {
		shape = slices.Delete(shape, axis, axis+1)
	}
	return newTensor(shape, out)
}

// ArgMax returns, for every position of the other axes, the index of the
// maximum along axis. The result drops axis.
func (t *Tensor) ArgMax(axis int) []int {
	axis = normalizeAxis(axis, len(t.shape))
	outer, dim, inner := splitAt(t.shape, axis)
	out := make([]int, outer*inner)
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			best, bestIdx := float32(math.Inf(-1)), 0
			for d := 0; d < dim; d++ {
				if v := t.data[(o*dim+d)*inner+in]; v > best {
					best, bestIdx = v, d
				}
			}
			out[o*inner+in] = bestIdx
		}
	}
	return out
}

// splitAt decomposes shape around axis into (prod before, dim, prod after).
func splitAt(shape Shape, axis int) (outer, dim, inner int) {
	outer, inner = 1, 1
	for i := 0; i < axis; i++ {
		outer *= shape[i]
	}
	for i := axis + 1; i < len(shape); i++ {
		inner *= shape[i]
	}
	return outer, shape[axis], inner
}
