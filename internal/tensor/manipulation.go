package tensor

import (
	"github.com/gomlx/exceptions"
)

// Reshape returns a tensor with the same elements and a new shape.
// The element count must match.
func (t *Tensor) Reshape(shape Shape) *Tensor {
	if err := shape.Validate(); err != nil {
		exceptions.Panicf("tensor.Reshape: %v", err)
	}
	if shape.NumElements() != len(t.data) {
		exceptions.Panicf("tensor.Reshape: cannot reshape %s (%d elements) to %s (%d elements)",
			t.shape, len(t.data), shape, shape.NumElements())
	}
	// Elements are immutable, so the buffer can be shared.
	return newTensor(shape.Clone(), t.data)
}

// BroadcastTo expands t to shape following broadcasting rules.
func (t *Tensor) BroadcastTo(shape Shape) *Tensor {
	if t.shape.Equal(shape) {
		return t
	}
	// Validates compatibility: the reduction of shape back to t.shape must exist.
	_ = BroadcastAxes(shape, t.shape)
	return Zeros(shape).Zip(t, func(_, b float32) float32 { return b })
}

// Transpose swaps the two axes of a matrix.
func (t *Tensor) Transpose() *Tensor {
	if len(t.shape) != 2 {
		exceptions.Panicf("tensor.Transpose: expected a 2D tensor, got shape %s", t.shape)
	}
	return t.Permute(1, 0)
}

// Permute reorders the axes: result axis i is input axis axes[i].
func (t *Tensor) Permute(axes ...int) *Tensor {
	rank := len(t.shape)
	if len(axes) != rank {
		exceptions.Panicf("tensor.Permute: got %d axes for rank-%d tensor", len(axes), rank)
	}
	seen := make([]bool, rank)
	perm := make([]int, rank)
	outShape := make(Shape, rank)
	for i, a := range axes {
		a = normalizeAxis(a, rank)
		if seen[a] {
			exceptions.Panicf("tensor.Permute: axis %d repeated in %v", a, axes)
		}
		seen[a] = true
		perm[i] = a
		outShape[i] = t.shape[a]
	}

	inStrides := t.shape.ComputeStrides()
	srcStrides := make([]int, rank)
	for i, a := range perm {
		srcStrides[i] = inStrides[a]
	}
	outStrides := outShape.ComputeStrides()

	out := make([]float32, len(t.data))
	for i := range out {
		off := 0
		rem := i
		for d, stride := range outStrides {
			coord := rem / stride
			rem %= stride
			off += coord * srcStrides[d]
		}
		out[i] = t.data[off]
	}
	return newTensor(outShape, out)
}

// Slice returns the elements with index in [start, end) along axis.
func (t *Tensor) Slice(axis, start, end int) *Tensor {
	axis = normalizeAxis(axis, len(t.shape))
	outer, dim, inner := splitAt(t.shape, axis)
	if start < 0 || end > dim || start > end {
		exceptions.Panicf("tensor.Slice: range [%d, %d) invalid for axis %d of shape %s", start, end, axis, t.shape)
	}
	width := end - start
	out := make([]float32, 0, outer*width*inner)
	for o := 0; o < outer; o++ {
		base := (o*dim + start) * inner
		out = append(out, t.data[base:base+width*inner]...)
	}
	shape := t.shape.Clone()
	shape[axis] = width
	return newTensor(shape, out)
}

// Pad surrounds t with before and after zeros along axis.
func (t *Tensor) Pad(axis, before, after int) *Tensor {
	axis = normalizeAxis(axis, len(t.shape))
	if before < 0 || after < 0 {
		exceptions.Panicf("tensor.Pad: negative padding (%d, %d)", before, after)
	}
	outer, dim, inner := splitAt(t.shape, axis)
	newDim := before + dim + after
	out := make([]float32, outer*newDim*inner)
	for o := 0; o < outer; o++ {
		copy(out[(o*newDim+before)*inner:], t.data[o*dim*inner:(o+1)*dim*inner])
	}
	shape := t.shape.Clone()
	shape[axis] = newDim
	return newTensor(shape, out)
}

// Concat joins tensors along axis. All other dimensions must match.
func Concat(axis int, ts ...*Tensor) *Tensor {
	if len(ts) == 0 {
		exceptions.Panicf("tensor.Concat: no tensors given")
	}
	first := ts[0].shape
	axis = normalizeAxis(axis, len(first))
	total := 0
	for i, t := range ts {
		if len(t.shape) != len(first) {
			exceptions.Panicf("tensor.Concat: tensor #%d has rank %d, want %d", i, len(t.shape), len(first))
		}
		for d := range first {
			if d != axis && t.shape[d] != first[d] {
				exceptions.Panicf("tensor.Concat: tensor #%d has shape %s, incompatible with %s along axis %d",
					i, t.shape, first, axis)
			}
		}
		total += t.shape[axis]
	}

	outer, _, inner := splitAt(first, axis)
	out := make([]float32, 0, outer*total*inner)
	for o := 0; o < outer; o++ {
		for _, t := range ts {
			block := t.shape[axis] * inner
			out = append(out, t.data[o*block:(o+1)*block]...)
		}
	}
	shape := first.Clone()
	shape[axis] = total
	return newTensor(shape, out)
}

// Split cuts t along axis into consecutive pieces of the given sizes, which
// must add up to the dimension.
func (t *Tensor) Split(axis int, sizes ...int) []*Tensor {
	axis = normalizeAxis(axis, len(t.shape))
	total := 0
	for _, s := range sizes {
		total += s
	}
	if total != t.shape[axis] {
		exceptions.Panicf("tensor.Split: sizes %v add up to %d, but axis %d of shape %s has %d",
			sizes, total, axis, t.shape, t.shape[axis])
	}
	parts := make([]*Tensor, len(sizes))
	start := 0
	for i, s := range sizes {
		parts[i] = t.Slice(axis, start, start+s)
		start += s
	}
	return parts
}
