package tensor

import (
	"fmt"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Shape represents the dimensions of a tensor.
// An empty Shape is a scalar.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Rank returns the number of dimensions.
func (s Shape) Rank() int {
	return len(s)
}

// Validate checks that every dimension is non-negative.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return errors.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// String returns the shape formatted as "[2 3]"; scalars print as "[]".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		parts[i] = fmt.Sprint(dim)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// normalizeAxis maps a possibly negative axis into [0, rank).
func normalizeAxis(axis, rank int) int {
	if axis < 0 {
		axis += rank
	}
	if axis < 0 || axis >= rank {
		exceptions.Panicf("axis %d out of range for rank %d", axis, rank)
	}
	return axis
}

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Shapes are compared from the right; two dimensions are compatible if they
// are equal or one of them is 1, and missing dimensions are treated as 1.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5)
//	(5)    + (3, 5) → (3, 5)
//	(3, 4) + (3, 5) → error
func BroadcastShapes(a, b Shape) (Shape, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)

	for i := 0; i < maxLen; i++ {
		aIdx := len(a) - 1 - i
		bIdx := len(b) - 1 - i

		aDim := 1
		if aIdx >= 0 {
			aDim = a[aIdx]
		}

		bDim := 1
		if bIdx >= 0 {
			bDim = b[bIdx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
		case bDim == 1:
			result[maxLen-1-i] = aDim
		default:
			return nil, errors.Errorf("shapes not compatible for broadcasting: %s vs %s (dimension %d: %d vs %d)",
				a, b, maxLen-1-i, aDim, bDim)
		}
	}

	return result, nil
}

// BroadcastAxes returns the axes of src that have to be summed over to
// reduce a tensor of shape src back to dst, where src is the result of
// broadcasting dst.
//
// These are the leading axes src has and dst lacks, plus the axes where dst
// has size 1 and src does not:
//
//	BroadcastAxes([4 2 3], [2 3]) → [0]
//	BroadcastAxes([4 2 3], [2 1]) → [0 2]
//	BroadcastAxes([2 3],   [2 3]) → []
//
// A dst that could not have been broadcast to src is a programming error and
// panics.
func BroadcastAxes(src, dst Shape) []int {
	if len(dst) > len(src) {
		exceptions.Panicf("cannot reduce shape %s to higher-rank shape %s", src, dst)
	}
	lead := len(src) - len(dst)
	axes := make([]int, 0, lead)
	for i := 0; i < lead; i++ {
		axes = append(axes, i)
	}
	for i, d := range dst {
		s := src[lead+i]
		switch {
		case d == s:
		case d == 1:
			axes = append(axes, lead+i)
		default:
			exceptions.Panicf("cannot reduce shape %s to %s: dimension %d is %d, want %d or 1",
				src, dst, lead+i, s, d)
		}
	}
	return axes
}
