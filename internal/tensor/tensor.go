// Package tensor implements the immutable float32 array value the autodiff
// engine computes with.
//
// A Tensor is a shape plus a flat row-major buffer of float32 elements. Once
// constructed it is never mutated: every operation returns a new Tensor, so
// values can be shared freely between graph handles, optimizer state and
// goroutines.
//
// Shape mismatches are programming errors and panic (see
// github.com/gomlx/exceptions); constructors fed with user data return errors.
//
// Example:
//
//	a := must.M1(tensor.FromSlice([]float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}))
//	b := tensor.Ones(tensor.Shape{3})
//	c := a.Add(b)       // broadcast: [2 3]
//	s := c.SumTo(b.Shape()) // back to [3]
package tensor

import (
	"fmt"
	"math"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Tensor is an immutable n-dimensional array of float32 values.
type Tensor struct {
	shape Shape
	data  []float32
}

// newTensor wraps data without copying. Callers must not retain data.
func newTensor(shape Shape, data []float32) *Tensor {
	return &Tensor{shape: shape, data: data}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float32, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid shape")
	}
	if shape.NumElements() != len(data) {
		return nil, errors.Errorf("shape %s requires %d elements, but got %d", shape, shape.NumElements(), len(data))
	}
	buf := make([]float32, len(data))
	copy(buf, data)
	return newTensor(shape.Clone(), buf), nil
}

// Scalar creates a rank-0 tensor holding v.
func Scalar(v float32) *Tensor {
	return newTensor(Shape{}, []float32{v})
}

// Full creates a tensor of the given shape with every element set to value.
func Full(shape Shape, value float32) *Tensor {
	if err := shape.Validate(); err != nil {
		exceptions.Panicf("tensor.Full: %v", err)
	}
	data := make([]float32, shape.NumElements())
	if value != 0 {
		for i := range data {
			data[i] = value
		}
	}
	return newTensor(shape.Clone(), data)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return Full(shape, 0)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return Full(shape, 1)
}

// OneHot encodes class indices as a [len(indices), numClasses] tensor.
func OneHot(indices []int, numClasses int) *Tensor {
	data := make([]float32, len(indices)*numClasses)
	for row, class := range indices {
		if class < 0 || class >= numClasses {
			exceptions.Panicf("tensor.OneHot: class %d at row %d out of range [0, %d)", class, row, numClasses)
		}
		data[row*numClasses+class] = 1
	}
	return newTensor(Shape{len(indices), numClasses}, data)
}

// Shape returns a copy of the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape.Clone()
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Size returns the total number of elements.
func (t *Tensor) Size() int {
	return len(t.data)
}

// Data returns a copy of the elements in row-major order.
func (t *Tensor) Data() []float32 {
	out := make([]float32, len(t.data))
	copy(out, t.data)
	return out
}

// At returns the element at the given coordinates.
func (t *Tensor) At(indices ...int) float32 {
	if len(indices) != len(t.shape) {
		exceptions.Panicf("tensor.At: got %d indices for rank-%d tensor", len(indices), len(t.shape))
	}
	strides := t.shape.ComputeStrides()
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			exceptions.Panicf("tensor.At: index %d out of range for axis %d of shape %s", idx, i, t.shape)
		}
		offset += idx * strides[i]
	}
	return t.data[offset]
}

// Item returns the single element of a one-element tensor.
func (t *Tensor) Item() float32 {
	if len(t.data) != 1 {
		exceptions.Panicf("tensor.Item: tensor of shape %s has %d elements, want 1", t.shape, len(t.data))
	}
	return t.data[0]
}

// Equal reports whether both tensors have the same shape and exactly the same elements.
func (t *Tensor) Equal(other *Tensor) bool {
	if !t.shape.Equal(other.shape) {
		return false
	}
	for i, v := range t.data {
		if v != other.data[i] {
			return false
		}
	}
	return true
}

// AllClose reports whether both tensors have the same shape and every pair
// of elements differs by at most tol.
func (t *Tensor) AllClose(other *Tensor, tol float64) bool {
	if !t.shape.Equal(other.shape) {
		return false
	}
	for i, v := range t.data {
		if math.Abs(float64(v)-float64(other.data[i])) > tol {
			return false
		}
	}
	return true
}

const maxPrintedElements = 16

// String returns a compact representation, truncated for large tensors.
func (t *Tensor) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tensor%s{", t.shape)
	for i, v := range t.data {
		if i == maxPrintedElements {
			fmt.Fprintf(&sb, ", …(%d more)", len(t.data)-i)
			break
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%g", v)
	}
	sb.WriteString("}")
	return sb.String()
}
