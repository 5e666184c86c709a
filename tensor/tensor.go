// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the immutable float32 n-dimensional arrays the
// autodiff engine computes on.
//
// Every operation returns a new tensor; values are never modified in place.
// Binary element-wise operations broadcast their operands with NumPy rules.
//
// Example:
//
//	a, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2})
//	b := tensor.Ones(tensor.Shape{2})
//	c := a.Add(b)         // [[2, 3], [4, 5]]
//	fmt.Println(c.Sum())  // 14
package tensor

import "github.com/born-ml/autograd/internal/tensor"

// Tensor is an immutable float32 n-dimensional array.
type Tensor = tensor.Tensor

// Shape is the size of each dimension of a tensor.
type Shape = tensor.Shape

// FromSlice creates a tensor with a copy of data. len(data) must match shape.
func FromSlice(data []float32, shape Shape) (*Tensor, error) { return tensor.FromSlice(data, shape) }

// Scalar creates a rank-0 tensor.
func Scalar(v float32) *Tensor { return tensor.Scalar(v) }

// Full creates a tensor filled with value.
func Full(shape Shape, value float32) *Tensor { return tensor.Full(shape, value) }

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor { return tensor.Zeros(shape) }

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor { return tensor.Ones(shape) }

// OneHot creates a [len(indices), numClasses] tensor with a one per row.
func OneHot(indices []int, numClasses int) *Tensor { return tensor.OneHot(indices, numClasses) }

// BroadcastShapes returns the shape two operands broadcast to.
func BroadcastShapes(a, b Shape) (Shape, error) { return tensor.BroadcastShapes(a, b) }
