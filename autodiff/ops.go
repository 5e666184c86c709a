// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff

import (
	"github.com/born-ml/autograd/internal/autodiff/ops"
	"github.com/born-ml/autograd/internal/tensor"
)

// Element-wise

// Exp returns e^x.
func Exp(x Computed) Computed { return ops.Exp(x) }

// Log returns the natural logarithm of x.
func Log(x Computed) Computed { return ops.Log(x) }

// Sqrt returns the square root of x.
func Sqrt(x Computed) Computed { return ops.Sqrt(x) }

// Square returns x².
func Square(x Computed) Computed { return ops.Square(x) }

// Pow returns x^p.
func Pow(x Computed, p float32) Computed { return ops.Pow(x, p) }

// Tanh returns the hyperbolic tangent of x.
func Tanh(x Computed) Computed { return ops.Tanh(x) }

// Sigmoid returns 1 / (1 + e^-x).
func Sigmoid(x Computed) Computed { return ops.Sigmoid(x) }

// ReLU returns max(x, 0).
func ReLU(x Computed) Computed { return ops.ReLU(x) }

// Reductions

// Sum returns the sum of all elements of x as a scalar.
func Sum(x Computed) Computed { return ops.Sum(x) }

// Mean returns the mean of all elements of x as a scalar.
func Mean(x Computed) Computed { return ops.Mean(x) }

// SumAxes sums x over axes.
func SumAxes(x Computed, axes []int, keepDims bool) Computed { return ops.SumAxes(x, axes, keepDims) }

// MeanAxes averages x over axes.
func MeanAxes(x Computed, axes []int, keepDims bool) Computed {
	return ops.MeanAxes(x, axes, keepDims)
}

// Shape manipulation

// Reshape returns x with a new shape of the same size.
func Reshape(x Computed, shape tensor.Shape) Computed { return ops.Reshape(x, shape) }

// Transpose swaps the axes of the matrix x.
func Transpose(x Computed) Computed { return ops.Transpose(x) }

// Slice returns x[start:end] along axis.
func Slice(x Computed, axis, start, end int) Computed { return ops.Slice(x, axis, start, end) }

// Pad adds zeros before and after x along axis.
func Pad(x Computed, axis, before, after int) Computed { return ops.Pad(x, axis, before, after) }

// Concat joins xs along axis.
func Concat(axis int, xs ...Computed) Computed { return ops.Concat(axis, xs...) }

// Chunk splits x into n equal parts along axis.
func Chunk(x Computed, n, axis int) []Computed { return ops.Chunk(x, n, axis) }

// Linear algebra and losses

// MatMul returns the matrix product of a and b.
func MatMul(a, b Computed) Computed { return ops.MatMul(a, b) }

// Softmax normalizes the last axis of x into probabilities.
func Softmax(x Computed) Computed { return ops.Softmax(x) }

// LogSoftmax returns log(Softmax(x)), computed stably.
func LogSoftmax(x Computed) Computed { return ops.LogSoftmax(x) }

// SoftmaxCrossEntropy returns the mean cross-entropy of logits
// [batch, classes] against integer targets.
func SoftmaxCrossEntropy(targets []int, logits Computed) Computed {
	return ops.SoftmaxCrossEntropy(targets, logits)
}

// MSE returns the mean squared error between predictions and targets.
func MSE(predictions, targets Computed) Computed { return ops.MSE(predictions, targets) }
