// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides define-by-run reverse-mode automatic
// differentiation.
//
// Values are wrapped in Computed handles. Applying an Operation to handles
// records a call in the computation graph, but only if at least one input
// already carries graph information. Gradients walks the graph backwards from
// the outputs and returns the gradient of their sum with respect to each
// requested input.
//
// Example:
//
//	import (
//	    "github.com/born-ml/autograd/autodiff"
//	    "github.com/born-ml/autograd/tensor"
//	)
//
//	func main() {
//	    x := autodiff.Backprop(autodiff.Constant(3))
//	    y := x.Mul(x).Add(x)             // y = x² + x
//	    dx := autodiff.Gradient(y, x, false)
//	    fmt.Println(dx.Item())           // 7
//	}
//
// Trainable values are held by Param, which owns an Optimizer state:
//
//	w := autodiff.NewParam(tensor.Zeros(tensor.Shape{3}), "w", optim.NewSGD(0.1))
//	for range 100 {
//	    loss := autodiff.Sum(autodiff.Square(w.Get().Sub(target)))
//	    autodiff.Optimize(loss)
//	}
package autodiff

import (
	"io"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
)

// Computed is a handle to an immutable value that may carry graph
// information.
type Computed = autodiff.Computed

// Operation is a differentiable function with a forward and a backward rule.
type Operation = autodiff.Operation

// GraphForcer is implemented by operations that always record their calls.
type GraphForcer = autodiff.GraphForcer

// BackwardFunc is the backward rule of a Chain call.
type BackwardFunc = autodiff.BackwardFunc

// FunctionCall is the record of one operation call in the graph.
type FunctionCall = autodiff.FunctionCall

// Param is a trainable value updated by an Optimizer.
type Param = autodiff.Param

// ParamRef pairs a parameter with the handle it produced.
type ParamRef = autodiff.ParamRef

// Optimizer computes new parameter values from gradients.
type Optimizer = autodiff.Optimizer

// OptimizerState is the per-parameter state owned by an Optimizer.
type OptimizerState = autodiff.OptimizerState

// GradientsAccumulator sums parameter gradients over several losses.
type GradientsAccumulator = autodiff.GradientsAccumulator

// New wraps t in a handle without graph information.
func New(t *tensor.Tensor) Computed { return autodiff.New(t) }

// Constant returns a scalar handle without graph information.
func Constant(v float32) Computed { return autodiff.Constant(v) }

// Call applies op to inputs, recording the call when needed.
func Call(op Operation, inputs ...Computed) []Computed { return autodiff.Call(op, inputs...) }

// CallOne is Call for single-output operations.
func CallOne(op Operation, inputs ...Computed) Computed { return autodiff.CallOne(op, inputs...) }

// Chain records already computed outputs as produced from inputs by a call
// whose backward rule is backward.
func Chain(inputs, outputs []Computed, forceGraph bool, name string, backward BackwardFunc) []Computed {
	return autodiff.Chain(inputs, outputs, forceGraph, name, backward)
}

// Backprop returns a graph-bearing identity of x, so gradients with respect
// to it can be requested.
func Backprop(x Computed) Computed { return autodiff.Backprop(x) }

// Gradients returns the gradients of the sum of outputs with respect to each
// of inputs. With createGraph the gradients are themselves differentiable.
func Gradients(outputs, inputs []Computed, createGraph bool) []Computed {
	return autodiff.Gradients(outputs, inputs, createGraph)
}

// Gradient is Gradients for a single output and input.
func Gradient(output, input Computed, createGraph bool) Computed {
	return autodiff.Gradient(output, input, createGraph)
}

// CollectCallRecords returns every call record reachable from outputs.
func CollectCallRecords(outputs []Computed) []*FunctionCall {
	return autodiff.CollectCallRecords(outputs)
}

// SortForBackward orders records so that every record comes after the
// records producing its inputs.
func SortForBackward(records []*FunctionCall) []*FunctionCall {
	return autodiff.SortForBackward(records)
}

// NewParam creates a parameter holding initial.
func NewParam(initial *tensor.Tensor, name string, optimizer Optimizer) *Param {
	return autodiff.NewParam(initial, name, optimizer)
}

// ParamsOf lists the parameters the outputs depend on.
func ParamsOf(outputs ...Computed) []ParamRef { return autodiff.ParamsOf(outputs...) }

// NewGradientsAccumulator creates an empty accumulator.
func NewGradientsAccumulator() *GradientsAccumulator { return autodiff.NewGradientsAccumulator() }

// Optimize computes the gradients of loss and updates every parameter it
// depends on.
func Optimize(loss Computed) { autodiff.Optimize(loss) }

// ToDOT renders the graph of outputs in Graphviz DOT format.
func ToDOT(outputs ...Computed) string { return autodiff.ToDOT(outputs...) }

// WriteDOT writes the graph of outputs in Graphviz DOT format to w.
func WriteDOT(w io.Writer, outputs ...Computed) error { return autodiff.WriteDOT(w, outputs...) }
