// Package autodiff implements define-by-run reverse-mode automatic differentiation.
//
// Architecture:
//   - Computed: a cheap, shareable handle to an immutable tensor value plus
//     graph metadata (debug name and, optionally, the FunctionCall that created it).
//   - Operation: the contract every differentiable operation implements
//     (Forward + Backward). Call runs an Operation and, only when one of its
//     inputs already participates in a graph, records a FunctionCall.
//   - FunctionCall: one recorded invocation. It owns its inputs and holds
//     weak references to its outputs, so the handle → creator → inputs chain
//     never forms a reference cycle.
//   - Gradients: collects the FunctionCalls reachable from the outputs,
//     sorts them topologically and walks them in reverse, accumulating
//     gradients per input.
//   - Param: a trainable value that re-enters the graph as a zero-input
//     FunctionCall every time it is read, and is updated in place by its Optimizer.
//
// Usage:
//
//	x := autodiff.Backprop(autodiff.New(tensor.Scalar(3)))
//	y := x.Mul(x) // y = x²
//
//	grads := autodiff.Gradients([]autodiff.Computed{y}, []autodiff.Computed{x}, false)
//	fmt.Println(grads[0].Item()) // dy/dx = 2x = 6
//
// Every violated invariant (cycles, wrong gradient arity, missing gradients,
// dropped outputs, shape mismatches) is a programming error and panics with an
// error created by github.com/gomlx/exceptions.Panicf; use exceptions.TryCatch
// to turn it back into an error at an API boundary.
package autodiff

import (
	"fmt"

	"github.com/born-ml/autograd/internal/tensor"
	"github.com/gomlx/exceptions"
)

// node is the shared allocation behind Computed handles.
type node struct {
	data    *tensor.Tensor
	name    string
	creator *FunctionCall
}

// Computed is a shared handle to a tensor value that may participate in a
// computation graph.
//
// Copying a Computed is the clone operation: the copy aliases the same
// allocation. Equality (==) and map keys compare identity, never contents,
// so two structurally equal tensors in different handles are distinct keys.
//
// The zero Computed is invalid; see IsValid.
type Computed struct {
	n *node
}

// New wraps a tensor in a new handle with no creator (a graph leaf).
func New(t *tensor.Tensor) Computed {
	if t == nil {
		exceptions.Panicf("autodiff.New: nil tensor")
	}
	return Computed{n: &node{data: t}}
}

// Constant is a shortcut for New(tensor.Scalar(v)).
func Constant(v float32) Computed {
	return New(tensor.Scalar(v))
}

// IsValid reports whether c refers to a value (i.e. is not the zero Computed).
func (c Computed) IsValid() bool {
	return c.n != nil
}

func (c Computed) mustBeValid(method string) {
	if c.n == nil {
		exceptions.Panicf("Computed.%s called on an invalid (zero) handle", method)
	}
}

// Named sets the debug name of the shared allocation and returns c, so it
// can be chained after a constructor.
func (c Computed) Named(name string) Computed {
	c.mustBeValid("Named")
	c.n.name = name
	return c
}

// Name returns the debug name, or "" if none was set.
func (c Computed) Name() string {
	c.mustBeValid("Name")
	return c.n.name
}

// HasCreator reports whether c is graph-bearing, i.e. was produced by a
// recorded FunctionCall.
func (c Computed) HasCreator() bool {
	c.mustBeValid("HasCreator")
	return c.n.creator != nil
}

// Creator returns the FunctionCall that produced c, or nil for leaves.
func (c Computed) Creator() *FunctionCall {
	c.mustBeValid("Creator")
	return c.n.creator
}

// Unchain detaches c from the graph: its creator is dropped, so gradients no
// longer flow through it and the producer graph can be garbage collected.
// Every handle aliasing the same allocation observes the change.
func (c Computed) Unchain() {
	c.mustBeValid("Unchain")
	c.n.creator = nil
}

// Detach returns a new leaf handle sharing c's tensor and name.
// Unlike Unchain it leaves c untouched.
func (c Computed) Detach() Computed {
	c.mustBeValid("Detach")
	return Computed{n: &node{data: c.n.data, name: c.n.name}}
}

// Tensor returns the underlying immutable value.
func (c Computed) Tensor() *tensor.Tensor {
	c.mustBeValid("Tensor")
	return c.n.data
}

// Shape returns the shape of the underlying value.
func (c Computed) Shape() tensor.Shape {
	return c.Tensor().Shape()
}

// Item returns the single element of a one-element value.
func (c Computed) Item() float32 {
	return c.Tensor().Item()
}

// String implements fmt.Stringer.
func (c Computed) String() string {
	if c.n == nil {
		return "Computed(invalid)"
	}
	name := c.n.name
	if name == "" {
		name = fmt.Sprintf("%p", c.n)
	}
	if c.n.creator != nil {
		return fmt.Sprintf("%q%s<-%s", name, c.n.data.Shape(), c.n.creator.Name())
	}
	return fmt.Sprintf("%q%s", name, c.n.data.Shape())
}
