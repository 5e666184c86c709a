package autodiff

import (
	"github.com/gomlx/exceptions"
)

// Operation represents a differentiable operation in the computation graph.
//
// Concrete operations are ordinary value types; the engine stores them in a
// FunctionCall and only ever talks to them through this interface.
type Operation interface {
	// Name identifies the operation in error messages and graph dumps.
	Name() string

	// Forward computes the outputs from the inputs. It must be free of side
	// effects on its inputs and must not record graph structure: it returns
	// fresh handles without a creator.
	Forward(inputs []Computed) []Computed

	// Backward returns exactly one gradient per input, in input order, given
	// the original inputs, the forward outputs and the gradient flowing into
	// each output.
	//
	// Gradients should be computed with Computed operations (not raw tensors)
	// so that second-order differentiation can record them. Each gradient must
	// have the shape of its input; binary operations fit broadcast gradients
	// with SumTo. Returned handles must not alias inputs or outputs.
	//
	// Example for add:
	//   inputs: [a, b]
	//   outputGrads: [dL/d(a+b)]
	//   returns: [dL/d(a+b) summed to a's shape, dL/d(a+b) summed to b's shape]
	Backward(inputs, outputs, outputGrads []Computed) []Computed
}

// GraphForcer is implemented by operations that must always be recorded,
// even when none of their inputs is graph-bearing.
type GraphForcer interface {
	ForceGraph() bool
}

// Call runs op on inputs and returns its outputs.
//
// The call is recorded (a FunctionCall is created and attached as creator of
// every output) only if at least one input already has a creator or op
// forces graph creation. Calls on leaves only build no graph.
func Call(op Operation, inputs ...Computed) []Computed {
	for i, in := range inputs {
		if !in.IsValid() {
			exceptions.Panicf("%s: input #%d is an invalid (zero) handle", op.Name(), i)
		}
	}
	outputs := op.Forward(inputs)
	validateOutputs(op, inputs, outputs)
	if needsGraph(op, inputs) {
		record(op, inputs, outputs)
	}
	return outputs
}

// CallOne is Call for single-output operations.
func CallOne(op Operation, inputs ...Computed) Computed {
	outputs := Call(op, inputs...)
	if len(outputs) != 1 {
		exceptions.Panicf("%s: CallOne expects exactly one output, got %d", op.Name(), len(outputs))
	}
	return outputs[0]
}

func needsGraph(op Operation, inputs []Computed) bool {
	if f, ok := op.(GraphForcer); ok && f.ForceGraph() {
		return true
	}
	for _, in := range inputs {
		if in.HasCreator() {
			return true
		}
	}
	return false
}

// validateOutputs enforces that outputs are fresh handles. An output that
// already has a creator, or that is one of the inputs, would corrupt the graph
// (the latter by making a value its own ancestor).
func validateOutputs(op Operation, inputs, outputs []Computed) {
	for i, out := range outputs {
		if !out.IsValid() {
			exceptions.Panicf("%s: output #%d is an invalid (zero) handle", op.Name(), i)
		}
		if out.HasCreator() {
			exceptions.Panicf("%s: output #%d is already attached to %s; forward must not record graph structure",
				op.Name(), i, out.Creator())
		}
		for j, in := range inputs {
			if in == out {
				exceptions.Panicf("%s: output #%d is input #%d; operations must return new handles", op.Name(), i, j)
			}
		}
	}
}

// record creates the FunctionCall and attaches it to every output.
func record(op Operation, inputs, outputs []Computed) *FunctionCall {
	fc := newFunctionCall(op, inputs, outputs)
	for _, out := range outputs {
		out.n.creator = fc
	}
	return fc
}

// BackwardFunc is the backward rule of a chained function, see Chain.
type BackwardFunc func(inputs, outputs, outputGrads []Computed) []Computed

// chainedOp adapts a BackwardFunc to the Operation interface.
type chainedOp struct {
	name     string
	backward BackwardFunc
}

func (op *chainedOp) Name() string { return op.name }

func (op *chainedOp) Forward(_ []Computed) []Computed {
	exceptions.Panicf("%s: chained functions compute their outputs outside the graph, Forward cannot be called", op.name)
	return nil
}

func (op *chainedOp) Backward(inputs, outputs, outputGrads []Computed) []Computed {
	return op.backward(inputs, outputs, outputGrads)
}

// Chain attaches an ad-hoc backward rule to outputs that were computed
// outside of any Operation. It is the escape hatch for hand-written
// differentiable functions:
//
//	y := autodiff.New(x.Tensor().Map(f))
//	autodiff.Chain([]Computed{x}, []Computed{y}, false, "f",
//	    func(in, out, g []Computed) []Computed { return []Computed{g[0].Mul(dfdx(in[0]))} })
//
// The outputs are recorded under the same rule as Call (at least one
// graph-bearing input), or unconditionally when forceGraph is set. The
// outputs are returned for convenience.
func Chain(inputs, outputs []Computed, forceGraph bool, name string, backward BackwardFunc) []Computed {
	op := &chainedOp{name: name, backward: backward}
	validateOutputs(op, inputs, outputs)
	if forceGraph || needsGraph(op, inputs) {
		record(op, inputs, outputs)
	}
	return outputs
}

// backpropOp is the identity, always recorded.
type backpropOp struct{}

func (backpropOp) Name() string     { return "backprop" }
func (backpropOp) ForceGraph() bool { return true }

func (backpropOp) Forward(inputs []Computed) []Computed {
	return []Computed{New(inputs[0].Tensor()).Named(inputs[0].Name())}
}

func (backpropOp) Backward(_, _, outputGrads []Computed) []Computed {
	return []Computed{outputGrads[0]}
}

// Backprop returns a graph-bearing copy of x: operations consuming the
// result are recorded, and gradients can be requested for it (or for x).
func Backprop(x Computed) Computed {
	return CallOne(backpropOp{}, x)
}
