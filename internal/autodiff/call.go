package autodiff

import (
	"fmt"
	"strings"
	"weak"

	"github.com/gomlx/exceptions"
)

// FunctionCall is one recorded invocation of an Operation.
//
// It holds its inputs strongly, keeping the upstream graph alive for as long
// as any downstream value is, and its outputs weakly: each output refers back
// to the FunctionCall as its creator, so strong references in both directions
// would form a cycle.
type FunctionCall struct {
	op      Operation
	inputs  []Computed
	outputs []weak.Pointer[node]
}

func newFunctionCall(op Operation, inputs, outputs []Computed) *FunctionCall {
	fc := &FunctionCall{
		op:      op,
		inputs:  append([]Computed(nil), inputs...),
		outputs: make([]weak.Pointer[node], len(outputs)),
	}
	for i, out := range outputs {
		fc.outputs[i] = weak.Make(out.n)
	}
	return fc
}

// Op returns the recorded operation.
func (fc *FunctionCall) Op() Operation { return fc.op }

// Name returns the name of the recorded operation.
func (fc *FunctionCall) Name() string { return fc.op.Name() }

// Inputs returns a copy of the input handles, in call order.
func (fc *FunctionCall) Inputs() []Computed {
	return append([]Computed(nil), fc.inputs...)
}

// NumOutputs returns the number of outputs the call produced, alive or not.
func (fc *FunctionCall) NumOutputs() int { return len(fc.outputs) }

// Outputs upgrades the weak output references into handles.
//
// It panics if any output has been garbage collected while the call is still
// reachable: an operation whose outputs are not all retained cannot be
// differentiated through. Operations with outputs a caller may discard should
// be split into single-output operations.
func (fc *FunctionCall) Outputs() []Computed {
	outs := make([]Computed, len(fc.outputs))
	for i, w := range fc.outputs {
		n := w.Value()
		if n == nil {
			exceptions.Panicf("output #%d of %q was dropped while its creator is still referenced", i, fc.op.Name())
		}
		outs[i] = Computed{n: n}
	}
	return outs
}

// String implements fmt.Stringer.
func (fc *FunctionCall) String() string {
	var sb strings.Builder
	sb.WriteString(fc.op.Name())
	sb.WriteByte('(')
	for i, in := range fc.inputs {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(in.Shape().String())
	}
	fmt.Fprintf(&sb, ") -> %d output(s)", len(fc.outputs))
	return sb.String()
}
