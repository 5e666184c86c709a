package autodiff

import (
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/gomlx/exceptions"
	"k8s.io/klog/v2"
)

// Gradients computes the gradient of the sum of outputs with respect to each
// of inputs, returned in input order.
//
// Each output is seeded with ones of its own shape. The records reachable from
// outputs are walked in reverse topological order; gradients flowing into the
// same value from several consumers are summed.
//
// With createGraph false every returned gradient (and every intermediate one)
// is detached, so the backward graph is released as soon as it is consumed.
// With createGraph true the backward computation is itself recorded and the
// returned gradients can be differentiated again.
//
// Requesting an input that none of the outputs depends on is a usage error and
// panics with "grad not found".
func Gradients(outputs, inputs []Computed, createGraph bool) []Computed {
	grads := make(map[Computed]Computed, len(outputs))
	for i, out := range outputs {
		if !out.IsValid() {
			exceptions.Panicf("autodiff.Gradients: output #%d is an invalid (zero) handle", i)
		}
		if _, found := grads[out]; found {
			continue
		}
		grads[out] = seed(out, createGraph)
	}
	requested := make(map[Computed]bool, len(inputs))
	for _, in := range inputs {
		requested[in] = true
	}

	records := SortForBackward(CollectCallRecords(outputs))
	if klog.V(2).Enabled() {
		klog.Infof("autodiff.Gradients: %d outputs, %d inputs, %d records, createGraph=%v",
			len(outputs), len(inputs), len(records), createGraph)
	}

	for i := len(records) - 1; i >= 0; i-- {
		fc := records[i]
		fcOutputs := fc.Outputs()
		outputGrads := gatherOutputGrads(fc, fcOutputs, grads)

		inputGrads := fc.op.Backward(fc.inputs, fcOutputs, outputGrads)
		if len(inputGrads) != len(fc.inputs) {
			exceptions.Panicf("%s: backward returned %d gradients for %d inputs",
				fc.Name(), len(inputGrads), len(fc.inputs))
		}
		for j, g := range inputGrads {
			if !g.IsValid() {
				exceptions.Panicf("%s: backward returned an invalid gradient for input #%d", fc.Name(), j)
			}
			if !createGraph {
				g.Unchain()
			}
		}

		for j, in := range fc.inputs {
			g := inputGrads[j]
			if prev, found := grads[in]; found {
				g = prev.Add(g)
				if !createGraph {
					g.Unchain()
				}
			}
			grads[in] = g
		}

		for _, out := range fcOutputs {
			if !requested[out] {
				delete(grads, out)
			}
		}
	}

	results := make([]Computed, len(inputs))
	for i, in := range inputs {
		g, found := grads[in]
		if !found {
			exceptions.Panicf("grad not found for input #%d %s", i, in)
		}
		results[i] = g
	}
	return results
}

// Gradient is Gradients for a single output and a single input.
func Gradient(output, input Computed, createGraph bool) Computed {
	return Gradients([]Computed{output}, []Computed{input}, createGraph)[0]
}

// seed returns d(out)/d(out): ones shaped like out.
func seed(out Computed, createGraph bool) Computed {
	ones := New(tensor.Ones(out.Shape())).Named("seed")
	if createGraph {
		Chain(nil, []Computed{ones}, true, "seed", func(_, _, _ []Computed) []Computed { return nil })
	}
	return ones
}

// gatherOutputGrads returns the gradient of each output of fc. Outputs that no
// consumer differentiated through get zeros, but at least one output must
// have a gradient since fc was reached from the requested outputs.
func gatherOutputGrads(fc *FunctionCall, outputs []Computed, grads map[Computed]Computed) []Computed {
	outputGrads := make([]Computed, len(outputs))
	missing := 0
	for k, out := range outputs {
		g, found := grads[out]
		if !found {
			missing++
			g = New(tensor.Zeros(out.Shape()))
		}
		outputGrads[k] = g
	}
	if missing == len(outputs) {
		exceptions.Panicf("%s: gradient not found for any of its %d outputs", fc.Name(), len(outputs))
	}
	return outputGrads
}
