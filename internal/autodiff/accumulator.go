package autodiff

import (
	"github.com/born-ml/autograd/internal/tensor"
)

// GradientsAccumulator sums parameter gradients over one or more losses
// (mini-batches, workers) before applying them in a single optimizer pass.
//
// It is not safe for concurrent use: give each worker its own accumulator and
// Merge them afterwards.
type GradientsAccumulator struct {
	order []*Param
	grads map[*Param]*tensor.Tensor
}

// NewGradientsAccumulator returns an empty accumulator.
func NewGradientsAccumulator() *GradientsAccumulator {
	return &GradientsAccumulator{grads: make(map[*Param]*tensor.Tensor)}
}

// Compute back-propagates loss and adds the gradient of every parameter it
// reads to the table.
func (acc *GradientsAccumulator) Compute(loss Computed) {
	refs := ParamsOf(loss)
	if len(refs) == 0 {
		return
	}
	handles := make([]Computed, len(refs))
	for i, ref := range refs {
		handles[i] = ref.Handle
	}
	grads := Gradients([]Computed{loss}, handles, false)
	for i, ref := range refs {
		acc.add(ref.Param, grads[i].Tensor())
	}
}

func (acc *GradientsAccumulator) add(p *Param, grad *tensor.Tensor) {
	if prev, found := acc.grads[p]; found {
		acc.grads[p] = prev.Add(grad)
		return
	}
	acc.order = append(acc.order, p)
	acc.grads[p] = grad
}

// Optimize updates every parameter in the table with its accumulated gradient,
// in first-seen order, then clears the table.
func (acc *GradientsAccumulator) Optimize() {
	for _, p := range acc.order {
		p.UpdateTensor(acc.grads[p])
	}
	acc.Reset()
}

// Merge adds all gradients of other into acc. Parameters only known to other
// are appended in other's order.
func (acc *GradientsAccumulator) Merge(other *GradientsAccumulator) {
	for _, p := range other.order {
		acc.add(p, other.grads[p])
	}
}

// Len returns the number of parameters with a pending gradient.
func (acc *GradientsAccumulator) Len() int { return len(acc.order) }

// Grad returns the pending gradient of p, if any.
func (acc *GradientsAccumulator) Grad(p *Param) (*tensor.Tensor, bool) {
	g, found := acc.grads[p]
	return g, found
}

// Params returns the parameters with a pending gradient, in first-seen order.
func (acc *GradientsAccumulator) Params() []*Param {
	return append([]*Param(nil), acc.order...)
}

// Reset drops all pending gradients.
func (acc *GradientsAccumulator) Reset() {
	acc.order = nil
	clear(acc.grads)
}

// Optimize runs one gradient step on every parameter read by loss.
func Optimize(loss Computed) {
	acc := NewGradientsAccumulator()
	acc.Compute(loss)
	acc.Optimize()
}
