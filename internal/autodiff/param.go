package autodiff

import (
	"sync"

	"github.com/born-ml/autograd/internal/tensor"
	"github.com/gomlx/exceptions"
)

// OptimizerState is the per-parameter state of an Optimizer (momentum
// buffers, moment estimates, step counters). Its concrete type is private to
// the optimizer that created it.
type OptimizerState any

// Optimizer updates parameter values from their gradients.
//
// NewState is called once per parameter, with the parameter shape. Update is
// then called once per step with the current value, the state (which the
// optimizer mutates) and a gradient of the same shape, and returns the new
// value.
type Optimizer interface {
	Name() string
	NewState(shape tensor.Shape) OptimizerState
	Update(value *tensor.Tensor, state OptimizerState, grad *tensor.Tensor) *tensor.Tensor
}

// Param is a trainable value.
//
// Every Get returns a leaf handle that is recorded in the graph with the Param
// itself as its zero-input Operation, so the Param can be found by walking a
// loss backwards. The handle is memoized until the next Update or Set.
//
// Param methods are safe for concurrent use, but an Update concurrent with
// forward passes reading the same Param gives those passes either value.
type Param struct {
	mu        sync.Mutex
	name      string
	value     *tensor.Tensor
	optimizer Optimizer
	state     OptimizerState
	steps     int
	cached    Computed
}

// NewParam creates a parameter with the given initial value. The optimizer
// state is allocated immediately.
func NewParam(initial *tensor.Tensor, name string, optimizer Optimizer) *Param {
	if initial == nil {
		exceptions.Panicf("autodiff.NewParam(%q): nil initial value", name)
	}
	if optimizer == nil {
		exceptions.Panicf("autodiff.NewParam(%q): nil optimizer", name)
	}
	return &Param{
		name:      name,
		value:     initial,
		optimizer: optimizer,
		state:     optimizer.NewState(initial.Shape()),
	}
}

// Name implements Operation, and returns the parameter name.
func (p *Param) Name() string { return p.name }

// ForceGraph implements GraphForcer: a parameter read is always recorded.
func (p *Param) ForceGraph() bool { return true }

// Forward implements Operation. It is invoked by Get, with the lock held.
func (p *Param) Forward(_ []Computed) []Computed {
	return []Computed{New(p.value).Named(p.name)}
}

// Backward implements Operation: parameters are graph leaves with no inputs.
func (p *Param) Backward(_, _, _ []Computed) []Computed {
	return []Computed{}
}

// Get returns the graph-bearing handle for the current value.
// Repeated calls between updates return the same handle.
func (p *Param) Get() Computed {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.cached.IsValid() {
		p.cached = CallOne(p)
	}
	return p.cached
}

// GetTensor returns the current value.
func (p *Param) GetTensor() *tensor.Tensor {
	return p.Get().Tensor()
}

// Value returns the current value without touching the graph.
func (p *Param) Value() *tensor.Tensor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.value
}

// Shape returns the parameter shape.
func (p *Param) Shape() tensor.Shape {
	return p.Value().Shape()
}

// Steps returns how many updates were applied.
func (p *Param) Steps() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.steps
}

// Optimizer returns the optimizer attached to the parameter.
func (p *Param) Optimizer() Optimizer { return p.optimizer }

// Update applies one optimizer step with grad and invalidates the memoized
// handle. Handles obtained before the update keep the old value.
func (p *Param) Update(grad Computed) {
	p.UpdateTensor(grad.Tensor())
}

// UpdateTensor is Update for a raw gradient tensor.
func (p *Param) UpdateTensor(grad *tensor.Tensor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !grad.Shape().Equal(p.value.Shape()) {
		exceptions.Panicf("Param(%q).Update: gradient shape %s does not match parameter shape %s",
			p.name, grad.Shape(), p.value.Shape())
	}
	p.value = p.optimizer.Update(p.value, p.state, grad)
	p.steps++
	p.cached = Computed{}
}

// Set replaces the value, which must keep the same shape. The optimizer state
// is kept.
func (p *Param) Set(value *tensor.Tensor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !value.Shape().Equal(p.value.Shape()) {
		exceptions.Panicf("Param(%q).Set: shape %s does not match parameter shape %s",
			p.name, value.Shape(), p.value.Shape())
	}
	p.value = value
	p.cached = Computed{}
}

// String implements fmt.Stringer.
func (p *Param) String() string {
	return "Param(" + p.name + p.Shape().String() + ")"
}

// ParamRef pairs a Param with the handle through which it entered a graph.
type ParamRef struct {
	Param  *Param
	Handle Computed
}

// ParamsOf returns the parameters read while computing outputs, in discovery
// order, each with the handle that was used. A parameter read through two
// different handles (for instance across an Update) is listed once per handle.
func ParamsOf(outputs ...Computed) []ParamRef {
	var refs []ParamRef
	for _, fc := range CollectCallRecords(outputs) {
		p, ok := fc.op.(*Param)
		if !ok {
			continue
		}
		refs = append(refs, ParamRef{Param: p, Handle: fc.Outputs()[0]})
	}
	return refs
}
