package nn

import (
	"github.com/born-ml/autograd/internal/autodiff"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input:
//
//	model := nn.NewSequential(
//	    nn.NewLinear("fc1", 4, 8, opt, rng),
//	    nn.NewTanh(),
//	    nn.NewLinear("fc2", 8, 1, opt, rng),
//	)
//	output := model.Forward(input)
type Sequential struct {
	modules []Module
}

// NewSequential creates a Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{modules: modules}
}

// Add appends a module.
func (s *Sequential) Add(m Module) {
	s.modules = append(s.modules, m)
}

// Forward runs the modules in order.
func (s *Sequential) Forward(input autodiff.Computed) autodiff.Computed {
	output := input
	for _, m := range s.modules {
		output = m.Forward(output)
	}
	return output
}

// Parameters returns the parameters of all modules, in order.
func (s *Sequential) Parameters() []*autodiff.Param {
	var params []*autodiff.Param
	for _, m := range s.modules {
		params = append(params, m.Parameters()...)
	}
	return params
}

// Len returns the number of modules.
func (s *Sequential) Len() int { return len(s.modules) }

// Module returns the i-th module.
func (s *Sequential) Module(i int) Module { return s.modules[i] }
