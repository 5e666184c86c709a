// Package nn implements neural network building blocks on top of autodiff.
//
// This package provides:
//   - Module interface: Base interface for all NN components
//   - Initializers: seeded weight initializers (Xavier, Normal, Zeros)
//   - Linear: Fully connected layer
//   - Activations: ReLU, Sigmoid, Tanh
//   - Sequential: Container for stacking layers
//
// Trainable values are autodiff.Param: every layer attaches its parameters
// to the optimizer it is given, so training is a matter of computing a loss
// and calling autodiff.Optimize (or a GradientsAccumulator).
package nn

import (
	"github.com/born-ml/autograd/internal/autodiff"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	model := nn.NewSequential(
//	    nn.NewLinear("fc1", 784, 128, opt, rng),
//	    nn.NewReLU(),
//	    nn.NewLinear("fc2", 128, 10, opt, rng),
//	)
type Module interface {
	// Forward computes the output of the module given an input.
	Forward(input autodiff.Computed) autodiff.Computed

	// Parameters returns all trainable parameters of this module,
	// including those of nested modules. Modules without parameters
	// (e.g. activations) return an empty slice.
	Parameters() []*autodiff.Param
}

// NumParameters returns the total number of scalar values in params.
func NumParameters(params []*autodiff.Param) int {
	n := 0
	for _, p := range params {
		n += p.Shape().NumElements()
	}
	return n
}
