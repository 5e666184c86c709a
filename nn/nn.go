// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides neural network building blocks on top of autodiff:
// layers holding trainable parameters, activations and seeded initializers.
//
// Example:
//
//	rng := nn.NewRand(42)
//	opt := optim.NewSGD(0.05)
//	model := nn.NewSequential(
//	    nn.NewLinear("fc1", 4, 16, opt, rng),
//	    nn.NewReLU(),
//	    nn.NewLinear("fc2", 16, 1, opt, rng),
//	)
//	loss := autodiff.MSE(model.Forward(x), y)
//	autodiff.Optimize(loss)
package nn

import (
	"math/rand/v2"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/nn"
)

// Module is a layer with a forward pass and trainable parameters.
type Module = nn.Module

// Initializer creates the initial value of a parameter of the given shape.
type Initializer = nn.Initializer

// Linear is a fully connected layer: y = x Wᵀ + b.
type Linear = nn.Linear

// Sequential chains modules.
type Sequential = nn.Sequential

// ReLU, Sigmoid and Tanh are parameter-free activation modules.
type (
	ReLU    = nn.ReLU
	Sigmoid = nn.Sigmoid
	Tanh    = nn.Tanh
)

// NewRand returns a deterministic random generator for initializers.
func NewRand(seed uint64) *rand.Rand { return nn.NewRand(seed) }

// XavierUniform draws from U(-a, a) with a = sqrt(6 / (fanIn + fanOut)).
func XavierUniform(rng *rand.Rand, fanIn, fanOut int) Initializer {
	return nn.XavierUniform(rng, fanIn, fanOut)
}

// Normal draws from N(mean, stddev²).
func Normal(rng *rand.Rand, mean, stddev float64) Initializer { return nn.Normal(rng, mean, stddev) }

// Zeros initializes with zeros.
var Zeros Initializer = nn.Zeros

// NewLinear creates a linear layer with Xavier-initialized weights and zero bias.
func NewLinear(name string, inFeatures, outFeatures int, opt autodiff.Optimizer, rng *rand.Rand) *Linear {
	return nn.NewLinear(name, inFeatures, outFeatures, opt, rng)
}

// NewLinearWithInit creates a linear layer with custom initializers. A nil
// bias initializer creates a layer without bias.
func NewLinearWithInit(name string, inFeatures, outFeatures int, opt autodiff.Optimizer,
	weightInit, biasInit Initializer) *Linear {
	return nn.NewLinearWithInit(name, inFeatures, outFeatures, opt, weightInit, biasInit)
}

// NewSequential chains modules in order.
func NewSequential(modules ...Module) *Sequential { return nn.NewSequential(modules...) }

// NewReLU creates a ReLU activation.
func NewReLU() *ReLU { return nn.NewReLU() }

// NewSigmoid creates a Sigmoid activation.
func NewSigmoid() *Sigmoid { return nn.NewSigmoid() }

// NewTanh creates a Tanh activation.
func NewTanh() *Tanh { return nn.NewTanh() }

// NumParameters returns the total number of scalar values in params.
func NumParameters(params []*autodiff.Param) int { return nn.NumParameters(params) }
