// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training parameters.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - AdamW: Adam with decoupled weight decay
//
// An optimizer is attached to each autodiff.Param when it is created, and
// keeps one state per parameter.
//
// # Basic Usage
//
//	opt := optim.NewAdam(optim.AdamConfig{LR: 0.01})
//	model := nn.NewLinear("fc", 784, 10, opt, nn.NewRand(42))
//
//	for range numSteps {
//	    loss := autodiff.SoftmaxCrossEntropy(labels, model.Forward(x))
//	    autodiff.Optimize(loss)
//	}
package optim

import (
	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/optim"
)

// Names accepted by New.
const (
	NameSGD   = optim.NameSGD
	NameAdam  = optim.NameAdam
	NameAdamW = optim.NameAdamW
)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// Adam represents the Adam and AdamW optimizers.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// New returns the optimizer registered under name with learning rate lr,
// which must be positive.
func New(name string, lr float32) (autodiff.Optimizer, error) { return optim.New(name, lr) }

// NewSGD creates a plain SGD optimizer.
func NewSGD(lr float32) *SGD { return optim.NewSGD(lr) }

// NewSGDWithConfig creates a new SGD optimizer.
//
// Example:
//
//	optimizer := optim.NewSGDWithConfig(optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
func NewSGDWithConfig(config SGDConfig) *SGD { return optim.NewSGDWithConfig(config) }

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	optimizer := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float32{0.9, 0.999},
//	    Eps:   1e-8,
//	})
func NewAdam(config AdamConfig) *Adam { return optim.NewAdam(config) }

// NewAdamW creates an Adam optimizer with decoupled weight decay.
func NewAdamW(config AdamConfig) *Adam { return optim.NewAdamW(config) }
