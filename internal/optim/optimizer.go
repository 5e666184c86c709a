// Package optim implements optimization algorithms for autodiff parameters.
//
// This package provides:
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - Adam: Adaptive Moment Estimation
//   - AdamW: Adam with decoupled weight decay
//
// Every optimizer implements autodiff.Optimizer: it is attached to each
// Param at construction, keeps one state per parameter and is driven by
// Param.Update (usually through a GradientsAccumulator).
//
// Example usage:
//
//	opt := optim.NewAdam(optim.AdamConfig{LR: 0.001})
//	w := autodiff.NewParam(tensor.Zeros(tensor.Shape{3}), "w", opt)
//
//	for range steps {
//	    loss := computeLoss(w.Get())
//	    autodiff.Optimize(loss)
//	}
package optim

import (
	"strings"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Names accepted by New.
const (
	NameSGD   = "sgd"
	NameAdam  = "adam"
	NameAdamW = "adamw"
)

// New returns the optimizer registered under name (case-insensitive),
// configured with learning rate lr and default hyperparameters otherwise.
// Unlike the config structs, where a zero LR selects the default, lr must be
// positive.
func New(name string, lr float32) (autodiff.Optimizer, error) {
	if !(lr > 0) {
		return nil, errors.Errorf("optim.New(%q): learning rate must be > 0, got %g", name, lr)
	}
	switch strings.ToLower(name) {
	case NameSGD:
		return NewSGD(lr), nil
	case NameAdam:
		return NewAdam(AdamConfig{LR: lr}), nil
	case NameAdamW:
		return NewAdamW(AdamConfig{LR: lr}), nil
	}
	return nil, errors.Errorf("optim.New: unknown optimizer %q (want one of %q, %q, %q)",
		name, NameSGD, NameAdam, NameAdamW)
}

// checkShapes panics if grad does not fit value.
func checkShapes(name string, value, grad *tensor.Tensor) {
	if !value.Shape().Equal(grad.Shape()) {
		exceptions.Panicf("%s: gradient shape %s does not match value shape %s", name, grad.Shape(), value.Shape())
	}
}
