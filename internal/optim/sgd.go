package optim

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/gomlx/exceptions"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// Momentum helps accelerate SGD in relevant directions and dampens oscillations.
//
// Example:
//
//	opt := optim.NewSGDWithConfig(optim.SGDConfig{LR: 0.01, Momentum: 0.9})
//	w := autodiff.NewParam(initial, "w", opt)
type SGD struct {
	lr       float32
	momentum float32
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float32 // Learning rate (default: 0.01 when zero)
	Momentum float32 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a plain (fixed-step) SGD optimizer.
func NewSGD(lr float32) *SGD {
	return NewSGDWithConfig(SGDConfig{LR: lr})
}

// NewSGDWithConfig creates a new SGD optimizer. A zero LR selects the default.
func NewSGDWithConfig(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.Momentum < 0 || config.Momentum >= 1 {
		exceptions.Panicf("optim.SGD: momentum %g out of range [0, 1)", config.Momentum)
	}
	return &SGD{lr: config.LR, momentum: config.Momentum}
}

type sgdState struct {
	velocity *tensor.Tensor
}

// Name implements autodiff.Optimizer.
func (s *SGD) Name() string {
	if s.momentum == 0 {
		return fmt.Sprintf("sgd(lr=%g)", s.lr)
	}
	return fmt.Sprintf("sgd(lr=%g, momentum=%g)", s.lr, s.momentum)
}

// NewState implements autodiff.Optimizer.
func (s *SGD) NewState(shape tensor.Shape) autodiff.OptimizerState {
	return &sgdState{velocity: tensor.Zeros(shape)}
}

// Update implements autodiff.Optimizer.
func (s *SGD) Update(value *tensor.Tensor, state autodiff.OptimizerState, grad *tensor.Tensor) *tensor.Tensor {
	checkShapes("optim.SGD", value, grad)
	if s.momentum == 0 {
		return value.Sub(grad.Scale(s.lr))
	}
	st := state.(*sgdState)
	st.velocity = st.velocity.Scale(s.momentum).Add(grad)
	return value.Sub(st.velocity.Scale(s.lr))
}

// LR returns the learning rate.
func (s *SGD) LR() float32 { return s.lr }

// Momentum returns the momentum factor.
func (s *SGD) Momentum() float32 { return s.momentum }
