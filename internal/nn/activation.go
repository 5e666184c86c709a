package nn

import (
	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/autodiff/ops"
)

// ReLU applies max(0, x) elementwise.
type ReLU struct{}

// NewReLU creates a ReLU activation.
func NewReLU() *ReLU { return &ReLU{} }

// Forward implements Module.
func (*ReLU) Forward(input autodiff.Computed) autodiff.Computed { return ops.ReLU(input) }

// Parameters implements Module.
func (*ReLU) Parameters() []*autodiff.Param { return []*autodiff.Param{} }

// Sigmoid applies the logistic function elementwise.
type Sigmoid struct{}

// NewSigmoid creates a Sigmoid activation.
func NewSigmoid() *Sigmoid { return &Sigmoid{} }

// Forward implements Module.
func (*Sigmoid) Forward(input autodiff.Computed) autodiff.Computed { return ops.Sigmoid(input) }

// Parameters implements Module.
func (*Sigmoid) Parameters() []*autodiff.Param { return []*autodiff.Param{} }

// Tanh applies the hyperbolic tangent elementwise.
type Tanh struct{}

// NewTanh creates a Tanh activation.
func NewTanh() *Tanh { return &Tanh{} }

// Forward implements Module.
func (*Tanh) Forward(input autodiff.Computed) autodiff.Computed { return ops.Tanh(input) }

// Parameters implements Module.
func (*Tanh) Parameters() []*autodiff.Param { return []*autodiff.Param{} }
