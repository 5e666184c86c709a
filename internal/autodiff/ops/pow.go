package ops

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autodiff"
)

// Square returns x² elementwise.
func Square(x autodiff.Computed) autodiff.Computed { return x.Mul(x) }

// PowOp represents y = x^P for a constant exponent.
//
// Backward: grad_input = grad_output * P * x^(P-1).
type PowOp struct {
	P float32
}

// Name implements autodiff.Operation.
func (op PowOp) Name() string { return fmt.Sprintf("pow(%g)", op.P) }

// Forward implements autodiff.Operation.
func (op PowOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(inputs[0].Tensor().Pow(op.P))}
}

// Backward implements autodiff.Operation.
func (op PowOp) Backward(inputs, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{outputGrads[0].Mul(Pow(inputs[0], op.P-1).Scale(op.P))}
}

// Pow returns x^p elementwise.
func Pow(x autodiff.Computed, p float32) autodiff.Computed {
	return autodiff.CallOne(PowOp{P: p}, x)
}
