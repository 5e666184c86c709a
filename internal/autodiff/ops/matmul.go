package ops

import (
	"github.com/born-ml/autograd/internal/autodiff"
)

// MatMulOp represents C = A @ B for matrices A [M, K] and B [K, N].
//
// Backward:
//   - grad_A = grad_C @ Bᵀ  [M, N] @ [N, K] = [M, K]
//   - grad_B = Aᵀ @ grad_C  [K, M] @ [M, N] = [K, N]
type MatMulOp struct{}

// Name implements autodiff.Operation.
func (MatMulOp) Name() string { return "matmul" }

// Forward implements autodiff.Operation.
func (MatMulOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{autodiff.New(inputs[0].Tensor().MatMul(inputs[1].Tensor()))}
}

// Backward implements autodiff.Operation.
func (MatMulOp) Backward(inputs, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	a, b, g := inputs[0], inputs[1], outputGrads[0]
	return []autodiff.Computed{
		MatMul(g, Transpose(b)),
		MatMul(Transpose(a), g),
	}
}

// MatMul returns the matrix product a @ b.
func MatMul(a, b autodiff.Computed) autodiff.Computed {
	return autodiff.CallOne(MatMulOp{}, a, b)
}
