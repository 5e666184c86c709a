package tensor

import (
	"github.com/gomlx/exceptions"
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// MatMul returns the matrix product of two 2D tensors: [m, k] @ [k, n] → [m, n].
func (t *Tensor) MatMul(other *Tensor) *Tensor {
	if len(t.shape) != 2 || len(other.shape) != 2 {
		exceptions.Panicf("tensor.MatMul: expected 2D operands, got %s @ %s", t.shape, other.shape)
	}
	m, k := t.shape[0], t.shape[1]
	k2, n := other.shape[0], other.shape[1]
	if k != k2 {
		exceptions.Panicf("tensor.MatMul: inner dimensions differ: %s @ %s", t.shape, other.shape)
	}

	out := make([]float32, m*n)
	if m == 0 || n == 0 || k == 0 {
		return newTensor(Shape{m, n}, out)
	}
	a := blas32.General{Rows: m, Cols: k, Stride: k, Data: t.data}
	b := blas32.General{Rows: k, Cols: n, Stride: n, Data: other.data}
	c := blas32.General{Rows: m, Cols: n, Stride: n, Data: out}
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, a, b, 0, c)
	return newTensor(Shape{m, n}, out)
}
