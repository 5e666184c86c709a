package ops

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/gomlx/exceptions"
)

// ChunkOp splits its input into N equal parts along Axis. It is the
// multi-output counterpart of ConcatOp.
//
// Backward: the output gradients are concatenated back. All outputs must be
// kept alive until gradients are computed.
type ChunkOp struct {
	N, Axis int
}

// Name implements autodiff.Operation.
func (op ChunkOp) Name() string { return fmt.Sprintf("chunk(%d, %d)", op.N, op.Axis) }

// Forward implements autodiff.Operation.
func (op ChunkOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	x := inputs[0].Tensor()
	shape := x.Shape()
	dim := shape[normalizeAxis(op.Axis, len(shape))]
	if op.N <= 0 || dim%op.N != 0 {
		exceptions.Panicf("chunk: axis %d of shape %s cannot be split into %d equal parts", op.Axis, shape, op.N)
	}
	sizes := make([]int, op.N)
	for i := range sizes {
		sizes[i] = dim / op.N
	}
	parts := x.Split(op.Axis, sizes...)
	outputs := make([]autodiff.Computed, len(parts))
	for i, p := range parts {
		outputs[i] = autodiff.New(p)
	}
	return outputs
}

// Backward implements autodiff.Operation.
func (op ChunkOp) Backward(_, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	return []autodiff.Computed{Concat(op.Axis, outputGrads...)}
}

// Chunk splits x into n equal parts along axis.
func Chunk(x autodiff.Computed, n, axis int) []autodiff.Computed {
	return autodiff.Call(ChunkOp{N: n, Axis: axis}, x)
}
