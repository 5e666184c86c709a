package autodiff

import (
	"fmt"

	"github.com/born-ml/autograd/internal/tensor"
)

// Arithmetic on Computed handles. Binary operations broadcast their operands,
// and their backward rules sum the gradients back to each operand's shape.

type addOp struct{}

func (addOp) Name() string { return "add" }

func (addOp) Forward(inputs []Computed) []Computed {
	return []Computed{New(inputs[0].Tensor().Add(inputs[1].Tensor()))}
}

func (addOp) Backward(inputs, _, outputGrads []Computed) []Computed {
	g := outputGrads[0]
	return []Computed{g.SumTo(inputs[0].Shape()), g.SumTo(inputs[1].Shape())}
}

type subOp struct{}

func (subOp) Name() string { return "sub" }

func (subOp) Forward(inputs []Computed) []Computed {
	return []Computed{New(inputs[0].Tensor().Sub(inputs[1].Tensor()))}
}

func (subOp) Backward(inputs, _, outputGrads []Computed) []Computed {
	g := outputGrads[0]
	return []Computed{g.SumTo(inputs[0].Shape()), g.Neg().SumTo(inputs[1].Shape())}
}

type mulOp struct{}

func (mulOp) Name() string { return "mul" }

func (mulOp) Forward(inputs []Computed) []Computed {
	return []Computed{New(inputs[0].Tensor().Mul(inputs[1].Tensor()))}
}

func (mulOp) Backward(inputs, _, outputGrads []Computed) []Computed {
	a, b, g := inputs[0], inputs[1], outputGrads[0]
	return []Computed{g.Mul(b).SumTo(a.Shape()), g.Mul(a).SumTo(b.Shape())}
}

type divOp struct{}

func (divOp) Name() string { return "div" }

func (divOp) Forward(inputs []Computed) []Computed {
	return []Computed{New(inputs[0].Tensor().Div(inputs[1].Tensor()))}
}

// Backward: d(a/b)/da = 1/b, d(a/b)/db = -a/b².
func (divOp) Backward(inputs, _, outputGrads []Computed) []Computed {
	a, b, g := inputs[0], inputs[1], outputGrads[0]
	return []Computed{
		g.Div(b).SumTo(a.Shape()),
		g.Neg().Mul(a).Div(b.Mul(b)).SumTo(b.Shape()),
	}
}

type negOp struct{}

func (negOp) Name() string { return "neg" }

func (negOp) Forward(inputs []Computed) []Computed {
	return []Computed{New(inputs[0].Tensor().Neg())}
}

func (negOp) Backward(_, _, outputGrads []Computed) []Computed {
	return []Computed{outputGrads[0].Neg()}
}

type scaleOp struct{ factor float32 }

func (op scaleOp) Name() string { return fmt.Sprintf("scale(%g)", op.factor) }

func (op scaleOp) Forward(inputs []Computed) []Computed {
	return []Computed{New(inputs[0].Tensor().Scale(op.factor))}
}

func (op scaleOp) Backward(_, _, outputGrads []Computed) []Computed {
	return []Computed{outputGrads[0].Scale(op.factor)}
}

type addScalarOp struct{ c float32 }

func (op addScalarOp) Name() string { return fmt.Sprintf("add_scalar(%g)", op.c) }

func (op addScalarOp) Forward(inputs []Computed) []Computed {
	return []Computed{New(inputs[0].Tensor().AddScalar(op.c))}
}

func (op addScalarOp) Backward(_, _, outputGrads []Computed) []Computed {
	return []Computed{outputGrads[0].Scale(1)}
}

// sumToOp reduces a broadcast value back to shape; its gradient is broadcast
// back up, which keeps both rules differentiable.
type sumToOp struct{ shape tensor.Shape }

func (op sumToOp) Name() string { return "sum_to" + op.shape.String() }

func (op sumToOp) Forward(inputs []Computed) []Computed {
	return []Computed{New(inputs[0].Tensor().SumTo(op.shape))}
}

func (op sumToOp) Backward(inputs, _, outputGrads []Computed) []Computed {
	return []Computed{outputGrads[0].BroadcastTo(inputs[0].Shape())}
}

type broadcastToOp struct{ shape tensor.Shape }

func (op broadcastToOp) Name() string { return "broadcast_to" + op.shape.String() }

func (op broadcastToOp) Forward(inputs []Computed) []Computed {
	return []Computed{New(inputs[0].Tensor().BroadcastTo(op.shape))}
}

func (op broadcastToOp) Backward(inputs, _, outputGrads []Computed) []Computed {
	return []Computed{outputGrads[0].SumTo(inputs[0].Shape())}
}

// Add returns c + other, broadcasting.
func (c Computed) Add(other Computed) Computed { return CallOne(addOp{}, c, other) }

// Sub returns c - other, broadcasting.
func (c Computed) Sub(other Computed) Computed { return CallOne(subOp{}, c, other) }

// Mul returns the elementwise product, broadcasting.
func (c Computed) Mul(other Computed) Computed { return CallOne(mulOp{}, c, other) }

// Div returns the elementwise quotient, broadcasting.
func (c Computed) Div(other Computed) Computed { return CallOne(divOp{}, c, other) }

// Neg returns -c.
func (c Computed) Neg() Computed { return CallOne(negOp{}, c) }

// Scale returns c * factor.
func (c Computed) Scale(factor float32) Computed { return CallOne(scaleOp{factor: factor}, c) }

// AddScalar returns c + v.
func (c Computed) AddScalar(v float32) Computed { return CallOne(addScalarOp{c: v}, c) }

// SumTo sums c over its broadcast axes so that the result has the given
// shape. It returns c itself if the shape already matches.
func (c Computed) SumTo(shape tensor.Shape) Computed {
	if c.Shape().Equal(shape) {
		return c
	}
	return CallOne(sumToOp{shape: shape.Clone()}, c)
}

// BroadcastTo expands c to shape. It returns c itself if the shape already
// matches.
func (c Computed) BroadcastTo(shape tensor.Shape) Computed {
	if c.Shape().Equal(shape) {
		return c
	}
	return CallOne(broadcastToOp{shape: shape.Clone()}, c)
}
