package tensor

import (
	"math"

	"github.com/born-ml/autograd/internal/parallel"
	"github.com/gomlx/exceptions"
)

var parallelConfig = parallel.DefaultConfig()

// Map applies f to every element and returns the result.
func (t *Tensor) Map(f func(float32) float32) *Tensor {
	out := make([]float32, len(t.data))
	src := t.data
	parallel.ForChunks(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = f(src[i])
		}
	}, parallelConfig)
	return newTensor(t.shape.Clone(), out)
}

// Zip combines t and other element-wise with f, broadcasting both operands
// to a common shape. Incompatible shapes panic.
func (t *Tensor) Zip(other *Tensor, f func(a, b float32) float32) *Tensor {
	if t.shape.Equal(other.shape) {
		out := make([]float32, len(t.data))
		a, b := t.data, other.data
		parallel.ForChunks(len(out), func(start, end int) {
			for i := start; i < end; i++ {
				out[i] = f(a[i], b[i])
			}
		}, parallelConfig)
		return newTensor(t.shape.Clone(), out)
	}

	outShape, err := BroadcastShapes(t.shape, other.shape)
	if err != nil {
		exceptions.Panicf("tensor.Zip: %v", err)
	}
	aStrides := broadcastStrides(t.shape, outShape)
	bStrides := broadcastStrides(other.shape, outShape)
	outStrides := outShape.ComputeStrides()

	out := make([]float32, outShape.NumElements())
	a, b := t.data, other.data
	parallel.ForChunks(len(out), func(start, end int) {
		for i := start; i < end; i++ {
			aOff, bOff := 0, 0
			rem := i
			for d, stride := range outStrides {
				coord := rem / stride
				rem %= stride
				aOff += coord * aStrides[d]
				bOff += coord * bStrides[d]
			}
			out[i] = f(a[aOff], b[bOff])
		}
	}, parallelConfig)
	return newTensor(outShape, out)
}

// broadcastStrides returns strides that read a tensor of shape s as if it had
// shape out: broadcast (size-1 or missing) axes get stride 0.
func broadcastStrides(s, out Shape) []int {
	strides := make([]int, len(out))
	own := s.ComputeStrides()
	lead := len(out) - len(s)
	for i := range s {
		if s[i] != 1 {
			strides[lead+i] = own[i]
		}
	}
	return strides
}

// Add returns t + other with broadcasting.
func (t *Tensor) Add(other *Tensor) *Tensor {
	return t.Zip(other, func(a, b float32) float32 { return a + b })
}

// Sub returns t - other with broadcasting.
func (t *Tensor) Sub(other *Tensor) *Tensor {
	return t.Zip(other, func(a, b float32) float32 { return a - b })
}

// Mul returns t * other with broadcasting.
func (t *Tensor) Mul(other *Tensor) *Tensor {
	return t.Zip(other, func(a, b float32) float32 { return a * b })
}

// Div returns t / other with broadcasting.
func (t *Tensor) Div(other *Tensor) *Tensor {
	return t.Zip(other, func(a, b float32) float32 { return a / b })
}

// Neg returns -t.
func (t *Tensor) Neg() *Tensor {
	return t.Map(func(v float32) float32 { return -v })
}

// Scale returns t * factor.
func (t *Tensor) Scale(factor float32) *Tensor {
	return t.Map(func(v float32) float32 { return v * factor })
}

// AddScalar returns t + c.
func (t *Tensor) AddScalar(c float32) *Tensor {
	return t.Map(func(v float32) float32 { return v + c })
}

// Exp returns e^t element-wise.
func (t *Tensor) Exp() *Tensor {
	return t.Map(func(v float32) float32 { return float32(math.Exp(float64(v))) })
}

// Log returns the natural logarithm element-wise.
func (t *Tensor) Log() *Tensor {
	return t.Map(func(v float32) float32 { return float32(math.Log(float64(v))) })
}

// Sqrt returns the square root element-wise.
func (t *Tensor) Sqrt() *Tensor {
	return t.Map(func(v float32) float32 { return float32(math.Sqrt(float64(v))) })
}

// Pow raises every element to p.
func (t *Tensor) Pow(p float32) *Tensor {
	return t.Map(func(v float32) float32 { return float32(math.Pow(float64(v), float64(p))) })
}

// Tanh returns the hyperbolic tangent element-wise.
func (t *Tensor) Tanh() *Tensor {
	return t.Map(func(v float32) float32 { return float32(math.Tanh(float64(v))) })
}

// Sigmoid returns 1 / (1 + e^-t) element-wise.
func (t *Tensor) Sigmoid() *Tensor {
	return t.Map(func(v float32) float32 { return float32(1.0 / (1.0 + math.Exp(float64(-v)))) })
}
