package nn

import (
	"math"
	"math/rand/v2"

	"github.com/born-ml/autograd/internal/tensor"
	"github.com/gomlx/exceptions"
)

// Initializer creates the initial value of a parameter of the given shape.
//
// Random initializers hold their own generator: two initializers seeded
// identically produce identical streams, independently of any other
// randomness in the program.
type Initializer func(shape tensor.Shape) *tensor.Tensor

// NewRand returns a deterministic generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// XavierUniform (Glorot) initializes weights from
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))).
//
// This initialization helps maintain variance of activations across layers.
func XavierUniform(rng *rand.Rand, fanIn, fanOut int) Initializer {
	if fanIn+fanOut <= 0 {
		exceptions.Panicf("nn.XavierUniform: fanIn + fanOut must be positive, got %d + %d", fanIn, fanOut)
	}
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return func(shape tensor.Shape) *tensor.Tensor {
		return generate(shape, func() float32 {
			return float32((rng.Float64()*2.0 - 1.0) * bound)
		})
	}
}

// Normal initializes values from N(mean, stddev²).
func Normal(rng *rand.Rand, mean, stddev float64) Initializer {
	return func(shape tensor.Shape) *tensor.Tensor {
		return generate(shape, func() float32 {
			return float32(mean + stddev*rng.NormFloat64())
		})
	}
}

// Zeros initializes all values to zero. It is the usual bias initializer.
func Zeros(shape tensor.Shape) *tensor.Tensor {
	return tensor.Zeros(shape)
}

func generate(shape tensor.Shape, next func() float32) *tensor.Tensor {
	data := make([]float32, shape.NumElements())
	for i := range data {
		data[i] = next()
	}
	t, err := tensor.FromSlice(data, shape)
	if err != nil {
		exceptions.Panicf("nn: cannot initialize shape %s: %v", shape, err)
	}
	return t
}
