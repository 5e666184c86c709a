package nn

import (
	"math/rand/v2"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/autodiff/ops"
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/gomlx/exceptions"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output with shape [batch_size, out_features]
//
// Weights are initialized using Xavier/Glorot initialization.
// Biases are initialized to zeros.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *autodiff.Param // [out_features, in_features]
	bias        *autodiff.Param // [out_features]
}

// NewLinear creates a new Linear layer whose parameters are named
// name+".weight" and name+".bias" and updated by opt.
func NewLinear(name string, inFeatures, outFeatures int, opt autodiff.Optimizer, rng *rand.Rand) *Linear {
	return NewLinearWithInit(name, inFeatures, outFeatures, opt, XavierUniform(rng, inFeatures, outFeatures), Zeros)
}

// NewLinearWithInit creates a Linear layer with explicit initializers.
// A nil biasInit creates a layer without bias.
func NewLinearWithInit(name string, inFeatures, outFeatures int, opt autodiff.Optimizer,
	weightInit, biasInit Initializer) *Linear {
	if inFeatures <= 0 || outFeatures <= 0 {
		exceptions.Panicf("nn.NewLinear(%q): features must be positive, got %d -> %d", name, inFeatures, outFeatures)
	}
	l := &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      autodiff.NewParam(weightInit(tensor.Shape{outFeatures, inFeatures}), name+".weight", opt),
	}
	if biasInit != nil {
		l.bias = autodiff.NewParam(biasInit(tensor.Shape{outFeatures}), name+".bias", opt)
	}
	return l
}

// Forward computes x @ W.T + b.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
func (l *Linear) Forward(input autodiff.Computed) autodiff.Computed {
	shape := input.Shape()
	if len(shape) != 2 {
		exceptions.Panicf("Linear.Forward: expected 2D input [batch, features], got shape %s", shape)
	}
	if shape[1] != l.inFeatures {
		exceptions.Panicf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, shape[1])
	}
	output := ops.MatMul(input, ops.Transpose(l.weight.Get()))
	if l.bias != nil {
		output = output.Add(l.bias.Get())
	}
	return output
}

// Parameters returns [weight, bias], or [weight] without bias.
func (l *Linear) Parameters() []*autodiff.Param {
	if l.bias != nil {
		return []*autodiff.Param{l.weight, l.bias}
	}
	return []*autodiff.Param{l.weight}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *autodiff.Param { return l.weight }

// Bias returns the bias parameter, or nil.
func (l *Linear) Bias() *autodiff.Param { return l.bias }

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int { return l.inFeatures }

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int { return l.outFeatures }
