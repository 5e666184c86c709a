// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff_test

import (
	"strings"
	"testing"

	"github.com/born-ml/autograd/autodiff"
	"github.com/born-ml/autograd/nn"
	"github.com/born-ml/autograd/optim"
	"github.com/born-ml/autograd/tensor"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPublicAPI_Gradient checks y = x² + x at x = 3.
func TestPublicAPI_Gradient(t *testing.T) {
	x := autodiff.Backprop(autodiff.Constant(3))
	y := x.Mul(x).Add(x)
	assert.Equal(t, float32(12), y.Item())
	assert.Equal(t, float32(7), autodiff.Gradient(y, x, false).Item())

	records := autodiff.SortForBackward(autodiff.CollectCallRecords([]autodiff.Computed{y}))
	require.NotEmpty(t, records)
	assert.Same(t, y.Creator(), records[len(records)-1])
	assert.True(t, strings.HasPrefix(autodiff.ToDOT(y), "digraph"))
}

// TestPublicAPI_Training fits w to a target through the facades only.
func TestPublicAPI_Training(t *testing.T) {
	target := autodiff.New(tensor.Full(tensor.Shape{3}, 2))
	w := autodiff.NewParam(tensor.Zeros(tensor.Shape{3}), "w", optim.NewSGD(0.1))
	for range 100 {
		autodiff.Optimize(autodiff.Sum(autodiff.Square(w.Get().Sub(target))))
	}
	assert.True(t, w.Value().AllClose(tensor.Full(tensor.Shape{3}, 2), 1e-3), "w = %s", w.Value())
}

// TestPublicAPI_Classifier trains a tiny classifier with softmax cross-entropy.
func TestPublicAPI_Classifier(t *testing.T) {
	opt, err := optim.New(optim.NameAdam, 0.1)
	require.NoError(t, err)
	model := nn.NewSequential(nn.NewLinear("fc", 2, 2, opt, nn.NewRand(3)))
	x := autodiff.New(must.M1(tensor.FromSlice([]float32{1, 0, 0, 1, 2, 0, 0, 2}, tensor.Shape{4, 2})))
	labels := []int{0, 1, 0, 1}

	initial := autodiff.SoftmaxCrossEntropy(labels, model.Forward(x)).Item()
	for range 50 {
		autodiff.Optimize(autodiff.SoftmaxCrossEntropy(labels, model.Forward(x)))
	}
	final := autodiff.SoftmaxCrossEntropy(labels, model.Forward(x)).Item()
	assert.Less(t, final, initial)
	assert.Less(t, final, float32(0.2))
	assert.Equal(t, 6, nn.NumParameters(model.Parameters()))
}
