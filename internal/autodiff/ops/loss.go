package ops

import (
	"fmt"

	"github.com/born-ml/autograd/internal/autodiff"
	"github.com/born-ml/autograd/internal/tensor"
	"github.com/gomlx/exceptions"
)

// SoftmaxCrossEntropyOp is the mean cross-entropy between softmax(logits)
// and integer class targets, for logits of shape [batch, classes].
//
// Forward:
//
//	loss = -(1/B) Σ_b log_softmax(logits)[b, target_b]
//
// Backward:
//
//	∂loss/∂logits = (softmax(logits) - one_hot(targets)) / B
type SoftmaxCrossEntropyOp struct {
	Targets []int
}

// Name implements autodiff.Operation.
func (op SoftmaxCrossEntropyOp) Name() string {
	return fmt.Sprintf("softmax_cross_entropy(%d targets)", len(op.Targets))
}

// Forward implements autodiff.Operation.
func (op SoftmaxCrossEntropyOp) Forward(inputs []autodiff.Computed) []autodiff.Computed {
	logits := inputs[0].Tensor()
	shape := logits.Shape()
	if len(shape) != 2 || shape[0] != len(op.Targets) {
		exceptions.Panicf("softmax_cross_entropy: logits of shape %s do not match %d targets", shape, len(op.Targets))
	}
	numClasses := shape[1]
	logProbs := logSoftmax(logits)
	var total float32
	for b, target := range op.Targets {
		if target < 0 || target >= numClasses {
			exceptions.Panicf("softmax_cross_entropy: target #%d = %d out of range [0, %d)", b, target, numClasses)
		}
		total -= logProbs.At(b, target)
	}
	return []autodiff.Computed{autodiff.New(tensor.Scalar(total / float32(len(op.Targets))))}
}

// Backward implements autodiff.Operation.
func (op SoftmaxCrossEntropyOp) Backward(inputs, _, outputGrads []autodiff.Computed) []autodiff.Computed {
	logits := inputs[0]
	numClasses := logits.Shape()[1]
	oneHot := autodiff.New(tensor.OneHot(op.Targets, numClasses))
	batch := float32(len(op.Targets))
	grad := Softmax(logits).Sub(oneHot).Scale(1 / batch)
	return []autodiff.Computed{grad.Mul(outputGrads[0])}
}

// SoftmaxCrossEntropy returns the mean cross-entropy loss of logits
// [batch, classes] against the target class of each row.
func SoftmaxCrossEntropy(targets []int, logits autodiff.Computed) autodiff.Computed {
	if len(targets) == 0 {
		exceptions.Panicf("softmax_cross_entropy: no targets")
	}
	return autodiff.CallOne(SoftmaxCrossEntropyOp{Targets: append([]int(nil), targets...)}, logits)
}

// MSE returns the mean squared error between predictions and targets.
func MSE(predictions, targets autodiff.Computed) autodiff.Computed {
	return Mean(Square(predictions.Sub(targets)))
}
