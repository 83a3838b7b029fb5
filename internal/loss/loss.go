// Package loss provides the adversarial losses of the layout GAN.
//
// Both losses are binary cross-entropy with logits over per-element
// discriminator scores of shape [batch, element], reduced to a scalar mean.
// Computing the loss directly from logits avoids the separate sigmoid+BCE
// round trip, which is numerically unstable for large scores.
package loss

import (
	"math"

	"github.com/w121211/LayoutGAN/internal/tensor"
)

// smoothTarget is the softened "real" label used for one-sided label
// smoothing. Training the discriminator against 0.9 instead of 1.0 keeps it
// from becoming overconfident early.
const smoothTarget = 0.9

// RealLoss scores a batch against the all-ones target ("this is real data").
// With smooth set, the target is scaled to 0.9 elementwise.
func RealLoss(scores *tensor.Tensor2, smooth bool) float64 {
	target := 1.0
	if smooth {
		target = smoothTarget
	}
	return bceWithLogits(scores.Data, target)
}

// FakeLoss scores a batch against the all-zeros target ("this is generated").
func FakeLoss(scores *tensor.Tensor2) float64 {
	return bceWithLogits(scores.Data, 0)
}

// RealLossGrad returns the gradient of RealLoss w.r.t. the scores:
// (sigmoid(x) - target) / n elementwise.
func RealLossGrad(scores *tensor.Tensor2, smooth bool) *tensor.Tensor2 {
	target := 1.0
	if smooth {
		target = smoothTarget
	}
	return bceWithLogitsGrad(scores, target)
}

// FakeLossGrad returns the gradient of FakeLoss w.r.t. the scores.
func FakeLossGrad(scores *tensor.Tensor2) *tensor.Tensor2 {
	return bceWithLogitsGrad(scores, 0)
}

// bceWithLogits computes mean BCE between logits x and a constant target y
// using the stable form max(x, 0) - x*y + log(1 + exp(-|x|)).
func bceWithLogits(logits []float64, y float64) float64 {
	var sum float64
	for _, x := range logits {
		if x >= 0 {
			sum += math.Log(1+math.Exp(-x)) + x - x*y
		} else {
			sum += -x*y + math.Log(1+math.Exp(x))
		}
	}
	return sum / float64(len(logits))
}

// bceWithLogitsGrad computes (sigmoid(x) - y) / n elementwise.
func bceWithLogitsGrad(scores *tensor.Tensor2, y float64) *tensor.Tensor2 {
	grad := tensor.NewTensor2(scores.Batch, scores.Elements)
	n := float64(len(scores.Data))
	for i, x := range scores.Data {
		sigmoid := 1.0 / (1.0 + math.Exp(-x))
		grad.Data[i] = (sigmoid - y) / n
	}
	return grad
}
