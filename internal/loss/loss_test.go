// Package loss provides unit tests for the adversarial losses.
package loss

import (
	"math"
	"testing"

	"github.com/w121211/LayoutGAN/internal/tensor"
)

// constScores builds a [batch, element] tensor filled with one logit value.
func constScores(batch, elements int, logit float64) *tensor.Tensor2 {
	s := tensor.NewTensor2(batch, elements)
	for i := range s.Data {
		s.Data[i] = logit
	}
	return s
}

// TestRealLossAtZeroLogit tests the closed form at x=0, y=1:
// loss = log(2) per element.
func TestRealLossAtZeroLogit(t *testing.T) {
	scores := constScores(2, 4, 0)
	got := RealLoss(scores, false)
	want := math.Log(2)
	if math.Abs(got-want) > 1e-10 {
		t.Errorf("RealLoss = %v, want %v", got, want)
	}
}

// TestFakeLossAtZeroLogit tests the closed form at x=0, y=0:
// loss = log(2) per element.
func TestFakeLossAtZeroLogit(t *testing.T) {
	scores := constScores(2, 4, 0)
	got := FakeLoss(scores)
	want := math.Log(2)
	if math.Abs(got-want) > 1e-10 {
		t.Errorf("FakeLoss = %v, want %v", got, want)
	}
}

// TestLossesNonNegative tests non-negativity across logit magnitudes and
// short batches.
func TestLossesNonNegative(t *testing.T) {
	for _, logit := range []float64{-50, -3, -0.5, 0, 0.5, 3, 50} {
		for _, batch := range []int{1, 3, 20} {
			scores := constScores(batch, 8, logit)
			if l := RealLoss(scores, false); l < 0 {
				t.Errorf("RealLoss(%v) = %v, want >= 0", logit, l)
			}
			if l := RealLoss(scores, true); l < 0 {
				t.Errorf("RealLoss(%v, smooth) = %v, want >= 0", logit, l)
			}
			if l := FakeLoss(scores); l < 0 {
				t.Errorf("FakeLoss(%v) = %v, want >= 0", logit, l)
			}
		}
	}
}

// TestSmoothingClosedFormDelta tests the label-smoothing contract directly:
// for a constant logit x, BCE against 0.9 exceeds BCE against 1.0 by
// exactly 0.1*x per element (loss = x - x*y + log(1+exp(-x))).
func TestSmoothingClosedFormDelta(t *testing.T) {
	for _, x := range []float64{0.5, 2, -1.5} {
		scores := constScores(3, 5, x)
		smoothed := RealLoss(scores, true)
		plain := RealLoss(scores, false)

		wantDelta := 0.1 * x
		if gotDelta := smoothed - plain; math.Abs(gotDelta-wantDelta) > 1e-10 {
			t.Errorf("logit %v: smoothing delta = %v, want %v", x, gotDelta, wantDelta)
		}
	}
}

// TestLossStableAtExtremeLogits tests that large-magnitude logits neither
// overflow nor go NaN.
func TestLossStableAtExtremeLogits(t *testing.T) {
	for _, x := range []float64{-1000, 1000} {
		scores := constScores(1, 4, x)
		for name, l := range map[string]float64{
			"RealLoss": RealLoss(scores, false),
			"FakeLoss": FakeLoss(scores),
		} {
			if math.IsNaN(l) || math.IsInf(l, 0) {
				t.Errorf("%s(%v) = %v, want finite", name, x, l)
			}
		}
	}
	// BCE against the matching label at extreme confidence approaches 0.
	if l := RealLoss(constScores(1, 4, 1000), false); l > 1e-6 {
		t.Errorf("RealLoss(1000) = %v, want ~0", l)
	}
	if l := FakeLoss(constScores(1, 4, -1000)); l > 1e-6 {
		t.Errorf("FakeLoss(-1000) = %v, want ~0", l)
	}
}

// TestRealLossGrad tests the gradient sigmoid(x)-y scaled by 1/n.
func TestRealLossGrad(t *testing.T) {
	scores := constScores(2, 2, 0)
	grad := RealLossGrad(scores, false)

	// sigmoid(0) = 0.5, target 1, n = 4: each entry (0.5-1)/4 = -0.125.
	for i, g := range grad.Data {
		if math.Abs(g-(-0.125)) > 1e-10 {
			t.Errorf("grad[%d] = %v, want -0.125", i, g)
		}
	}
}

// TestFakeLossGrad tests the gradient against the zero target.
func TestFakeLossGrad(t *testing.T) {
	scores := constScores(2, 2, 0)
	grad := FakeLossGrad(scores)

	// sigmoid(0) = 0.5, target 0, n = 4: each entry 0.5/4 = 0.125.
	for i, g := range grad.Data {
		if math.Abs(g-0.125) > 1e-10 {
			t.Errorf("grad[%d] = %v, want 0.125", i, g)
		}
	}
}

// TestGradShapeMatchesScores tests that gradients keep the score shape for
// short batches.
func TestGradShapeMatchesScores(t *testing.T) {
	scores := constScores(3, 7, 1.5)
	grad := RealLossGrad(scores, true)
	if grad.Batch != 3 || grad.Elements != 7 {
		t.Errorf("grad shape = (%d, %d), want (3, 7)", grad.Batch, grad.Elements)
	}
}
