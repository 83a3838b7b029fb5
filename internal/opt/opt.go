// Package opt provides optimization algorithms.
package opt

import "math"

// Optimizer updates named parameter groups in-place from accumulated
// gradients. One optimizer instance belongs to exactly one model; its state
// lives for the whole training run and advances once per update step.
type Optimizer interface {
	// Begin marks the start of one optimization step. Stateful optimizers
	// advance their step counter here, once, regardless of how many groups
	// the following Update calls touch.
	Begin()

	// Update applies the step to one parameter group: params -= f(gradients).
	// The group key identifies the parameter slice across calls so stateful
	// optimizers can keep per-parameter moments.
	Update(group string, params, gradients []float64)
}

// SGD (Stochastic Gradient Descent) optimizer.
type SGD struct {
	LearningRate float64
}

// Begin is a no-op; SGD keeps no cross-step state.
func (s SGD) Begin() {}

// Update applies params[i] -= lr * gradients[i].
func (s SGD) Update(group string, params, gradients []float64) {
	for i := range params {
		params[i] -= s.LearningRate * gradients[i]
	}
}

// Adam optimizer with bias-corrected first and second moment estimates.
type Adam struct {
	LearningRate float64
	Beta1        float64 // Exponential decay rate for first moment
	Beta2        float64 // Exponential decay rate for second moment
	Epsilon      float64 // Small constant for numerical stability

	step int
	m    map[string][]float64 // first moment per group
	v    map[string][]float64 // second moment per group
}

// NewAdam creates an Adam optimizer with the standard moment decay defaults.
func NewAdam(learningRate, beta1, beta2 float64) *Adam {
	return &Adam{
		LearningRate: learningRate,
		Beta1:        beta1,
		Beta2:        beta2,
		Epsilon:      1e-8,
		m:            make(map[string][]float64),
		v:            make(map[string][]float64),
	}
}

// Begin advances the shared step counter used for bias correction.
func (a *Adam) Begin() {
	a.step++
}

// Update applies one Adam step to the group:
//
//	m = beta1*m + (1-beta1)*g
//	v = beta2*v + (1-beta2)*g^2
//	params -= lr * mHat / (sqrt(vHat) + eps)
//
// Moments are allocated lazily on a group's first update.
func (a *Adam) Update(group string, params, gradients []float64) {
	if a.m[group] == nil {
		a.m[group] = make([]float64, len(params))
		a.v[group] = make([]float64, len(params))
	}
	m := a.m[group]
	v := a.v[group]

	c1 := 1 - math.Pow(a.Beta1, float64(a.step))
	c2 := 1 - math.Pow(a.Beta2, float64(a.step))

	for i := range params {
		g := gradients[i]
		m[i] = a.Beta1*m[i] + (1-a.Beta1)*g
		v[i] = a.Beta2*v[i] + (1-a.Beta2)*g*g

		mHat := m[i] / c1
		vHat := v[i] / c2
		params[i] -= a.LearningRate * mHat / (math.Sqrt(vHat) + a.Epsilon)
	}
}
