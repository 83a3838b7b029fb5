// Package gan defines the generator and discriminator collaborator contracts
// of the layout GAN and provides per-element reference implementations.
package gan

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/w121211/LayoutGAN/internal/activations"
	"github.com/w121211/LayoutGAN/internal/opt"
	"github.com/w121211/LayoutGAN/internal/tensor"
)

// dense is a fully connected layer applied independently to every element of
// a [batch, element, feature] tensor. Weights are shared across elements and
// stored as a row-major contiguous slice: the weight for output o, input i
// sits at weights[o*in + i].
//
// Gradients accumulate across Backward calls until clearGradients, so one
// training phase can fold several backward passes into a single update.
type dense struct {
	inSize  int
	outSize int
	act     activations.Activation

	weights []float64
	biases  []float64
	gradW   []float64
	gradB   []float64

	// forward state cached for the backward pass
	input  *tensor.Tensor3
	preAct *tensor.Tensor3
}

// newDense creates a dense layer with Xavier/Glorot-initialized weights.
// Initialization randomness comes from the caller's rng so model setup is
// reproducible under a fixed seed.
func newDense(rng *rand.Rand, in, out int, act activations.Activation) *dense {
	weights := make([]float64, out*in)
	biases := make([]float64, out)

	scale := math.Sqrt(2.0 / (float64(in) + float64(out)))
	for i := range weights {
		weights[i] = rng.Float64()*2*scale - scale
	}
	for i := range biases {
		biases[i] = rng.Float64()*0.2 - 0.1
	}

	return &dense{
		inSize:  in,
		outSize: out,
		act:     act,
		weights: weights,
		biases:  biases,
		gradW:   make([]float64, out*in),
		gradB:   make([]float64, out),
	}
}

// forward applies Wx + b and the activation to every element vector.
func (d *dense) forward(x *tensor.Tensor3) *tensor.Tensor3 {
	d.input = x
	d.preAct = tensor.NewTensor3(x.Batch, x.Elements, d.outSize)
	out := tensor.NewTensor3(x.Batch, x.Elements, d.outSize)

	for b := 0; b < x.Batch; b++ {
		for e := 0; e < x.Elements; e++ {
			for o := 0; o < d.outSize; o++ {
				sum := d.biases[o]
				wBase := o * d.inSize
				for i := 0; i < d.inSize; i++ {
					sum += d.weights[wBase+i] * x.At(b, e, i)
				}
				d.preAct.Set(b, e, o, sum)
				out.Set(b, e, o, d.act.Activate(sum))
			}
		}
	}
	return out
}

// backward accumulates weight and bias gradients from grad and returns the
// gradient with respect to the layer's input.
func (d *dense) backward(grad *tensor.Tensor3) *tensor.Tensor3 {
	gradIn := tensor.NewTensor3(grad.Batch, grad.Elements, d.inSize)

	for b := 0; b < grad.Batch; b++ {
		for e := 0; e < grad.Elements; e++ {
			for o := 0; o < d.outSize; o++ {
				dz := grad.At(b, e, o) * d.act.Derivative(d.preAct.At(b, e, o))
				d.gradB[o] += dz
				wBase := o * d.inSize
				for i := 0; i < d.inSize; i++ {
					d.gradW[wBase+i] += dz * d.input.At(b, e, i)
					gradIn.Data[(b*grad.Elements+e)*d.inSize+i] += dz * d.weights[wBase+i]
				}
			}
		}
	}
	return gradIn
}

// clearGradients zeroes the accumulated weight and bias gradients.
func (d *dense) clearGradients() {
	for i := range d.gradW {
		d.gradW[i] = 0
	}
	for i := range d.gradB {
		d.gradB[i] = 0
	}
}

// mlp is a stack of dense layers with one optimizer owning the update step.
type mlp struct {
	layers    []*dense
	optimizer opt.Optimizer
}

func (m *mlp) forward(x *tensor.Tensor3) *tensor.Tensor3 {
	curr := x
	for _, l := range m.layers {
		curr = l.forward(curr)
	}
	return curr
}

func (m *mlp) backward(grad *tensor.Tensor3) *tensor.Tensor3 {
	curr := grad
	for i := len(m.layers) - 1; i >= 0; i-- {
		curr = m.layers[i].backward(curr)
	}
	return curr
}

func (m *mlp) clearGradients() {
	for _, l := range m.layers {
		l.clearGradients()
	}
}

// step applies one optimizer update to every layer's parameter groups.
func (m *mlp) step() {
	m.optimizer.Begin()
	for i, l := range m.layers {
		m.optimizer.Update(fmt.Sprintf("dense_%d_w", i), l.weights, l.gradW)
		m.optimizer.Update(fmt.Sprintf("dense_%d_b", i), l.biases, l.gradB)
	}
}
