package gan

import (
	"math/rand"

	"github.com/w121211/LayoutGAN/internal/activations"
	"github.com/w121211/LayoutGAN/internal/opt"
	"github.com/w121211/LayoutGAN/internal/tensor"
)

// Generator maps a noise batch [batch, element, feature] to a fake layout
// batch of the same shape. It must be differentiable end-to-end: Backward
// consumes the gradient w.r.t. its output and accumulates parameter
// gradients, Step applies them through the generator's own optimizer.
type Generator interface {
	Forward(z *tensor.Tensor3) (*tensor.Tensor3, error)
	Backward(grad *tensor.Tensor3)
	ClearGradients()
	Step()
}

// Discriminator maps a layout batch [batch, element, feature] to per-element
// raw scores [batch, element] (pre-sigmoid logits; the losses apply
// BCE-with-logits). Backward returns the gradient w.r.t. the input batch so
// the generator phase can continue backpropagation through the fake batch
// while the discriminator's parameters are only read.
type Discriminator interface {
	Forward(batch *tensor.Tensor3) (*tensor.Tensor2, error)
	Backward(grad *tensor.Tensor2) *tensor.Tensor3
	ClearGradients()
	Step()
}

// PointGenerator is the reference generator: a dense MLP applied to every
// element independently, with shared weights. The sigmoid output keeps the
// class flag and geometry channels in (0, 1), the range of real layouts.
type PointGenerator struct {
	featureSize int
	net         *mlp
}

// NewPointGenerator builds a feature -> hidden -> hidden -> feature MLP.
func NewPointGenerator(rng *rand.Rand, featureSize, hidden int, optimizer opt.Optimizer) *PointGenerator {
	return &PointGenerator{
		featureSize: featureSize,
		net: &mlp{
			optimizer: optimizer,
			layers: []*dense{
				newDense(rng, featureSize, hidden, activations.ReLU{}),
				newDense(rng, hidden, hidden, activations.ReLU{}),
				newDense(rng, hidden, featureSize, activations.Sigmoid{}),
			},
		},
	}
}

// Forward generates a fake batch from noise. The noise feature width must
// match the generator's configured feature size.
func (g *PointGenerator) Forward(z *tensor.Tensor3) (*tensor.Tensor3, error) {
	if err := z.Check("generator input", -1, -1, g.featureSize); err != nil {
		return nil, err
	}
	return g.net.forward(z), nil
}

// Backward accumulates parameter gradients from the gradient w.r.t. the
// generated batch.
func (g *PointGenerator) Backward(grad *tensor.Tensor3) {
	g.net.backward(grad)
}

// ClearGradients zeroes all accumulated gradients.
func (g *PointGenerator) ClearGradients() { g.net.clearGradients() }

// Step applies one optimizer update.
func (g *PointGenerator) Step() { g.net.step() }

// PointDiscriminator is the reference discriminator: a per-element dense MLP
// ending in a single linear logit per element. It scores each element
// independently; relation-aware architectures can replace it behind the same
// contract.
type PointDiscriminator struct {
	featureSize int
	net         *mlp
}

// NewPointDiscriminator builds a feature -> hidden -> hidden -> 1 MLP.
func NewPointDiscriminator(rng *rand.Rand, featureSize, hidden int, optimizer opt.Optimizer) *PointDiscriminator {
	return &PointDiscriminator{
		featureSize: featureSize,
		net: &mlp{
			optimizer: optimizer,
			layers: []*dense{
				newDense(rng, featureSize, hidden, activations.NewLeakyReLU(0.2)),
				newDense(rng, hidden, hidden, activations.NewLeakyReLU(0.2)),
				newDense(rng, hidden, 1, activations.Linear{}),
			},
		},
	}
}

// Forward scores a batch, returning one logit per element.
func (d *PointDiscriminator) Forward(batch *tensor.Tensor3) (*tensor.Tensor2, error) {
	if err := batch.Check("discriminator input", -1, -1, d.featureSize); err != nil {
		return nil, err
	}
	return tensor.Squeeze(d.net.forward(batch))
}

// Backward accumulates parameter gradients and returns the gradient w.r.t.
// the input batch.
func (d *PointDiscriminator) Backward(grad *tensor.Tensor2) *tensor.Tensor3 {
	expanded := &tensor.Tensor3{Data: grad.Data, Batch: grad.Batch, Elements: grad.Elements, Features: 1}
	return d.net.backward(expanded)
}

// ClearGradients zeroes all accumulated gradients.
func (d *PointDiscriminator) ClearGradients() { d.net.clearGradients() }

// Step applies one optimizer update.
func (d *PointDiscriminator) Step() { d.net.step() }
