// Package layoutgan re-exports the core training API for library users.
package layoutgan

import (
	"math/rand"

	charmlog "github.com/charmbracelet/log"
	exprand "golang.org/x/exp/rand"

	"github.com/w121211/LayoutGAN/internal/gan"
	"github.com/w121211/LayoutGAN/internal/layout"
	"github.com/w121211/LayoutGAN/internal/metrics"
	"github.com/w121211/LayoutGAN/internal/noise"
	"github.com/w121211/LayoutGAN/internal/opt"
	"github.com/w121211/LayoutGAN/internal/tensor"
	"github.com/w121211/LayoutGAN/internal/train"
)

// Re-export common types for easier access
type (
	Config        = train.Config
	Trainer       = train.Trainer
	Result        = train.Result
	StepError     = train.StepError
	Generator     = gan.Generator
	Discriminator = gan.Discriminator
	Optimizer     = opt.Optimizer
	Sink          = metrics.Sink
	Point         = layout.Point
	Sample        = layout.Sample
	Image         = layout.Image
	Tensor3       = tensor.Tensor3
	Tensor2       = tensor.Tensor2
	ShapeError    = tensor.ShapeError
)

// ErrEmptyLayout reports an image with no foreground pixels.
var ErrEmptyLayout = layout.ErrEmptyLayout

// DefaultConfig returns the reference hyperparameters.
func DefaultConfig() Config {
	return train.DefaultConfig()
}

// NewTrainer wires a trainer with reference models seeded from cfg.Seed.
func NewTrainer(cfg Config, logger *charmlog.Logger) *Trainer {
	modelRNG := rand.New(rand.NewSource(cfg.Seed))
	sampler := noise.NewSampler(cfg.ClassNum, cfg.GeoNum, exprand.NewSource(uint64(cfg.Seed)))

	gen := gan.NewPointGenerator(modelRNG, cfg.FeatureSize(), cfg.HiddenSize,
		opt.NewAdam(cfg.LearningRate, cfg.Beta1, cfg.Beta2))
	disc := gan.NewPointDiscriminator(modelRNG, cfg.FeatureSize(), cfg.HiddenSize,
		opt.NewAdam(cfg.LearningRate, cfg.Beta1, cfg.Beta2))

	return train.NewTrainer(cfg, gen, disc, sampler, logger)
}

// Adam creates an Adam optimizer.
func Adam(lr, beta1, beta2 float64) Optimizer {
	return opt.NewAdam(lr, beta1, beta2)
}

// Extract draws a fixed-length layout sample from a grayscale image.
func Extract(rng *rand.Rand, img Image, thresh float64, elementNum int) (Sample, error) {
	return layout.Extract(rng, img, thresh, elementNum)
}

// NopSink discards all metrics.
func NopSink() Sink {
	return metrics.Nop{}
}
