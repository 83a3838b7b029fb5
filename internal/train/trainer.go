package train

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/w121211/LayoutGAN/internal/dataset"
	"github.com/w121211/LayoutGAN/internal/gan"
	"github.com/w121211/LayoutGAN/internal/loss"
	"github.com/w121211/LayoutGAN/internal/metrics"
	"github.com/w121211/LayoutGAN/internal/noise"
	"github.com/w121211/LayoutGAN/internal/tensor"
)

// StepError reports a non-finite loss. Diverged steps are never retried;
// the failing step index and phase identify where training broke down.
type StepError struct {
	Step  int
	Phase string
	Value float64
}

func (e *StepError) Error() string {
	return fmt.Sprintf("training step %d: %s phase: non-finite loss %g", e.Step, e.Phase, e.Value)
}

// Result carries the per-step outcome: both scalar losses and the second
// fake batch, whose geometry channels feed visualization sinks.
type Result struct {
	DiscLoss float64
	GenLoss  float64
	Fake     *tensor.Tensor3
}

// Trainer owns the two models, their optimizer state and the step counter.
// It is strictly sequential: the discriminator update of a step always
// precedes the generator update, and no two phases touch the same
// parameter set.
type Trainer struct {
	cfg     Config
	gen     gan.Generator
	disc    gan.Discriminator
	sampler *noise.Sampler
	logger  *log.Logger

	step int
}

// NewTrainer wires a trainer from its collaborators. The noise sampler must
// be configured with the same class and geometry channel counts as cfg.
func NewTrainer(cfg Config, gen gan.Generator, disc gan.Discriminator, sampler *noise.Sampler, logger *log.Logger) *Trainer {
	if logger == nil {
		logger = log.Default()
	}
	return &Trainer{cfg: cfg, gen: gen, disc: disc, sampler: sampler, logger: logger}
}

// Step runs one training iteration over one real batch:
//
//  1. discriminator on the real batch, real loss;
//  2. fresh noise through the generator, discriminator on the fake batch,
//     fake loss; combined loss backpropagated, discriminator updated;
//  3. second fresh noise through the generator, generator loss = real loss
//     of the discriminator's verdict (fooling objective); backpropagated
//     through the frozen discriminator into the generator, generator
//     updated.
//
// Each phase zeroes its own optimizer's gradients immediately before
// accumulating, so discriminator gradients never leak into the generator
// update and vice versa.
func (t *Trainer) Step(real *tensor.Tensor3) (Result, error) {
	t.step++
	if err := real.Check("real batch", -1, t.cfg.ElementNum, t.cfg.FeatureSize()); err != nil {
		return Result{}, t.fail("discriminator-real", err)
	}
	batchSize := real.Batch

	// Discriminator-real phase.
	t.disc.ClearGradients()
	realScores, err := t.disc.Forward(real)
	if err != nil {
		return Result{}, t.fail("discriminator-real", err)
	}
	if err := realScores.Check("discriminator output", batchSize, t.cfg.ElementNum); err != nil {
		return Result{}, t.fail("discriminator-real", err)
	}
	realLoss := loss.RealLoss(realScores, t.cfg.Smooth)
	t.disc.Backward(loss.RealLossGrad(realScores, t.cfg.Smooth))

	// Discriminator-fake phase: the generator runs on its own fresh noise.
	fake, err := t.generate(batchSize, "discriminator-fake")
	if err != nil {
		return Result{}, err
	}
	fakeScores, err := t.disc.Forward(fake)
	if err != nil {
		return Result{}, t.fail("discriminator-fake", err)
	}
	if err := fakeScores.Check("discriminator output", batchSize, t.cfg.ElementNum); err != nil {
		return Result{}, t.fail("discriminator-fake", err)
	}
	fakeLoss := loss.FakeLoss(fakeScores)
	t.disc.Backward(loss.FakeLossGrad(fakeScores))

	discLoss := realLoss + fakeLoss
	if !isFinite(discLoss) {
		return Result{}, &StepError{Step: t.step, Phase: "discriminator", Value: discLoss}
	}
	t.disc.Step()
	t.disc.ClearGradients()

	// Generator phase: second fresh noise batch; the discriminator's
	// parameters are only read here, never updated.
	t.gen.ClearGradients()
	fake2, err := t.generate(batchSize, "generator")
	if err != nil {
		return Result{}, err
	}
	genScores, err := t.disc.Forward(fake2)
	if err != nil {
		return Result{}, t.fail("generator", err)
	}
	if err := genScores.Check("discriminator output", batchSize, t.cfg.ElementNum); err != nil {
		return Result{}, t.fail("generator", err)
	}
	genLoss := loss.RealLoss(genScores, false)
	if !isFinite(genLoss) {
		return Result{}, &StepError{Step: t.step, Phase: "generator", Value: genLoss}
	}
	inputGrad := t.disc.Backward(loss.RealLossGrad(genScores, false))
	t.gen.Backward(inputGrad)
	t.gen.Step()
	t.disc.ClearGradients() // discard the read-only pass's accumulation

	return Result{DiscLoss: discLoss, GenLoss: genLoss, Fake: fake2}, nil
}

// generate draws a fresh noise batch and runs the generator, verifying the
// output shape contract.
func (t *Trainer) generate(batchSize int, phase string) (*tensor.Tensor3, error) {
	z := t.sampler.Batch(batchSize, t.cfg.ElementNum)
	fake, err := t.gen.Forward(z)
	if err != nil {
		return nil, t.fail(phase, err)
	}
	if err := fake.Check("generator output", batchSize, t.cfg.ElementNum, t.cfg.FeatureSize()); err != nil {
		return nil, t.fail(phase, err)
	}
	return fake, nil
}

// fail wraps a collaborator error with the step index and phase name.
func (t *Trainer) fail(phase string, err error) error {
	return fmt.Errorf("training step %d: %s phase: %w", t.step, phase, err)
}

// Run iterates NumEpochs full passes over the dataset, reporting both losses
// and the generated points to the sink after every step. There is no early
// stopping; termination is purely step-count-driven. The context is only
// checked between steps, a step itself is atomic.
func (t *Trainer) Run(ctx context.Context, ds dataset.Dataset, sink metrics.Sink) error {
	if err := t.cfg.Validate(); err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(t.cfg.Seed))
	batcher := dataset.NewBatcher(ds, rng, t.cfg.BatchSize, t.cfg.ElementNum, t.cfg.GTThresh)

	t.logger.Info("starting training",
		"epochs", t.cfg.NumEpochs,
		"batches", batcher.NumBatches(),
		"batch_size", t.cfg.BatchSize,
		"element_num", t.cfg.ElementNum,
		"device", t.cfg.Device)

	for epoch := 0; epoch < t.cfg.NumEpochs; epoch++ {
		batcher.Reset()
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			batch, err := batcher.Next()
			if err != nil {
				return fmt.Errorf("epoch %d: %w", epoch, err)
			}
			if batch == nil {
				break
			}

			res, err := t.Step(batch)
			if err != nil {
				return err
			}

			sink.Scalar("discriminator_loss", t.step, res.DiscLoss)
			sink.Scalar("generator_loss", t.step, res.GenLoss)
			sink.Points("generated_points", t.step, res.Fake)

			t.logger.Debug("step",
				"epoch", epoch+1,
				"step", t.step,
				"discriminator_loss", res.DiscLoss,
				"generator_loss", res.GenLoss)
		}
		t.logger.Info("epoch done", "epoch", epoch+1, "steps", t.step)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
