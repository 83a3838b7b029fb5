package dataset

import (
	"fmt"
	"math/rand"

	"github.com/w121211/LayoutGAN/internal/layout"
	"github.com/w121211/LayoutGAN/internal/tensor"
)

// Batcher iterates a dataset in order, extracting a fresh layout sample per
// image and stacking batchSize samples into a [batch, element, 3] tensor.
// The final batch may be short when the dataset size is not a multiple of
// batchSize. Iteration is synchronous and single-threaded.
type Batcher struct {
	ds         Dataset
	rng        *rand.Rand
	batchSize  int
	elementNum int
	thresh     float64
	next       int
}

// NewBatcher creates a batcher over ds. Extraction randomness comes from the
// caller-supplied rng so runs are reproducible under a fixed seed.
func NewBatcher(ds Dataset, rng *rand.Rand, batchSize, elementNum int, thresh float64) *Batcher {
	return &Batcher{
		ds:         ds,
		rng:        rng,
		batchSize:  batchSize,
		elementNum: elementNum,
		thresh:     thresh,
	}
}

// NumBatches returns the number of batches one full pass produces.
func (b *Batcher) NumBatches() int {
	return (b.ds.Len() + b.batchSize - 1) / b.batchSize
}

// Reset rewinds the batcher to the start of the dataset. Samples are
// re-extracted on the next pass; nothing is cached across epochs.
func (b *Batcher) Reset() { b.next = 0 }

// Next returns the next real batch, or (nil, nil) when the pass is done.
// An image with no foreground pixels surfaces the extraction error wrapped
// with the image index; the caller decides whether to skip or abort.
func (b *Batcher) Next() (*tensor.Tensor3, error) {
	remaining := b.ds.Len() - b.next
	if remaining <= 0 {
		return nil, nil
	}
	n := b.batchSize
	if remaining < n {
		n = remaining
	}

	batch := tensor.NewTensor3(n, b.elementNum, 3)
	for i := 0; i < n; i++ {
		idx := b.next + i
		sample, err := layout.Extract(b.rng, b.ds.Image(idx), b.thresh, b.elementNum)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", idx, err)
		}
		for e, p := range sample {
			batch.Set(i, e, 0, p.ClassFlag)
			batch.Set(i, e, 1, p.X)
			batch.Set(i, e, 2, p.Y)
		}
	}
	b.next += n
	return batch, nil
}
