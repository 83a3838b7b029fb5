// Package noise samples generator input batches.
package noise

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/w121211/LayoutGAN/internal/tensor"
)

// Sampler produces noise batches of shape [batch, element, ClassNum+GeoNum].
// The leading ClassNum channels are constant 1, marking every element active;
// the trailing GeoNum channels are independent standard-normal draws.
type Sampler struct {
	ClassNum int
	GeoNum   int

	normal distuv.Normal
}

// NewSampler creates a sampler drawing geometry channels from a standard
// normal over the given source. The source is explicit so a fixed seed makes
// every draw reproducible; there is no hidden package-level generator.
func NewSampler(classNum, geoNum int, src rand.Source) *Sampler {
	return &Sampler{
		ClassNum: classNum,
		GeoNum:   geoNum,
		normal:   distuv.Normal{Mu: 0, Sigma: 1, Src: src},
	}
}

// Batch draws a fresh noise batch. A new batch must be drawn for every
// generator invocation; the discriminator and generator sub-steps of one
// training step never share noise.
func (s *Sampler) Batch(batchSize, elementNum int) *tensor.Tensor3 {
	features := s.ClassNum + s.GeoNum
	z := tensor.NewTensor3(batchSize, elementNum, features)
	for b := 0; b < batchSize; b++ {
		for e := 0; e < elementNum; e++ {
			for c := 0; c < s.ClassNum; c++ {
				z.Set(b, e, c, 1)
			}
			for g := 0; g < s.GeoNum; g++ {
				z.Set(b, e, s.ClassNum+g, s.normal.Rand())
			}
		}
	}
	return z
}
