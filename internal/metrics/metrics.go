// Package metrics reports per-step training scalars and point-set artifacts.
//
// Sinks are fire-and-forget: a sink failure is reported on stderr and never
// propagates into the training loop.
package metrics

import (
	"fmt"
	"os"

	"github.com/w121211/LayoutGAN/internal/tensor"
)

// Sink accepts named scalar values keyed by step and, optionally, generated
// point batches for visualization.
type Sink interface {
	// Scalar records a named scalar at the given training step.
	Scalar(name string, step int, value float64)

	// Points records a generated [batch, element, feature] batch at the
	// given step. Sinks that only track scalars may ignore it.
	Points(name string, step int, batch *tensor.Tensor3)

	// Close flushes and releases any underlying resources.
	Close() error
}

// Nop is a Sink that discards everything.
type Nop struct{}

func (Nop) Scalar(string, int, float64)         {}
func (Nop) Points(string, int, *tensor.Tensor3) {}
func (Nop) Close() error                        { return nil }

// Multi fans every call out to all wrapped sinks.
type Multi []Sink

func (m Multi) Scalar(name string, step int, value float64) {
	for _, s := range m {
		s.Scalar(name, step, value)
	}
}

func (m Multi) Points(name string, step int, batch *tensor.Tensor3) {
	for _, s := range m {
		s.Points(name, step, batch)
	}
}

func (m Multi) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// warn reports a sink failure without interrupting training.
func warn(sink, msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s: %v\n", sink, msg, err)
}
