// Package tensor provides flat row-major tensors for batched layout data.
//
// All batches flowing between the extractor, the models and the losses share
// one layout: [batch, element, feature] stored contiguously, feature fastest.
// Keeping the dims explicit lets every component boundary verify the shape it
// was promised instead of failing deep inside an inner loop.
package tensor

import "fmt"

// ShapeError reports a tensor whose dimensions violate a component contract.
type ShapeError struct {
	Context string // boundary where the mismatch was detected
	Got     []int
	Want    []int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: shape mismatch: got %v, want %v", e.Context, e.Got, e.Want)
}

// Tensor3 is a [batch, element, feature] tensor stored row-major.
type Tensor3 struct {
	Data     []float64
	Batch    int
	Elements int
	Features int
}

// NewTensor3 allocates a zeroed [batch, element, feature] tensor.
func NewTensor3(batch, elements, features int) *Tensor3 {
	return &Tensor3{
		Data:     make([]float64, batch*elements*features),
		Batch:    batch,
		Elements: elements,
		Features: features,
	}
}

// At returns the value at (b, e, f).
func (t *Tensor3) At(b, e, f int) float64 {
	return t.Data[(b*t.Elements+e)*t.Features+f]
}

// Set stores v at (b, e, f).
func (t *Tensor3) Set(b, e, f int, v float64) {
	t.Data[(b*t.Elements+e)*t.Features+f] = v
}

// Check returns a ShapeError unless t has exactly the given dimensions.
// A dimension of -1 matches any size (the batch axis varies on short batches).
func (t *Tensor3) Check(context string, batch, elements, features int) error {
	ok := (batch == -1 || t.Batch == batch) &&
		(elements == -1 || t.Elements == elements) &&
		(features == -1 || t.Features == features)
	if !ok {
		return &ShapeError{
			Context: context,
			Got:     []int{t.Batch, t.Elements, t.Features},
			Want:    []int{batch, elements, features},
		}
	}
	return nil
}

// Clone returns a deep copy of t.
func (t *Tensor3) Clone() *Tensor3 {
	c := NewTensor3(t.Batch, t.Elements, t.Features)
	copy(c.Data, t.Data)
	return c
}

// Tensor2 is a [batch, element] tensor stored row-major, used for
// per-element discriminator scores and loss gradients.
type Tensor2 struct {
	Data     []float64
	Batch    int
	Elements int
}

// NewTensor2 allocates a zeroed [batch, element] tensor.
func NewTensor2(batch, elements int) *Tensor2 {
	return &Tensor2{
		Data:     make([]float64, batch*elements),
		Batch:    batch,
		Elements: elements,
	}
}

// At returns the value at (b, e).
func (t *Tensor2) At(b, e int) float64 {
	return t.Data[b*t.Elements+e]
}

// Set stores v at (b, e).
func (t *Tensor2) Set(b, e int, v float64) {
	t.Data[b*t.Elements+e] = v
}

// Check returns a ShapeError unless t has exactly the given dimensions.
// A dimension of -1 matches any size.
func (t *Tensor2) Check(context string, batch, elements int) error {
	ok := (batch == -1 || t.Batch == batch) &&
		(elements == -1 || t.Elements == elements)
	if !ok {
		return &ShapeError{
			Context: context,
			Got:     []int{t.Batch, t.Elements},
			Want:    []int{batch, elements},
		}
	}
	return nil
}

// Squeeze converts a [batch, element, 1] tensor into a [batch, element]
// tensor, sharing the underlying data. Discriminators may emit either shape.
func Squeeze(t *Tensor3) (*Tensor2, error) {
	if t.Features != 1 {
		return nil, &ShapeError{
			Context: "squeeze",
			Got:     []int{t.Batch, t.Elements, t.Features},
			Want:    []int{t.Batch, t.Elements, 1},
		}
	}
	return &Tensor2{Data: t.Data, Batch: t.Batch, Elements: t.Elements}, nil
}
