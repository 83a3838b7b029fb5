package metrics

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/w121211/LayoutGAN/internal/tensor"
)

// scatterSize is the pixel width and height of rendered scatter plots.
const scatterSize = 64

// ScatterPNG renders the geometry channels of generated batches as scatter
// plot PNGs under a per-run directory, one file per batch sample.
type ScatterPNG struct {
	dir      string
	classNum int // leading channels to skip; the next two are x, y
}

// NewScatterPNG creates a run directory under baseDir named by a fresh run
// id, so repeated runs never overwrite each other's artifacts.
func NewScatterPNG(baseDir string, classNum int) (*ScatterPNG, error) {
	dir := filepath.Join(baseDir, "run-"+uuid.NewString()[:8])
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("scatter sink: %w", err)
	}
	return &ScatterPNG{dir: dir, classNum: classNum}, nil
}

// Dir returns the run directory artifacts are written into.
func (s *ScatterPNG) Dir() string { return s.dir }

// Scalar is ignored; the scatter sink tracks point batches only.
func (s *ScatterPNG) Scalar(string, int, float64) {}

// Points renders each sample of the batch to
// <dir>/<name>_step<step>_sample<i>.png. Coordinates are expected in [0, 1];
// out-of-range points are clipped to the canvas edge.
func (s *ScatterPNG) Points(name string, step int, batch *tensor.Tensor3) {
	if batch.Features < s.classNum+2 {
		warn("scatter sink", "batch has no geometry channels", &tensor.ShapeError{
			Context: "scatter sink",
			Got:     []int{batch.Batch, batch.Elements, batch.Features},
			Want:    []int{batch.Batch, batch.Elements, s.classNum + 2},
		})
		return
	}

	for b := 0; b < batch.Batch; b++ {
		img := image.NewGray(image.Rect(0, 0, scatterSize, scatterSize))
		for e := 0; e < batch.Elements; e++ {
			row := clipToCanvas(batch.At(b, e, s.classNum))
			col := clipToCanvas(batch.At(b, e, s.classNum+1))
			img.SetGray(col, row, color.Gray{Y: 255})
		}
		path := filepath.Join(s.dir, fmt.Sprintf("%s_step%04d_sample%02d.png", name, step, b))
		if err := writePNG(path, img); err != nil {
			warn("scatter sink", "failed to write "+path, err)
			return
		}
	}
}

// Close has nothing to release; files are closed as they are written.
func (s *ScatterPNG) Close() error { return nil }

func clipToCanvas(v float64) int {
	p := int(v * scatterSize)
	if p < 0 {
		p = 0
	}
	if p > scatterSize-1 {
		p = scatterSize - 1
	}
	return p
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
