// Package metrics provides unit tests for the training sinks.
package metrics

import (
	"encoding/csv"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/w121211/LayoutGAN/internal/tensor"
)

// TestCSVScalarRows tests that scalars land as one row each under the header.
func TestCSVScalarRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "losses.csv")
	sink, err := NewCSV(path)
	if err != nil {
		t.Fatalf("new csv sink: %v", err)
	}

	sink.Scalar("discriminator_loss", 1, 1.386294)
	sink.Scalar("generator_loss", 1, 0.693147)
	if err := sink.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "name" || rows[0][1] != "step" || rows[0][2] != "value" {
		t.Errorf("header = %v, want [name step value]", rows[0])
	}
	if rows[1][0] != "discriminator_loss" || rows[1][1] != "1" {
		t.Errorf("row 1 = %v, want discriminator_loss at step 1", rows[1])
	}
	if rows[2][2] != "0.693147" {
		t.Errorf("row 2 value = %q, want 0.693147", rows[2][2])
	}
}

// TestScatterPNGWritesOneFilePerSample tests artifact naming and decodability.
func TestScatterPNGWritesOneFilePerSample(t *testing.T) {
	sink, err := NewScatterPNG(t.TempDir(), 1)
	if err != nil {
		t.Fatalf("new scatter sink: %v", err)
	}

	batch := tensor.NewTensor3(3, 4, 3)
	for b := 0; b < 3; b++ {
		for e := 0; e < 4; e++ {
			batch.Set(b, e, 0, 1)
			batch.Set(b, e, 1, 0.5)
			batch.Set(b, e, 2, 0.25)
		}
	}
	sink.Points("generated_points", 7, batch)

	entries, err := os.ReadDir(sink.Dir())
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("files = %d, want one per sample", len(entries))
	}
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "generated_points_step0007_sample") {
			t.Errorf("file %q should carry the metric name and step", entry.Name())
		}
		f, err := os.Open(filepath.Join(sink.Dir(), entry.Name()))
		if err != nil {
			t.Fatalf("open %s: %v", entry.Name(), err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			t.Fatalf("decode %s: %v", entry.Name(), err)
		}
		bounds := img.Bounds()
		if bounds.Dx() != scatterSize || bounds.Dy() != scatterSize {
			t.Errorf("canvas = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), scatterSize, scatterSize)
		}
	}
}

// TestScatterPNGClipsOutOfRangePoints tests that coordinates outside [0, 1]
// do not panic and still produce a file.
func TestScatterPNGClipsOutOfRangePoints(t *testing.T) {
	sink, err := NewScatterPNG(t.TempDir(), 1)
	if err != nil {
		t.Fatalf("new scatter sink: %v", err)
	}

	batch := tensor.NewTensor3(1, 2, 3)
	batch.Set(0, 0, 1, -0.5)
	batch.Set(0, 0, 2, 1.5)
	batch.Set(0, 1, 1, 2)
	batch.Set(0, 1, 2, -3)
	sink.Points("generated_points", 1, batch)

	entries, err := os.ReadDir(sink.Dir())
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("files = %d, want 1", len(entries))
	}
}

// TestScatterPNGFreshRunDirs tests that two sinks under one base never share
// an artifact directory.
func TestScatterPNGFreshRunDirs(t *testing.T) {
	base := t.TempDir()
	a, err := NewScatterPNG(base, 1)
	if err != nil {
		t.Fatalf("new scatter sink: %v", err)
	}
	b, err := NewScatterPNG(base, 1)
	if err != nil {
		t.Fatalf("new scatter sink: %v", err)
	}
	if a.Dir() == b.Dir() {
		t.Errorf("both runs write to %q, want distinct directories", a.Dir())
	}
}

// TestMultiFansOut tests that Multi forwards every call to every sink.
func TestMultiFansOut(t *testing.T) {
	type record struct {
		scalars int
		points  int
	}
	var counts [2]record
	sinks := make(Multi, 0, 2)
	for i := range counts {
		i := i
		sinks = append(sinks, &funcSink{
			scalar: func() { counts[i].scalars++ },
			points: func() { counts[i].points++ },
		})
	}

	sinks.Scalar("x", 1, 0.5)
	sinks.Points("p", 1, tensor.NewTensor3(1, 1, 3))

	for i, c := range counts {
		if c.scalars != 1 || c.points != 1 {
			t.Errorf("sink %d saw (%d scalars, %d points), want (1, 1)", i, c.scalars, c.points)
		}
	}
}

// funcSink adapts callbacks to the Sink interface for fan-out tests.
type funcSink struct {
	scalar func()
	points func()
}

func (f *funcSink) Scalar(string, int, float64)         { f.scalar() }
func (f *funcSink) Points(string, int, *tensor.Tensor3) { f.points() }
func (f *funcSink) Close() error                        { return nil }
