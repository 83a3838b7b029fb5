// Package layout provides unit tests for the extractor.
package layout

import (
	"errors"
	"math/rand"
	"testing"
)

// testImage builds an image from row-major pixel values.
func testImage(h, w int, pixels []float64) Image {
	return Image{Pixels: pixels, H: h, W: w}
}

// TestForegroundCoordinates tests the pixel-center normalization scheme on
// the 4x4 reference image: foreground at (0,0) and (3,3) maps to
// (1/8, 1/8) and (7/8, 7/8).
func TestForegroundCoordinates(t *testing.T) {
	pixels := make([]float64, 16)
	pixels[0] = 255  // (0, 0)
	pixels[15] = 255 // (3, 3)
	img := testImage(4, 4, pixels)

	points := Foreground(img, 200)
	if len(points) != 2 {
		t.Fatalf("foreground count = %d, want 2", len(points))
	}

	want := []Point{
		{ClassFlag: 1, X: 1.0 / 8.0, Y: 1.0 / 8.0},
		{ClassFlag: 1, X: 7.0 / 8.0, Y: 7.0 / 8.0},
	}
	for i, p := range points {
		if p != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, p, want[i])
		}
	}
}

// TestForegroundThresholdInclusive tests that a pixel exactly at the
// threshold counts as foreground.
func TestForegroundThresholdInclusive(t *testing.T) {
	img := testImage(1, 2, []float64{200, 199})
	points := Foreground(img, 200)
	if len(points) != 1 {
		t.Fatalf("foreground count = %d, want 1", len(points))
	}
}

// TestExtractSampleLength tests that samples always hold exactly elementNum
// points, each flagged as foreground with coordinates inside (0, 1).
func TestExtractSampleLength(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pixels := make([]float64, 16)
	pixels[5] = 255
	img := testImage(4, 4, pixels)

	for _, elementNum := range []int{1, 5, 128} {
		sample, err := Extract(rng, img, 200, elementNum)
		if err != nil {
			t.Fatalf("extract failed: %v", err)
		}
		if len(sample) != elementNum {
			t.Errorf("sample length = %d, want %d", len(sample), elementNum)
		}
		for i, p := range sample {
			if p.ClassFlag != 1 {
				t.Errorf("point %d class flag = %v, want 1", i, p.ClassFlag)
			}
			if p.X <= 0 || p.X >= 1 || p.Y <= 0 || p.Y >= 1 {
				t.Errorf("point %d coordinates (%v, %v) outside (0, 1)", i, p.X, p.Y)
			}
		}
	}
}

// TestExtractDrawsOnlyForegroundPoints tests the end-to-end scenario: a
// 4x4 image lit at (0,0) and (3,3), threshold 200, elementNum 5 — every
// sampled point must equal one of the two foreground coordinates.
func TestExtractDrawsOnlyForegroundPoints(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pixels := make([]float64, 16)
	pixels[0] = 255
	pixels[15] = 255
	img := testImage(4, 4, pixels)

	sample, err := Extract(rng, img, 200, 5)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(sample) != 5 {
		t.Fatalf("sample length = %d, want 5", len(sample))
	}

	a := Point{ClassFlag: 1, X: 1.0 / 8.0, Y: 1.0 / 8.0}
	b := Point{ClassFlag: 1, X: 7.0 / 8.0, Y: 7.0 / 8.0}
	for i, p := range sample {
		if p != a && p != b {
			t.Errorf("point %d = %+v, want %+v or %+v", i, p, a, b)
		}
	}
}

// TestExtractEmptyForeground tests that an all-dark image fails with
// ErrEmptyLayout instead of crashing on an out-of-range index.
func TestExtractEmptyForeground(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	img := testImage(4, 4, make([]float64, 16))

	_, err := Extract(rng, img, 200, 5)
	if err == nil {
		t.Fatal("expected error for empty foreground")
	}
	if !errors.Is(err, ErrEmptyLayout) {
		t.Errorf("error = %v, want ErrEmptyLayout", err)
	}
}

// TestExtractDeterministicUnderSeed tests that a fixed seed reproduces the
// same sample.
func TestExtractDeterministicUnderSeed(t *testing.T) {
	pixels := make([]float64, 16)
	pixels[0], pixels[3], pixels[12], pixels[15] = 255, 255, 255, 255
	img := testImage(4, 4, pixels)

	s1, err := Extract(rand.New(rand.NewSource(99)), img, 200, 32)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	s2, err := Extract(rand.New(rand.NewSource(99)), img, 200, 32)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	for i := range s1 {
		if s1[i] != s2[i] {
			t.Fatalf("point %d differs across identical seeds: %+v vs %+v", i, s1[i], s2[i])
		}
	}
}

// TestDivisorFollowsImageDimensions tests that non-square images normalize
// rows by 2H and columns by 2W rather than a fixed constant.
func TestDivisorFollowsImageDimensions(t *testing.T) {
	pixels := make([]float64, 2*8)
	pixels[0] = 255 // (0, 0) of a 2x8 image
	img := testImage(2, 8, pixels)

	points := Foreground(img, 200)
	if len(points) != 1 {
		t.Fatalf("foreground count = %d, want 1", len(points))
	}
	want := Point{ClassFlag: 1, X: 1.0 / 4.0, Y: 1.0 / 16.0}
	if points[0] != want {
		t.Errorf("point = %+v, want %+v", points[0], want)
	}
}
