// Package layout extracts fixed-length point-set layouts from raster images.
//
// A layout summarizes an image's foreground structure as labeled 2-D points.
// Every pixel whose grayscale value clears a brightness threshold contributes
// one candidate point; a sample then draws a fixed number of candidates with
// replacement, so the sample length never depends on how bright the image is.
package layout

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrEmptyLayout reports an image with no foreground pixel at the chosen
// threshold. A sample cannot be drawn from an empty candidate set.
var ErrEmptyLayout = errors.New("layout: no foreground pixels above threshold")

// Point is one layout element: a presence flag and normalized coordinates.
type Point struct {
	ClassFlag float64 // 1 for extracted foreground points
	X         float64 // row coordinate in (0, 1), pixel-centered
	Y         float64 // column coordinate in (0, 1), pixel-centered
}

// Sample is an ordered sequence of exactly ElementNum points.
type Sample []Point

// Image is a grayscale raster stored row-major, one value per pixel.
// Values follow the source range (0-255 for MNIST).
type Image struct {
	Pixels []float64
	H, W   int
}

// At returns the pixel value at (row, col).
func (img Image) At(row, col int) float64 {
	return img.Pixels[row*img.W+col]
}

// Foreground returns every pixel with value >= thresh as a point.
// Coordinates are centered within the pixel cell and normalized to (0, 1):
// row r of an H-row image maps to (2r+1)/(2H). The divisor is derived from
// the actual image dimensions, never a fixed constant.
func Foreground(img Image, thresh float64) []Point {
	var points []Point
	for r := 0; r < img.H; r++ {
		for c := 0; c < img.W; c++ {
			if img.At(r, c) >= thresh {
				points = append(points, Point{
					ClassFlag: 1,
					X:         float64(2*r+1) / float64(2*img.H),
					Y:         float64(2*c+1) / float64(2*img.W),
				})
			}
		}
	}
	return points
}

// Extract builds a sample of exactly elementNum points by drawing uniformly
// with replacement from the image's foreground set. The draw order is random,
// so repeated extraction of the same image yields different samples (a cheap
// form of augmentation; samples are never cached).
//
// Returns ErrEmptyLayout if no pixel clears thresh.
func Extract(rng *rand.Rand, img Image, thresh float64, elementNum int) (Sample, error) {
	candidates := Foreground(img, thresh)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("extract %dx%d image at threshold %g: %w", img.H, img.W, thresh, ErrEmptyLayout)
	}

	sample := make(Sample, elementNum)
	for i := range sample {
		sample[i] = candidates[rng.Intn(len(candidates))]
	}
	return sample, nil
}
