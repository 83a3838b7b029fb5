// Package dataset loads raster image datasets and batches extracted layouts.
package dataset

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/w121211/LayoutGAN/internal/layout"
)

// DefaultMNISTURL is the mirror the training images are fetched from.
const DefaultMNISTURL = "https://ossci-datasets.s3.amazonaws.com/mnist/train-images-idx3-ubyte.gz"

const idxImagesMagic = 2051

// Dataset is an ordered collection of grayscale images.
type Dataset interface {
	Len() int
	Image(i int) layout.Image
}

// MNIST holds the decoded training images of an IDX file.
type MNIST struct {
	images []layout.Image
}

// Len returns the number of images.
func (m *MNIST) Len() int { return len(m.images) }

// Image returns the i-th image in file order.
func (m *MNIST) Image(i int) layout.Image { return m.images[i] }

// Download fetches url into dest unless dest already exists.
func Download(url, dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return nil
	}
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: bad status: %s", url, resp.Status)
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, resp.Body)
	return err
}

// LoadMNIST parses a gzipped IDX image file (magic 2051) into a dataset.
// Pixel values are kept in the source 0-255 range; thresholding happens in
// the layout extractor, not here.
func LoadMNIST(filename string) (*MNIST, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	defer gz.Close()
	return ReadIDX(gz)
}

// ReadIDX decodes an uncompressed IDX image stream.
func ReadIDX(r io.Reader) (*MNIST, error) {
	var magic, numImages, rows, cols int32
	for _, v := range []*int32{&magic, &numImages, &rows, &cols} {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return nil, fmt.Errorf("read IDX header: %w", err)
		}
	}
	if magic != idxImagesMagic {
		return nil, fmt.Errorf("read IDX header: invalid magic number: %d", magic)
	}

	pixelCount := int(rows * cols)
	images := make([]layout.Image, numImages)
	buf := make([]byte, pixelCount)
	for i := 0; i < int(numImages); i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("read IDX image %d: %w", i, err)
		}
		pixels := make([]float64, pixelCount)
		for j, p := range buf {
			pixels[j] = float64(p)
		}
		images[i] = layout.Image{Pixels: pixels, H: int(rows), W: int(cols)}
	}
	return &MNIST{images: images}, nil
}
