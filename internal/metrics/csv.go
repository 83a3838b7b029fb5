package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/w121211/LayoutGAN/internal/tensor"
)

// CSV logs scalars to a CSV file, one row per (name, step, value).
type CSV struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSV creates (or truncates) filename and writes the header row.
func NewCSV(filename string) (*CSV, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("csv sink: %w", err)
	}
	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"name", "step", "value"}); err != nil {
		file.Close()
		return nil, fmt.Errorf("csv sink: %w", err)
	}
	return &CSV{file: file, writer: writer}, nil
}

// Scalar appends one row and flushes so partial runs stay inspectable.
func (c *CSV) Scalar(name string, step int, value float64) {
	record := []string{name, strconv.Itoa(step), fmt.Sprintf("%.6f", value)}
	if err := c.writer.Write(record); err != nil {
		warn("csv sink", "failed to write record", err)
		return
	}
	c.writer.Flush()
}

// Points is ignored; the CSV sink tracks scalars only.
func (c *CSV) Points(string, int, *tensor.Tensor3) {}

// Close flushes and closes the underlying file.
func (c *CSV) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
