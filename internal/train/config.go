// Package train drives the adversarial training loop.
package train

import (
	"fmt"
)

// Device selects the compute backend. It is decided once at startup and
// threaded through as configuration; nothing dispatches on device strings
// per call.
type Device int

const (
	// DeviceCPU runs everything on the host CPU.
	DeviceCPU Device = iota
)

func (d Device) String() string {
	switch d {
	case DeviceCPU:
		return "cpu"
	}
	return fmt.Sprintf("device(%d)", int(d))
}

// ParseDevice maps a device name to its selector.
func ParseDevice(s string) (Device, error) {
	switch s {
	case "", "cpu":
		return DeviceCPU, nil
	}
	return DeviceCPU, fmt.Errorf("unknown device %q", s)
}

// UnmarshalText lets config files name the device as a string.
func (d *Device) UnmarshalText(text []byte) error {
	parsed, err := ParseDevice(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Config holds the training hyperparameters.
type Config struct {
	BatchSize  int `toml:"batch_size"`
	ElementNum int `toml:"element_num"` // points per layout sample
	ClassNum   int `toml:"class_num"`   // presence channels per element
	GeoNum     int `toml:"geo_num"`     // geometry channels per element

	GTThresh float64 `toml:"gt_thresh"` // raster binarization threshold

	LearningRate float64 `toml:"learning_rate"`
	Beta1        float64 `toml:"beta1"`
	Beta2        float64 `toml:"beta2"`

	NumEpochs int  `toml:"num_epochs"`
	Smooth    bool `toml:"smooth"` // one-sided label smoothing on real targets

	HiddenSize int `toml:"hidden_size"` // width of the reference models

	Seed   int64  `toml:"seed"`
	Device Device `toml:"device"`
}

// DefaultConfig returns the reference hyperparameters: 128 points per
// sample, batches of 20, threshold 200, Adam at 2e-5 with standard betas.
func DefaultConfig() Config {
	return Config{
		BatchSize:    20,
		ElementNum:   128,
		ClassNum:     1,
		GeoNum:       2,
		GTThresh:     200,
		LearningRate: 2e-5,
		Beta1:        0.9,
		Beta2:        0.999,
		NumEpochs:    1,
		HiddenSize:   64,
		Seed:         42,
		Device:       DeviceCPU,
	}
}

// FeatureSize is the per-element feature width shared by real batches, noise
// batches and generated batches.
func (c Config) FeatureSize() int {
	return c.ClassNum + c.GeoNum
}

// Validate rejects configurations the loop cannot run with.
func (c Config) Validate() error {
	switch {
	case c.BatchSize <= 0:
		return fmt.Errorf("config: batch_size must be positive, got %d", c.BatchSize)
	case c.ElementNum <= 0:
		return fmt.Errorf("config: element_num must be positive, got %d", c.ElementNum)
	case c.ClassNum <= 0:
		return fmt.Errorf("config: class_num must be positive, got %d", c.ClassNum)
	case c.GeoNum <= 0:
		return fmt.Errorf("config: geo_num must be positive, got %d", c.GeoNum)
	case c.LearningRate <= 0:
		return fmt.Errorf("config: learning_rate must be positive, got %g", c.LearningRate)
	case c.Beta1 < 0 || c.Beta1 >= 1:
		return fmt.Errorf("config: beta1 must be in [0, 1), got %g", c.Beta1)
	case c.Beta2 < 0 || c.Beta2 >= 1:
		return fmt.Errorf("config: beta2 must be in [0, 1), got %g", c.Beta2)
	case c.NumEpochs <= 0:
		return fmt.Errorf("config: num_epochs must be positive, got %d", c.NumEpochs)
	}
	return nil
}
