// Package config loads training configuration from TOML files.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/w121211/LayoutGAN/internal/train"
)

// Load decodes a TOML file over the default hyperparameters, so a config
// file only needs to name the values it changes. Unknown keys are rejected
// rather than silently ignored.
func Load(path string) (train.Config, error) {
	cfg := train.DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return train.Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return train.Config{}, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return train.Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
