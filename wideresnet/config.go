// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package wideresnet

import (
	"errors"
	"fmt"
	"os"

	"github.com/gomlx/gopjrt/dtypes"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation error returned from
// Config.Validate, FromDepth and LoadConfig.
var ErrInvalidConfig = errors.New("invalid wide-resnet configuration")

// Config holds the hyperparameters of a Wide Residual Network.
//
// The zero value is not usable; start from New or FromDepth and adjust
// fields, or load a Config from a YAML file with LoadConfig.
type Config struct {
	// ImageSize is the height and width of the square input images.
	// It must be divisible by 4: groups 2 and 3 each halve the spatial
	// resolution, and the final average pool consumes the remaining
	// ImageSize/4 window.
	ImageSize int `yaml:"image_size"`

	// NumClasses is the number of target classes of the readout layer.
	NumClasses int `yaml:"num_classes"`

	// InputChannels is the channel count of the input images (3 for RGB).
	InputChannels int `yaml:"input_channels"`

	// Channels are the base output channels of the three residual groups,
	// before widening. The stem convolution uses Channels[0].
	Channels [3]int `yaml:"channels"`

	// WidthMultiplier is the widening factor k. Every residual group is
	// k times wider than its base channel count. 1 recovers a plain
	// pre-activation ResNet.
	WidthMultiplier int `yaml:"width_multiplier"`

	// BlocksPerGroup is the number of residual blocks stacked in each of
	// the three groups. The resulting network depth is 6*BlocksPerGroup+4.
	BlocksPerGroup int `yaml:"blocks_per_group"`

	// WeightDecay is the L2 regularization coefficient added to the loss.
	// Zero disables the penalty term.
	WeightDecay float64 `yaml:"weight_decay"`

	// DType is the dtype of the model variables and of the expected input.
	// The zero value selects Float32.
	DType dtypes.DType `yaml:"-"`
}

// New returns the canonical CIFAR configuration, WRN-22-8: 32x32 RGB
// inputs, base channels 16/32/64, widening factor 8, three blocks per
// group and no weight decay.
func New(numClasses int) Config {
	return Config{
		ImageSize:       32,
		NumClasses:      numClasses,
		InputChannels:   3,
		Channels:        [3]int{16, 32, 64},
		WidthMultiplier: 8,
		BlocksPerGroup:  3,
	}
}

// FromDepth builds the CIFAR configuration for a WRN-<depth>-<widthMultiplier>
// network. The depth must satisfy depth = 6n+4 for a positive block count n.
func FromDepth(depth, widthMultiplier, numClasses int) (Config, error) {
	if depth < 10 || (depth-4)%6 != 0 {
		return Config{}, fmt.Errorf("%w: depth must be 6n+4 for n >= 1, got %d", ErrInvalidConfig, depth)
	}
	cfg := New(numClasses)
	cfg.WidthMultiplier = widthMultiplier
	cfg.BlocksPerGroup = (depth - 4) / 6
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Depth returns the network depth counted the conventional way: two
// convolutions per block across three groups, plus the stem convolution
// and the dense readout.
func (cfg Config) Depth() int {
	return 6*cfg.BlocksPerGroup + 4
}

// Name returns the conventional WRN-<depth>-<width> label, e.g. "WRN-22-8".
func (cfg Config) Name() string {
	return fmt.Sprintf("WRN-%d-%d", cfg.Depth(), cfg.WidthMultiplier)
}

// Validate checks every field and returns an error wrapping ErrInvalidConfig
// describing the first problem found.
func (cfg Config) Validate() error {
	switch {
	case cfg.ImageSize <= 0 || cfg.ImageSize%4 != 0:
		return fmt.Errorf("%w: image size must be positive and divisible by 4, got %d", ErrInvalidConfig, cfg.ImageSize)
	case cfg.NumClasses < 2:
		return fmt.Errorf("%w: need at least 2 classes, got %d", ErrInvalidConfig, cfg.NumClasses)
	case cfg.InputChannels <= 0:
		return fmt.Errorf("%w: input channels must be positive, got %d", ErrInvalidConfig, cfg.InputChannels)
	case cfg.WidthMultiplier < 1:
		return fmt.Errorf("%w: width multiplier must be >= 1, got %d", ErrInvalidConfig, cfg.WidthMultiplier)
	case cfg.BlocksPerGroup < 1:
		return fmt.Errorf("%w: blocks per group must be >= 1, got %d", ErrInvalidConfig, cfg.BlocksPerGroup)
	case cfg.WeightDecay < 0:
		return fmt.Errorf("%w: weight decay must not be negative, got %g", ErrInvalidConfig, cfg.WeightDecay)
	}
	for i, c := range cfg.Channels {
		if c <= 0 {
			return fmt.Errorf("%w: channels[%d] must be positive, got %d", ErrInvalidConfig, i, c)
		}
	}
	if cfg.DType != dtypes.InvalidDType && !cfg.DType.IsFloat() {
		return fmt.Errorf("%w: dtype must be a float type, got %s", ErrInvalidConfig, cfg.DType)
	}
	return nil
}

// dtype resolves the configured dtype, defaulting to Float32.
func (cfg Config) dtype() dtypes.DType {
	if cfg.DType == dtypes.InvalidDType {
		return dtypes.Float32
	}
	return cfg.DType
}

// LoadConfig reads a Config from a YAML file. Fields absent from the file
// keep the New(10) CIFAR-10 defaults, so a file may override only the
// fields it cares about. The result is validated before being returned.
func LoadConfig(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := New(10)
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (cfg Config) Save(path string) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
