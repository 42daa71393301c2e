// Package config provides configuration loading and management for naivemip.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"naivemip/pkg/decoder"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Input parameters
	Input Input `yaml:"input"`

	// Window parameters
	Window Window `yaml:"window"`

	// Output parameters
	Output struct {
		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`

		// PreviewPath, when set, receives a JPEG of the axial maximum
		// intensity projection before the window opens
		PreviewPath string `yaml:"previewPath"`

		// SlicesDir, when set, receives every slice of the normalized
		// volume along each axis
		SlicesDir string `yaml:"slicesDir"`
	} `yaml:"output"`
}

// Input describes where slices come from and how pixels are decoded
type Input struct {
	// Dir is the directory holding one DICOM file per slice
	Dir string `yaml:"dir"`

	// VOI selects how raw pixel values are mapped: normalize, window or identity
	VOI string `yaml:"voi"`

	// Force8Bit limits decoded samples to 0..255
	Force8Bit bool `yaml:"force8Bit"`
}

// Window describes the on-screen surface
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	// VSync paces presentation to the display refresh
	VSync bool `yaml:"vsync"`

	// ClearColor is the RGBA background, each component in [0,1]
	ClearColor []float32 `yaml:"clearColor,flow"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Input.VOI = decoder.VOINormalize.String()
	cfg.Input.Force8Bit = true

	cfg.Window.Title = "Naive MIP"
	cfg.Window.Width = 800
	cfg.Window.Height = 600
	cfg.Window.VSync = true
	cfg.Window.ClearColor = []float32{0.2, 0.3, 0.3, 1.0}

	cfg.Output.Verbose = false

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Input.Dir == "" {
		return errors.New("input directory is not set")
	}
	if _, err := decoder.ParseVOIMode(c.Input.VOI); err != nil {
		return err
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if len(c.Window.ClearColor) != 4 {
		return fmt.Errorf("clear color needs 4 components, got %d", len(c.Window.ClearColor))
	}
	for i, v := range c.Window.ClearColor {
		if v < 0 || v > 1 {
			return fmt.Errorf("clear color component %d out of range: %v", i, v)
		}
	}
	return nil
}

// DecodeOptions converts the input section into decoder options.
// Validate must have succeeded.
func (c *Config) DecodeOptions() decoder.DecodeOptions {
	mode, err := decoder.ParseVOIMode(c.Input.VOI)
	if err != nil {
		mode = decoder.VOINormalize
	}
	return decoder.DecodeOptions{Force8Bit: c.Input.Force8Bit, VOI: mode}
}

// ClearRGBA returns the clear color as a fixed array.
func (w Window) ClearRGBA() [4]float32 {
	var rgba [4]float32
	copy(rgba[:], w.ClearColor)
	return rgba
}
