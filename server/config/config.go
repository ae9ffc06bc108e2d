package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cyclopcam/halo/server/overlay"
)

type SourceConfig struct {
	Kind   string `json:"kind"`   // "synthetic" or "nv12file"
	Path   string `json:"path"`   // For nv12file: raw NV12 frames, concatenated
	Width  int    `json:"width"`  // Frame width
	Height int    `json:"height"` // Frame height
	FPS    int    `json:"fps"`    // Capture rate
}

type DetectorConfig struct {
	Kind       string `json:"kind"`       // "dnn" or "scripted"
	Weights    string `json:"weights"`    // DNN model weights
	Config     string `json:"config"`     // DNN model config
	Names      string `json:"names"`      // Class names, one per line
	InputSize  int    `json:"inputSize"`  // Square network input resolution
	IntervalMS int    `json:"intervalMS"` // Minimum pause between detection passes
}

type Config struct {
	HTTP           string         `json:"http"`           // Listen address, eg ":8080"
	ViewportWidth  int            `json:"viewportWidth"`  // Composited output width
	ViewportHeight int            `json:"viewportHeight"` // Composited output height
	DisplayFPS     int            `json:"displayFPS"`     // Display loop tick rate
	Source         SourceConfig   `json:"source"`
	Detector       DetectorConfig `json:"detector"`
	Overlay        overlay.Config `json:"overlay"`
}

// DefaultConfig runs the synthetic source and the scripted detector, so the
// binary does something useful with no config file at all.
func DefaultConfig() *Config {
	return &Config{
		HTTP:           ":8080",
		ViewportWidth:  1280,
		ViewportHeight: 720,
		DisplayFPS:     30,
		Source: SourceConfig{
			Kind:   "synthetic",
			Width:  640,
			Height: 480,
			FPS:    30,
		},
		Detector: DetectorConfig{
			Kind:       "scripted",
			IntervalMS: 120,
		},
		Overlay: overlay.DefaultConfig(),
	}
}

// LoadConfig reads a JSON config file over the defaults.
// An empty filename returns the defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()
	if filename == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("Error loading %v: %w", filename, err)
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("Error loading %v as JSON: %w", filename, err)
	}
	return cfg, nil
}
