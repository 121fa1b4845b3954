// Package config handles scatterpaint configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/scatterbrush/internal/scatter"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all scatterpaint settings.
type Config struct {
	Brush    BrushConfig      `yaml:"brush"`
	Settings scatter.Settings `yaml:"settings"` // node settings for a fresh store
	Surface  SurfaceConfig    `yaml:"surface"`
	Camera   CameraConfig     `yaml:"camera"`
	Logging  LoggingConfig    `yaml:"logging"`
	Replay   ReplayConfig     `yaml:"replay"`
}

// BrushConfig holds the initial brush state.
type BrushConfig struct {
	Radius    float32 `yaml:"radius"`
	DragMode  bool    `yaml:"drag_mode"`
	AlignMode bool    `yaml:"align_mode"`
	Seed      uint64  `yaml:"seed"` // 0 picks a random seed
	Node      string  `yaml:"node"` // scatter node name, a snapshot's own name wins
}

// SurfaceConfig describes the target surface.
type SurfaceConfig struct {
	Name      string  `yaml:"name"`
	Kind      string  `yaml:"kind"` // "plane" or "heightfield"
	Height    float32 `yaml:"height"`
	Extent    float32 `yaml:"extent"` // plane half size, 0 is infinite
	CellSize  float32 `yaml:"cell_size"`
	Cells     int     `yaml:"cells"`
	Amplitude float32 `yaml:"amplitude"`
	Frequency float32 `yaml:"frequency"`
}

// CameraConfig holds the orbit camera and viewport.
type CameraConfig struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Distance float32 `yaml:"distance"`
	Pitch    float32 `yaml:"pitch"` // degrees
	Yaw      float32 `yaml:"yaw"`   // degrees
	FovY     float32 `yaml:"fov_y"` // degrees
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ReplayConfig holds the stroke replay inputs and outputs.
type ReplayConfig struct {
	Script       string `yaml:"script"`   // YAML event script
	Snapshot     string `yaml:"snapshot"` // store to start from
	Output       string `yaml:"output"`   // where to write the final store
	HistoryLimit int    `yaml:"history_limit"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Brush: BrushConfig{
			Radius: 1.0,
			Node:   "scatter",
		},
		Settings: scatter.DefaultSettings(),
		Surface: SurfaceConfig{
			Name:      "ground",
			Kind:      "plane",
			Height:    0,
			Extent:    0,
			CellSize:  1.0,
			Cells:     64,
			Amplitude: 2.0,
			Frequency: 0.15,
		},
		Camera: CameraConfig{
			Width:    1280,
			Height:   720,
			Distance: 20,
			Pitch:    35,
			Yaw:      0,
			FovY:     45,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Replay: ReplayConfig{
			Output:       "scatter.yaml",
			HistoryLimit: 100,
		},
	}
}

// Paths returns the file paths the config refers to: script, snapshot,
// output and log file.
func (c *Config) Paths() []string {
	var out []string
	for _, p := range c.paths() {
		out = append(out, *p)
	}
	return out
}

func (c *Config) paths() []*string {
	return []*string{&c.Replay.Script, &c.Replay.Snapshot, &c.Replay.Output, &c.Logging.LogFile}
}

// Validate rejects settings no session can start with. Node settings ranges
// are not checked; inverted ranges give constant samples.
func (c *Config) Validate() error {
	switch {
	case c.Brush.Radius <= 0:
		return fmt.Errorf("%w: brush radius %g", ErrInvalid, c.Brush.Radius)
	case c.Camera.Width <= 0 || c.Camera.Height <= 0:
		return fmt.Errorf("%w: viewport %dx%d", ErrInvalid, c.Camera.Width, c.Camera.Height)
	case c.Surface.Kind == "heightfield" && (c.Surface.Cells < 2 || c.Surface.CellSize <= 0):
		return fmt.Errorf("%w: heightfield %d cells of %g", ErrInvalid, c.Surface.Cells, c.Surface.CellSize)
	case c.Replay.HistoryLimit < 0:
		return fmt.Errorf("%w: history limit %d", ErrInvalid, c.Replay.HistoryLimit)
	}
	return nil
}
