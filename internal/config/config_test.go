package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/scatterbrush/internal/scatter"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test brush defaults
	if cfg.Brush.Radius != 1.0 {
		t.Errorf("expected radius 1.0, got %f", cfg.Brush.Radius)
	}
	if cfg.Brush.DragMode {
		t.Error("expected drag mode to be off by default")
	}

	// Test node settings defaults
	if cfg.Settings != scatter.DefaultSettings() {
		t.Errorf("expected default node settings, got %+v", cfg.Settings)
	}

	// Test surface defaults
	if cfg.Surface.Kind != "plane" {
		t.Errorf("expected plane surface, got %s", cfg.Surface.Kind)
	}

	// Test camera defaults
	if cfg.Camera.Width != 1280 || cfg.Camera.Height != 720 {
		t.Errorf("expected 1280x720 viewport, got %dx%d", cfg.Camera.Width, cfg.Camera.Height)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if cfg.Replay.Output != "scatter.yaml" {
		t.Errorf("expected output scatter.yaml, got %s", cfg.Replay.Output)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
brush:
  radius: 2.5
  drag_mode: true
  seed: 42

settings:
  mode: spray
  num_samples: 25
  max_rot: {x: 0, y: 180, z: 0}
  align_to: world_up
  strength: 0.5

surface:
  kind: heightfield
  cells: 32

camera:
  width: 800
  height: 600
  pitch: 60

logging:
  level: "debug"
  log_file: "scatter.log"

replay:
  script: strokes.yaml
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Brush.Radius != 2.5 {
		t.Errorf("expected radius 2.5, got %f", cfg.Brush.Radius)
	}
	if !cfg.Brush.DragMode {
		t.Error("expected drag mode to be true")
	}
	if cfg.Brush.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Brush.Seed)
	}

	if cfg.Settings.Mode != scatter.ModeSpray {
		t.Errorf("expected spray mode, got %v", cfg.Settings.Mode)
	}
	if cfg.Settings.NumSamples != 25 {
		t.Errorf("expected 25 samples, got %d", cfg.Settings.NumSamples)
	}
	if cfg.Settings.MaxRot.Y != 180 {
		t.Errorf("expected max_rot.y 180, got %f", cfg.Settings.MaxRot.Y)
	}
	if cfg.Settings.AlignTo != scatter.AlignWorld {
		t.Errorf("expected world_up alignment, got %v", cfg.Settings.AlignTo)
	}
	// Keys missing from the file keep their defaults.
	if cfg.Settings.MinDistance != 0.5 {
		t.Errorf("expected default min_distance 0.5, got %f", cfg.Settings.MinDistance)
	}

	if cfg.Surface.Kind != "heightfield" || cfg.Surface.Cells != 32 {
		t.Errorf("unexpected surface %+v", cfg.Surface)
	}
	if cfg.Camera.Pitch != 60 || cfg.Camera.Width != 800 {
		t.Errorf("unexpected camera %+v", cfg.Camera)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Replay.Script != "strokes.yaml" {
		t.Errorf("expected script strokes.yaml, got %s", cfg.Replay.Script)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "brush:\n  radius: not a number\n  invalid syntax here\n"},
		{"unknown mode", "settings:\n  mode: paint\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err == nil {
				t.Error("expected error loading invalid config, got nil")
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/scatterpaint.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(FileName, []byte("brush:\n  radius: 3\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find scatterpaint.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "mode flag",
			setup: func() { *flagMode = "align" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Settings.Mode != scatter.ModeAlign {
					t.Errorf("expected align mode, got %v", cfg.Settings.Mode)
				}
			},
			teardown: func() { *flagMode = "" },
		},
		{
			name: "radius and seed flags",
			setup: func() {
				*flagRadius = 4
				*flagSeed = 7
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Brush.Radius != 4 {
					t.Errorf("expected radius 4, got %f", cfg.Brush.Radius)
				}
				if cfg.Brush.Seed != 7 {
					t.Errorf("expected seed 7, got %d", cfg.Brush.Seed)
				}
			},
			teardown: func() {
				*flagRadius = 0
				*flagSeed = 0
			},
		},
		{
			name: "replay flags",
			setup: func() {
				*flagScript = "in.yaml"
				*flagSnapshot = "start.yaml"
				*flagOut = "out.yaml"
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Replay.Script != "in.yaml" || cfg.Replay.Snapshot != "start.yaml" || cfg.Replay.Output != "out.yaml" {
					t.Errorf("unexpected replay config %+v", cfg.Replay)
				}
			},
			teardown: func() {
				*flagScript = ""
				*flagSnapshot = ""
				*flagOut = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			if err := applyFlags(cfg); err != nil {
				t.Fatalf("applyFlags error: %v", err)
			}
			tt.verify(t, cfg)
		})
	}
}

func TestApplyFlagsInvalidMode(t *testing.T) {
	*flagMode = "paint"
	defer func() { *flagMode = "" }()

	if err := applyFlags(Default()); err == nil {
		t.Error("expected error for unknown mode flag")
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
brush:
  radius: 3
  seed: 9
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagRadius = 5
	defer func() {
		*flagConfig = ""
		*flagRadius = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Radius comes from the flag, seed from the file.
	if cfg.Brush.Radius != 5 {
		t.Errorf("expected radius 5 from flag, got %f", cfg.Brush.Radius)
	}
	if cfg.Brush.Seed != 9 {
		t.Errorf("expected seed 9 from file, got %d", cfg.Brush.Seed)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Settings.Mode = scatter.ModeSpray
	cfg.Brush.Radius = 1.5
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if loaded.Settings.Mode != scatter.ModeSpray || loaded.Brush.Radius != 1.5 {
		t.Errorf("saved config did not round trip: %+v", loaded)
	}
}

func TestLoadResolvesPathsFromConfigDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
replay:
  script: strokes.yaml
  snapshot: /abs/start.yaml
logging:
  log_file: logs/scatter.log
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagOut = "out.yaml"
	defer func() {
		*flagConfig = ""
		*flagOut = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	tests := []struct {
		name, got, want string
	}{
		{"script", cfg.Replay.Script, filepath.Join(tmpDir, "strokes.yaml")},
		{"snapshot", cfg.Replay.Snapshot, "/abs/start.yaml"},
		{"log file", cfg.Logging.LogFile, filepath.Join(tmpDir, "logs", "scatter.log")},
		{"output from flag", cfg.Replay.Output, "out.yaml"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadKeepsDefaultPaths(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(configPath, []byte("brush:\n  radius: 2\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Replay.Output != "scatter.yaml" {
		t.Errorf("default output moved to %q", cfg.Replay.Output)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		valid  bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero radius", func(c *Config) { c.Brush.Radius = 0 }, false},
		{"empty viewport", func(c *Config) { c.Camera.Width = 0 }, false},
		{"tiny heightfield", func(c *Config) { c.Surface.Kind = "heightfield"; c.Surface.Cells = 1 }, false},
		{"plane ignores cells", func(c *Config) { c.Surface.Cells = 0 }, true},
		{"negative history", func(c *Config) { c.Replay.HistoryLimit = -1 }, false},
		{"inverted scale range", func(c *Config) { c.Settings.MinScale.X = 5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSaveToWritesRelativePaths(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, FileName)

	cfg := Default()
	cfg.Replay.Script = filepath.Join(tmpDir, "scripts", "a.yaml")
	cfg.Replay.Snapshot = "/elsewhere/start.yaml"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}
	if cfg.Replay.Script != filepath.Join(tmpDir, "scripts", "a.yaml") {
		t.Errorf("SaveTo modified the config: %q", cfg.Replay.Script)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loading saved config: %v", err)
	}
	if loaded.Replay.Script != filepath.Join("scripts", "a.yaml") {
		t.Errorf("script saved as %q", loaded.Replay.Script)
	}
	if loaded.Replay.Snapshot != "/elsewhere/start.yaml" {
		t.Errorf("snapshot saved as %q", loaded.Replay.Snapshot)
	}
}
