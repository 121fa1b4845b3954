package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagMode     = flag.String("mode", "", "Brush mode (place, spray, scale, align, move, id)")
	flagRadius   = flag.Float64("radius", 0, "Brush radius")
	flagSeed     = flag.Uint64("seed", 0, "Random seed for reproducible strokes")
	flagOut      = flag.String("out", "", "Output store snapshot")
	flagScript   = flag.String("script", "", "Stroke script to replay")
	flagSnapshot = flag.String("snapshot", "", "Store snapshot to start from")
	flagWrite    = flag.String("write-config", "", "Write the effective config to this path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// WriteConfigPath returns where to save the effective config, if anywhere.
func WriteConfigPath() string {
	return *flagWrite
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMode != "" {
		if err := cfg.Settings.Mode.UnmarshalText([]byte(*flagMode)); err != nil {
			return err
		}
	}
	if *flagRadius > 0 {
		cfg.Brush.Radius = float32(*flagRadius)
	}
	if *flagSeed != 0 {
		cfg.Brush.Seed = *flagSeed
	}
	if *flagOut != "" {
		cfg.Replay.Output = *flagOut
	}
	if *flagScript != "" {
		cfg.Replay.Script = *flagScript
	}
	if *flagSnapshot != "" {
		cfg.Replay.Snapshot = *flagSnapshot
	}
	return nil
}
