// Package main is the entry point for scatterpaint. With a script it replays
// the recorded strokes headlessly; without one it opens a window to paint in.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/scatterbrush/internal/config"
	"github.com/Faultbox/scatterbrush/internal/logger"
	"github.com/Faultbox/scatterbrush/internal/session"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== scatterpaint ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			logger.Warn("write config", zap.String("path", path), zap.Error(err))
		} else {
			logger.Info("config written", zap.String("path", path))
		}
	}

	if err := run(cfg); err != nil {
		logger.Error("scatterpaint failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	s, err := session.New(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if cfg.Replay.Script != "" {
		steps, err := session.LoadScript(cfg.Replay.Script)
		if err != nil {
			return fmt.Errorf("loading script: %w", err)
		}
		if err := s.Replay(steps); err != nil {
			return err
		}
	} else if err := s.RunInteractive(); err != nil {
		return err
	}

	if cfg.Replay.Output == "" {
		return nil
	}
	return s.Save(cfg.Replay.Output)
}
