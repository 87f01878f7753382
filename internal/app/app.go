package app

import (
	"fmt"
	"io"
	"log/slog"
)

// Config holds everything an App instance needs to run one generation.
type Config struct {
	TargetPath string
	PatchPaths []string
	OutputPath string
	LogFormat  string
	LogLevel   string
}

// NewConfig validates a config, filling defaults.
func NewConfig(c Config) (*Config, error) {
	if c.TargetPath == "" {
		return nil, fmt.Errorf("target descriptor path is required")
	}
	if len(c.PatchPaths) == 0 {
		return nil, fmt.Errorf("at least one patch descriptor path is required")
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	return &c, nil
}

// App encapsulates the generator's dependencies and lifecycle. Generation
// itself is pure; all file I/O happens here.
type App struct {
	outW   io.Writer
	errW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp constructs the application with its own isolated logger.
func NewApp(outW, errW io.Writer, config *Config) *App {
	logger := newLogger(config.LogLevel, config.LogFormat, errW)
	return &App{outW: outW, errW: errW, logger: logger, config: config}
}
