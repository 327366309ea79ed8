package logger

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/calderanet/caldera-cli/internal/constants"
)

// New creates a new logger instance
func New(opts ...Option) *zerolog.Logger {
	// Default config
	config := &Config{
		output:       os.Stderr,
		level:        zerolog.InfoLevel,
		excludeParts: []string{zerolog.TimestampFieldName, zerolog.LevelFieldName},
		isConsole:    true,
	}

	// Apply options
	for _, opt := range opts {
		opt.apply(config)
	}

	logger := zerolog.New(config.output).
		Level(config.level).
		With().
		Logger()

	// Pretty printing for interactive use
	if config.isConsole {
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:          config.output,
			PartsExclude: config.excludeParts,
		})
	}

	return &logger
}

// NewConsoleLogger returns the logger used by the CLI entry point.
func NewConsoleLogger() *zerolog.Logger {
	return New(
		WithLevel(constants.DefaultLogLevel),
		WithOutput(os.Stderr),
		WithConsoleWriter(true),
	)
}
