// Package logging builds the zap loggers shared by the GUI and the CLI.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvDebug switches the GUI build to the development encoder
const EnvDebug = "YT_TRANSCRIBER_DEBUG"

// New creates a zap logger; development mode uses a colored console encoder
func New(development bool) (*zap.Logger, error) {
	var config zap.Config

	if development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	return config.Build()
}

// DevelopmentFromEnv reports whether EnvDebug is set to a non-empty value
func DevelopmentFromEnv() bool {
	return os.Getenv(EnvDebug) != ""
}

// OrNop returns l, or a no-op logger when l is nil
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
