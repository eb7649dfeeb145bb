// Package logging builds the zap loggers used by the cbsplan command.
package logging

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sentinel errors for logger construction.
var (
	// ErrBadLevel indicates an unknown level name.
	ErrBadLevel = errors.New("logging: unknown level")
	// ErrBadFormat indicates an encoding other than "console" or "json".
	ErrBadFormat = errors.New("logging: unknown format")
)

// ParseLevel maps "debug", "info", "warn" and "error" to a zap level.
// The empty string means info.
func ParseLevel(name string) (zapcore.Level, error) {
	switch name {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("%w: %q", ErrBadLevel, name)
	}
}

// New returns a logger writing to w at the given level. format is "console"
// (human readable, the default) or "json".
func New(w io.Writer, level, format string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var enc zapcore.Encoder
	switch format {
	case "", "console":
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	case "json":
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "timestamp"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadFormat, format)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(lvl))

	return zap.New(core, zap.AddStacktrace(zapcore.ErrorLevel)), nil
}
