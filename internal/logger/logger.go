// Package logger builds the zap loggers used by the server and the CLI and
// carries them through request contexts.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// presets maps a deployment environment to its base zap configuration.
var presets = map[string]func() zap.Config{
	"prod":   zap.NewProductionConfig,
	"local":  zap.NewDevelopmentConfig,
	"dev":    zap.NewDevelopmentConfig,
	"docker": zap.NewDevelopmentConfig,
}

// New builds the logger for env. prod writes JSON at info, the others write
// colored console output at debug. A non-empty level replaces the preset level.
func New(env, level string) (*zap.Logger, error) {
	preset, ok := presets[env]
	if !ok {
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}
	cfg := preset()

	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	if env == "prod" {
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.InitialFields = map[string]any{"service": "vecbrowse", "env": env}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}
