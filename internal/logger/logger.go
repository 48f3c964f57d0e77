// Package logger builds the zap logger shared by the API and the CLI.
// Production output is ECS-formatted JSON on stdout; the dev environment
// switches to a colored console encoder.
package logger

import (
	"os"
	"strings"

	"go.elastic.co/ecszap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CorrelationIDField is the ECS field carrying the request correlation id.
const CorrelationIDField = "trace.id"

type Options struct {
	// Level is one of debug, info, warn, error. Anything else means info.
	Level string
	// Env selects the console encoder when it is dev or development.
	Env     string
	Service string
}

func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

func IsDev(env string) bool {
	env = strings.ToLower(env)
	return env == "dev" || env == "development"
}

func New(opts Options) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(ParseLevel(opts.Level))

	if IsDev(opts.Env) {
		config := zap.NewDevelopmentConfig()
		config.Level = level
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return config.Build()
	}

	config := zap.NewProductionConfig()
	config.Level = level
	config.Sampling = &zap.SamplingConfig{
		Initial:    100,
		Thereafter: 100,
	}
	config.OutputPaths = []string{"stdout"}
	if opts.Service != "" {
		config.InitialFields = map[string]interface{}{"service.name": opts.Service}
	}

	core := ecszap.NewCore(ecszap.NewDefaultEncoderConfig(), zapcore.AddSync(os.Stdout), level)
	return config.Build(zap.WrapCore(func(zapcore.Core) zapcore.Core {
		return core
	}), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
}

func WithCorrID(log *zap.Logger, corrID string) *zap.Logger {
	return log.With(zap.String(CorrelationIDField, corrID))
}
