package logging

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger configures a zap logger with level controlled by LOG_LEVEL env variable.
func NewLogger(service string) (*zap.Logger, error) {
	cfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(levelFromEnv(zapcore.InfoLevel)),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         "json",
		EncoderConfig:    encoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields:    serviceField(service),
	}
	return cfg.Build()
}

// NewConsoleLogger writes human readable logs to stderr, keeping stdout free
// for command output. It defaults to warn level.
func NewConsoleLogger(service string) (*zap.Logger, error) {
	enc := encoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.CallerKey = ""

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(levelFromEnv(zapcore.WarnLevel)),
		Encoding:         "console",
		EncoderConfig:    enc,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields:    serviceField(service),
	}
	return cfg.Build()
}

func levelFromEnv(fallback zapcore.Level) zapcore.Level {
	levelStr := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if levelStr == "" {
		return fallback
	}
	var level zapcore.Level
	if err := level.Set(levelStr); err != nil {
		return fallback
	}
	return level
}

func serviceField(service string) map[string]interface{} {
	if service == "" {
		return nil
	}
	return map[string]interface{}{"service": service}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     func(t time.Time, enc zapcore.PrimitiveArrayEncoder) { enc.AppendString(t.UTC().Format(time.RFC3339Nano)) },
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}
