package logging

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the logger used by every service. LOG_LEVEL selects the
// level (info when unset or invalid) and LOG_FORMAT=console switches from
// JSON to human readable output. service is attached to each entry.
func NewLogger(service string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(os.Getenv("LOG_LEVEL")))
	cfg.Encoding = encoding(os.Getenv("LOG_FORMAT"))
	cfg.EncoderConfig = encoderConfig()
	if cfg.Encoding == "console" {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	if service != "" {
		logger = logger.With(zap.String("service", service))
	}
	return logger, nil
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(raw string) zapcore.Level {
	var level zapcore.Level
	if err := level.Set(strings.ToLower(strings.TrimSpace(raw))); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

func encoding(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "console") {
		return "console"
	}
	return "json"
}

func encoderConfig() zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.StacktraceKey = "stack"
	enc.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(t.UTC().Format(time.RFC3339Nano))
	}
	enc.EncodeDuration = zapcore.StringDurationEncoder
	return enc
}
