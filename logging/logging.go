// Package logging builds the zap loggers used by goJWE and its CLI.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects level, encoder preset and output encoding.
type Config struct {
	Level    string `env:"LOG_LEVEL" envDefault:"info"`
	Mode     string `env:"LOG_MODE" envDefault:"production"`
	Encoding string `env:"LOG_ENCODING" envDefault:"json"`
}

var levelMap = map[string]zapcore.Level{
	"debug":  zapcore.DebugLevel,
	"info":   zapcore.InfoLevel,
	"warn":   zapcore.WarnLevel,
	"error":  zapcore.ErrorLevel,
	"fatal":  zapcore.FatalLevel,
	"panic":  zapcore.PanicLevel,
	"dpanic": zapcore.DPanicLevel,
}

// level maps the configured level name, defaulting to info.
func (c Config) level() zapcore.Level {
	level, ok := levelMap[strings.ToLower(strings.TrimSpace(c.Level))]
	if !ok {
		return zapcore.InfoLevel
	}
	return level
}

// New returns a logger writing to stdout.
func New(cfg Config, opts ...zap.Option) *zap.Logger {
	return NewWithWriter(cfg, os.Stdout, opts...)
}

// NewWithWriter returns a logger writing to w.
func NewWithWriter(cfg Config, w io.Writer, opts ...zap.Option) *zap.Logger {
	var encoderCfg zapcore.EncoderConfig
	if cfg.Mode == "development" {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
	} else {
		encoderCfg = zap.NewProductionEncoderConfig()
	}
	encoderCfg.TimeKey = "time"
	encoderCfg.MessageKey = "msg"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Encoding == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(cfg.level()))
	return zap.New(core, append([]zap.Option{zap.AddCaller()}, opts...)...).Named("gojwe")
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
