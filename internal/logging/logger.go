package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger writes JSON lines to <logDir>/linkprobe.log, rotated by
// lumberjack. An unknown level falls back to info.
func NewLogger(logDir, level string) (*zap.Logger, error) {
	core, err := fileCore(logDir, parseLevel(level))
	if err != nil {
		return nil, err
	}
	return zap.New(core), nil
}

// NewConsoleLogger is NewLogger plus human-readable output on stderr, for
// interactive commands.
func NewConsoleLogger(logDir, level string) (*zap.Logger, error) {
	lvl := parseLevel(level)
	file, err := fileCore(logDir, lvl)
	if err != nil {
		return nil, err
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	console := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), zap.WarnLevel)
	return zap.New(zapcore.NewTee(file, console)), nil
}

func fileCore(logDir string, lvl zapcore.Level) (zapcore.Core, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, "linkprobe.log"),
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     14, // days
		Compress:   true,
	})
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, lvl), nil
}

func parseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zap.InfoLevel
	}
	return lvl
}
