package logging

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "PAPAN_LOG_LEVEL"

// Options controls logger construction.
type Options struct {
	Level string // debug, info, warn, error; empty consults PAPAN_LOG_LEVEL

	// File enables an additional JSON log file with rotation.
	File       string
	MaxSizeMB  int // rotate after this many megabytes (default 20)
	MaxBackups int // rotated files kept (default 5)
	MaxAgeDays int // days a rotated file is kept (default 14)
}

// Initialize creates a new logger with the specified level.
// If level is empty, it checks PAPAN_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	return InitializeWithOptions(Options{Level: level})
}

// InitializeWithOptions creates the global logger from opts.
func InitializeWithOptions(opts Options) error {
	level := opts.Level
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" && opts.File == "" {
		logger = zap.NewNop()
		return nil
	}

	zapLevel := parseLevel(level)

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.Lock(os.Stdout),
			zapLevel,
		),
	}

	if opts.File != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			fileWriter(opts),
			zapLevel,
		))
	}

	logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	return nil
}

// InitializeFromEnv initializes the logger from the PAPAN_LOG_LEVEL
// environment variable. CLI commands use this to stay silent by default.
func InitializeFromEnv() error {
	return Initialize("")
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		// Unknown or empty level with a log file configured
		return zapcore.InfoLevel
	}
}

func fileWriter(opts Options) zapcore.WriteSyncer {
	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 20
	}
	backups := opts.MaxBackups
	if backups <= 0 {
		backups = 5
	}
	age := opts.MaxAgeDays
	if age <= 0 {
		age = 14
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSize,
		MaxBackups: backups,
		MaxAge:     age,
		Compress:   true,
	})
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer cores.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Silent until initialized so library code never prints unexpectedly
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogDisplayEvent logs a display (websocket client) lifecycle event
func LogDisplayEvent(displayID, remoteAddr, event string) {
	Info("Display event",
		zap.String("display_id", displayID),
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// LogHTTPRequest logs a completed HTTP request
func LogHTTPRequest(remoteAddr, method, path string, status int, latency time.Duration) {
	fields := []zap.Field{
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("latency", latency),
	}
	if status >= 500 {
		Error("HTTP request", fields...)
		return
	}
	Debug("HTTP request", fields...)
}

// LogReplacement logs a wholesale replacement of a persisted value
func LogReplacement(what string, version uint64, source string) {
	Info("Replaced "+what,
		zap.Uint64("version", version),
		zap.String("source", source),
	)
}

// LogStorage logs a storage failure that was swallowed by the caller
func LogStorage(op, key string, err error) {
	Warn(fmt.Sprintf("Storage %s failed", op),
		zap.String("key", key),
		zap.Error(err),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
