// Package logger builds the zap logger used for verdict diagnostics.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// AppName is attached to every log entry.
const AppName = "verdict"

// Rotation settings for the optional log file.
const (
	MaxSizeMB  = 10
	MaxBackups = 3
	MaxAgeDays = 28
)

// Options configures a logger.
type Options struct {
	// Level is one of debug, info, warn or error. Empty means warn.
	Level string

	// File, when set, adds a JSON core writing to a rotated file.
	File string

	// Console receives human-readable output. Nil means os.Stderr.
	Console io.Writer

	// Color enables colored level names on the console.
	Color bool

	// RunID identifies this invocation. Empty means a fresh UUID.
	RunID string
}

// Logger wraps a zap logger together with the resources it owns.
type Logger struct {
	*zap.Logger

	runID string
	file  *lumberjack.Logger
}

// ParseLevel converts a level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.WarnLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}

// New creates a logger writing to the console and, optionally, to a file.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.MessageKey = "message"

	consoleCfg := encoderCfg
	consoleCfg.TimeKey = ""
	consoleCfg.CallerKey = ""
	consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if opts.Color {
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(zapcore.AddSync(console)), level),
	}

	var file *lumberjack.Logger
	if opts.File != "" {
		file = &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    MaxSizeMB,
			MaxBackups: MaxBackups,
			MaxAge:     MaxAgeDays,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(file), level))
	}

	z := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(
			zap.String("app", AppName),
			zap.String("run_id", runID),
		),
	)

	return &Logger{Logger: z, runID: runID, file: file}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// RunID returns the identifier attached to every entry.
func (l *Logger) RunID() string {
	return l.runID
}

// Close flushes buffered entries and closes the log file.
func (l *Logger) Close() error {
	_ = l.Sync() // stderr sync fails on some platforms
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Trace logs the duration of fn at debug level. Use as defer l.Trace("name")().
func (l *Logger) Trace(fn string) func() {
	start := time.Now()
	return func() {
		l.Debug("finished", zap.String("function", fn), zap.Duration("duration", time.Since(start)))
	}
}
