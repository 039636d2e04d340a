package telemetry

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel represents severity.
type LogLevel int32

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]LogLevel{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
}

var zapLevels = map[LogLevel]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

const (
	logMaxSizeMB  = 20 // megabytes per log file before rotation
	logMaxBackups = 5
	logMaxAgeDays = 14
)

var currentLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

var baseLogger = zap.New(consoleCore(zapcore.Lock(os.Stderr)))

func consoleCore(w zapcore.WriteSyncer) zapcore.Core {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05.000000")
	enc.CallerKey = ""
	return zapcore.NewCore(zapcore.NewConsoleEncoder(enc), w, currentLevel)
}

// SetLogLevel parses and sets global log level. Unknown names are ignored.
func SetLogLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	currentLevel.SetLevel(zapLevels[l])
}

// GetLogLevel returns current global log level.
func GetLogLevel() LogLevel {
	switch currentLevel.Level() {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.WarnLevel:
		return LevelWarn
	case zapcore.ErrorLevel:
		return LevelError
	default:
		return LevelInfo
	}
}

// SetLogFile tees log output into a size-rotated JSON log file in addition to stderr.
func SetLogFile(path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	file := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
	})
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), file, currentLevel)
	baseLogger = zap.New(zapcore.NewTee(consoleCore(zapcore.Lock(os.Stderr)), fileCore))
}

// SyncLogger flushes buffered log entries; call before exit.
func SyncLogger() { _ = baseLogger.Sync() }

func logf(l LogLevel, format string, args ...interface{}) {
	if !currentLevel.Enabled(zapLevels[l]) {
		return
	}
	// Only format when there are args so literal % in pre-formatted messages survives.
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	switch l {
	case LevelDebug:
		baseLogger.Debug(msg)
	case LevelWarn:
		baseLogger.Warn(msg)
	case LevelError:
		baseLogger.Error(msg)
	default:
		baseLogger.Info(msg)
	}
}

// Public helpers
func Debugf(format string, a ...interface{}) { logf(LevelDebug, format, a...) }
func Infof(format string, a ...interface{})  { logf(LevelInfo, format, a...) }
func Warnf(format string, a ...interface{})  { logf(LevelWarn, format, a...) }
func Errorf(format string, a ...interface{}) { logf(LevelError, format, a...) }

// Timing helper for phases.
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
