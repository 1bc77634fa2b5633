package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var InfoLogger, FatalLogger *zap.Logger

var (
	mu          sync.RWMutex
	serviceName = "default"
)

func SetServiceName(newName string) string {
	mu.Lock()
	defer mu.Unlock()

	oldName := serviceName
	serviceName = newName

	return oldName
}

// Init поднимает production-логгер с нужным уровнем.
func Init(service, level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	SetServiceName(service)
	Set(l)
	return l, nil
}

// Set подменяет оба логгера, удобно в тестах (zap.NewNop, zaptest).
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	InfoLogger, FatalLogger = l, l
}

// L логгер без callerSkip, для fx и сторонних библиотек.
func L() *zap.Logger {
	return current(false).WithOptions(zap.AddCallerSkip(-1))
}

func current(fatal bool) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()

	l := InfoLogger
	if fatal {
		l = FatalLogger
	}
	if l == nil {
		// до Init пишем в никуда, а не паникуем
		return zap.NewNop()
	}
	return l.With(zap.String("service", serviceName))
}

func Debug(format string, args ...interface{}) {
	current(false).Debug(fmt.Sprintf(format, args...))
}

func Info(format string, args ...interface{}) {
	current(false).Info(fmt.Sprintf(format, args...))
}

func Warn(format string, args ...interface{}) {
	current(false).Warn(fmt.Sprintf(format, args...))
}

func Error(format string, args ...interface{}) {
	current(false).Error(fmt.Sprintf(format, args...))
}

func Fatal(format string, args ...interface{}) {
	current(true).Fatal(fmt.Sprintf(format, args...))
}
