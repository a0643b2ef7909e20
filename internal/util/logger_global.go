package util

import (
	"fmt"
	"sync"
)

var (
	globalLogger LoggerInterface
	loggerMu     sync.RWMutex
)

// InitLogger installs the process-wide logger. Calling it again replaces
// the previous logger and closes its outputs.
func InitLogger(logLevel, logFile string, debugToConsole bool) error {
	logger, err := NewLogger(logLevel, logFile, debugToConsole)
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}

// SetLogger swaps the global logger; nil disables logging
func SetLogger(logger LoggerInterface) {
	loggerMu.Lock()
	prev := globalLogger
	globalLogger = logger
	loggerMu.Unlock()

	if prev != nil && prev != logger {
		_ = prev.Close()
	}
}

// L returns the global logger, or nil before InitLogger
func L() LoggerInterface {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return globalLogger
}

func LogDebug(msg string, fields ...Field) {
	if l := L(); l != nil {
		l.Debug(msg, fields...)
	}
}

func LogInfo(msg string, fields ...Field) {
	if l := L(); l != nil {
		l.Info(msg, fields...)
	}
}

func LogWarn(msg string, fields ...Field) {
	if l := L(); l != nil {
		l.Warn(msg, fields...)
	}
}

func LogError(msg string, fields ...Field) {
	if l := L(); l != nil {
		l.Error(msg, fields...)
	}
}

func LogDebugf(format string, args ...interface{}) { LogDebug(fmt.Sprintf(format, args...)) }
