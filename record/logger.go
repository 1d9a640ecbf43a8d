package record

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

// Logger returns the logger codec operations report through, a no-op
// logger unless SetLogger was called.
func Logger() *zap.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

// SetLogger replaces the package logger. Passing nil restores the no-op
// logger. Safe to call while codecs are in use.
func SetLogger(l *zap.Logger) {
	logger.Store(l)
}
