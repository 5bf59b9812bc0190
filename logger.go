package httpctx

import (
	"log"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"
)

// Logger can be implemented to get informed about important states.
type Logger interface {
	LogUnhandledServeError(err error)
	LogWriteError(err error)
}

type stdLogger struct{ *log.Logger }

func (l stdLogger) LogUnhandledServeError(err error) {
	l.Logger.Printf("httpctx: unhandled server error: %s", err)
}

func (l stdLogger) LogWriteError(err error) {
	l.Logger.Printf("httpctx: error while writing error response: %s", err)
}

// NewStdLogger logs to a standard library logger, the default logger when l is nil.
func NewStdLogger(l *log.Logger) Logger {
	if l == nil {
		l = log.Default()
	}

	return stdLogger{l}
}

type zapLogger struct{ *zap.Logger }

func (l zapLogger) LogUnhandledServeError(err error) {
	l.Logger.Error("unhandled server error", zap.Error(err))
}

func (l zapLogger) LogWriteError(err error) {
	l.Logger.Error("error while writing error response", zap.Error(err))
}

// NewZapLogger adapts a zap logger.
func NewZapLogger(l *zap.Logger) Logger {
	return zapLogger{l.Named("httpctx")}
}

type TestLogger struct {
	tb testing.TB

	NumLogUnhandledServeError int64
	NumLogWriteError          int64
}

func NewTestLogger(tb testing.TB) *TestLogger {
	return &TestLogger{tb: tb}
}

func (l *TestLogger) LogUnhandledServeError(err error) {
	atomic.AddInt64(&l.NumLogUnhandledServeError, 1)
	l.tb.Logf("httpctx: unhandled server error: %s", err)
}

func (l *TestLogger) LogWriteError(err error) {
	atomic.AddInt64(&l.NumLogWriteError, 1)
	l.tb.Logf("httpctx: error while writing error response: %s", err)
}

var _ Logger = &TestLogger{}
