// Package audit appends every sequence event to a durable log file for later
// review, independent of the interactive sinks.
package audit

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is deliberately failure-tolerant: a logger that cannot open or
// write its file records nothing, and no error ever reaches the sequence.
type Logger struct {
	l *zap.Logger
}

// NewLogger opens path for appending. An empty path, or any open failure,
// yields a nop logger.
func NewLogger(path string) *Logger {
	if path == "" {
		return &Logger{}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return &Logger{}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zap.InfoLevel)
	return &Logger{l: zap.New(core)}
}

// Record appends one event. It implements sequencer.Auditor.
func (a *Logger) Record(runID, level, text string, at time.Time) {
	if a == nil || a.l == nil {
		return
	}
	a.l.Info(text,
		zap.String("run_id", runID),
		zap.String("level", level),
		zap.Time("event_time", at),
	)
}

func (a *Logger) Close() {
	if a == nil || a.l == nil {
		return
	}
	_ = a.l.Sync()
}
