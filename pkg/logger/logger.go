// Package logger provides opinionated logging capabilities for billetera
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a console logger writing to stderr so that streamed chat
// output on stdout stays clean.
func NewLogger(debug bool) *zap.Logger {
	return NewLoggerWithWriters(debug, os.Stderr)
}

func NewLoggerWithWriters(debug bool, writers ...io.Writer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	if len(writers) == 0 {
		writers = []io.Writer{os.Stderr}
	}

	syncers := make([]zapcore.WriteSyncer, 0, len(writers))
	for _, writer := range writers {
		syncers = append(syncers, zapcore.AddSync(writer))
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(syncers...),
		level,
	)

	return zap.New(core, zap.AddCaller())
}

// Nop returns a logger that discards everything. Libraries default to it when
// no logger option is supplied.
func Nop() *zap.Logger {
	return zap.NewNop()
}
