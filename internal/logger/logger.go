package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process logger. It discards everything until Init is called.
var Log = zap.NewNop()

// Init builds the process logger. Debug mode switches to the human readable
// development encoder and enables debug level output.
func Init(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build()
	if err != nil {
		// Keep the nop logger, there is nowhere to report this
		return
	}
	Log = l
}

// Use replaces the process logger, mostly so tests can observe output.
// It returns a func restoring the previous logger.
func Use(l *zap.Logger) func() {
	prev := Log
	Log = l
	return func() { Log = prev }
}

// Sync flushes buffered entries.
func Sync() {
	_ = Log.Sync()
}
