package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultLoggerIsUsable(t *testing.T) {
	if Log == nil {
		t.Fatal("Log should never be nil")
	}
	Log.Info("discarded")
}

func TestUseRestoresPrevious(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := Log

	restore := Use(zap.New(core))
	Log.Info("captured", zap.String("key", "value"))
	restore()

	if Log != prev {
		t.Error("restore should put the previous logger back")
	}
	if logs.Len() != 1 {
		t.Fatalf("Expected 1 entry, got %d", logs.Len())
	}
	if logs.All()[0].ContextMap()["key"] != "value" {
		t.Errorf("Expected field key=value, got %v", logs.All()[0].ContextMap())
	}
}
