package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNew_WritesDailyFile(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zap.NewNop()))
	root := t.TempDir()

	log, err := New(root, "debug", false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = log.Sync()

	name := filepath.Join(root, "logs", time.Now().Format("2006-01-02")+".log")
	if _, err := os.Stat(name); err != nil {
		t.Fatalf("log file missing: %v", err)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, err := New(t.TempDir(), "loud", false); err == nil {
		t.Fatal("expected level error")
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("fallback logger is nil")
	}
	l := zap.NewNop().Sugar()
	if FromContext(WithContext(context.Background(), l)) != l {
		t.Fatal("stored logger not returned")
	}
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { _ = SetLevel("info") })
	if err := SetLevel("warn"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}
	if lvl.Enabled(zap.InfoLevel) {
		t.Fatal("info still enabled at warn")
	}
	if err := SetLevel(""); err != nil || !lvl.Enabled(zap.InfoLevel) {
		t.Fatalf("empty level: err=%v", err)
	}
}
