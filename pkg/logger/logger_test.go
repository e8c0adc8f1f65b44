package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestGetAfterInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if Get() == nil || Named("service") == nil {
		t.Fatal("expected a global logger after Init")
	}
	if err := Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
}

func TestLoggerSourceAndLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf, FormatText); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() { _ = Init() }()

	ctx := context.Background()
	l := Named("pipeline")
	l.Debug(ctx, "hidden at info")
	l.Info(ctx, "board published", Int("total", 3))

	out := buf.String()
	if strings.Contains(out, "hidden at info") {
		t.Fatalf("debug entry written at info level: %q", out)
	}
	if !strings.Contains(out, "pipeline.total=3") {
		t.Fatalf("expected grouped field, got %q", out)
	}
	if !strings.Contains(out, "logger_test.go:") {
		t.Fatalf("expected call site in source, got %q", out)
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf, FormatJSON); err != nil {
		t.Fatalf("failed to initialize json logger: %v", err)
	}
	defer func() { _ = Init() }()

	Get().Info(context.Background(), "board published", Uint64("seq", 3), Duration("took", time.Second))
	out := buf.String()
	if !strings.Contains(out, `"msg":"board published"`) {
		t.Fatalf("expected json message, got %q", out)
	}
	if !strings.Contains(out, `"seq":3`) {
		t.Fatalf("expected seq field, got %q", out)
	}
}

func TestLoggerUnknownFormat(t *testing.T) {
	if err := InitWithWriter(&bytes.Buffer{}, "xml"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if err := InitWithWriter(nil, FormatText); err == nil {
		t.Fatal("expected error for nil writer")
	}
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	for _, lvl := range []string{"debug", "INFO", "warn", "warning", "error", ""} {
		if err := SetLevelString(lvl); err != nil {
			t.Errorf("level %q rejected: %v", lvl, err)
		}
	}
	if err := SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	_ = SetLevelString("info")
}

func TestLineWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf, FormatText); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = Init() }()

	w := NewWriter(Get(), "http access")
	_, _ = w.Write([]byte("GET / 200\nPOST /refre"))
	_, _ = w.Write([]byte("sh 202\n"))

	out := buf.String()
	if strings.Count(out, "http access") != 2 {
		t.Fatalf("expected two entries, got %q", out)
	}
	if !strings.Contains(out, `line="POST /refresh 202"`) {
		t.Fatalf("expected joined partial line, got %q", out)
	}
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithWriter(&buf, FormatJSON); err != nil {
		t.Fatalf("failed to initialize json logger: %v", err)
	}
	defer func() { _ = Init() }()

	l := Get().With(String("load_id", "abc"))
	l.Info(context.Background(), "first")
	l.Warn(context.Background(), "second")

	if n := strings.Count(buf.String(), `"load_id":"abc"`); n != 2 {
		t.Fatalf("expected load_id on both entries, got %d in %q", n, buf.String())
	}
}
