package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	l := slog.New(h)
	return NewSlogLogger(l), &buf
}

func TestSlogLogger_Levels_WriteExpectedOutput(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()

	tests := []struct {
		level string
		msg   string
		key   string
		val   string
	}{
		{"DEBUG", "dbg", "a", "1"},
		{"INFO", "inf", "b", "2"},
		{"WARN", "wrn", "c", "3"},
		{"ERROR", "err", "d", "4"},
	}

	for _, tc := range tests {
		if !strings.Contains(out, "level="+tc.level) {
			t.Fatalf("expected line with level=%s in output:\n%s", tc.level, out)
		}
		if !strings.Contains(out, "msg="+tc.msg) {
			t.Fatalf("expected line with msg=%q in output:\n%s", tc.msg, out)
		}
		if !strings.Contains(out, tc.key+"="+tc.val) {
			t.Fatalf("expected attribute %s=%s in output:\n%s", tc.key, tc.val, out)
		}
	}
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log2 := log.With("session", "123", "vault", "personal.vault")
	log2.Info(ctx, "opened", "directories", 3)

	out := buf.String()
	wantSubs := []string{
		"level=INFO",
		"msg=opened",
		"session=123",
		"vault=personal.vault",
		"directories=3",
	}
	for _, s := range wantSubs {
		if !strings.Contains(out, s) {
			t.Fatalf("expected %q in output, got:\n%s", s, out)
		}
	}
}

func TestSlogLogger_ContextDoesNotPanic(t *testing.T) {
	log, _ := newTestLogger(t)

	ctx := context.TODO()
	log.Info(ctx, "ctx-ok")
	log.Debug(ctx, "ctx-ok")
	log.Warn(ctx, "ctx-ok")
	log.Error(ctx, "ctx-ok")
}

func TestNew_FormatsAndLevels(t *testing.T) {
	ctx := context.Background()

	t.Run("json at warn drops info", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := New(&buf, "warn", "json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		log.Info(ctx, "quiet")
		log.Warn(ctx, "loud", "k", "v")

		out := buf.String()
		if strings.Contains(out, "quiet") {
			t.Fatalf("info line must be filtered at warn level:\n%s", out)
		}
		if !strings.Contains(out, `"msg":"loud"`) || !strings.Contains(out, `"k":"v"`) {
			t.Fatalf("expected json warn line, got:\n%s", out)
		}
	})

	t.Run("text default", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := New(&buf, "", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		log.Debug(ctx, "hidden")
		log.Info(ctx, "shown")
		if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "msg=shown") {
			t.Fatalf("unexpected output:\n%s", buf.String())
		}
	})

	t.Run("bad inputs", func(t *testing.T) {
		if _, err := New(&bytes.Buffer{}, "loud", "text"); err == nil {
			t.Fatal("expected error for unknown level")
		}
		if _, err := New(&bytes.Buffer{}, "info", "xml"); err == nil {
			t.Fatal("expected error for unknown format")
		}
	})
}

func TestNop_DiscardsEverything(t *testing.T) {
	log := Nop()
	log.Error(context.Background(), "nothing happens")
	log.With("k", "v").Info(context.Background(), "still nothing")
}
