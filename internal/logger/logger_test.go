package logger

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func closeIf(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}

func TestWriter_WithDirOnly(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Dir: dir}
	w := cfg.Writer("huntd")
	if w == nil {
		t.Fatal("expected writer when Dir is set")
	}
	_, _ = w.Write([]byte("hello\n"))
	closeIf(w)
	path := filepath.Join(dir, "huntd.log")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log not created at %s: %v", path, err)
	}
}

func TestWriter_ExplicitPathOverridesDir(t *testing.T) {
	dir := t.TempDir()
	explicit := filepath.Join(dir, "explicit.log")
	cfg := Config{Dir: filepath.Join(dir, "unused"), FilePath: explicit}
	w := cfg.Writer("ignored-name")
	if w == nil {
		t.Fatal("expected writer with explicit path")
	}
	_, _ = w.Write([]byte("x"))
	closeIf(w)
	if _, err := os.Stat(explicit); err != nil {
		t.Fatalf("log not created at %s: %v", explicit, err)
	}
}

func TestWriter_NilWhenUnconfigured(t *testing.T) {
	if w := (Config{}).Writer("name"); w != nil {
		t.Fatal("expected nil writer with no destination")
	}
}

func TestNew_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	l := Config{Dir: dir}.New("huntd", slog.LevelInfo)
	l.Info("capacity probe", "domain", "AD-1")

	b, err := os.ReadFile(filepath.Join(dir, "huntd.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "capacity probe") {
		t.Fatalf("file log missing message: %s", b)
	}
	if !strings.Contains(string(b), "domain=AD-1") {
		t.Fatalf("file log missing attr: %s", b)
	}
	// File output stays plain text.
	if strings.Contains(string(b), "\033[") {
		t.Fatalf("file log contains ANSI codes: %q", b)
	}
}

func TestColorTextHandlerColorsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(NewColorTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}, true))
	l.Error("boom")
	out := buf.String()
	if !strings.Contains(out, "\033[31m") {
		t.Fatalf("expected red escape for error level: %q", out)
	}
	if !strings.Contains(out, "boom") {
		t.Fatalf("missing message: %q", out)
	}
}

func TestTeeHandlerDeliversToAll(t *testing.T) {
	var a, b bytes.Buffer
	l := slog.New(newTeeHandler(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelWarn}),
	))
	l.Info("only-a")
	l.Warn("both")

	if !strings.Contains(a.String(), "only-a") || !strings.Contains(a.String(), "both") {
		t.Fatalf("first handler missing records: %q", a.String())
	}
	if strings.Contains(b.String(), "only-a") {
		t.Fatalf("second handler received record below its level: %q", b.String())
	}
	if !strings.Contains(b.String(), "both") {
		t.Fatalf("second handler missing record: %q", b.String())
	}
}

func TestValOr(t *testing.T) {
	if got := valOr(0, 10); got != 10 {
		t.Fatalf("valOr(0,10) = %d", got)
	}
	if got := valOr(-1, 10); got != 10 {
		t.Fatalf("valOr(-1,10) = %d", got)
	}
	if got := valOr(5, 10); got != 5 {
		t.Fatalf("valOr(5,10) = %d", got)
	}
}
