package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Default rotation configuration constants
const (
	DefaultMaxSizeMB  = 10 // MB
	DefaultMaxBackups = 3  // number of backup files
	DefaultMaxAgeDays = 7  // days
)

// Config describes the daemon log destination. If FilePath is empty and Dir
// is set, the file will be Dir/<name>.log. Rotation parameters follow
// lumberjack semantics. With neither set, logs go to stderr only.
type Config struct {
	Dir        string // base directory for logs
	FilePath   string // explicit path overrides Dir
	MaxSizeMB  int    // megabytes before rotation (default 10)
	MaxBackups int    // number of backups to keep (default 3)
	MaxAgeDays int    // days to keep (default 7)
	Compress   bool   // gzip rotated files
}

// Writer returns a rotating io.WriteCloser for the given logger name, or nil
// when no file destination is configured.
func (c Config) Writer(name string) io.WriteCloser {
	path := c.FilePath
	if path == "" && c.Dir != "" {
		path = filepath.Join(c.Dir, fmt.Sprintf("%s.log", name))
	}
	if path == "" {
		return nil
	}
	return &lj.Logger{
		Filename:   path,
		MaxSize:    valOr(c.MaxSizeMB, DefaultMaxSizeMB),
		MaxBackups: valOr(c.MaxBackups, DefaultMaxBackups),
		MaxAge:     valOr(c.MaxAgeDays, DefaultMaxAgeDays),
		Compress:   c.Compress,
	}
}

// New builds a slog.Logger writing colored text to stderr and, when
// configured, plain text to the rotating file.
func (c Config) New(name string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	console := NewColorTextHandler(os.Stderr, opts, true)
	if w := c.Writer(name); w != nil {
		file := slog.NewTextHandler(w, opts)
		return slog.New(newTeeHandler(console, file))
	}
	return slog.New(console)
}

func valOr(v int, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
