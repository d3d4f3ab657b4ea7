package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lixenwraith/spiral-galaxy/config"
)

// maxLogSize triggers rotation of an existing log file at startup
const maxLogSize = 10 * 1024 * 1024

// setupLogging returns the process logger
// The terminal owns stdout and stderr, so logs go to a file in debug mode and
// are discarded otherwise; the returned file is nil when nothing was opened
func setupLogging(v config.Viewer) (*slog.Logger, *os.File) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	if !v.Debug {
		return discard, nil
	}

	f, err := openLogFile(v.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
		return discard, nil
	}

	level, err := config.ParseLogLevel(v.LogLevel)
	if err != nil {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if v.LogJSON {
		handler = slog.NewJSONHandler(f, opts)
	} else {
		handler = slog.NewTextHandler(f, opts)
	}
	return slog.New(handler), f
}

// openLogFile appends to path, first rotating it aside when it is too large
func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}

	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		ext := filepath.Ext(path)
		rotated := fmt.Sprintf("%s-%s%s", strings.TrimSuffix(path, ext), time.Now().Format("20060102-150405"), ext)
		if err := os.Rename(path, rotated); err != nil {
			return nil, fmt.Errorf("rotate log: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}
