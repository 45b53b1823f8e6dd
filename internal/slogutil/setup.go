package slogutil

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Options configures the process logger.
type Options struct {
	// Level applies to the console writer.
	Level slog.Level

	// File, when set, receives every record at FileLevel or above.
	File      string
	FileLevel slog.Level

	// MaxSize enables rotation of File (for example "10MB").
	MaxSize    string
	MaxBackups int
}

// Setup builds the process logger writing to console and, optionally, to a
// log file. The returned closer releases the file and is never nil.
func Setup(console io.Writer, opts Options) (*slog.Logger, io.Closer, error) {
	h := NewCgraphHandler(console, &slog.HandlerOptions{Level: opts.Level})
	if opts.File == "" {
		return slog.New(h), io.NopCloser(nil), nil
	}

	w, err := openLogFile(opts.File, opts.MaxSize, opts.MaxBackups)
	if err != nil {
		return nil, nil, err
	}
	fh := NewCgraphHandler(w, &slog.HandlerOptions{Level: opts.FileLevel})
	return slog.New(NewTeeHandler(h, fh)), w, nil
}

func openLogFile(path, maxSize string, maxBackups int) (io.WriteCloser, error) {
	if size := ParseSize(maxSize); size > 0 {
		return OpenRotatingFile(path, size, maxBackups)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
