// Package source opens input files, transparently decompressing them, and
// guesses their language from the file name.
package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"

	"cgraph/internal/scanner"
)

// Codec is a compression format recognised by file extension.
type Codec string

const (
	CodecNone Codec = ""
	CodecGzip Codec = "gzip"
	CodecZstd Codec = "zstd"
	CodecS2   Codec = "s2"
)

var codecExtensions = map[string]Codec{
	".gz":  CodecGzip,
	".zst": CodecZstd,
	".sz":  CodecS2,
}

// CodecFor returns the codec selected by path's extension.
func CodecFor(path string) Codec {
	return codecExtensions[strings.ToLower(filepath.Ext(path))]
}

// Trim returns path without its compression extension.
func Trim(path string) string {
	if CodecFor(path) == CodecNone {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// ReadFile reads path, decompressing it when its extension names a codec.
// Open errors are returned unwrapped so callers can report them as-is.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f, CodecFor(path))
}

// Read reads all of r through codec.
func Read(r io.Reader, codec Codec) ([]byte, error) {
	switch codec {
	case CodecNone:
		return io.ReadAll(r)
	case CodecGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		return readAll(zr, codec)
	case CodecZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		return readAll(dec, codec)
	case CodecS2:
		return readAll(s2.NewReader(r), codec)
	default:
		return nil, fmt.Errorf("unknown codec %q", string(codec))
	}
}

func readAll(r io.Reader, codec Codec) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", codec, err)
	}
	return data, nil
}

// NewWriter wraps w so that everything written is compressed with codec.
// Closing the returned writer flushes the codec but does not close w.
func NewWriter(w io.Writer, codec Codec) (io.WriteCloser, error) {
	switch codec {
	case CodecNone:
		return nopCloser{w}, nil
	case CodecGzip:
		return gzip.NewWriter(w), nil
	case CodecZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return enc, nil
	case CodecS2:
		return s2.NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown codec %q", string(codec))
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

var languageExtensions = map[string]scanner.Language{
	".c":    scanner.LangC,
	".h":    scanner.LangC,
	".asm":  scanner.LangNASM,
	".nasm": scanner.LangNASM,
	".inc":  scanner.LangNASM,
	".s":    scanner.LangGAS,
}

// LanguageFor guesses the language of path from its extension, ignoring a
// compression extension.
func LanguageFor(path string) (scanner.Language, bool) {
	lang, ok := languageExtensions[strings.ToLower(filepath.Ext(Trim(path)))]
	return lang, ok
}
