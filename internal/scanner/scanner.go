// Package scanner turns source text into symbol definitions and reference
// lists. Scanners know nothing about edges or rendering: they report what
// they see to a Sink, and the graph does the rest.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cgraph/internal/graph"
)

// Sink receives the events of one scan, in scan order.
type Sink interface {
	Define(name string, kind graph.Kind, typeDisplay, file string, line int) graph.NodeID
	RecordReferences(definingName string, names []string)
}

// Scanner reads one already-opened source.
type Scanner interface {
	Scan(ctx context.Context, file string, src []byte, sink Sink) error
}

// Language identifies a scanner.
type Language string

const (
	LangC    Language = "c"
	LangNASM Language = "nasm"
	LangGAS  Language = "gas"
)

// AllLanguages lists the supported languages.
var AllLanguages = []Language{LangC, LangNASM, LangGAS}

// ErrUnsupportedLanguage is returned for a language without a scanner.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// ParseLanguage parses a language name, case-insensitively.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c":
		return LangC, nil
	case "nasm":
		return LangNASM, nil
	case "gas", "as":
		return LangGAS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
}

// ForLanguage returns the scanner for lang.
func ForLanguage(lang Language) (Scanner, error) {
	switch lang {
	case LangC:
		return NewCScanner(), nil
	case LangNASM:
		return NASMScanner{}, nil
	case LangGAS:
		return GASScanner{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, string(lang))
	}
}

// typeDisplay appends one star per pointer level to the specifiers, so
// "char" with one level reads "char *".
func typeDisplay(spec string, pointers int) string {
	if pointers == 0 {
		return spec
	}
	stars := strings.Repeat("*", pointers)
	if spec == "" {
		return stars
	}
	return spec + " " + stars
}
