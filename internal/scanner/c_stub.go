//go:build !cgo

package scanner

import (
	"context"
	"errors"
)

// ErrNoCGO is returned when C scanning is unavailable due to missing CGO.
var ErrNoCGO = errors.New("C scanning requires CGO (tree-sitter)")

// CScanner parses C translation units.
// This is a stub implementation for non-CGO builds.
type CScanner struct{}

// NewCScanner creates a C scanner.
func NewCScanner() *CScanner {
	return &CScanner{}
}

// Scan returns ErrNoCGO.
func (s *CScanner) Scan(ctx context.Context, file string, src []byte, sink Sink) error {
	return ErrNoCGO
}
