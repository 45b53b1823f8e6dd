package scanner

import (
	"context"
	"strings"
)

// NASMScanner reads NASM-syntax x86 assembly. Labels and proc blocks start
// functions; data directives define variables.
type NASMScanner struct{}

// Scan implements Scanner.
func (NASMScanner) Scan(ctx context.Context, file string, src []byte, sink Sink) error {
	s := &asmState{file: file, sink: sink}
	err := eachLine(ctx, src, func(lineNo int, line string) {
		if line = strings.TrimSpace(stripComment(line, ';')); line != "" {
			s.nasmLine(line, lineNo)
		}
	})
	if err != nil {
		return err
	}
	s.flush()
	return nil
}

func (s *asmState) nasmLine(line string, lineNo int) {
	if name, rest, ok := leadingLabel(line, isNASMIdentChar); ok {
		if directive, found := nasmDataDirective(rest); found {
			s.nasmVariable(name, directive, lineNo)
			return
		}
		if isNASMSymbol(name) {
			s.begin(name, lineNo)
		}
		if line = rest; line == "" {
			return
		}
	}

	head, rest := cutToken(line)
	if directive, found := nasmDataDirective(rest); found {
		s.nasmVariable(head, directive, lineNo)
		return
	}

	switch m := strings.ToLower(head); {
	case m == "proc":
		if name, _ := cutToken(rest); isNASMSymbol(name) {
			s.begin(name, lineNo)
		}
	case isBranch(m):
		s.nasmBranch(rest)
		s.nasmMemory(rest)
	default:
		s.nasmMemory(rest)
	}
}

func (s *asmState) nasmVariable(name, directive string, lineNo int) {
	if isNASMSymbol(name) {
		s.variable(name, directive, lineNo)
	}
}

// nasmBranch records the direct target of a call or jump.
func (s *asmState) nasmBranch(operands string) {
	for _, tok := range strings.Fields(operands) {
		if _, ok := nasmSizeKeywords[strings.ToLower(tok)]; ok {
			continue
		}
		name := strings.TrimSuffix(tok, ",")
		if isNASMSymbol(name) {
			s.ref(name)
		}
		return
	}
}

// nasmMemory records the symbols named inside [ ] memory operands.
func (s *asmState) nasmMemory(operands string) {
	for {
		open := strings.IndexByte(operands, '[')
		if open < 0 {
			return
		}
		end := strings.IndexByte(operands[open:], ']')
		if end < 0 {
			end = len(operands) - open
		}
		for _, name := range identifiers(operands[open+1:open+end], isNASMIdentChar) {
			if _, ok := nasmSizeKeywords[strings.ToLower(name)]; ok {
				continue
			}
			if isNASMSymbol(name) {
				s.ref(name)
			}
		}
		if open+end >= len(operands) {
			return
		}
		operands = operands[open+end+1:]
	}
}

// nasmDataDirective reports the data directive that rest starts with, if
// any, looking past a "times N" prefix.
func nasmDataDirective(rest string) (string, bool) {
	head, tail := cutToken(rest)
	if strings.EqualFold(head, "times") {
		_, tail = cutToken(tail)
		head, _ = cutToken(tail)
	}
	d := strings.ToLower(head)
	_, ok := nasmDataDirectives[d]
	return d, ok
}

// isNASMSymbol reports whether name can be a global symbol: a well-formed
// identifier that is neither a local label nor a register.
func isNASMSymbol(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") || isNumber(name) || isRegister(name) {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isNASMIdentChar(name[i]) {
			return false
		}
	}
	return true
}

func isNASMIdentChar(ch byte) bool {
	return isAlpha(ch) || isDigit(ch) || strings.IndexByte("_$#@~.?", ch) >= 0
}

var nasmDataDirectives = toSet(
	"db", "dw", "dd", "dq", "dt", "do", "dy", "dz",
	"resb", "resw", "resd", "resq", "rest", "reso", "resy", "resz",
	"equ", "incbin",
)

var nasmSizeKeywords = toSet(
	"byte", "word", "dword", "qword", "tword", "oword", "yword", "zword",
	"near", "far", "short", "rel", "abs", "wrt", "seg", "strict",
)
