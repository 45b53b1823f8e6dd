package scanner

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"cgraph/internal/graph"
)

// maxLineSize bounds a single source line.
const maxLineSize = 1024 * 1024

// asmState tracks the function whose body is being read and the
// references collected for it so far.
type asmState struct {
	file    string
	sink    Sink
	current string
	refs    []string
}

// begin flushes the previous function and starts a new one.
func (s *asmState) begin(name string, line int) {
	s.flush()
	s.current = name
	s.sink.Define(name, graph.KindFunction, "", s.file, line)
}

func (s *asmState) variable(name, typeDisplay string, line int) {
	s.sink.Define(name, graph.KindVariable, typeDisplay, s.file, line)
}

func (s *asmState) ref(name string) {
	if s.current != "" {
		s.refs = append(s.refs, name)
	}
}

func (s *asmState) flush() {
	if s.current != "" {
		s.sink.RecordReferences(s.current, s.refs)
	}
	s.current = ""
	s.refs = nil
}

// eachLine calls fn with every 1-based line number and line of src.
func eachLine(ctx context.Context, src []byte, fn func(lineNo int, line string)) error {
	sc := bufio.NewScanner(bytes.NewReader(src))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		fn(lineNo, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read error at line %d: %w", lineNo+1, err)
	}
	return nil
}

// stripComment cuts line at the first comment character outside a quoted
// string.
func stripComment(line string, comment byte) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '"' || ch == '\'' || ch == '`':
			quote = ch
		case ch == comment:
			return line[:i]
		}
	}
	return line
}

// cutToken splits s at its first run of whitespace.
func cutToken(s string) (head, rest string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i:])
}

// leadingLabel returns the label that starts s, if any, and the text after
// its colon.
func leadingLabel(s string, identChar func(byte) bool) (name, rest string, ok bool) {
	i := 0
	for i < len(s) && identChar(s[i]) {
		i++
	}
	if i == 0 || i >= len(s) || s[i] != ':' {
		return "", s, false
	}
	return s[:i], strings.TrimSpace(s[i+1:]), true
}

// identifiers returns every identifier token in s that does not start with
// a digit.
func identifiers(s string, identChar func(byte) bool) []string {
	var out []string
	for i := 0; i < len(s); {
		if !identChar(s[i]) {
			i++
			continue
		}
		j := i
		for j < len(s) && identChar(s[j]) {
			j++
		}
		if tok := s[i:j]; !isNumber(tok) {
			out = append(out, tok)
		}
		i = j
	}
	return out
}

// isNumber reports whether tok is a numeric literal rather than a name,
// including NASM's "$0ff" hex form and the bare "$" and "$$" addresses.
func isNumber(tok string) bool {
	t := strings.TrimLeft(tok, "$")
	return t == "" || isDigit(t[0])
}

func isAlpha(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isBranch reports whether the lowercase mnemonic transfers control to its
// operand.
func isBranch(mnemonic string) bool {
	switch mnemonic {
	case "call", "callq", "calll", "jmp", "jmpq", "jmpl":
		return true
	}
	_, ok := conditionalJumps[mnemonic]
	return ok
}

var conditionalJumps = toSet(
	"ja", "jae", "jb", "jbe", "jc", "je", "jg", "jge", "jl", "jle",
	"jna", "jnae", "jnb", "jnbe", "jnc", "jne", "jng", "jnge", "jnl", "jnle",
	"jno", "jnp", "jns", "jnz", "jo", "jp", "jpe", "jpo", "js", "jz",
	"jcxz", "jecxz", "jrcxz",
)

// isRegister reports whether name is an x86 register, ignoring case.
func isRegister(name string) bool {
	_, ok := registers[strings.ToLower(name)]
	return ok
}

var registers = func() map[string]struct{} {
	set := toSet(
		"al", "ah", "ax", "eax", "rax", "bl", "bh", "bx", "ebx", "rbx",
		"cl", "ch", "cx", "ecx", "rcx", "dl", "dh", "dx", "edx", "rdx",
		"sil", "si", "esi", "rsi", "dil", "di", "edi", "rdi",
		"spl", "sp", "esp", "rsp", "bpl", "bp", "ebp", "rbp",
		"cs", "ds", "es", "fs", "gs", "ss", "ip", "eip", "rip",
	)
	for i := 8; i <= 15; i++ {
		r := "r" + strconv.Itoa(i)
		for _, suffix := range []string{"", "d", "w", "b"} {
			set[r+suffix] = struct{}{}
		}
	}
	for i := 0; i < 8; i++ {
		n := strconv.Itoa(i)
		for _, prefix := range []string{"st", "mm", "cr", "dr", "k"} {
			set[prefix+n] = struct{}{}
		}
	}
	for i := 0; i < 32; i++ {
		n := strconv.Itoa(i)
		for _, prefix := range []string{"xmm", "ymm", "zmm"} {
			set[prefix+n] = struct{}{}
		}
	}
	return set
}()

func toSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
