package scanner

import (
	"context"
	"strings"

	"cgraph/internal/graph"
)

// GASScanner reads AT&T-syntax GNU assembler sources.
type GASScanner struct{}

// Scan implements Scanner.
func (GASScanner) Scan(ctx context.Context, file string, src []byte, sink Sink) error {
	g := &gasState{
		asmState: asmState{file: file, sink: sink},
		kinds:    make(map[string]graph.Kind),
	}
	err := eachLine(ctx, src, func(lineNo int, line string) {
		for _, stmt := range splitStatements(g.strip(line)) {
			g.statement(stmt, lineNo)
		}
	})
	if err != nil {
		return err
	}
	g.flush()
	return nil
}

type gasState struct {
	asmState

	// kinds holds the symbol types announced by .type directives.
	kinds map[string]graph.Kind

	// inComment is set while inside a /* */ block.
	inComment bool
}

// strip removes # line comments and /* */ block comments, which may span
// lines.
func (g *gasState) strip(line string) string {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case g.inComment:
			if ch == '*' && i+1 < len(line) && line[i+1] == '/' {
				g.inComment = false
				b.WriteByte(' ')
				i++
			}
		case quote != 0:
			b.WriteByte(ch)
			if ch == '\\' && i+1 < len(line) {
				i++
				b.WriteByte(line[i])
			} else if ch == quote {
				quote = 0
			}
		case ch == '"':
			quote = ch
			b.WriteByte(ch)
		case ch == '/' && i+1 < len(line) && line[i+1] == '*':
			g.inComment = true
			i++
		case ch == '#':
			return b.String()
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func (g *gasState) statement(stmt string, lineNo int) {
	stmt = strings.TrimSpace(stmt)
	for {
		name, rest, ok := leadingLabel(stmt, isGASIdentChar)
		if !ok {
			break
		}
		g.label(name, lineNo)
		stmt = rest
	}
	if stmt == "" {
		return
	}

	head, rest := cutToken(stmt)
	m := strings.ToLower(head)
	switch {
	case strings.HasPrefix(m, "."):
		g.directive(m, rest, lineNo)
	case isBranch(m):
		g.branch(rest)
	default:
		g.operands(rest)
	}
}

func (g *gasState) label(name string, lineNo int) {
	if !isGASSymbol(name) {
		return
	}
	if g.kinds[name] == graph.KindVariable {
		g.variable(name, "", lineNo)
		return
	}
	g.begin(name, lineNo)
}

func (g *gasState) directive(name, rest string, lineNo int) {
	args := splitOperands(rest)
	switch name {
	case ".type":
		if len(args) < 2 || !isGASSymbol(args[0]) {
			return
		}
		kind := strings.ToLower(strings.Trim(args[1], `@%#"`))
		switch kind {
		case "function", "stt_func", "gnu_indirect_function":
			g.kinds[args[0]] = graph.KindFunction
		case "object", "stt_object", "tls_object", "common":
			g.kinds[args[0]] = graph.KindVariable
		}
	case ".comm", ".lcomm":
		if len(args) > 0 && isGASSymbol(args[0]) {
			g.variable(args[0], "", lineNo)
		}
	}
}

// branch records the target of a call or jump. An indirect "*" prefix and
// a "@PLT" suffix are dropped; register targets are ignored.
func (g *gasState) branch(operands string) {
	op := strings.TrimPrefix(strings.TrimSpace(operands), "*")
	if op == "" || op[0] == '%' {
		return
	}
	if name := leadingIdent(op, isGASIdentChar); isGASSymbol(name) {
		g.ref(name)
	}
}

// operands records $sym immediates and sym(%rip) memory operands.
func (g *gasState) operands(operands string) {
	for _, op := range splitOperands(operands) {
		switch {
		case strings.HasPrefix(op, "$"):
			if name := leadingIdent(op[1:], isGASIdentChar); isGASSymbol(name) {
				g.ref(name)
			}
		case strings.Contains(op, "(%rip)"):
			if name := leadingIdent(op, isGASIdentChar); isGASSymbol(name) {
				g.ref(name)
			}
		}
	}
}

// splitStatements splits a line at ';' separators outside strings.
func splitStatements(line string) []string {
	var out []string
	var quote byte
	start := 0
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote != 0:
			if ch == '\\' {
				i++
			} else if ch == quote {
				quote = 0
			}
		case ch == '"':
			quote = ch
		case ch == ';':
			out = append(out, line[start:i])
			start = i + 1
		}
	}
	return append(out, line[start:])
}

// splitOperands splits at commas outside parentheses and trims each part.
func splitOperands(s string) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if last := strings.TrimSpace(s[start:]); last != "" || len(out) > 0 {
		out = append(out, last)
	}
	return out
}

func leadingIdent(s string, identChar func(byte) bool) string {
	i := 0
	for i < len(s) && identChar(s[i]) {
		i++
	}
	return s[:i]
}

// isGASSymbol reports whether name can be a global symbol. ".L" labels and
// numeric labels are local.
func isGASSymbol(name string) bool {
	return name != "" && !strings.HasPrefix(name, ".L") && !isNumber(name)
}

func isGASIdentChar(ch byte) bool {
	return isAlpha(ch) || isDigit(ch) || ch == '_' || ch == '.'
}
