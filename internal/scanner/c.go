//go:build cgo

package scanner

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"cgraph/internal/graph"
)

// CScanner parses C translation units with tree-sitter.
type CScanner struct {
	parser *sitter.Parser
}

// NewCScanner creates a C scanner.
func NewCScanner() *CScanner {
	p := sitter.NewParser()
	p.SetLanguage(c.GetLanguage())
	return &CScanner{parser: p}
}

// Scan defines every file-scope function and variable of src and records,
// per function, the functions it calls and the file-scope variables it
// names. Syntax errors are not fatal: whatever tree-sitter recovered is
// scanned.
func (s *CScanner) Scan(ctx context.Context, file string, src []byte, sink Sink) error {
	tree, err := s.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	u := &cUnit{
		file:    file,
		src:     src,
		sink:    sink,
		globals: make(map[string]struct{}),
	}
	root := tree.RootNode()

	// Variables may be declared below the functions using them.
	u.fileScope(root, u.collectGlobal)
	u.fileScope(root, u.item)
	return nil
}

// cUnit holds the state of one translation unit scan.
type cUnit struct {
	file    string
	src     []byte
	sink    Sink
	globals map[string]struct{}
}

// fileScope calls fn for every file-scope item, looking through
// preprocessor conditionals and extern "C" blocks.
func (u *cUnit) fileScope(n *sitter.Node, fn func(*sitter.Node)) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "preproc_if", "preproc_ifdef", "preproc_else", "preproc_elif",
			"linkage_specification", "declaration_list":
			u.fileScope(child, fn)
		default:
			fn(child)
		}
	}
}

func (u *cUnit) collectGlobal(n *sitter.Node) {
	if n.Type() != "declaration" {
		return
	}
	u.eachDeclarator(n, func(name string, _ int) {
		u.globals[name] = struct{}{}
	})
}

func (u *cUnit) item(n *sitter.Node) {
	switch n.Type() {
	case "function_definition":
		u.function(n)
	case "declaration":
		if u.hasStorageClass(n, "extern") {
			return
		}
		spec := u.specifiers(n)
		line := lineOf(n)
		u.eachDeclarator(n, func(name string, pointers int) {
			u.sink.Define(name, graph.KindVariable, typeDisplay(spec, pointers), u.file, line)
		})
	}
}

func (u *cUnit) function(n *sitter.Node) {
	name, pointers, isFunc := u.unwrap(n.ChildByFieldName("declarator"))
	if name == "" || !isFunc {
		return
	}
	u.sink.Define(name, graph.KindFunction, typeDisplay(u.specifiers(n), pointers), u.file, lineOf(n))

	var refs []string
	if body := n.ChildByFieldName("body"); body != nil {
		refs = u.references(body, refs)
	}
	u.sink.RecordReferences(name, refs)
}

// eachDeclarator calls fn for every variable declared by a declaration.
// Prototypes are skipped.
func (u *cUnit) eachDeclarator(n *sitter.Node, fn func(name string, pointers int)) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		d := n.NamedChild(i)
		if !isDeclarator(d.Type()) {
			continue
		}
		name, pointers, isFunc := u.unwrap(d)
		if name == "" || isFunc {
			continue
		}
		fn(name, pointers)
	}
}

// unwrap follows a declarator chain down to its identifier. It counts the
// pointer levels on the way and reports whether the declarator declares a
// function. A function declarator whose inner declarator is parenthesized
// declares a function pointer, which is a variable.
func (u *cUnit) unwrap(d *sitter.Node) (name string, pointers int, function bool) {
	for d != nil {
		switch d.Type() {
		case "identifier":
			return d.Content(u.src), pointers, function
		case "pointer_declarator":
			pointers++
			d = d.ChildByFieldName("declarator")
		case "function_declarator":
			function = true
			d = d.ChildByFieldName("declarator")
		case "parenthesized_declarator":
			function = false
			d = d.NamedChild(0)
		case "init_declarator", "array_declarator":
			d = d.ChildByFieldName("declarator")
		case "attributed_declarator":
			d = d.NamedChild(0)
		default:
			return "", 0, false
		}
	}
	return "", 0, false
}

// references appends, in source order, the called functions and the
// referenced file-scope variables found under n.
func (u *cUnit) references(n *sitter.Node, refs []string) []string {
	switch n.Type() {
	case "call_expression":
		fn := n.ChildByFieldName("function")
		if fn != nil && fn.Type() == "identifier" {
			refs = append(refs, fn.Content(u.src))
			if args := n.ChildByFieldName("arguments"); args != nil {
				refs = u.references(args, refs)
			}
			return refs
		}
	case "identifier":
		name := n.Content(u.src)
		if _, ok := u.globals[name]; ok {
			refs = append(refs, name)
		}
		return refs
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		refs = u.references(n.NamedChild(i), refs)
	}
	return refs
}

// specifiers returns the declaration specifiers of a declaration or
// function definition, such as "static const char".
func (u *cUnit) specifiers(n *sitter.Node) string {
	var parts []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "storage_class_specifier", "type_qualifier", "primitive_type",
			"type_identifier", "sized_type_specifier", "macro_type_specifier":
			parts = append(parts, strings.Join(strings.Fields(child.Content(u.src)), " "))
		case "struct_specifier", "union_specifier", "enum_specifier":
			tag := strings.TrimSuffix(child.Type(), "_specifier")
			if name := child.ChildByFieldName("name"); name != nil {
				tag += " " + name.Content(u.src)
			}
			parts = append(parts, tag)
		}
	}
	return strings.Join(parts, " ")
}

func (u *cUnit) hasStorageClass(n *sitter.Node, class string) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "storage_class_specifier" && child.Content(u.src) == class {
			return true
		}
	}
	return false
}

func isDeclarator(nodeType string) bool {
	switch nodeType {
	case "identifier", "init_declarator", "pointer_declarator", "array_declarator",
		"function_declarator", "parenthesized_declarator", "attributed_declarator":
		return true
	}
	return false
}

func lineOf(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}
