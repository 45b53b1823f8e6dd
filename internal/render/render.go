// Package render prints a call graph as an indented, numbered tree.
//
// Two modes are supported. Forward mode walks callees from the root in
// preorder, expanding every node's subtree at most once so cyclic graphs
// terminate. Reversed mode lists every symbol in name order followed by its
// direct callers.
package render

import (
	"bufio"
	"io"
	"math"
	"sort"
	"strings"

	"cgraph/internal/graph"
	"cgraph/internal/keywords"
)

// Options controls what is printed and how deep.
type Options struct {
	// ShowVariables includes data symbols.
	ShowVariables bool

	// ShowPrivate includes symbols whose name starts with an underscore.
	ShowPrivate bool

	// MaxDepth limits how many edges forward mode descends from a top-level
	// node. A negative value means unbounded.
	MaxDepth int

	// Reversed selects caller listing instead of callee trees.
	Reversed bool

	// Exclusions hides the named symbols.
	Exclusions keywords.Set
}

// DefaultOptions returns unbounded forward rendering with functions only.
func DefaultOptions() Options {
	return Options{MaxDepth: -1}
}

// Render writes g to w. The graph is not modified, so a graph may be
// rendered any number of times.
func Render(w io.Writer, g *graph.Graph, opts Options) error {
	lines := Lines(g, opts)

	bw := bufio.NewWriter(w)
	r := newRenderer(g, opts, digits(lines), bw)
	r.run()
	if r.err != nil {
		return r.err
	}
	return bw.Flush()
}

// Lines returns the number of lines Render would print.
func Lines(g *graph.Graph, opts Options) int {
	r := newRenderer(g, opts, 0, nil)
	r.run()
	return r.count - 1
}

// Hidden reports whether the shared filter suppresses n.
func (o Options) Hidden(n *graph.Node) bool {
	if !o.ShowPrivate && strings.HasPrefix(n.Name, "_") {
		return true
	}
	if !o.ShowVariables && n.Kind == graph.KindVariable {
		return true
	}
	return o.Exclusions.Contains(n.Name)
}

type renderer struct {
	g        *graph.Graph
	opts     Options
	maxDepth int
	pad      int

	// count is the index of the next printed line.
	count   int
	visited []bool

	// out is nil during the counting pass.
	out *bufio.Writer
	err error
}

func newRenderer(g *graph.Graph, opts Options, pad int, out *bufio.Writer) *renderer {
	maxDepth := opts.MaxDepth
	if maxDepth < 0 {
		maxDepth = math.MaxInt
	}
	return &renderer{
		g:        g,
		opts:     opts,
		maxDepth: maxDepth,
		pad:      pad,
		count:    1,
		visited:  make([]bool, g.Len()),
		out:      out,
	}
}

func (r *renderer) run() {
	if r.opts.Reversed {
		r.callers()
	} else {
		r.forward()
	}
}

func (r *renderer) emit(id graph.NodeID, width int) {
	if r.out != nil && r.err == nil {
		r.err = writeLine(r.out, r.g.Node(id), r.pad, width, r.count)
	}
	r.count++
}

func (r *renderer) hidden(id graph.NodeID) bool {
	return r.opts.Hidden(r.g.Node(id))
}

// widest returns the longest name among the unfiltered ids.
func (r *renderer) widest(ids []graph.NodeID) int {
	w := 0
	for _, id := range ids {
		if r.hidden(id) {
			continue
		}
		if l := len(r.g.Node(id).Name); l > w {
			w = l
		}
	}
	return w
}

// topWidth is the column width of top-level lines: the longest name among
// unfiltered nodes that nobody calls.
func (r *renderer) topWidth() int {
	var tops []graph.NodeID
	for _, id := range r.g.Nodes() {
		if len(r.g.Node(id).Callers) == 0 {
			tops = append(tops, id)
		}
	}
	return r.widest(tops)
}

func (r *renderer) forward() {
	if root, ok := r.g.Root(); ok {
		r.preorder(root, 0, len(r.g.Node(root).Name))
		return
	}

	width := r.topWidth()
	for _, id := range r.g.Nodes() {
		if !r.visited[id] {
			r.preorder(id, 0, width)
		}
	}
}

func (r *renderer) preorder(id graph.NodeID, depth, width int) {
	if r.hidden(id) {
		return
	}

	r.emit(id, width)
	if r.visited[id] {
		return
	}
	r.visited[id] = true

	if depth >= r.maxDepth {
		return
	}

	callees := r.g.Node(id).Callees
	childWidth := width + r.widest(callees) + 1
	for _, c := range callees {
		r.preorder(c, depth+1, childWidth)
	}
}

func (r *renderer) callers() {
	ids := r.g.Nodes()
	sort.Slice(ids, func(i, j int) bool {
		return r.g.Node(ids[i]).Name < r.g.Node(ids[j]).Name
	})

	width := r.topWidth()
	for _, id := range ids {
		if r.hidden(id) {
			continue
		}
		r.emit(id, width)

		if r.maxDepth <= 0 {
			continue
		}

		callers := r.g.Node(id).Callers
		callerWidth := width + r.widest(callers) + 1
		for _, c := range callers {
			if r.hidden(c) {
				continue
			}
			r.emit(c, callerWidth)
		}
	}
}

// digits returns the number of decimal digits in n, or 0 for n <= 0.
func digits(n int) int {
	d := 0
	for n > 0 {
		n /= 10
		d++
	}
	return d
}
