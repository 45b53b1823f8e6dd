package render

import (
	"fmt"
	"io"

	"cgraph/internal/graph"
)

// writeLine prints one numbered node line. Both the index and the name are
// right-aligned, so a wider column shifts deeper levels to the right.
func writeLine(w io.Writer, n *graph.Node, pad, width, count int) error {
	_, err := fmt.Fprintf(w, "%*d %*s: %s\n", pad, count, width, n.Name, Detail(n))
	return err
}

// Detail returns the text printed after the colon for n.
func Detail(n *graph.Node) string {
	if n.Origin == nil {
		return "<>"
	}

	loc := fmt.Sprintf("<%s %d>", n.Origin.File, n.Origin.Line)
	if n.Kind == graph.KindVariable {
		if n.Type == "" {
			return loc
		}
		return n.Type + ", " + loc
	}
	return n.Type + "(), " + loc
}
