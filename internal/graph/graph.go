// Package graph holds the per-file call/reference graph: an arena of symbol
// nodes keyed by name, with forward (callee) and backward (caller) edges.
package graph

import "fmt"

// Kind is the kind of symbol a node stands for.
type Kind int

const (
	KindFunction Kind = iota
	KindVariable
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindVariable:
		return "variable"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NodeID addresses a node in its graph's arena. IDs are never reused or
// invalidated for the lifetime of the graph.
type NodeID int

// NoNode is the sentinel for an absent node (an unbound root).
const NoNode NodeID = -1

// Origin is where a symbol was defined.
type Origin struct {
	File string
	Line int
}

// Node is one distinct symbol in a scan.
type Node struct {
	Name string
	Kind Kind

	// Type is an optional display string (return type, storage class, data
	// directive). It is never interpreted.
	Type string

	// Origin is nil while the node is only a forward reference.
	Origin *Origin

	// Callees and Callers are edges in discovery order.
	Callees []NodeID
	Callers []NodeID
}

// Defined reports whether the node has been upgraded from a forward reference.
func (n *Node) Defined() bool {
	return n.Origin != nil
}

// Options configures how a graph is built.
type Options struct {
	// Root is the symbol name bound as traversal root when it is defined.
	Root string

	// Complete disables edge deduplication.
	Complete bool
}

// DefaultRoot is the root symbol used when none is configured.
const DefaultRoot = "main"

// DefaultOptions returns the options used by the command line front end
// when nothing is overridden.
func DefaultOptions() Options {
	return Options{Root: DefaultRoot}
}

// Graph is the symbol graph for one scanned file.
type Graph struct {
	opts   Options
	nodes  []Node
	byName map[string]NodeID
	root   NodeID
}

// New creates an empty graph.
func New(opts Options) *Graph {
	return &Graph{
		opts:   opts,
		byName: make(map[string]NodeID),
		root:   NoNode,
	}
}

// Options returns the options the graph was built with.
func (g *Graph) Options() Options {
	return g.opts
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given id. The pointer stays valid until the
// next node is created; callers must not hold it across Define or
// ResolveOrCreate.
func (g *Graph) Node(id NodeID) *Node {
	return &g.nodes[id]
}

// Lookup returns the id of the node with the given name.
func (g *Graph) Lookup(name string) (NodeID, bool) {
	id, ok := g.byName[name]
	return id, ok
}

// Nodes returns all node ids in insertion order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, len(g.nodes))
	for i := range g.nodes {
		ids[i] = NodeID(i)
	}
	return ids
}

// Root returns the bound root node, or NoNode and false.
func (g *Graph) Root() (NodeID, bool) {
	return g.root, g.root != NoNode
}

// NumEdges returns the number of callee edges in the graph.
func (g *Graph) NumEdges() int {
	n := 0
	for i := range g.nodes {
		n += len(g.nodes[i].Callees)
	}
	return n
}

// ResolveOrCreate returns the node with the given name, creating a
// reference-only node at the end of the arena if none exists.
func (g *Graph) ResolveOrCreate(name string) NodeID {
	if id, ok := g.byName[name]; ok {
		return id
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{Name: name, Kind: KindFunction})
	g.byName[name] = id
	return id
}

// Define records the definition of a symbol. A forward reference is upgraded
// in place; a node that already has an origin keeps its first definition.
// The node is bound as root when its name matches the configured root and no
// root is bound yet.
func (g *Graph) Define(name string, kind Kind, typeDisplay, file string, line int) NodeID {
	id := g.ResolveOrCreate(name)
	n := &g.nodes[id]
	if n.Origin == nil {
		n.Origin = &Origin{File: file, Line: line}
		n.Kind = kind
		if n.Type == "" {
			n.Type = typeDisplay
		}
	}
	if g.root == NoNode && name == g.opts.Root {
		g.root = id
	}
	return id
}
