package graph

// Attach records that parent's definition references refs, in order.
//
// Unless the graph is in complete mode, repeated targets within refs and
// targets already among parent's callees are dropped, and parent is added
// to each remaining callee's callers at most once. In complete mode every
// reference produces a callee edge and a caller back-link.
func (g *Graph) Attach(parent NodeID, refs []NodeID) {
	if len(refs) == 0 {
		return
	}

	if g.opts.Complete {
		for _, callee := range refs {
			c := &g.nodes[callee]
			c.Callers = append(c.Callers, parent)
		}
		p := &g.nodes[parent]
		p.Callees = append(p.Callees, refs...)
		return
	}

	existing := g.nodes[parent].Callees
	seen := make(map[NodeID]struct{}, len(existing)+len(refs))
	for _, id := range existing {
		seen[id] = struct{}{}
	}

	fresh := make([]NodeID, 0, len(refs))
	for _, id := range refs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		fresh = append(fresh, id)
	}

	for _, callee := range fresh {
		c := &g.nodes[callee]
		if !containsID(c.Callers, parent) {
			c.Callers = append(c.Callers, parent)
		}
	}

	p := &g.nodes[parent]
	p.Callees = append(p.Callees, fresh...)
}

// RecordReferences resolves definingName and every referenced name, creating
// forward references as needed, and attaches the references to the defining
// node.
func (g *Graph) RecordReferences(definingName string, names []string) {
	parent := g.ResolveOrCreate(definingName)
	refs := make([]NodeID, 0, len(names))
	for _, name := range names {
		refs = append(refs, g.ResolveOrCreate(name))
	}
	g.Attach(parent, refs)
}

func containsID(ids []NodeID, id NodeID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
