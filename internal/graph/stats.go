package graph

// Stats summarizes a graph.
type Stats struct {
	TotalNodes  int `json:"totalNodes" yaml:"totalNodes"`
	TotalEdges  int `json:"totalEdges" yaml:"totalEdges"`
	Functions   int `json:"functions" yaml:"functions"`
	Variables   int `json:"variables" yaml:"variables"`
	ForwardRefs int `json:"forwardRefs" yaml:"forwardRefs"`
	Roots       int `json:"roots" yaml:"roots"` // nodes with no callers
}

// Stats returns statistics about the graph.
func (g *Graph) Stats() Stats {
	s := Stats{TotalNodes: len(g.nodes)}
	for i := range g.nodes {
		n := &g.nodes[i]
		s.TotalEdges += len(n.Callees)
		switch {
		case !n.Defined():
			s.ForwardRefs++
		case n.Kind == KindVariable:
			s.Variables++
		default:
			s.Functions++
		}
		if len(n.Callers) == 0 {
			s.Roots++
		}
	}
	return s
}
