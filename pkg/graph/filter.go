package graph

import (
	"github.com/finsight/graphview/pkg/common"
)

// Filter selects the induced subgraph to render: a node survives iff its
// category is enabled, an edge survives iff both endpoints survived and its
// relationship category is enabled.
type Filter struct {
	Categories    map[common.Category]bool
	Relationships map[RelationshipCategory]bool
}

// NewFilter returns a filter with every category enabled, matching the
// default state of the render surface's checkboxes.
func NewFilter() Filter {
	f := Filter{
		Categories:    make(map[common.Category]bool, 3),
		Relationships: make(map[RelationshipCategory]bool, 8),
	}
	for _, c := range []common.Category{common.CategoryUser, common.CategoryCompany, common.CategoryTransaction} {
		f.Categories[c] = true
	}
	for _, rc := range RelationshipCategories() {
		f.Relationships[rc] = true
	}
	return f
}

// Apply computes the induced subgraph. It is pure and idempotent: the input
// snapshot is never touched, so it can be re-applied with different filters
// without refetching anything.
func Apply(g *common.Graph, f Filter) *common.Graph {
	out := &common.Graph{
		Nodes: make([]common.Node, 0, len(g.Nodes)),
		Edges: make([]common.Edge, 0, len(g.Edges)),
	}

	kept := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if !f.Categories[n.Category] {
			continue
		}
		kept[n.ID] = true
		out.Nodes = append(out.Nodes, n)
	}

	for _, e := range g.Edges {
		if !kept[e.SourceID] || !kept[e.TargetID] {
			continue
		}
		if !f.Relationships[CategoryOfType(e.Type)] {
			continue
		}
		out.Edges = append(out.Edges, e)
	}

	return out
}
