package graph

import (
	"github.com/finsight/graphview/pkg/api"
	"github.com/finsight/graphview/pkg/common"
)

// OverlayState is the presentation flag an overlay assigns to an element. The
// two states are mutually exclusive; an element absent from an overlay is
// neutral.
type OverlayState string

const (
	OverlayHighlighted OverlayState = "highlighted"
	OverlayFaded       OverlayState = "faded"
)

// Overlay is a pure render instruction set computed from (snapshot, target).
// It never touches the underlying node/edge data; the render surface applies
// the flags and discards them on the next overlay. Every element of the
// snapshot it was computed from appears in exactly one of the two states.
type Overlay struct {
	Nodes map[string]OverlayState `json:"nodes"`
	Edges map[string]OverlayState `json:"edges"`
}

// ClearOverlay is the neutral overlay: no element faded, no element
// highlighted. Applying it to an already-clear graph is a no-op.
func ClearOverlay() Overlay {
	return Overlay{
		Nodes: make(map[string]OverlayState),
		Edges: make(map[string]OverlayState),
	}
}

// PathOverlay highlights a shortest-path result: the path's nodes plus the
// edges connecting consecutive path nodes. Everything else in the snapshot
// fades. Path members missing from the snapshot are ignored.
func PathOverlay(g *common.Graph, path *api.PathResult) Overlay {
	keepNodes := make(map[string]bool, len(path.Nodes))
	for _, e := range path.Nodes {
		if id := e.ID(); id != "" {
			keepNodes[id] = true
		}
	}

	type hop struct{ source, target string }
	keepHops := make(map[hop]bool, len(path.Relationships))
	for _, rel := range path.Relationships {
		keepHops[hop{rel.SourceID, rel.TargetID}] = true
	}

	o := ClearOverlay()
	for _, n := range g.Nodes {
		if keepNodes[n.ID] {
			o.Nodes[n.ID] = OverlayHighlighted
		} else {
			o.Nodes[n.ID] = OverlayFaded
		}
	}
	for _, e := range g.Edges {
		if keepHops[hop{e.SourceID, e.TargetID}] {
			o.Edges[e.ID] = OverlayHighlighted
		} else {
			o.Edges[e.ID] = OverlayFaded
		}
	}
	return o
}

// ClusterOverlay highlights a cluster: the member nodes plus every edge
// incident to a member. Everything else fades.
func ClusterOverlay(g *common.Graph, memberIDs []string) Overlay {
	members := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		if id != "" {
			members[id] = true
		}
	}

	o := ClearOverlay()
	for _, n := range g.Nodes {
		if members[n.ID] {
			o.Nodes[n.ID] = OverlayHighlighted
		} else {
			o.Nodes[n.ID] = OverlayFaded
		}
	}
	for _, e := range g.Edges {
		if members[e.SourceID] || members[e.TargetID] {
			o.Edges[e.ID] = OverlayHighlighted
		} else {
			o.Edges[e.ID] = OverlayFaded
		}
	}
	return o
}
