package graph

import (
	"testing"

	"github.com/finsight/graphview/pkg/api"
	"github.com/finsight/graphview/pkg/common"
)

func overlayTestGraph() *common.Graph {
	return &common.Graph{
		Nodes: []common.Node{
			{ID: "u1"}, {ID: "u2"}, {ID: "u3"}, {ID: "tx1"},
		},
		Edges: []common.Edge{
			{ID: "u1-SENT-tx1", SourceID: "u1", TargetID: "tx1", Type: "SENT"},
			{ID: "tx1-RECEIVED_BY-u2", SourceID: "tx1", TargetID: "u2", Type: "RECEIVED_BY"},
			{ID: "u2-SHARED_EMAIL-u3", SourceID: "u2", TargetID: "u3", Type: "SHARED_EMAIL"},
		},
	}
}

func TestPathOverlay_PartitionsEveryElement(t *testing.T) {
	g := overlayTestGraph()
	path := &api.PathResult{
		Found: true,
		Nodes: []common.Entity{{"id": "u1"}, {"id": "tx1"}, {"id": "u2"}},
		Relationships: []api.PathRelationship{
			{SourceID: "u1", TargetID: "tx1", Type: "SENT"},
			{SourceID: "tx1", TargetID: "u2", Type: "RECEIVED_BY"},
		},
	}

	o := PathOverlay(g, path)

	if len(o.Nodes) != len(g.Nodes) {
		t.Fatalf("overlay covers %d nodes, want %d", len(o.Nodes), len(g.Nodes))
	}
	if len(o.Edges) != len(g.Edges) {
		t.Fatalf("overlay covers %d edges, want %d", len(o.Edges), len(g.Edges))
	}

	for _, id := range []string{"u1", "tx1", "u2"} {
		if o.Nodes[id] != OverlayHighlighted {
			t.Fatalf("node %q = %q, want highlighted", id, o.Nodes[id])
		}
	}
	if o.Nodes["u3"] != OverlayFaded {
		t.Fatalf("node u3 = %q, want faded", o.Nodes["u3"])
	}

	if o.Edges["u1-SENT-tx1"] != OverlayHighlighted {
		t.Fatalf("path edge not highlighted")
	}
	if o.Edges["u2-SHARED_EMAIL-u3"] != OverlayFaded {
		t.Fatalf("off-path edge not faded")
	}
}

func TestPathOverlay_IgnoresMembersMissingFromSnapshot(t *testing.T) {
	g := overlayTestGraph()
	path := &api.PathResult{
		Found: true,
		Nodes: []common.Entity{{"id": "u1"}, {"id": "ghost"}},
		Relationships: []api.PathRelationship{
			{SourceID: "u1", TargetID: "ghost", Type: "SENT"},
		},
	}

	o := PathOverlay(g, path)

	if _, ok := o.Nodes["ghost"]; ok {
		t.Fatal("overlay contains a node absent from the snapshot")
	}
	if o.Nodes["u1"] != OverlayHighlighted {
		t.Fatalf("node u1 = %q, want highlighted", o.Nodes["u1"])
	}
}

func TestClusterOverlay_HighlightsMembersAndIncidentEdges(t *testing.T) {
	g := overlayTestGraph()

	o := ClusterOverlay(g, []string{"tx1", "u2"})

	if o.Nodes["tx1"] != OverlayHighlighted || o.Nodes["u2"] != OverlayHighlighted {
		t.Fatal("cluster members not highlighted")
	}
	if o.Nodes["u3"] != OverlayFaded {
		t.Fatalf("node u3 = %q, want faded", o.Nodes["u3"])
	}

	// An edge with either endpoint in the cluster is highlighted.
	for _, id := range []string{"u1-SENT-tx1", "tx1-RECEIVED_BY-u2", "u2-SHARED_EMAIL-u3"} {
		if o.Edges[id] != OverlayHighlighted {
			t.Fatalf("edge %q = %q, want highlighted", id, o.Edges[id])
		}
	}
}

func TestClearOverlay_IsEmpty(t *testing.T) {
	o := ClearOverlay()
	if len(o.Nodes) != 0 || len(o.Edges) != 0 {
		t.Fatalf("clear overlay not empty: %+v", o)
	}
}

func TestPathOverlay_EmptyPathFadesEverything(t *testing.T) {
	g := overlayTestGraph()
	o := PathOverlay(g, &api.PathResult{Found: false})

	for id, state := range o.Nodes {
		if state != OverlayFaded {
			t.Fatalf("node %q = %q, want faded", id, state)
		}
	}
	for id, state := range o.Edges {
		if state != OverlayFaded {
			t.Fatalf("edge %q = %q, want faded", id, state)
		}
	}
}
