package common

import "testing"

func TestEntity_HasVersusNonEmpty(t *testing.T) {
	e := Entity{
		"present_nil":   nil,
		"empty_string":  "",
		"filled_string": "x",
		"zero_number":   0.0,
	}

	if !e.Has("present_nil") {
		t.Fatal("Has() should treat an explicit null as present")
	}
	if e.NonEmpty("present_nil") {
		t.Fatal("NonEmpty() should treat an explicit null as empty")
	}

	if !e.Has("empty_string") || e.NonEmpty("empty_string") {
		t.Fatal("empty string: present but not truthy")
	}
	if !e.NonEmpty("filled_string") {
		t.Fatal("filled string should be truthy")
	}
	if !e.NonEmpty("zero_number") {
		t.Fatal("a present number is truthy regardless of value")
	}

	if e.Has("missing") || e.NonEmpty("missing") {
		t.Fatal("missing key should be neither present nor truthy")
	}
}

func TestEntity_NumConversions(t *testing.T) {
	e := Entity{
		"f64": 1.5,
		"f32": float32(2.5),
		"i":   int(3),
		"i64": int64(4),
		"s":   "5",
	}

	tests := []struct {
		key  string
		want float64
	}{
		{"f64", 1.5},
		{"f32", 2.5},
		{"i", 3},
		{"i64", 4},
		{"s", 0},
		{"missing", 0},
	}
	for _, tt := range tests {
		if got := e.Num(tt.key); got != tt.want {
			t.Fatalf("Num(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestEntity_StrOr(t *testing.T) {
	e := Entity{"name": "", "label": "x"}
	if got := e.StrOr("name", "fallback"); got != "fallback" {
		t.Fatalf("StrOr on empty = %q", got)
	}
	if got := e.StrOr("label", "fallback"); got != "x" {
		t.Fatalf("StrOr on filled = %q", got)
	}
	if got := e.StrOr("missing", "fallback"); got != "fallback" {
		t.Fatalf("StrOr on missing = %q", got)
	}
}

func TestEdgeID(t *testing.T) {
	if got, want := EdgeID("u1", "SENT", "tx1"), "u1-SENT-tx1"; got != want {
		t.Fatalf("EdgeID() = %q, want %q", got, want)
	}
}

func TestGraph_NodeByID(t *testing.T) {
	g := &Graph{Nodes: []Node{{ID: "a"}, {ID: "b"}}}

	if n, ok := g.NodeByID("b"); !ok || n.ID != "b" {
		t.Fatalf("NodeByID(b) = %+v, %v", n, ok)
	}
	if _, ok := g.NodeByID("c"); ok {
		t.Fatal("NodeByID(c) should miss")
	}
}
