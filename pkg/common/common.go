package common

// Category is the inferred display classification of an entity. It is never
// stored on the wire; the classifier derives it from an entity's fields.
type Category string

const (
	CategoryUser        Category = "user"
	CategoryCompany     Category = "company"
	CategoryTransaction Category = "transaction"
)

// Known reports whether c is one of the three display categories.
func (c Category) Known() bool {
	switch c {
	case CategoryUser, CategoryCompany, CategoryTransaction:
		return true
	}
	return false
}

// Entity is a raw record returned by the graph API: an arbitrary field mapping
// with a unique string id. The pipeline never mutates an entity after decoding;
// node attributes are derived from it, not written back into it.
type Entity map[string]any

// ID returns the entity's unique identifier, or "" if absent.
func (e Entity) ID() string {
	return e.Str("id")
}

// Str returns the string value of key, or "" when the key is absent or not a
// string.
func (e Entity) Str(key string) string {
	if v, ok := e[key].(string); ok {
		return v
	}
	return ""
}

// StrOr returns the string value of key, or def when absent or empty.
func (e Entity) StrOr(key, def string) string {
	if v := e.Str(key); v != "" {
		return v
	}
	return def
}

// Num returns the numeric value of key as a float64. Missing or non-numeric
// values yield 0.
func (e Entity) Num(key string) float64 {
	switch v := e[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

// Has reports whether the key is present at all, mirroring a JS
// `!== undefined` presence check: an explicit null still counts as present.
func (e Entity) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// NonEmpty reports whether the key holds a truthy value: present, non-nil,
// and not the empty string.
func (e Entity) NonEmpty(key string) bool {
	v, ok := e[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return s != ""
	}
	return true
}

// Map returns the nested mapping under key, or nil.
func (e Entity) Map(key string) map[string]any {
	if v, ok := e[key].(map[string]any); ok {
		return v
	}
	return nil
}

// Node is a render-ready graph node owned by the assembly pipeline. Identity
// is ID; the pipeline never holds two nodes with the same id.
type Node struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Category Category `json:"category"`
	Size     float64  `json:"size"`
	Entity   Entity   `json:"entity"`
}

// Edge is a typed relationship between two nodes. Its ID is derived
// deterministically from the endpoints and the relationship type, which makes
// insertion idempotent.
type Edge struct {
	ID         string         `json:"id"`
	SourceID   string         `json:"source"`
	TargetID   string         `json:"target"`
	Type       string         `json:"type"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties,omitempty"`
}

// EdgeID derives the deterministic edge identifier. Inserting the same logical
// edge twice therefore collapses to a single entry.
func EdgeID(sourceID, relType, targetID string) string {
	return sourceID + "-" + relType + "-" + targetID
}

// Graph is an assembled snapshot: deduplicated nodes and edges in a
// deterministic (id-sorted) order. Consumers derive filtered or overlaid views
// from it; nobody mutates it in place after assembly.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeByID returns the node with the given id, if present.
func (g *Graph) NodeByID(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}
