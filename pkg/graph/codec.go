package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Description - External Wire Format
// =============================================================================

// Description is the external representation of a graph: an ordered list of
// node records followed by an ordered list of edge records. It is the body
// format of the render API and the file format of the CLI.
//
// Record order is significant. Layout and paint both follow it, so two
// descriptions that differ only in record order are different inputs and
// produce different fingerprints.
type Description struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges,omitempty" bson:"edges,omitempty"`
}

// ParseDescription decodes JSON bytes into an immutable [Graph].
//
// Decoding runs through a [Builder], so structural violations surface as the
// builder's sentinel errors: [ErrDuplicateNode], [ErrUnknownNode],
// [ErrInvalidNodeID], [ErrInvalidShape], [ErrInvalidArrow]. Malformed JSON
// is reported as a plain wrapped error.
func ParseDescription(data []byte) (*Graph, error) {
	var d Description
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal graph description: %w", err)
	}
	return BuildDescription(d)
}

// BuildDescription constructs an immutable [Graph] from an in-memory
// description, applying the same validation as incremental construction.
func BuildDescription(d Description) (*Graph, error) {
	b := NewBuilder()
	for _, n := range d.Nodes {
		if err := b.AddNode(n); err != nil {
			return nil, err
		}
	}
	for _, e := range d.Edges {
		if err := b.AddEdge(e); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

// Description exports the graph back to its wire representation, preserving
// insertion order.
func (g *Graph) Description() Description {
	return Description{
		Nodes: g.Nodes(),
		Edges: g.Edges(),
	}
}

// MarshalDescription serializes a description to pretty-printed JSON bytes.
func MarshalDescription(d Description) ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// ReadDescriptionFile reads and parses a graph description from a JSON file.
func ReadDescriptionFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseDescription(data)
}

// WriteDescriptionFile writes a graph's description to a JSON file.
func WriteDescriptionFile(g *Graph, path string) error {
	data, err := MarshalDescription(g.Description())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
