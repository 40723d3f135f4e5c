package render

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/clipperviz/clipper/pkg/graph"
	"github.com/clipperviz/clipper/pkg/style"
)

// fingerprintVersion is part of the digest input, so a change to the
// canonical document shape produces new fingerprints instead of colliding
// with artifacts cached under the old shape.
const fingerprintVersion = 1

// fingerprintDoc is the canonical digest input: graph content in insertion
// order plus the canonical bytes of the normalized style.
type fingerprintDoc struct {
	Version int             `json:"version"`
	Nodes   []graph.Node    `json:"nodes"`
	Edges   []graph.Edge    `json:"edges"`
	Style   json.RawMessage `json:"style"`
}

// Fingerprint computes the content digest identifying a (graph, style) pair:
// a hex SHA-256 over the canonical JSON document of the graph's nodes and
// edges in insertion order and the normalized style. Equal inputs always
// produce equal fingerprints; styles that differ only in omitted defaults
// normalize to the same digest.
func Fingerprint(g *graph.Graph, st style.Style) (string, error) {
	styleBytes, err := st.Canonical()
	if err != nil {
		return "", err
	}

	doc := fingerprintDoc{
		Version: fingerprintVersion,
		Nodes:   g.Nodes(),
		Edges:   g.Edges(),
		Style:   styleBytes,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal fingerprint document: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Seed derives the deterministic layout seed from a fingerprint: its first
// eight bytes read big-endian. A malformed fingerprint yields zero, which
// the layout engine treats as any other seed.
func Seed(fingerprint string) uint64 {
	if len(fingerprint) < 16 {
		return 0
	}
	raw, err := hex.DecodeString(fingerprint[:16])
	if err != nil {
		return 0
	}
	return binary.BigEndian.Uint64(raw)
}

// shortFP abbreviates a fingerprint for log lines and error messages.
func shortFP(fingerprint string) string {
	if len(fingerprint) > 12 {
		return fingerprint[:12]
	}
	return fingerprint
}
