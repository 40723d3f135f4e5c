package render

import (
	"strings"
	"testing"

	"github.com/clipperviz/clipper/pkg/graph"
	"github.com/clipperviz/clipper/pkg/style"
)

func buildGraph(t *testing.T, d graph.Description) *graph.Graph {
	t.Helper()
	g, err := graph.BuildDescription(d)
	if err != nil {
		t.Fatalf("build graph: %v", err)
	}
	return g
}

func twoNodeGraph(t *testing.T) *graph.Graph {
	t.Helper()
	return buildGraph(t, graph.Description{
		Nodes: []graph.Node{{ID: "a", Label: "Alpha"}, {ID: "b", Label: "Beta"}},
		Edges: []graph.Edge{{Source: "a", Target: "b", Directed: true}},
	})
}

func TestFingerprintDeterministic(t *testing.T) {
	g := twoNodeGraph(t)

	fp1, err := Fingerprint(g, style.Style{})
	if err != nil {
		t.Fatalf("Fingerprint error: %v", err)
	}
	fp2, err := Fingerprint(g, style.Style{})
	if err != nil {
		t.Fatalf("Fingerprint error: %v", err)
	}
	if fp1 != fp2 {
		t.Errorf("identical inputs produced different fingerprints: %s vs %s", fp1, fp2)
	}
	if len(fp1) != 64 {
		t.Errorf("fingerprint length = %d, want 64", len(fp1))
	}
}

func TestFingerprintNormalizesStyle(t *testing.T) {
	g := twoNodeGraph(t)

	implicit, err := Fingerprint(g, style.Style{})
	if err != nil {
		t.Fatalf("Fingerprint error: %v", err)
	}
	explicit, err := Fingerprint(g, style.Default())
	if err != nil {
		t.Fatalf("Fingerprint error: %v", err)
	}
	if implicit != explicit {
		t.Error("omitted and spelled-out defaults should share a fingerprint")
	}

	partial, err := Fingerprint(g, style.Style{Engine: style.EngineHierarchical})
	if err != nil {
		t.Fatalf("Fingerprint error: %v", err)
	}
	if partial != implicit {
		t.Error("an explicit default option should not change the fingerprint")
	}
}

func TestFingerprintDiverges(t *testing.T) {
	g := twoNodeGraph(t)
	base, err := Fingerprint(g, style.Style{})
	if err != nil {
		t.Fatalf("Fingerprint error: %v", err)
	}

	t.Run("different style", func(t *testing.T) {
		fp, err := Fingerprint(g, style.Style{Format: style.FormatPNG})
		if err != nil {
			t.Fatalf("Fingerprint error: %v", err)
		}
		if fp == base {
			t.Error("different formats should produce different fingerprints")
		}
	})

	t.Run("different graph", func(t *testing.T) {
		g2 := buildGraph(t, graph.Description{
			Nodes: []graph.Node{{ID: "a", Label: "Alpha"}, {ID: "b", Label: "Beta"}, {ID: "c"}},
			Edges: []graph.Edge{{Source: "a", Target: "b", Directed: true}},
		})
		fp, err := Fingerprint(g2, style.Style{})
		if err != nil {
			t.Fatalf("Fingerprint error: %v", err)
		}
		if fp == base {
			t.Error("different node sets should produce different fingerprints")
		}
	})

	t.Run("different node order", func(t *testing.T) {
		g2 := buildGraph(t, graph.Description{
			Nodes: []graph.Node{{ID: "b", Label: "Beta"}, {ID: "a", Label: "Alpha"}},
			Edges: []graph.Edge{{Source: "a", Target: "b", Directed: true}},
		})
		fp, err := Fingerprint(g2, style.Style{})
		if err != nil {
			t.Fatalf("Fingerprint error: %v", err)
		}
		if fp == base {
			t.Error("insertion order is significant and should change the fingerprint")
		}
	})
}

func TestFingerprintInvalidStyle(t *testing.T) {
	g := twoNodeGraph(t)
	if _, err := Fingerprint(g, style.Style{Engine: "quantum"}); err == nil {
		t.Error("unknown engine should fail the fingerprint")
	}
}

func TestSeed(t *testing.T) {
	tests := []struct {
		name        string
		fingerprint string
		want        uint64
	}{
		{"low bits", "0000000000000001" + strings.Repeat("0", 48), 1},
		{"all ones", strings.Repeat("f", 64), ^uint64(0)},
		{"big endian order", "0100000000000000" + strings.Repeat("0", 48), 1 << 56},
		{"too short", "abc123", 0},
		{"not hex", strings.Repeat("z", 64), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Seed(tt.fingerprint); got != tt.want {
				t.Errorf("Seed(%q) = %d, want %d", tt.fingerprint, got, tt.want)
			}
		})
	}
}

func TestShortFP(t *testing.T) {
	long := strings.Repeat("a", 64)
	if got := shortFP(long); got != strings.Repeat("a", 12) {
		t.Errorf("shortFP(long) = %q", got)
	}
	if got := shortFP("ab12"); got != "ab12" {
		t.Errorf("shortFP(short) = %q", got)
	}
}
