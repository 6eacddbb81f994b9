package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/reasongraph/pkg/graph"
)

func TestToDOTSeed(t *testing.T) {
	dot := ToDOT(graph.Seed(), Options{})

	for _, want := range []string{
		"digraph G",
		"layout=neato",
		`"sync" [fillcolor="#22c55e"`,
		`"path1" [fillcolor="#3b82f6"`,
		`"you" [fillcolor="#f43f5e"`,
		`"you" -> "path1"`,
		`"path2" -> "sync"`,
		`size="8.333,5.556"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if got := strings.Count(dot, "->"); got != 4 {
		t.Errorf("edges = %d, want 4", got)
	}
	if strings.Contains(dot, "xlabel") {
		t.Error("labels should be off by default")
	}
}

func TestToDOTLabels(t *testing.T) {
	dot := ToDOT(graph.Seed(), Options{Labels: true})
	if !strings.Contains(dot, `xlabel="sync"`) {
		t.Error("Labels option should add xlabel")
	}
}

func TestToDOTHeadingAndCaption(t *testing.T) {
	dot := ToDOT(graph.Seed(), Options{Heading: "Reasoning", Caption: "short caption"})
	for _, want := range []string{`label="Reasoning\nshort caption";`, "labelloc=t;"} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}

	if plain := ToDOT(graph.Seed(), Options{}); strings.Contains(plain, "labelloc") {
		t.Error("graph label should only appear when requested")
	}
}

func TestToDOTSkipsMalformedLinks(t *testing.T) {
	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "a"}},
		Links: []graph.Link{{Source: "a", Target: "ghost"}},
	}
	dot := ToDOT(g, Options{})
	if strings.Contains(dot, "ghost") {
		t.Errorf("malformed link leaked into DOT:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox should pass through, got %s", got)
	}
}
