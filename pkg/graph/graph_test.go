package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperr "github.com/matzehuels/reasongraph/pkg/errors"
)

func TestGroupColor(t *testing.T) {
	tests := []struct {
		group int
		want  string
	}{
		{GroupSync, ColorGreen},
		{GroupPath, ColorBlue},
		{GroupOrigin, ColorRed},
		{0, ColorRed},
		{-7, ColorRed},
		{42, ColorRed},
	}
	for _, tt := range tests {
		if got := GroupColor(tt.group); got != tt.want {
			t.Errorf("GroupColor(%d) = %s, want %s", tt.group, got, tt.want)
		}
		if got := (Node{ID: "n", Group: tt.group}).Color(); got != tt.want {
			t.Errorf("Node.Color() for group %d = %s, want %s", tt.group, got, tt.want)
		}
	}
}

func TestSeed(t *testing.T) {
	g := Seed()
	if g.NodeCount() != 5 {
		t.Errorf("NodeCount() = %d, want 5", g.NodeCount())
	}
	if g.LinkCount() != 4 {
		t.Errorf("LinkCount() = %d, want 4", g.LinkCount())
	}
	if err := Validate(g); err != nil {
		t.Fatalf("seed should be valid: %v", err)
	}

	sync, ok := g.Node("sync")
	if !ok {
		t.Fatal("seed has no sync node")
	}
	if sync.Color() != ColorGreen {
		t.Errorf("sync color = %s, want %s", sync.Color(), ColorGreen)
	}

	inbound := 0
	for _, l := range g.Links {
		if l.Target == "sync" {
			inbound++
		}
	}
	if inbound != 2 {
		t.Errorf("links into sync = %d, want 2", inbound)
	}

	// Each call returns an independent value.
	other := Seed()
	other.Nodes[0].ID = "changed"
	if g.Nodes[0].ID != "you" {
		t.Error("Seed() values share storage")
	}
}

func TestClone(t *testing.T) {
	g := Seed()
	c := g.Clone()
	if c == g {
		t.Fatal("Clone() returned same pointer")
	}
	c.Links[0].Target = "sync"
	if g.Links[0].Target != "path1" {
		t.Error("Clone() shares link storage")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		graph   *Graph
		wantErr string
	}{
		{name: "seed", graph: Seed()},
		{name: "empty", graph: &Graph{}},
		{name: "nil", graph: nil, wantErr: "nil"},
		{
			name:    "duplicate",
			graph:   &Graph{Nodes: []Node{{ID: "a"}, {ID: "a"}}},
			wantErr: `duplicate id "a"`,
		},
		{
			name:    "empty id",
			graph:   &Graph{Nodes: []Node{{ID: ""}}},
			wantErr: "cannot be empty",
		},
		{
			name: "dangling target",
			graph: &Graph{
				Nodes: []Node{{ID: "a"}},
				Links: []Link{{Source: "a", Target: "ghost"}},
			},
			wantErr: `unknown target "ghost"`,
		},
		{
			name: "dangling source",
			graph: &Graph{
				Nodes: []Node{{ID: "a"}},
				Links: []Link{{Source: "ghost", Target: "a"}},
			},
			wantErr: `unknown source "ghost"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.graph)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
			if !apperr.Is(err, apperr.ErrCodeInvalidGraph) {
				t.Errorf("code = %v, want %v", apperr.GetCode(err), apperr.ErrCodeInvalidGraph)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "a", Group: 1},
			{ID: "b", Group: 2},
			{ID: "a", Group: 3},
			{ID: ""},
		},
		Links: []Link{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "missing"},
			{Source: "nowhere", Target: "a"},
		},
	}

	res := Resolve(g)
	if res.Clean() {
		t.Fatal("Clean() = true, want false")
	}
	if got := res.Graph.NodeCount(); got != 2 {
		t.Errorf("nodes = %d, want 2", got)
	}
	if got := res.Graph.LinkCount(); got != 1 {
		t.Errorf("links = %d, want 1", got)
	}
	if len(res.DroppedNodes) != 2 {
		t.Errorf("dropped nodes = %d, want 2", len(res.DroppedNodes))
	}
	if len(res.DroppedLinks) != 2 {
		t.Errorf("dropped links = %d, want 2", len(res.DroppedLinks))
	}
	if a, _ := res.Graph.Node("a"); a.Group != 1 {
		t.Errorf("first node should win, got group %d", a.Group)
	}
	if err := Validate(res.Graph); err != nil {
		t.Errorf("resolved graph should validate: %v", err)
	}

	if !Resolve(Seed()).Clean() {
		t.Error("seed should resolve cleanly")
	}
	if got := Resolve(nil).Graph.NodeCount(); got != 0 {
		t.Errorf("Resolve(nil) nodes = %d, want 0", got)
	}
}

func TestMarshalGraph(t *testing.T) {
	data, err := MarshalGraph(Seed())
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}

	var raw map[string][]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(raw["nodes"]) != 5 || len(raw["links"]) != 4 {
		t.Errorf("got %d nodes, %d links", len(raw["nodes"]), len(raw["links"]))
	}
	if raw["links"][0]["source"] != "you" || raw["links"][0]["target"] != "path1" {
		t.Errorf("first link = %v", raw["links"][0])
	}

	empty, err := MarshalGraph(nil)
	if err != nil {
		t.Fatalf("MarshalGraph(nil): %v", err)
	}
	if !bytes.Contains(empty, []byte(`"nodes": []`)) {
		t.Errorf("empty graph should encode empty arrays, got %s", empty)
	}
}

func TestReadGraph(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in := `{"nodes":[{"id":"a","group":3},{"id":"b"}],"links":[{"source":"a","target":"b"}]}`
		g, err := ReadGraph(strings.NewReader(in))
		if err != nil {
			t.Fatalf("ReadGraph: %v", err)
		}
		if g.NodeCount() != 2 || g.LinkCount() != 1 {
			t.Errorf("got %d nodes, %d links", g.NodeCount(), g.LinkCount())
		}
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := ReadGraph(strings.NewReader(`{"nodes":`))
		if !apperr.Is(err, apperr.ErrCodeInvalidFormat) {
			t.Errorf("error = %v, want INVALID_FORMAT", err)
		}
	})

	t.Run("dangling link", func(t *testing.T) {
		in := `{"nodes":[{"id":"a"}],"links":[{"source":"a","target":"b"}]}`
		_, err := ReadGraph(strings.NewReader(in))
		if !apperr.Is(err, apperr.ErrCodeInvalidGraph) {
			t.Errorf("error = %v, want INVALID_GRAPH", err)
		}
	})
}

func TestGraphFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteGraphFile(Seed(), path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if g.NodeCount() != 5 || g.LinkCount() != 4 {
		t.Errorf("got %d nodes, %d links", g.NodeCount(), g.LinkCount())
	}

	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}
