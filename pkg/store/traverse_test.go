package store

import (
	"reflect"
	"testing"

	"github.com/docugraph/backend/pkg/common"
)

func edges(pairs ...[2]string) []common.GraphEdge {
	out := make([]common.GraphEdge, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, common.GraphEdge{Source: p[0], Target: p[1], Type: "related_to"})
	}
	return out
}

func TestExpandFrom(t *testing.T) {
	// a - b - c - d, plus a - e
	adj := BuildAdjacency(edges(
		[2]string{"a", "b"},
		[2]string{"b", "c"},
		[2]string{"c", "d"},
		[2]string{"a", "e"},
	))

	tests := []struct {
		name     string
		seeds    []string
		maxDepth int
		want     []NodeDistance
	}{
		{
			name:     "depth zero returns only seeds",
			seeds:    []string{"a"},
			maxDepth: 0,
			want:     []NodeDistance{{ID: "a", Distance: 0}},
		},
		{
			name:     "depth one",
			seeds:    []string{"a"},
			maxDepth: 1,
			want: []NodeDistance{
				{ID: "a", Distance: 0},
				{ID: "b", Distance: 1},
				{ID: "e", Distance: 1},
			},
		},
		{
			name:     "depth two excludes nodes farther away",
			seeds:    []string{"a"},
			maxDepth: 2,
			want: []NodeDistance{
				{ID: "a", Distance: 0},
				{ID: "b", Distance: 1},
				{ID: "e", Distance: 1},
				{ID: "c", Distance: 2},
			},
		},
		{
			name:     "traversal is undirected",
			seeds:    []string{"d"},
			maxDepth: 1,
			want: []NodeDistance{
				{ID: "d", Distance: 0},
				{ID: "c", Distance: 1},
			},
		},
		{
			name:     "duplicate seeds are collapsed",
			seeds:    []string{"a", "a"},
			maxDepth: 0,
			want:     []NodeDistance{{ID: "a", Distance: 0}},
		},
		{
			name:     "no seeds",
			seeds:    nil,
			maxDepth: 2,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandFrom(adj, tt.seeds, tt.maxDepth)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExpandFrom() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandFromOrdersByAscendingDistance(t *testing.T) {
	adj := BuildAdjacency(edges(
		[2]string{"hub", "n1"},
		[2]string{"hub", "n2"},
		[2]string{"n1", "far1"},
		[2]string{"n2", "far2"},
	))

	got := ExpandFrom(adj, []string{"hub"}, 2)
	last := -1
	for _, nd := range got {
		if nd.Distance < last {
			t.Fatalf("distances not ascending: %v", got)
		}
		last = nd.Distance
	}
	if last != 2 {
		t.Errorf("expected max distance 2, got %d", last)
	}
}

func TestShortestPath(t *testing.T) {
	adj := BuildAdjacency(edges(
		[2]string{"a", "b"},
		[2]string{"b", "c"},
		[2]string{"a", "d"},
		[2]string{"d", "c"},
		[2]string{"x", "y"},
	))

	tests := []struct {
		name string
		from string
		to   string
		want []string
	}{
		{name: "direct neighbor", from: "a", to: "b", want: []string{"a", "b"}},
		{name: "same node", from: "a", to: "a", want: []string{"a"}},
		{name: "two hops", from: "b", to: "d", want: []string{"b", "a", "d"}},
		{name: "disconnected", from: "a", to: "x", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShortestPath(adj, tt.from, tt.to)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ShortestPath(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestShortestPathLength(t *testing.T) {
	// a-b-c-z and a-z: the direct edge must win.
	adj := BuildAdjacency(edges(
		[2]string{"a", "b"},
		[2]string{"b", "c"},
		[2]string{"c", "z"},
		[2]string{"a", "z"},
	))
	got := ShortestPath(adj, "a", "z")
	if len(got) != 2 {
		t.Errorf("expected path of 2 nodes, got %v", got)
	}
}
