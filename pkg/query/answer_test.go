package query

import (
	"strings"
	"testing"

	"github.com/docugraph/backend/pkg/common"
)

func TestBuildContext(t *testing.T) {
	chunks := []common.ScoredChunk{
		{Chunk: common.Chunk{ID: "c1", Text: "Alice works at Acme Corp."}, Score: 0.9},
		{Chunk: common.Chunk{ID: "c2", Text: "Acme Corp builds rockets."}, Score: 0.8},
	}
	entities := []common.Entity{
		{ID: "e1", Name: "Alice", Type: "PERSON", Description: "An engineer"},
		{ID: "e2", Name: "Acme Corp", Type: "ORG"},
	}
	view := &common.GraphView{
		Nodes: []common.GraphNode{
			{ID: "e1", Name: "Alice"},
			{ID: "e2", Name: "Acme Corp"},
		},
		Edges: []common.GraphEdge{
			{Source: "e1", Target: "e2", Type: "works_at"},
			{Source: "e1", Target: "missing", Type: "knows"},
		},
	}

	got := buildContext(chunks, entities, view)

	for _, want := range []string{
		"Retrieved Information:",
		"[1] Alice works at Acme Corp.",
		"[2] Acme Corp builds rockets.",
		"Relevant Entities:",
		"- Alice (PERSON) - An engineer",
		"- Acme Corp (ORG)",
		"Relationships:",
		"- Alice works_at Acme Corp",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q:\n%s", want, got)
		}
	}

	if strings.Contains(got, "knows") {
		t.Errorf("relationship with unresolved endpoint must be skipped:\n%s", got)
	}
}

func TestBuildContextRelationshipLimit(t *testing.T) {
	nodes := make([]common.GraphNode, 0, 8)
	edges := make([]common.GraphEdge, 0, 8)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		nodes = append(nodes, common.GraphNode{ID: id, Name: "node-" + id})
	}
	for i := 0; i < 7; i++ {
		edges = append(edges, common.GraphEdge{Source: nodes[i].ID, Target: nodes[i+1].ID, Type: "linked_to"})
	}
	view := &common.GraphView{Nodes: nodes, Edges: edges}

	got := buildContext(nil, nil, view)
	if count := strings.Count(got, "linked_to"); count != maxContextRelationships {
		t.Errorf("relationship lines = %d, want %d", count, maxContextRelationships)
	}
}

func TestBuildContextEmpty(t *testing.T) {
	if got := buildContext(nil, nil, nil); got != "" {
		t.Errorf("buildContext() = %q, want empty", got)
	}
}
