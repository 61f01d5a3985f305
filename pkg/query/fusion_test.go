package query

import (
	"reflect"
	"testing"

	"github.com/docugraph/backend/pkg/common"
)

func scored(id string, score float64) common.ScoredChunk {
	return common.ScoredChunk{Chunk: common.Chunk{ID: id}, Score: score}
}

func TestMergeTopK(t *testing.T) {
	tests := []struct {
		name        string
		perDocument [][]common.ScoredChunk
		topK        int
		wantIDs     []string
		wantScores  []float64
	}{
		{
			name:        "empty input",
			perDocument: nil,
			topK:        5,
			wantIDs:     []string{},
			wantScores:  []float64{},
		},
		{
			name: "global ranking across documents",
			perDocument: [][]common.ScoredChunk{
				{scored("a1", 0.9), scored("a2", 0.5)},
				{scored("b1", 0.8), scored("b2", 0.3)},
			},
			topK:       3,
			wantIDs:    []string{"a1", "b1", "a2"},
			wantScores: []float64{0.9, 0.8, 0.5},
		},
		{
			name: "ties keep first-insertion order",
			perDocument: [][]common.ScoredChunk{
				{scored("a1", 0.7)},
				{scored("b1", 0.7), scored("b2", 0.7)},
			},
			topK:       3,
			wantIDs:    []string{"a1", "b1", "b2"},
			wantScores: []float64{0.7, 0.7, 0.7},
		},
		{
			name: "fewer results than topK",
			perDocument: [][]common.ScoredChunk{
				{scored("a1", 0.4)},
			},
			topK:       10,
			wantIDs:    []string{"a1"},
			wantScores: []float64{0.4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeTopK(tt.perDocument, tt.topK)
			gotIDs := make([]string, 0, len(got))
			gotScores := make([]float64, 0, len(got))
			for _, chunk := range got {
				gotIDs = append(gotIDs, chunk.ID)
				gotScores = append(gotScores, chunk.Score)
			}
			if !reflect.DeepEqual(gotIDs, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", gotIDs, tt.wantIDs)
			}
			if !reflect.DeepEqual(gotScores, tt.wantScores) {
				t.Errorf("scores = %v, want %v", gotScores, tt.wantScores)
			}
		})
	}
}

func TestQueryKeywords(t *testing.T) {
	got := queryKeywords("  Where does Alice   WORK? ")
	want := []string{"where", "does", "alice", "work?"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("queryKeywords() = %v, want %v", got, want)
	}
}

func TestMatchesKeywords(t *testing.T) {
	entity := common.Entity{Name: "Acme Corp", Description: "A technology company"}

	tests := []struct {
		name     string
		keywords []string
		want     bool
	}{
		{name: "name match", keywords: []string{"acme"}, want: true},
		{name: "description match", keywords: []string{"technology"}, want: true},
		{name: "substring match", keywords: []string{"tech"}, want: true},
		{name: "no match", keywords: []string{"banana"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesKeywords(entity, tt.keywords); got != tt.want {
				t.Errorf("matchesKeywords(%v) = %v, want %v", tt.keywords, got, tt.want)
			}
		})
	}
}

func TestDedupeEntities(t *testing.T) {
	entities := make([]common.Entity, 0, 15)
	for _, id := range []string{"a", "b", "a", "c", "b"} {
		entities = append(entities, common.Entity{ID: id})
	}

	got := dedupeEntities(entities)
	gotIDs := make([]string, 0, len(got))
	for _, e := range got {
		gotIDs = append(gotIDs, e.ID)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(gotIDs, want) {
		t.Errorf("ids = %v, want %v", gotIDs, want)
	}
}

func TestDedupeEntitiesCap(t *testing.T) {
	entities := make([]common.Entity, 0, 2*maxRelevantEntities)
	for i := range 2 * maxRelevantEntities {
		entities = append(entities, common.Entity{ID: string(rune('a' + i))})
	}

	got := dedupeEntities(entities)
	if len(got) != maxRelevantEntities {
		t.Errorf("len = %d, want %d", len(got), maxRelevantEntities)
	}
}
