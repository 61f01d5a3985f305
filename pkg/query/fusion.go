package query

import (
	"sort"
	"strings"

	"github.com/docugraph/backend/pkg/common"
)

// maxRelevantEntities caps the combined relevant-entity set per query.
const maxRelevantEntities = 10

// mergeTopK flattens per-document search results into one global ranking:
// sorted by score descending, truncated to topK. Ties keep the relative
// order of first insertion, so the merge is deterministic for a given set
// of per-document result lists.
func mergeTopK(perDocument [][]common.ScoredChunk, topK int) []common.ScoredChunk {
	merged := make([]common.ScoredChunk, 0)
	for _, results := range perDocument {
		merged = append(merged, results...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if topK >= 0 && len(merged) > topK {
		merged = merged[:topK]
	}
	return merged
}

// queryKeywords derives match keywords from the query text by lowercasing
// and splitting on whitespace.
func queryKeywords(text string) []string {
	return strings.Fields(strings.ToLower(text))
}

// matchesKeywords reports whether the entity's name or description contains
// any keyword as a substring. Matching is deliberately loose; "cat" matches
// "category".
func matchesKeywords(entity common.Entity, keywords []string) bool {
	text := strings.ToLower(entity.Name + " " + entity.Description)
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// dedupeEntities removes duplicate entities by id, preserving first-seen
// order, and caps the result at maxRelevantEntities.
func dedupeEntities(entities []common.Entity) []common.Entity {
	seen := make(map[string]struct{}, len(entities))
	unique := make([]common.Entity, 0, len(entities))
	for _, entity := range entities {
		if _, ok := seen[entity.ID]; ok {
			continue
		}
		seen[entity.ID] = struct{}{}
		unique = append(unique, entity)
		if len(unique) == maxRelevantEntities {
			break
		}
	}
	return unique
}
