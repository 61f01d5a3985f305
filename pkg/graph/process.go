package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/docugraph/backend/pkg/ai"
	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// maxExtractionChunks bounds how much chunk text is concatenated into a
// single extraction prompt.
const maxExtractionChunks = 10

// GraphWriter is the slice of the knowledge graph store needed to persist an
// extraction pass.
type GraphWriter interface {
	CreateEntity(ctx context.Context, entity common.Entity) error
	CreateRelationship(ctx context.Context, rel common.Relationship) error
	FindEntity(ctx context.Context, documentID int64, name string, entityType string) (*common.Entity, error)
}

// ProcessResult summarizes one graph population pass over a document.
type ProcessResult struct {
	Entities      int
	Relationships int
}

// ProcessForGraph extracts entities and relationships from the document's
// chunks and persists them. Only the first few chunks feed the extraction
// prompt; entities dedup against the store by (document, name, type), and
// relationships resolve their endpoints against entity names of this pass
// only, case-insensitively. Unresolvable relationships are dropped.
func ProcessForGraph(
	ctx context.Context,
	client ai.GraphAIClient,
	graphStore GraphWriter,
	documentID int64,
	userID int64,
	chunks []common.Chunk,
) (ProcessResult, error) {
	if len(chunks) == 0 {
		return ProcessResult{}, nil
	}

	capped := chunks
	if len(capped) > maxExtractionChunks {
		capped = capped[:maxExtractionChunks]
	}
	texts := make([]string, 0, len(capped))
	for _, chunk := range capped {
		texts = append(texts, chunk.Text)
	}

	parsedEntities, parsedRelationships := Extract(ctx, client, strings.Join(texts, "\n\n"))
	if len(parsedEntities) == 0 {
		return ProcessResult{}, nil
	}

	var result ProcessResult

	// Entity names of this pass, lowercased, for endpoint resolution.
	idByName := make(map[string]string, len(parsedEntities))

	for _, parsed := range parsedEntities {
		existing, err := graphStore.FindEntity(ctx, documentID, parsed.Name, parsed.Type)
		if err != nil {
			return result, fmt.Errorf("failed to check for existing entity: %w", err)
		}

		var entity common.Entity
		if existing != nil {
			entity = *existing
			entity.Description = parsed.Description
		} else {
			id, err := gonanoid.New()
			if err != nil {
				return result, fmt.Errorf("failed to generate entity ID: %w", err)
			}
			entity = common.Entity{
				ID:          id,
				Name:        parsed.Name,
				Type:        parsed.Type,
				Description: parsed.Description,
				DocumentID:  documentID,
				UserID:      userID,
			}
		}

		if err := graphStore.CreateEntity(ctx, entity); err != nil {
			return result, fmt.Errorf("failed to persist entity: %w", err)
		}
		result.Entities++

		if _, seen := idByName[strings.ToLower(entity.Name)]; !seen {
			idByName[strings.ToLower(entity.Name)] = entity.ID
		}
	}

	for _, parsed := range parsedRelationships {
		sourceID, sourceOK := idByName[strings.ToLower(parsed.SourceName)]
		targetID, targetOK := idByName[strings.ToLower(parsed.TargetName)]
		if !sourceOK || !targetOK {
			logger.Debug("[Graph][Process] Dropping relationship with unresolved endpoint",
				"source", parsed.SourceName, "target", parsed.TargetName)
			continue
		}

		id, err := gonanoid.New()
		if err != nil {
			return result, fmt.Errorf("failed to generate relationship ID: %w", err)
		}
		rel := common.Relationship{
			ID:          id,
			Type:        parsed.Type,
			Description: parsed.Description,
			SourceID:    sourceID,
			TargetID:    targetID,
		}
		if err := graphStore.CreateRelationship(ctx, rel); err != nil {
			return result, fmt.Errorf("failed to persist relationship: %w", err)
		}
		result.Relationships++
	}

	logger.Info("[Graph][Process] Populated document graph",
		"document", documentID, "entities", result.Entities, "relationships", result.Relationships)
	return result, nil
}
