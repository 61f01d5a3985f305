package graph

import (
	"context"
	"fmt"

	gUtil "github.com/docugraph/backend/internal/util"
	"github.com/docugraph/backend/pkg/ai"
	"github.com/docugraph/backend/pkg/logger"
)

const maxExtractionRetries = 3

// Extract asks the generation model for entities and relationships in the
// fixed semi-structured format and parses the response. Callers are
// responsible for capping the input to the model's limits.
//
// Extraction fails soft: any generation failure is logged and yields empty
// candidate lists so document ingestion continues without graph data.
func Extract(
	ctx context.Context,
	client ai.GraphAIClient,
	text string,
) ([]ParsedEntity, []ParsedRelationship) {
	prompt := fmt.Sprintf(ai.ExtractPrompt, text)

	output, err := gUtil.RetryWithContext(ctx, maxExtractionRetries, func(ctx context.Context) (string, error) {
		return client.GenerateCompletion(ctx, prompt)
	})
	if err != nil {
		logger.Error("[Graph][Extract] Entity extraction failed", "error", err)
		return []ParsedEntity{}, []ParsedRelationship{}
	}

	entities, relationships := parseExtraction(output)
	logger.Debug("[Graph][Extract] Parsed extraction output",
		"entities", len(entities), "relationships", len(relationships))
	return entities, relationships
}
