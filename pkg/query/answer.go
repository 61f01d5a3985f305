package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/docugraph/backend/pkg/ai"
	"github.com/docugraph/backend/pkg/common"
	"github.com/docugraph/backend/pkg/logger"
)

// maxContextRelationships bounds how many relationship lines feed the
// answer prompt.
const maxContextRelationships = 5

// generateAnswer builds the answer prompt from the fused context and invokes
// the generation model once. On failure the error text becomes the answer,
// so the caller always has a displayable result.
func generateAnswer(
	ctx context.Context,
	client ai.GraphAIClient,
	queryText string,
	chunks []common.ScoredChunk,
	entities []common.Entity,
	graphContext *common.GraphView,
) string {
	contextBlock := buildContext(chunks, entities, graphContext)
	prompt := fmt.Sprintf(ai.AnswerPrompt, contextBlock, queryText)

	answer, err := client.GenerateCompletion(ctx, prompt)
	if err != nil {
		logger.Error("[Query] Answer generation failed", "error", err)
		return fmt.Sprintf("Error generating answer: %s", err.Error())
	}
	return answer
}

// buildContext renders the retrieval context block: numbered chunk excerpts,
// a bulleted entity list, and up to maxContextRelationships relationship
// lines. Relationship endpoints resolve through the graph view's node list;
// lines with an unresolved endpoint are skipped.
func buildContext(
	chunks []common.ScoredChunk,
	entities []common.Entity,
	graphContext *common.GraphView,
) string {
	var parts []string

	if len(chunks) > 0 {
		parts = append(parts, "Retrieved Information:")
		for i, chunk := range chunks {
			parts = append(parts, fmt.Sprintf("\n[%d] %s", i+1, chunk.Text))
		}
	}

	if len(entities) > 0 {
		parts = append(parts, "\n\nRelevant Entities:")
		for _, entity := range entities {
			desc := ""
			if entity.Description != "" {
				desc = " - " + entity.Description
			}
			parts = append(parts, fmt.Sprintf("- %s (%s)%s", entity.Name, entity.Type, desc))
		}
	}

	if graphContext != nil && len(graphContext.Edges) > 0 {
		nameByID := make(map[string]string, len(graphContext.Nodes))
		for _, node := range graphContext.Nodes {
			nameByID[node.ID] = node.Name
		}

		edges := graphContext.Edges
		if len(edges) > maxContextRelationships {
			edges = edges[:maxContextRelationships]
		}
		var lines []string
		for _, edge := range edges {
			source, sourceOK := nameByID[edge.Source]
			target, targetOK := nameByID[edge.Target]
			if !sourceOK || !targetOK {
				continue
			}
			lines = append(lines, fmt.Sprintf("- %s %s %s", source, edge.Type, target))
		}
		if len(lines) > 0 {
			parts = append(parts, "\n\nRelationships:")
			parts = append(parts, lines...)
		}
	}

	return strings.Join(parts, "\n")
}
