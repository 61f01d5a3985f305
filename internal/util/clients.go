package util

import (
	"context"

	"github.com/docugraph/backend/pkg/ai"
	oai "github.com/docugraph/backend/pkg/ai/ollama"
	gai "github.com/docugraph/backend/pkg/ai/openai"
	"github.com/docugraph/backend/pkg/logger"
	"github.com/docugraph/backend/pkg/store"
	"github.com/docugraph/backend/pkg/store/neo4j"
	graphstorage "github.com/docugraph/backend/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewAIClient builds the configured AI client from the environment. The
// AI_ADAPTER variable selects the backend, defaulting to OpenAI-compatible.
func NewAIClient() ai.GraphAIClient {
	adapter := GetEnv("AI_ADAPTER")

	switch adapter {
	case "ollama":
		client, err := oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			EmbeddingModel: GetEnv("AI_EMBED_MODEL"),
			ChatModel:      GetEnv("AI_CHAT_MODEL"),
			EmbeddingDim:   GetEnvInt("AI_EMBED_DIM", 0),

			BaseURL: GetEnv("AI_CHAT_URL"),

			MaxConcurrentRequests: int64(GetEnvInt("AI_PARALLEL_REQ", 15)),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			EmbeddingModel: GetEnv("AI_EMBED_MODEL"),
			ChatModel:      GetEnv("AI_CHAT_MODEL"),
			EmbeddingDim:   GetEnvInt("AI_EMBED_DIM", 0),

			EmbeddingURL: GetEnv("AI_EMBED_URL"),
			EmbeddingKey: GetEnv("AI_EMBED_KEY"),
			ChatURL:      GetEnv("AI_CHAT_URL"),
			ChatKey:      GetEnv("AI_CHAT_KEY"),
		})
	}
}

// NewKnowledgeGraph wires the relational graph store to the pool and, when
// NEO4J_URI is set and reachable, the native graph store alongside it. A
// failed probe logs a warning and the service runs relational-only.
func NewKnowledgeGraph(ctx context.Context, conn *pgxpool.Pool) *store.KnowledgeGraph {
	relational := graphstorage.NewGraphDBStorage(conn)

	var native store.GraphStorage
	if uri := GetEnv("NEO4J_URI"); uri != "" {
		ns, err := neo4j.NewGraphNativeStorage(ctx, neo4j.NewGraphNativeStorageParams{
			URI:      uri,
			Username: GetEnv("NEO4J_USER"),
			Password: GetEnv("NEO4J_PASSWORD"),
		})
		if err != nil {
			logger.Warn("Native graph store unavailable, running relational-only", "err", err)
		} else {
			native = ns
		}
	}

	return store.NewKnowledgeGraph(relational, native)
}
