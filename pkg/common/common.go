package common

import "time"

// Entity represents a node in the knowledge graph. An entity can be a person,
// organization, location, or any other relevant concept extracted from a
// document. The (DocumentID, Name, Type) triple is the natural dedup key:
// re-extracting the same document must reuse the existing entity rather than
// create a duplicate.
type Entity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	DocumentID  int64  `json:"document_id"`
	UserID      int64  `json:"user_id"`
}

// Relationship represents a directed, typed edge between two entities.
// Both endpoints must exist before the relationship is persisted; a
// relationship naming an unresolved endpoint is dropped, never stored
// dangling.
type Relationship struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	SourceID    string `json:"source_id"`
	TargetID    string `json:"target_id"`
}

// GraphNode is the projection of an entity in an on-demand graph view.
type GraphNode struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// GraphEdge is the projection of a relationship in an on-demand graph view.
type GraphEdge struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// GraphView is a node/edge projection computed for a document or user scope.
// It is derived, never persisted.
type GraphView struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// RelatedEntity is an entity found by bounded-depth graph expansion,
// annotated with its hop distance from the seed node.
type RelatedEntity struct {
	Entity
	Distance int `json:"distance"`
}

// GraphStatistics summarizes a user's knowledge graph.
type GraphStatistics struct {
	Entities      int64 `json:"entities"`
	Relationships int64 `json:"relationships"`
	Documents     int64 `json:"documents"`
}

// Document states as stored in the relational documents table. Only
// completed documents are eligible for querying.
const (
	DocumentStatusProcessing = "processing"
	DocumentStatusCompleted  = "completed"
	DocumentStatusFailed     = "failed"
)

// Document is the relational record for an uploaded file. The graph core
// reads Status to decide query eligibility and ID/UserID to scope graph and
// vector queries.
type Document struct {
	ID           int64      `json:"id"`
	Filename     string     `json:"filename"`
	FileType     string     `json:"file_type"`
	FileSize     int64      `json:"file_size"`
	StorageKey   string     `json:"storage_key"`
	ChunkCount   int        `json:"chunk_count"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	UserID       int64      `json:"user_id"`
	UploadedAt   time.Time  `json:"uploaded_at"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
}

// Chunk is a contiguous segment of document text stored in the vector index
// partition of its document.
type Chunk struct {
	ID         string `json:"id"`
	DocumentID int64  `json:"document_id"`
	Index      int    `json:"index"`
	Text       string `json:"text"`
}

// ScoredChunk is a chunk returned by nearest-neighbor search together with
// its similarity score.
type ScoredChunk struct {
	Chunk
	Score float64 `json:"score"`
}
