package interfaces

import (
	"context"

	"github.com/localbrain/localbrain/pkg/model"
)

// Repository is one open memory database. Implementations own the schema of
// the memories and memory_embeddings tables for their file.
type Repository interface {
	// InsertMemory writes one memory row and returns the assigned id
	InsertMemory(ctx context.Context, content string, title *string, tags []string, source *string) (model.MemoryID, error)

	// InsertEmbedding writes the embedding row for a memory
	InsertEmbedding(ctx context.Context, id model.MemoryID, modelName string, vector []float64) error

	// SearchKeyword returns memories matching query as a substring of
	// content or title, ordered by recency then id descending
	SearchKeyword(ctx context.Context, query string, limit int) ([]model.Memory, error)

	// ListEmbeddings loads all stored embeddings for similarity ranking
	ListEmbeddings(ctx context.Context) ([]model.Embedding, error)

	// GetByIDs loads the named memories in unspecified order
	GetByIDs(ctx context.Context, ids []model.MemoryID) ([]model.Memory, error)
}

// Registry resolves a database locator to a Repository, caching handles per
// resolved path for the life of the process.
type Registry interface {
	Acquire(ctx context.Context, locator string) (Repository, error)
}
