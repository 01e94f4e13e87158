package memory

import (
	"context"
	"sort"

	"github.com/localbrain/localbrain/pkg/interfaces"
	"github.com/localbrain/localbrain/pkg/model"
	"github.com/localbrain/localbrain/pkg/utils/logging"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// FetchInput is the fetch_memories request.
type FetchInput struct {
	Query           string
	Limit           int
	DBURL           string
	UseVectorSearch bool
}

// Fetch retrieves memories by keyword or vector similarity. Vector search is
// a pure enhancement: if no provider is configured, the query embedding call
// fails, or no comparable embeddings are stored, it silently falls back to
// keyword search. Limit is coerced to 10 when unset or non-positive and
// clamped to 50.
func (uc *UseCase) Fetch(ctx context.Context, input FetchInput) ([]model.Memory, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	repo, err := uc.registry.Acquire(ctx, input.DBURL)
	if err != nil {
		return nil, err
	}

	if input.UseVectorSearch {
		if results, ok, err := uc.fetchByVector(ctx, repo, input.Query, limit); err != nil {
			return nil, err
		} else if ok {
			return results, nil
		}
		// fall through to keyword search
	}

	return uc.keywordResults(ctx, repo, input.Query, limit)
}

// fetchByVector attempts vector mode. ok=false means keyword fallback; only
// storage failures are surfaced as errors.
func (uc *UseCase) fetchByVector(ctx context.Context, repo interfaces.Repository, query string, limit int) ([]model.Memory, bool, error) {
	logger := logging.From(ctx)

	if uc.embedder == nil {
		logger.Debug("vector search requested but no embedding provider configured")
		return nil, false, nil
	}

	queryVec, err := uc.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("query embedding failed, falling back to keyword search", "error", err)
		return nil, false, nil
	}

	stored, err := repo.ListEmbeddings(ctx)
	if err != nil {
		return nil, false, err
	}

	// Vectors of a different length than the query cannot be compared and
	// are excluded. Note this does not detect same-length vectors produced
	// by a different model; those are ranked as-is.
	type scored struct {
		id    model.MemoryID
		score float64
	}
	candidates := make([]scored, 0, len(stored))
	for _, emb := range stored {
		if len(emb.Vector) != len(queryVec) {
			continue
		}
		candidates = append(candidates, scored{
			id:    emb.MemoryID,
			score: cosineSimilarity(queryVec, emb.Vector),
		})
	}

	if len(candidates) == 0 {
		logger.Debug("no comparable embeddings stored, falling back to keyword search")
		return nil, false, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].id > candidates[j].id
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	ids := make([]model.MemoryID, len(candidates))
	rank := make(map[model.MemoryID]int, len(candidates))
	for i, c := range candidates {
		ids[i] = c.id
		rank[c.id] = i
	}

	memories, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, false, err
	}

	sort.Slice(memories, func(i, j int) bool {
		return rank[memories[i].ID] < rank[memories[j].ID]
	})

	return memories, true, nil
}

func (uc *UseCase) keywordResults(ctx context.Context, repo interfaces.Repository, query string, limit int) ([]model.Memory, error) {
	memories, err := repo.SearchKeyword(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if memories == nil {
		memories = []model.Memory{}
	}
	return memories, nil
}
