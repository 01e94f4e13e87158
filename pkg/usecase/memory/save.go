package memory

import (
	"context"

	"github.com/localbrain/localbrain/pkg/interfaces"
	"github.com/localbrain/localbrain/pkg/model"
	"github.com/localbrain/localbrain/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// SaveInput is the save_memory request. GenerateEmbedding defaults to true
// when the input comes through NewSaveInput.
type SaveInput struct {
	Content           string
	Title             *string
	Tags              []string
	Source            *string
	DBURL             string
	GenerateEmbedding bool
}

// NewSaveInput returns a SaveInput with defaults applied.
func NewSaveInput(content string) SaveInput {
	return SaveInput{
		Content:           content,
		GenerateEmbedding: true,
	}
}

// Save validates and stores one memory. When embedding generation is
// requested and a provider is configured, the provider is called
// synchronously; a provider failure is logged and absorbed, never surfaced —
// the memory row is already committed and the save succeeds without an
// embedding.
func (uc *UseCase) Save(ctx context.Context, input SaveInput) (*model.SavedMemory, error) {
	if input.Content == "" {
		return nil, goerr.Wrap(model.ErrEmptyContent, "save_memory requires content")
	}

	repo, err := uc.registry.Acquire(ctx, input.DBURL)
	if err != nil {
		return nil, err
	}

	id, err := repo.InsertMemory(ctx, input.Content, input.Title, input.Tags, input.Source)
	if err != nil {
		return nil, err
	}

	if input.GenerateEmbedding && uc.embedder != nil {
		if err := uc.storeEmbedding(ctx, repo, id, input.Content); err != nil {
			logging.From(ctx).Warn("embedding skipped",
				"memory_id", id,
				"model", uc.embedder.Model(),
				"error", err)
		}
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}

	return &model.SavedMemory{
		ID:      id,
		Title:   input.Title,
		Content: input.Content,
		Tags:    tags,
		Source:  input.Source,
	}, nil
}

func (uc *UseCase) storeEmbedding(ctx context.Context, repo interfaces.Repository, id model.MemoryID, content string) error {
	vec, err := uc.embedder.Embed(ctx, content)
	if err != nil {
		return err
	}
	return repo.InsertEmbedding(ctx, id, uc.embedder.Model(), vec)
}
