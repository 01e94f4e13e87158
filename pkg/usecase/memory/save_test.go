package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/localbrain/localbrain/pkg/model"
	"github.com/localbrain/localbrain/pkg/usecase/memory"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestSaveReturnsPublicFields(t *testing.T) {
	ctx := context.Background()
	uc, dbPath := newTestUseCase(t, nil)

	input := memory.NewSaveInput("Prefers dark mode")
	input.Tags = []string{"ui", "pref"}
	input.DBURL = dbPath

	saved, err := uc.Save(ctx, input)
	gt.NoError(t, err)
	gt.Equal(t, saved.ID, model.MemoryID(1))
	gt.Nil(t, saved.Title)
	gt.Equal(t, saved.Content, "Prefers dark mode")
	gt.Equal(t, saved.Tags, []string{"ui", "pref"})
	gt.Nil(t, saved.Source)
}

func TestSaveEmptyContentRejected(t *testing.T) {
	ctx := context.Background()
	uc, dbPath := newTestUseCase(t, nil)

	input := memory.NewSaveInput("")
	input.DBURL = dbPath

	_, err := uc.Save(ctx, input)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrEmptyContent))

	// Nothing was written
	results, err := uc.Fetch(ctx, memory.FetchInput{Query: "", DBURL: dbPath})
	gt.NoError(t, err)
	gt.A(t, results).Length(0)
}

func TestSaveWithoutProviderStoresNoEmbedding(t *testing.T) {
	ctx := context.Background()
	uc, dbPath := newTestUseCase(t, nil)

	saveOne(t, uc, dbPath, "no provider configured")

	// Vector search over zero embeddings falls back to keyword results
	keyword, err := uc.Fetch(ctx, memory.FetchInput{Query: "provider", DBURL: dbPath})
	gt.NoError(t, err)
	vector, err := uc.Fetch(ctx, memory.FetchInput{Query: "provider", DBURL: dbPath, UseVectorSearch: true})
	gt.NoError(t, err)
	gt.Equal(t, vector, keyword)
	gt.A(t, keyword).Length(1)
}

func TestSaveAbsorbsProviderFailure(t *testing.T) {
	ctx := context.Background()
	embedder := &mockEmbedder{failure: goerr.New("provider down")}
	uc, dbPath := newTestUseCase(t, embedder)

	input := memory.NewSaveInput("survives provider outage")
	input.DBURL = dbPath

	saved, err := uc.Save(ctx, input)
	gt.NoError(t, err)
	gt.Equal(t, saved.Content, "survives provider outage")
	gt.Equal(t, embedder.calls, 1)

	results, err := uc.Fetch(ctx, memory.FetchInput{Query: "outage", DBURL: dbPath})
	gt.NoError(t, err)
	gt.A(t, results).Length(1)
}

func TestSaveSkipsEmbeddingWhenNotRequested(t *testing.T) {
	ctx := context.Background()
	embedder := &mockEmbedder{vectors: map[string][]float64{"quiet": {1, 0}}}
	uc, dbPath := newTestUseCase(t, embedder)

	input := memory.NewSaveInput("quiet")
	input.DBURL = dbPath
	input.GenerateEmbedding = false

	_, err := uc.Save(ctx, input)
	gt.NoError(t, err)
	gt.Equal(t, embedder.calls, 0)
}

func TestSaveEmptyTagsComeBackAsEmptySlice(t *testing.T) {
	ctx := context.Background()
	uc, dbPath := newTestUseCase(t, nil)

	saved, err := uc.Save(ctx, func() memory.SaveInput {
		in := memory.NewSaveInput("tagless")
		in.DBURL = dbPath
		return in
	}())
	gt.NoError(t, err)
	gt.Equal(t, saved.Tags, []string{})

	results, err := uc.Fetch(ctx, memory.FetchInput{Query: "tagless", DBURL: dbPath})
	gt.NoError(t, err)
	gt.A(t, results).Length(1)
	gt.Equal(t, results[0].Tags, []string{})
}
