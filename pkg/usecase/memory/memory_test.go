package memory_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/localbrain/localbrain/pkg/adapter"
	"github.com/localbrain/localbrain/pkg/repository"
	"github.com/localbrain/localbrain/pkg/usecase/memory"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

// mockEmbedder returns canned vectors keyed by input text.
type mockEmbedder struct {
	vectors map[string][]float64
	failure error
	calls   int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	m.calls++
	if m.failure != nil {
		return nil, m.failure
	}
	vec, ok := m.vectors[text]
	if !ok {
		return nil, goerr.New("no canned vector", goerr.V("text", text))
	}
	return vec, nil
}

func (m *mockEmbedder) Model() string {
	return "mock-embedding-001"
}

var _ adapter.Embedder = (*mockEmbedder)(nil)

// newTestUseCase wires a real SQLite registry in a temp dir with the given
// embedder (nil = no provider configured). The db path pins every call to
// the same file.
func newTestUseCase(t *testing.T, embedder adapter.Embedder) (*memory.UseCase, string) {
	t.Helper()
	registry := repository.NewRegistry()
	t.Cleanup(func() { registry.CloseAll() })
	dbPath := filepath.Join(t.TempDir(), "memory.db")
	return memory.New(registry, embedder), dbPath
}

func saveOne(t *testing.T, uc *memory.UseCase, dbPath, content string) {
	t.Helper()
	input := memory.NewSaveInput(content)
	input.DBURL = dbPath
	_, err := uc.Save(context.Background(), input)
	gt.NoError(t, err)
}
