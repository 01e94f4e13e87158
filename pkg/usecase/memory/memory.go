// Package memory implements the save pipeline and the retrieval engine on
// top of the repository and an optional embedding provider.
package memory

import (
	"github.com/localbrain/localbrain/pkg/adapter"
	"github.com/localbrain/localbrain/pkg/interfaces"
)

// UseCase holds the collaborators shared by save and fetch. embedder may be
// nil, meaning no embedding provider is configured: saves then skip embedding
// generation and vector search falls back to keyword search.
type UseCase struct {
	registry interfaces.Registry
	embedder adapter.Embedder
}

// New creates a UseCase. Pass a nil embedder when no provider is configured.
func New(registry interfaces.Registry, embedder adapter.Embedder) *UseCase {
	return &UseCase{
		registry: registry,
		embedder: embedder,
	}
}
