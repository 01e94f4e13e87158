// Package mcp exposes the memory use cases as MCP tools over stdio or
// streamable HTTP.
package mcp

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/localbrain/localbrain/pkg/usecase/memory"
	"github.com/localbrain/localbrain/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps an MCP server with the save_memory and fetch_memories tools
// registered.
type Server struct {
	server *mcp.Server
	uc     *memory.UseCase
}

type saveMemoryParams struct {
	Content           string   `json:"content" jsonschema:"Main text content of the memory"`
	Title             string   `json:"title,omitempty" jsonschema:"Optional short title"`
	Tags              []string `json:"tags,omitempty" jsonschema:"Optional list of tag strings"`
	Source            string   `json:"source,omitempty" jsonschema:"Optional identifier for where this memory came from"`
	DBURL             string   `json:"dbUrl,omitempty" jsonschema:"Optional database URL or path (file: URL or filesystem path)"`
	GenerateEmbedding *bool    `json:"generate_embedding,omitempty" jsonschema:"Whether to generate and store an embedding (default true)"`
}

type fetchMemoriesParams struct {
	Query           string `json:"query" jsonschema:"Text to search for"`
	Limit           int    `json:"limit,omitempty" jsonschema:"Maximum number of results to return (default 10, max 50)"`
	DBURL           string `json:"dbUrl,omitempty" jsonschema:"Optional database URL or path (file: URL or filesystem path)"`
	UseVectorSearch bool   `json:"use_vector_search,omitempty" jsonschema:"If true, rank by embedding similarity instead of recency"`
}

// New creates a Server with both tools registered against uc.
func New(uc *memory.UseCase) *Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "localbrain",
		Version: "1.0.0",
	}, nil)

	s := &Server{
		server: server,
		uc:     uc,
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_memory",
		Description: "Save a memory snippet into a local SQLite database",
	}, s.saveMemory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "fetch_memories",
		Description: "Search memories by text query, ordered by recency (keyword mode) or semantic similarity (vector mode)",
	}, s.fetchMemories)

	return s
}

// ServeStdio runs the server on stdin/stdout until ctx is done.
func (s *Server) ServeStdio(ctx context.Context) error {
	if err := s.server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return goerr.Wrap(err, "mcp server failed")
	}
	return nil
}

// Handler returns an http.Handler serving the MCP streamable HTTP transport.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return s.server
	}, nil)
}

func (s *Server) saveMemory(ctx context.Context, req *mcp.CallToolRequest, params *saveMemoryParams) (*mcp.CallToolResult, any, error) {
	ctx = withToolLogger(ctx, "save_memory")

	input := memory.NewSaveInput(params.Content)
	input.Title = optString(params.Title)
	input.Tags = params.Tags
	input.Source = optString(params.Source)
	input.DBURL = params.DBURL
	if params.GenerateEmbedding != nil {
		input.GenerateEmbedding = *params.GenerateEmbedding
	}

	saved, err := s.uc.Save(ctx, input)
	if err != nil {
		return nil, nil, err
	}

	return textResult(saved)
}

func (s *Server) fetchMemories(ctx context.Context, req *mcp.CallToolRequest, params *fetchMemoriesParams) (*mcp.CallToolResult, any, error) {
	ctx = withToolLogger(ctx, "fetch_memories")

	results, err := s.uc.Fetch(ctx, memory.FetchInput{
		Query:           params.Query,
		Limit:           params.Limit,
		DBURL:           params.DBURL,
		UseVectorSearch: params.UseVectorSearch,
	})
	if err != nil {
		return nil, nil, err
	}

	return textResult(results)
}

// withToolLogger tags every log record of one tool call with the tool name
// and a fresh invocation id.
func withToolLogger(ctx context.Context, tool string) context.Context {
	logger := logging.From(ctx).With("tool", tool, "invocation", uuid.NewString())
	return logging.With(ctx, logger)
}

// textResult renders v as JSON text content and also returns it as the
// structured result.
func textResult(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to encode tool result")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, v, nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
