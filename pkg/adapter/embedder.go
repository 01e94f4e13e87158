package adapter

import (
	"context"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Embedder turns text into a fixed-length vector. Model identifies which
// embedding model produced the vectors; vectors from different models are not
// comparable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	Model() string
}

// providerTimeout bounds every provider HTTP call so a slow provider degrades
// to the keyword fallback instead of hanging the tool call.
const providerTimeout = 30 * time.Second

// EmbedderConfig selects and tunes an embedding provider. Credentials are
// always read from the environment; everything else can come from flags or a
// config file.
type EmbedderConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`

	// OpenRouter attribution headers
	SiteURL string `yaml:"site_url"`
	AppName string `yaml:"app_name"`
}

// NewEmbedder constructs the configured provider. A nil Embedder with nil
// error means no provider is configured (missing credential for the selected
// provider); callers treat that as "embeddings disabled", not as a failure.
func NewEmbedder(ctx context.Context, cfg EmbedderConfig) (Embedder, error) {
	switch cfg.Provider {
	case "", "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if key == "" {
			return nil, nil
		}
		return NewOpenAI(key, cfg.Model, cfg.BaseURL), nil

	case "openrouter":
		key := os.Getenv("OPENROUTER_API_KEY")
		if key == "" {
			return nil, nil
		}
		return NewOpenRouter(key, cfg), nil

	case "gemini":
		key := os.Getenv("GEMINI_API_KEY")
		if key == "" {
			return nil, nil
		}
		return NewGemini(ctx, key, cfg.Model)

	default:
		return nil, goerr.New("unknown embedding provider", goerr.V("provider", cfg.Provider))
	}
}
