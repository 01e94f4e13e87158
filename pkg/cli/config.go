package cli

import (
	"context"
	"os"

	"github.com/localbrain/localbrain/pkg/adapter"
	"github.com/localbrain/localbrain/pkg/repository"
	"github.com/localbrain/localbrain/pkg/usecase/memory"
	"github.com/localbrain/localbrain/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// config holds configuration values shared across commands
type config struct {
	logLevel   string
	configFile string

	// Embedding provider
	provider string
	model    string
	baseURL  string
	siteURL  string
	appName  string
}

// fileConfig is the optional YAML config file shape. Flags and environment
// variables win over file values; credentials are environment-only.
type fileConfig struct {
	Embedding adapter.EmbedderConfig `yaml:"embedding"`
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("LOCALBRAIN_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to YAML config file",
			Sources:     cli.EnvVars("LOCALBRAIN_CONFIG"),
			Destination: &cfg.configFile,
		},
	}
}

// embedderFlags returns flags for embedding provider configuration
func embedderFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "embedding-provider",
			Usage:       "Embedding provider (openai, openrouter, gemini)",
			Sources:     cli.EnvVars("EMBEDDING_PROVIDER"),
			Destination: &cfg.provider,
		},
		&cli.StringFlag{
			Name:        "embedding-model",
			Usage:       "Embedding model name",
			Sources:     cli.EnvVars("EMBEDDING_MODEL"),
			Destination: &cfg.model,
		},
		&cli.StringFlag{
			Name:        "embedding-base-url",
			Usage:       "Override the provider API base URL",
			Sources:     cli.EnvVars("EMBEDDING_BASE_URL"),
			Destination: &cfg.baseURL,
		},
		&cli.StringFlag{
			Name:        "openrouter-site-url",
			Usage:       "Site URL sent as OpenRouter HTTP-Referer header",
			Sources:     cli.EnvVars("OPENROUTER_SITE_URL"),
			Destination: &cfg.siteURL,
		},
		&cli.StringFlag{
			Name:        "openrouter-app-name",
			Usage:       "App name sent as OpenRouter X-Title header",
			Sources:     cli.EnvVars("OPENROUTER_APP_NAME"),
			Destination: &cfg.appName,
		},
	}
}

// setupLogger installs the configured logger as default and into ctx
func (cfg *config) setupLogger(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// embedderConfig merges the config file (if any) under flag/env values
func (cfg *config) embedderConfig() (adapter.EmbedderConfig, error) {
	var merged adapter.EmbedderConfig
	if cfg.configFile != "" {
		raw, err := os.ReadFile(cfg.configFile)
		if err != nil {
			return merged, goerr.Wrap(err, "failed to read config file", goerr.V("path", cfg.configFile))
		}
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return merged, goerr.Wrap(err, "failed to parse config file", goerr.V("path", cfg.configFile))
		}
		merged = fc.Embedding
	}

	if cfg.provider != "" {
		merged.Provider = cfg.provider
	}
	if cfg.model != "" {
		merged.Model = cfg.model
	}
	if cfg.baseURL != "" {
		merged.BaseURL = cfg.baseURL
	}
	if cfg.siteURL != "" {
		merged.SiteURL = cfg.siteURL
	}
	if cfg.appName != "" {
		merged.AppName = cfg.appName
	}

	return merged, nil
}

// newUseCase builds the registry, the embedder (nil when not configured) and
// the use case layer
func (cfg *config) newUseCase(ctx context.Context) (*memory.UseCase, *repository.Registry, error) {
	embedderCfg, err := cfg.embedderConfig()
	if err != nil {
		return nil, nil, err
	}

	embedder, err := adapter.NewEmbedder(ctx, embedderCfg)
	if err != nil {
		return nil, nil, err
	}
	if embedder == nil {
		logging.From(ctx).Debug("no embedding provider configured, embeddings disabled")
	}

	registry := repository.NewRegistry()
	return memory.New(registry, embedder), registry, nil
}
