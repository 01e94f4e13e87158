package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
)

const defaultOpenRouterModel = "openai/text-embedding-3-small"

// OpenRouterClient calls the OpenRouter embeddings API. The optional site URL
// and app name are sent as the attribution headers OpenRouter recommends.
type OpenRouterClient struct {
	baseURL    string
	apiKey     string
	model      string
	siteURL    string
	appName    string
	httpClient *http.Client
}

// NewOpenRouter creates an OpenRouter embedding client.
func NewOpenRouter(apiKey string, cfg EmbedderConfig) *OpenRouterClient {
	model := cfg.Model
	if model == "" {
		model = defaultOpenRouterModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	return &OpenRouterClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		siteURL:    cfg.SiteURL,
		appName:    cfg.AppName,
		httpClient: &http.Client{Timeout: providerTimeout},
	}
}

func (c *OpenRouterClient) Model() string {
	return c.model
}

func (c *OpenRouterClient) Embed(ctx context.Context, text string) ([]float64, error) {
	body, err := json.Marshal(openAIEmbedRequest{Model: c.model, Input: text})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode embedding request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build embedding request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.siteURL != "" {
		req.Header.Set("HTTP-Referer", c.siteURL)
	}
	if c.appName != "" {
		req.Header.Set("X-Title", c.appName)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "embedding request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, goerr.New("embedding request rejected",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(b)))
	}

	var result openAIEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode embedding response")
	}
	if len(result.Data) == 0 || len(result.Data[0].Embedding) == 0 {
		return nil, goerr.New("provider returned no embedding")
	}

	return result.Data[0].Embedding, nil
}
