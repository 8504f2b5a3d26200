package gemini

import (
	"context"
	"fmt"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/futig/support-bot/internal/config"
	"github.com/futig/support-bot/internal/integration/common"
	pkghttp "github.com/futig/support-bot/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector talks to the Google Generative Language API. A single Connector
// serves both text completion and embedding, so every embedding in the
// process comes out of the same model.
type Connector struct {
	config    config.GeminiConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.GeminiConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, cfg.APIKey, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Wire types for the generativelanguage.googleapis.com v1beta REST API.

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type candidate struct {
	Content content `json:"content"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

func (r *generateContentResponse) text() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}

type embedContentRequest struct {
	Model   string  `json:"model,omitempty"`
	Content content `json:"content"`
}

type embedding struct {
	Values []float32 `json:"values"`
}

type embedContentResponse struct {
	Embedding embedding `json:"embedding"`
}

type batchEmbedContentsRequest struct {
	Requests []embedContentRequest `json:"requests"`
}

type batchEmbedContentsResponse struct {
	Embeddings []embedding `json:"embeddings"`
}

// Complete generates a single-shot text completion for a fully built prompt
func (c *Connector) Complete(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "generating completion", zap.Int("prompt_length", len(prompt)))

	req := &generateContentRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{Temperature: c.config.Temperature},
	}

	endpoint := fmt.Sprintf("/v1beta/models/%s:generateContent", c.config.GenerateModel)

	var resp generateContentResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.text()
	if text == "" {
		return "", fmt.Errorf("generate content: empty completion")
	}

	ctxzap.Info(ctx, "completion generated", zap.Int("result_length", len(text)))

	return text, nil
}

// Embed generates an embedding for a single text
func (c *Connector) Embed(ctx context.Context, text string) ([]float32, error) {
	req := &embedContentRequest{
		Content: content{Parts: []part{{Text: text}}},
	}

	endpoint := fmt.Sprintf("/v1beta/models/%s:embedContent", c.config.EmbeddingModel)

	var resp embedContentResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}

	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("embed content: empty embedding")
	}

	return resp.Embedding.Values, nil
}

// EmbedBatch generates embeddings for multiple texts in one request
func (c *Connector) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	ctxzap.Info(ctx, "embedding batch", zap.Int("count", len(texts)))

	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	req := &batchEmbedContentsRequest{
		Requests: make([]embedContentRequest, len(texts)),
	}
	for i, text := range texts {
		req.Requests[i] = embedContentRequest{
			Model:   "models/" + c.config.EmbeddingModel,
			Content: content{Parts: []part{{Text: text}}},
		}
	}

	endpoint := fmt.Sprintf("/v1beta/models/%s:batchEmbedContents", c.config.EmbeddingModel)

	var resp batchEmbedContentsResponse
	err := retry.Do(func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, endpoint, req, &resp)
	}, append(c.config.Retry.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return nil, fmt.Errorf("batch embed contents: %w", err)
	}

	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("batch embed contents: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}

	embeddings := make([][]float32, len(resp.Embeddings))
	for i := range resp.Embeddings {
		embeddings[i] = resp.Embeddings[i].Values
	}

	return embeddings, nil
}
