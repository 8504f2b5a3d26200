package gemini

import (
	"context"
	"hash/fnv"
	"strings"

	"github.com/futig/support-bot/internal/faq"
	"github.com/futig/support-bot/internal/usecase/chat"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockEmbeddingDim = 256

// MockConnector is an offline stand-in for the Gemini API. Embeddings are a
// deterministic bag-of-words hash, so texts sharing words land close together
// and exact texts embed identically. Completions follow the prompt contract:
// a prompt carrying the no-context sentinel yields the escalation phrase.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

// Complete mocks a contract-following completion
func (m *MockConnector) Complete(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating completion")

	if strings.Contains(prompt, faq.NoMatchText) {
		return chat.EscalationPhrase, nil
	}

	if faqContext := extractFAQContext(prompt); faqContext != "" {
		return "[MOCK] Based on our FAQ: " + faqContext, nil
	}

	return chat.EscalationPhrase, nil
}

// Embed mocks a single embedding
func (m *MockConnector) Embed(ctx context.Context, text string) ([]float32, error) {
	return hashEmbedding(text), nil
}

// EmbedBatch mocks batch embedding
func (m *MockConnector) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	ctxzap.Info(ctx, "[MOCK] embedding batch", zap.Int("count", len(texts)))

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = hashEmbedding(text)
	}
	return embeddings, nil
}

// extractFAQContext pulls the FAQ Context section out of a built prompt.
func extractFAQContext(prompt string) string {
	const marker = "FAQ Context:\n"

	start := strings.Index(prompt, marker)
	if start < 0 {
		return ""
	}
	section := prompt[start+len(marker):]

	if end := strings.Index(section, "\n\n---"); end >= 0 {
		section = section[:end]
	}
	return strings.TrimSpace(section)
}

// hashEmbedding maps each lower-cased word onto a fixed dimension.
func hashEmbedding(text string) []float32 {
	vec := make([]float32, mockEmbeddingDim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[int(h.Sum32()%mockEmbeddingDim)]++
	}
	return vec
}
