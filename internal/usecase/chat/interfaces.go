package chat

import (
	"context"

	"github.com/futig/support-bot/internal/entity"
)

// LLMConnector produces a single-shot text completion for a fully built prompt.
type LLMConnector interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Retriever finds the most relevant FAQ entry for a user query.
type Retriever interface {
	Search(ctx context.Context, query string) (*entity.SearchResult, error)
}
