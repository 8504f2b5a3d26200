package faq

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/futig/support-bot/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// NoMatchText is returned by Search when no corpus entry clears the
// similarity threshold. The prompt contract depends on this exact string.
const NoMatchText = "No relevant FAQ found."

// Embedder produces vector embeddings. The same Embedder instance must be
// used for corpus entries and queries; vectors from different embedding
// models are not comparable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Index answers nearest-neighbour similarity queries over a fixed FAQ corpus.
// Entries and their embeddings are computed once at construction and never
// mutated, so an Index is safe for unlimited concurrent readers.
type Index struct {
	entries    []entity.FAQEntry
	embeddings [][]float32
	embedder   Embedder
	threshold  float64
	queryCache *gocache.Cache
}

// NewIndex loads the corpus from path and precomputes one embedding per
// entry. Repeated query embeddings are served from a TTL cache.
func NewIndex(ctx context.Context, path string, embedder Embedder, threshold float64, queryCacheTTL time.Duration) (*Index, error) {
	entries, err := LoadCorpus(path)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(entries))
	for i, entry := range entries {
		texts[i] = entry.Combined
	}

	embeddings, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(embeddings) != len(entries) {
		return nil, fmt.Errorf("embed corpus: got %d embeddings for %d entries", len(embeddings), len(entries))
	}

	return &Index{
		entries:    entries,
		embeddings: embeddings,
		embedder:   embedder,
		threshold:  threshold,
		queryCache: gocache.New(queryCacheTTL, 2*queryCacheTTL),
	}, nil
}

// Size returns the number of corpus entries.
func (idx *Index) Size() int {
	return len(idx.entries)
}

// Search embeds the query and returns the entry with the highest cosine
// similarity. Ties keep the first occurrence. When the best similarity is
// below the threshold the result is unmatched and Text carries NoMatchText.
func (idx *Index) Search(ctx context.Context, query string) (*entity.SearchResult, error) {
	queryEmbedding, err := idx.embedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	bestIdx := -1
	bestScore := math.Inf(-1)
	for i, embedding := range idx.embeddings {
		score := cosineSimilarity(queryEmbedding, embedding)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	if bestIdx < 0 {
		return &entity.SearchResult{Text: NoMatchText, Score: 0, Matched: false}, nil
	}

	if bestScore < idx.threshold {
		ctxzap.Debug(ctx, "no FAQ entry above threshold",
			zap.Float64("best_score", bestScore),
			zap.Float64("threshold", idx.threshold),
		)
		return &entity.SearchResult{Text: NoMatchText, Score: bestScore, Matched: false}, nil
	}

	return &entity.SearchResult{
		Text:    idx.entries[bestIdx].Combined,
		Score:   bestScore,
		Matched: true,
	}, nil
}

func (idx *Index) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if cached, ok := idx.queryCache.Get(query); ok {
		return cached.([]float32), nil
	}

	embedding, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	idx.queryCache.SetDefault(query, embedding)
	return embedding, nil
}

// cosineSimilarity calculates cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
