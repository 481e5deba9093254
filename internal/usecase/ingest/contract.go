package ingest

import (
	"context"

	"github.com/talent-cloud/matchdex/internal/corpus"
	"github.com/talent-cloud/matchdex/internal/domain"
)

// FeatureExtractor derives engineered candidate features via the gateway.
type FeatureExtractor interface {
	CandidateFeatures(ctx context.Context, cand domain.RawCandidate) (domain.CandidateFeatures, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// CorpusSwapper atomically publishes a freshly built corpus to the serving path.
type CorpusSwapper interface {
	Swap(c *corpus.Corpus)
}
