package search

import (
	"context"

	"github.com/talent-cloud/matchdex/internal/corpus"
	"github.com/talent-cloud/matchdex/internal/domain"
)

// FeatureExtractor derives engineered job features via the gateway.
type FeatureExtractor interface {
	JobFeatures(ctx context.Context, job domain.RawJob) (domain.JobFeatures, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// CorpusProvider returns the current corpus snapshot.
type CorpusProvider interface {
	Get() *corpus.Corpus
}
