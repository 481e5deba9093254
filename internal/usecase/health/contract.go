package health

import (
	"context"

	"github.com/talent-cloud/matchdex/internal/corpus"
)

// GatewayChecker probes the LLM provider for availability.
type GatewayChecker interface {
	HealthCheck(ctx context.Context) error
}

// CorpusProvider exposes the currently served corpus snapshot.
type CorpusProvider interface {
	Get() *corpus.Corpus
}
