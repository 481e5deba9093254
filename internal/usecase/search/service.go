package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/talent-cloud/matchdex/internal/domain"
	"github.com/talent-cloud/matchdex/internal/logger"
)

// Result-count bounds for a search request.
const (
	DefaultTopN = 100
	MaxTopN     = 500
)

// Service runs the candidate search pipeline:
// featurize job -> embed job -> filter corpus -> rank -> truncate.
type Service struct {
	corpus   CorpusProvider
	features FeatureExtractor
	embed    Embedder
}

// New creates a search service.
func New(corpus CorpusProvider, features FeatureExtractor, embed Embedder) *Service {
	return &Service{corpus: corpus, features: features, embed: embed}
}

// Search returns the topN best candidates for the job, highest score first.
// Gateway failures short-circuit the pipeline; an empty filter result is a
// successful empty response. topN is clamped to [1, MaxTopN], defaulting to
// DefaultTopN when non-positive.
func (s *Service) Search(ctx context.Context, job domain.RawJob, topN int) ([]domain.RankedCandidate, error) {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if topN > MaxTopN {
		topN = MaxTopN
	}

	if strings.TrimSpace(job.JobTitle) == "" && strings.TrimSpace(job.JobDescription) == "" {
		return nil, fmt.Errorf("job posting has no title or description: %w", domain.ErrInvalidRequest)
	}

	log := logger.FromContext(ctx)

	feats, err := s.features.JobFeatures(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("featurize job: %w", err)
	}

	emb, err := s.embed.Embed(ctx, feats.JobSummaryForEmbedding)
	if err != nil {
		return nil, fmt.Errorf("embed job: %w", err)
	}

	c := s.corpus.Get()
	matches := FilterCandidates(c, feats)

	ranked, err := RankCandidates(emb.Embedding, matches, c)
	if err != nil {
		return nil, fmt.Errorf("rank candidates: %w", err)
	}

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	log.Info("search completed",
		zap.String("job_title", job.JobTitle),
		zap.Int("corpus_size", c.Len()),
		zap.Int("filtered", len(matches)),
		zap.Int("returned", len(ranked)),
	)

	return ranked, nil
}
