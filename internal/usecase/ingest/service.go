// Package ingest converts raw candidate records into processed corpus entries:
// engineered features plus an embedding per candidate, bounded concurrency,
// failed candidates dropped from the output with a logged reason.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/talent-cloud/matchdex/internal/corpus"
	"github.com/talent-cloud/matchdex/internal/domain"
	"github.com/talent-cloud/matchdex/internal/domain/batch"
)

// DefaultMaxInFlight bounds concurrent gateway calls during a batch run.
const DefaultMaxInFlight = 10

// Service runs the raw-to-processed candidate batch pipeline.
type Service struct {
	features    FeatureExtractor
	embed       Embedder
	store       CorpusSwapper
	logger      *zap.Logger
	maxInFlight int
}

// New creates an ingest service. store may be nil for offline runs that only
// write the snapshot without publishing it.
func New(features FeatureExtractor, embed Embedder, store CorpusSwapper, logger *zap.Logger) *Service {
	return &Service{
		features:    features,
		embed:       embed,
		store:       store,
		logger:      logger,
		maxInFlight: DefaultMaxInFlight,
	}
}

// WithMaxInFlight configures the gateway concurrency bound.
func (s *Service) WithMaxInFlight(n int) *Service {
	if n > 0 {
		s.maxInFlight = n
	}
	return s
}

// Report summarizes a batch run.
type Report struct {
	Total     int
	Processed int
	Dropped   int
	Results   []batch.Result
}

// rawRecord is one element of the raw candidates file: a candidate record
// plus the caller-supplied identifier the corpus keys on.
type rawRecord struct {
	ID *int64 `json:"id"`
	domain.RawCandidate
}

// ProcessFile reads all raw candidates from inputPath, processes them
// concurrently, overwrites outputPath with the processed snapshot, and swaps
// the serving corpus. One candidate's failure never aborts the batch; it is
// dropped from the output with a logged reason.
func (s *Service) ProcessFile(ctx context.Context, inputPath, outputPath string) (Report, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return Report{}, fmt.Errorf("read raw candidates %s: %w", inputPath, err)
	}

	var raw []rawRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return Report{}, fmt.Errorf("parse raw candidates %s: %w", inputPath, err)
	}

	results := make([]batch.Result, len(raw))
	processed := make([]*domain.ProcessedCandidate, len(raw))

	var g errgroup.Group
	g.SetLimit(s.maxInFlight)
	for i := range raw {
		i := i
		g.Go(func() error {
			entry, err := s.processOne(ctx, &raw[i])
			if err != nil {
				id := int64(0)
				if raw[i].ID != nil {
					id = *raw[i].ID
				}
				s.logger.Warn("dropping candidate",
					zap.Int64("id", id),
					zap.String("email", raw[i].Email),
					zap.Error(err),
				)
				results[i] = batch.NewDropped(id, err)
				return nil
			}
			processed[i] = entry
			results[i] = batch.NewOK(entry.ID)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are per-item results

	entries := make([]domain.ProcessedCandidate, 0, len(raw))
	for _, p := range processed {
		if p != nil {
			entries = append(entries, *p)
		}
	}

	report := Report{
		Total:     len(raw),
		Processed: len(entries),
		Dropped:   len(raw) - len(entries),
		Results:   results,
	}

	next, err := corpus.New(entries)
	if err != nil {
		return report, fmt.Errorf("build corpus from batch output: %w", err)
	}

	if err := writeSnapshot(outputPath, entries); err != nil {
		return report, err
	}

	if s.store != nil {
		s.store.Swap(next)
	}

	s.logger.Info("batch processing completed",
		zap.Int("total", report.Total),
		zap.Int("processed", report.Processed),
		zap.Int("dropped", report.Dropped),
		zap.String("output", outputPath),
	)

	return report, nil
}

func (s *Service) processOne(ctx context.Context, rec *rawRecord) (*domain.ProcessedCandidate, error) {
	if rec.ID == nil {
		return nil, fmt.Errorf("candidate record missing id")
	}

	feats, err := s.features.CandidateFeatures(ctx, rec.RawCandidate)
	if err != nil {
		return nil, fmt.Errorf("candidate features: %w", err)
	}

	emb, err := s.embed.Embed(ctx, feats.CandidateSummary)
	if err != nil {
		return nil, fmt.Errorf("candidate embedding: %w", err)
	}

	return &domain.ProcessedCandidate{
		ID:                 *rec.ID,
		OriginalData:       rec.RawCandidate,
		EngineeredFeatures: feats,
		Embedding:          emb.Embedding,
	}, nil
}

// writeSnapshot overwrites path with the processed entries via temp-file rename
// so a crashed run never leaves a truncated snapshot behind.
func writeSnapshot(path string, entries []domain.ProcessedCandidate) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}
