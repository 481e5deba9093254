package search

import (
	"fmt"
	"sort"

	"github.com/talent-cloud/matchdex/internal/corpus"
	"github.com/talent-cloud/matchdex/internal/domain"
)

// RankCandidates scores the filtered candidates by cosine similarity against
// the job embedding and sorts descending. Equal scores keep the relative order
// they held in the filtered input (stable sort). Truncation is the caller's job.
//
// A dimension mismatch between the job embedding and the corpus is a structural
// error detected before any score is produced.
func RankCandidates(jobEmbedding []float32, matches []Match, c *corpus.Corpus) ([]domain.RankedCandidate, error) {
	if len(matches) == 0 {
		return nil, nil
	}

	if len(jobEmbedding) != c.Dim() {
		return nil, fmt.Errorf(
			"job embedding has dimension %d, corpus has %d: %w",
			len(jobEmbedding), c.Dim(), domain.ErrDimensionMismatch,
		)
	}

	ranked := make([]domain.RankedCandidate, len(matches))
	for i, m := range matches {
		ranked[i] = domain.RankedCandidate{
			Candidate: m.Entry,
			Score:     domain.CosineSimilarity(jobEmbedding, c.Row(m.Pos)),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked, nil
}
