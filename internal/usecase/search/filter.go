package search

import (
	"github.com/talent-cloud/matchdex/internal/corpus"
	"github.com/talent-cloud/matchdex/internal/domain"
)

// SkillMatchThreshold is the minimum |matched|/|required| skill coverage a
// candidate needs when the job lists required skills. Exactly the threshold passes.
const SkillMatchThreshold = 0.6

// Match is a candidate that survived hard filtering, paired with its corpus
// position so the ranker can address the embedding matrix.
type Match struct {
	Pos   int
	Entry *domain.ProcessedCandidate
}

// FilterCandidates applies the hard-filter rules to every corpus entry in order:
//
//  1. candidate years of experience >= required years (missing counts as 0)
//  2. skill coverage >= SkillMatchThreshold, evaluated only when the job has
//     required skills after normalization
//
// Output preserves corpus order.
func FilterCandidates(c *corpus.Corpus, job domain.JobFeatures) []Match {
	requiredYears := job.RequiredExperienceYears
	if requiredYears < 0 {
		requiredYears = 0
	}

	requiredSkills := domain.NormalizeSkills(job.ExtractedSkills)
	checkSkills := len(requiredSkills) > 0

	var matches []Match
	for i := 0; i < c.Len(); i++ {
		entry := c.Entry(i)
		feats := &entry.EngineeredFeatures

		if feats.TotalYearsOfExperience < requiredYears {
			continue
		}

		if checkSkills {
			candidateSkills := domain.NormalizeSkills(feats.SkillKeywords)
			matched := 0
			for s := range requiredSkills {
				if _, ok := candidateSkills[s]; ok {
					matched++
				}
			}
			if float64(matched)/float64(len(requiredSkills)) < SkillMatchThreshold {
				continue
			}
		}

		matches = append(matches, Match{Pos: i, Entry: entry})
	}

	return matches
}
