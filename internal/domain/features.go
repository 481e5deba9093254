package domain

import (
	"fmt"
	"strings"
)

// Seniority is a career tier inferred by the feature-extraction gateway.
// The set is closed; both job and candidate features use the same tiers.
type Seniority string

// Seniority tiers.
const (
	SeniorityJunior  Seniority = "Junior"
	SeniorityMid     Seniority = "Mid-level"
	SenioritySenior  Seniority = "Senior"
	SeniorityLead    Seniority = "Lead"
	SeniorityManager Seniority = "Manager/Director"
)

// ParseSeniority normalizes a seniority string into one of the closed tiers.
// Matching is case-insensitive and tolerates "Manager-Director" as an alias.
func ParseSeniority(s string) (Seniority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "junior":
		return SeniorityJunior, nil
	case "mid-level", "mid level", "mid":
		return SeniorityMid, nil
	case "senior":
		return SenioritySenior, nil
	case "lead":
		return SeniorityLead, nil
	case "manager/director", "manager-director", "manager", "director":
		return SeniorityManager, nil
	}
	return "", fmt.Errorf("unknown seniority level %q", s)
}

// CandidateFeatures is the engineered-feature record for a candidate.
type CandidateFeatures struct {
	TotalYearsOfExperience float64   `json:"total_years_of_experience"`
	SeniorityLevel         Seniority `json:"seniority_level"`
	EducationLevel         string    `json:"education_level"`
	SkillKeywords          []string  `json:"skill_keywords"`
	RecentJobTitle         string    `json:"recent_job_title,omitempty"`
	RecentCompany          string    `json:"recent_company,omitempty"`
	CandidateSummary       string    `json:"candidate_summary"`
}

// Validate checks the structural invariants of a gateway-produced candidate record.
func (f *CandidateFeatures) Validate() error {
	if f.TotalYearsOfExperience < 0 {
		return fmt.Errorf("total_years_of_experience is negative: %f", f.TotalYearsOfExperience)
	}
	if strings.TrimSpace(f.CandidateSummary) == "" {
		return fmt.Errorf("candidate_summary is empty")
	}
	sen, err := ParseSeniority(string(f.SeniorityLevel))
	if err != nil {
		return err
	}
	f.SeniorityLevel = sen
	return nil
}

// JobFeatures is the engineered-feature record for a job posting.
type JobFeatures struct {
	ExtractedSkills         []string  `json:"extracted_skills"`
	SeniorityLevel          Seniority `json:"seniority_level"`
	RequiredExperienceYears float64   `json:"required_experience_years"`
	LocationNormalized      string    `json:"location_normalized,omitempty"`
	JobSummaryForEmbedding  string    `json:"job_summary_for_embedding"`
}

// Validate checks the structural invariants of a gateway-produced job record.
func (f *JobFeatures) Validate() error {
	if f.RequiredExperienceYears < 0 {
		return fmt.Errorf("required_experience_years is negative: %f", f.RequiredExperienceYears)
	}
	if strings.TrimSpace(f.JobSummaryForEmbedding) == "" {
		return fmt.Errorf("job_summary_for_embedding is empty")
	}
	sen, err := ParseSeniority(string(f.SeniorityLevel))
	if err != nil {
		return err
	}
	f.SeniorityLevel = sen
	return nil
}

// NormalizeSkills lower-cases, trims, and deduplicates skill strings into a set.
// Empty strings are dropped. All skill comparisons go through this normalization.
func NormalizeSkills(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	return set
}
