package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/talent-cloud/matchdex/internal/domain"
)

func entry(id int64, emb []float32) domain.ProcessedCandidate {
	return domain.ProcessedCandidate{
		ID: id,
		EngineeredFeatures: domain.CandidateFeatures{
			TotalYearsOfExperience: 3,
			SeniorityLevel:         domain.SeniorityMid,
			CandidateSummary:       "summary",
		},
		Embedding: emb,
	}
}

func TestNew_Valid(t *testing.T) {
	c, err := New([]domain.ProcessedCandidate{
		entry(1, []float32{1, 0}),
		entry(2, []float32{0, 1}),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", c.Len())
	}
	if c.Dim() != 2 {
		t.Errorf("expected dimension 2, got %d", c.Dim())
	}
	if c.Entry(0).ID != 1 {
		t.Errorf("expected entry 0 id=1, got %d", c.Entry(0).ID)
	}
	if got := c.Row(1); got[1] != 1 {
		t.Errorf("matrix row 1 misaligned: %v", got)
	}
}

func TestNew_Empty(t *testing.T) {
	c, err := New(nil)
	if err != nil {
		t.Fatalf("empty corpus must be valid: %v", err)
	}
	if c.Len() != 0 || c.Dim() != 0 {
		t.Errorf("expected empty corpus, got len=%d dim=%d", c.Len(), c.Dim())
	}
}

func TestNew_EmptyEmbedding(t *testing.T) {
	_, err := New([]domain.ProcessedCandidate{entry(1, nil)})
	if !errors.Is(err, domain.ErrCorpusInvalid) {
		t.Errorf("expected ErrCorpusInvalid, got %v", err)
	}
}

func TestNew_DimensionMismatch(t *testing.T) {
	_, err := New([]domain.ProcessedCandidate{
		entry(1, []float32{1, 0}),
		entry(2, []float32{1, 0, 0}),
	})
	if !errors.Is(err, domain.ErrCorpusInvalid) {
		t.Errorf("expected ErrCorpusInvalid, got %v", err)
	}
}

func TestNew_DuplicateID(t *testing.T) {
	_, err := New([]domain.ProcessedCandidate{
		entry(7, []float32{1, 0}),
		entry(7, []float32{0, 1}),
	})
	if !errors.Is(err, domain.ErrCorpusInvalid) {
		t.Errorf("expected ErrCorpusInvalid, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed.json")
	data := `[
		{"id": 1, "original_data": {"first_name": "A", "last_name": "B", "email": "a@b.c", "skills": [], "experiences": [], "education": []},
		 "engineered_features": {"total_years_of_experience": 5, "seniority_level": "Senior", "education_level": "Master's", "skill_keywords": ["go"], "candidate_summary": "s"},
		 "embedding": [0.1, 0.2]}
	]`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Len() != 1 || c.Dim() != 2 {
		t.Errorf("expected len=1 dim=2, got len=%d dim=%d", c.Len(), c.Dim())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, domain.ErrCorpusInvalid) {
		t.Errorf("expected ErrCorpusInvalid, got %v", err)
	}
}

func TestLoad_NotAList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte(`{"id": 1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, domain.ErrCorpusInvalid) {
		t.Errorf("expected ErrCorpusInvalid, got %v", err)
	}
}

func TestStore_Swap(t *testing.T) {
	first, err := New([]domain.ProcessedCandidate{entry(1, []float32{1})})
	if err != nil {
		t.Fatal(err)
	}
	second, err := New([]domain.ProcessedCandidate{
		entry(1, []float32{1}),
		entry(2, []float32{2}),
	})
	if err != nil {
		t.Fatal(err)
	}

	store := NewStore(first)
	if store.Get().Len() != 1 {
		t.Fatalf("expected initial snapshot with 1 entry, got %d", store.Get().Len())
	}

	store.Swap(second)
	if store.Get().Len() != 2 {
		t.Errorf("expected swapped snapshot with 2 entries, got %d", store.Get().Len())
	}
}
