// Package corpus holds the immutable set of processed candidates the search
// pipeline ranks against, plus the position-aligned embedding matrix.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/talent-cloud/matchdex/internal/domain"
)

// Corpus is an immutable snapshot of processed candidates. Row i of the
// embedding matrix is the embedding of entry i; the entry identifier is
// caller-facing only and plays no part in matrix alignment.
type Corpus struct {
	entries []domain.ProcessedCandidate
	matrix  [][]float32
	dim     int
}

// New validates entries and builds a corpus. Every entry must have a non-empty
// embedding, all embeddings must share one dimension, and ids must be unique.
// An empty entry list is a valid empty corpus.
func New(entries []domain.ProcessedCandidate) (*Corpus, error) {
	c := &Corpus{
		entries: entries,
		matrix:  make([][]float32, len(entries)),
	}

	seen := make(map[int64]struct{}, len(entries))
	for i := range entries {
		e := &entries[i]
		if len(e.Embedding) == 0 {
			return nil, fmt.Errorf("entry %d (id=%d): empty embedding: %w", i, e.ID, domain.ErrCorpusInvalid)
		}
		if c.dim == 0 {
			c.dim = len(e.Embedding)
		} else if len(e.Embedding) != c.dim {
			return nil, fmt.Errorf(
				"entry %d (id=%d): embedding dimension %d, corpus dimension %d: %w",
				i, e.ID, len(e.Embedding), c.dim, domain.ErrCorpusInvalid,
			)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("entry %d: duplicate id %d: %w", i, e.ID, domain.ErrCorpusInvalid)
		}
		seen[e.ID] = struct{}{}
		c.matrix[i] = e.Embedding
	}

	return c, nil
}

// Load reads a persisted snapshot (a JSON list of processed candidates) and
// builds a validated corpus. Any structural defect is an error; the loader
// never falls back to an empty corpus.
func Load(path string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus snapshot %s: %w: %w", path, err, domain.ErrCorpusInvalid)
	}

	var entries []domain.ProcessedCandidate
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus snapshot %s: %w: %w", path, err, domain.ErrCorpusInvalid)
	}

	c, err := New(entries)
	if err != nil {
		return nil, fmt.Errorf("corpus snapshot %s: %w", path, err)
	}
	return c, nil
}

// Len returns the number of entries.
func (c *Corpus) Len() int { return len(c.entries) }

// Dim returns the embedding dimension, 0 for an empty corpus.
func (c *Corpus) Dim() int { return c.dim }

// Entry returns a pointer to the entry at position i.
func (c *Corpus) Entry(i int) *domain.ProcessedCandidate { return &c.entries[i] }

// Row returns the embedding-matrix row at position i.
func (c *Corpus) Row(i int) []float32 { return c.matrix[i] }

// Store publishes one reader-visible corpus snapshot at a time. Reload is
// build-new-then-swap; readers never observe a half-updated corpus.
type Store struct {
	ptr atomic.Pointer[Corpus]
}

// NewStore creates a store holding the given snapshot.
func NewStore(c *Corpus) *Store {
	s := &Store{}
	s.ptr.Store(c)
	return s
}

// Get returns the current snapshot.
func (s *Store) Get() *Corpus { return s.ptr.Load() }

// Swap atomically replaces the current snapshot.
func (s *Store) Swap(c *Corpus) { s.ptr.Store(c) }
