package domain

import (
	"context"
	"math"
)

// EmbeddingResult carries an embedding vector and token usage from the gateway.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// FeatureExtractor derives engineered features from raw records via the gateway.
type FeatureExtractor interface {
	JobFeatures(ctx context.Context, job RawJob) (JobFeatures, error)
	CandidateFeatures(ctx context.Context, cand RawCandidate) (CandidateFeatures, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies gateway availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CosineSimilarity computes the normalized dot product of two equal-length vectors.
// A zero-norm vector on either side yields 0.0, never NaN. Accumulation is float64
// to keep the score stable for high-dimensional float32 embeddings.
func CosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
