package domain

import "errors"

var (
	// ErrCorpusInvalid signals a structurally broken corpus snapshot.
	ErrCorpusInvalid = errors.New("corpus snapshot invalid")
	// ErrDimensionMismatch signals an embedding dimension mismatch between query and corpus.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
	// ErrFeatureExtraction signals a feature-extraction gateway failure.
	ErrFeatureExtraction = errors.New("feature extraction failed")
	// ErrEmbeddingFailed signals an embedding gateway failure.
	ErrEmbeddingFailed = errors.New("embedding failed")
	// ErrGatewayTimeout signals that a gateway call exceeded its deadline.
	ErrGatewayTimeout = errors.New("gateway timeout")
	// ErrInvalidRequest signals a malformed search request.
	ErrInvalidRequest = errors.New("invalid request")
)
