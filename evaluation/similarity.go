package evaluation

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/tmc/langchaingo/embeddings"
)

// ErrNoEmbedder is returned by NewSimilarity for a nil embedder.
var ErrNoEmbedder = errors.New("similarity requires an embedder")

// Similarity scores texts against a reference by embedding cosine similarity.
type Similarity struct {
	embedder embeddings.Embedder
}

// NewSimilarity creates a scorer. Any langchaingo embedder works, for example
// embeddings.NewEmbedder(openaiLLM).
func NewSimilarity(embedder embeddings.Embedder) (*Similarity, error) {
	if embedder == nil {
		return nil, ErrNoEmbedder
	}
	return &Similarity{embedder: embedder}, nil
}

// Score returns the cosine similarity of the reference and candidate embeddings.
func (s *Similarity) Score(ctx context.Context, reference, candidate string) (float64, error) {
	scores, err := s.ScoreAll(ctx, reference, []string{candidate})
	if err != nil {
		return 0, err
	}
	return scores[0], nil
}

// ScoreAll scores every candidate against the reference with one embedding request.
func (s *Similarity) ScoreAll(ctx context.Context, reference string, candidates []string) ([]float64, error) {
	texts := append([]string{reference}, candidates...)
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed texts: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("got %d embeddings for %d texts", len(vectors), len(texts))
	}

	scores := make([]float64, len(candidates))
	for i := range candidates {
		scores[i] = CosineSimilarity(vectors[0], vectors[i+1])
	}
	return scores, nil
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when their
// lengths differ or either is a zero vector.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
