package retriever

import (
	"tfidf/internal/adapter/index"
	"tfidf/internal/domain"
)

// MMRReranker implements Maximal Marginal Relevance for result diversification.
// Similarity between candidates is the cosine of their TF-IDF vectors.
type MMRReranker struct {
	index       *index.Index
	lambda      float64
	dedupCosine float64
}

// NewMMRReranker creates a new MMR reranker.
func NewMMRReranker(ix *index.Index, lambda, dedupCosine float64) *MMRReranker {
	return &MMRReranker{
		index:       ix,
		lambda:      lambda,
		dedupCosine: dedupCosine,
	}
}

// Rerank applies MMR to diversify the results.
// MMR(c) = λ * relevance(c) - (1-λ) * max_similarity(c, selected)
func (r *MMRReranker) Rerank(candidates []domain.ScoredDocument, k int) []domain.ScoredDocument {
	if len(candidates) == 0 || k <= 0 {
		return nil
	}

	if k > len(candidates) {
		k = len(candidates)
	}

	// Normalize scores to [0, 1] for fair comparison
	maxScore := candidates[0].Score
	for _, c := range candidates {
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}
	if maxScore == 0 {
		maxScore = 1
	}

	selected := make([]domain.ScoredDocument, 0, k)
	remaining := make([]domain.ScoredDocument, len(candidates))
	copy(remaining, candidates)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := -1
		bestMMR := -1e9

		for i, candidate := range remaining {
			relevance := candidate.Score / maxScore

			maxSim := 0.0
			for _, sel := range selected {
				sim := r.similarity(candidate.Document.Position, sel.Document.Position)
				if sim > maxSim {
					maxSim = sim
				}
			}

			// Near-duplicates of an already selected document are dropped
			if maxSim > r.dedupCosine {
				continue
			}

			mmr := r.lambda*relevance - (1-r.lambda)*maxSim
			if mmr > bestMMR {
				bestMMR = mmr
				bestIdx = i
			}
		}

		if bestIdx == -1 {
			break
		}

		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	return selected
}

func (r *MMRReranker) similarity(a, b int) float64 {
	sim, err := r.index.Cosine(a, b)
	if err != nil {
		return 0
	}
	return sim
}
