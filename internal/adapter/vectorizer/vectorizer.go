// Package vectorizer turns token sequences into L2-normalized sparse TF-IDF
// vectors against a fitted vocabulary. The same transform is used for
// corpus documents and for queries.
package vectorizer

import (
	"math"
	"sort"

	"tfidf/internal/adapter/vocab"
)

// Vectorizer applies a fitted Vocabulary. It holds no mutable state.
type Vectorizer struct {
	vocab *vocab.Vocabulary
}

func New(v *vocab.Vocabulary) *Vectorizer {
	return &Vectorizer{vocab: v}
}

func (z *Vectorizer) Vocabulary() *vocab.Vocabulary {
	return z.vocab
}

// Transform weights each in-vocabulary term by tf*idf and L2-normalizes the
// result. Out-of-vocabulary tokens are ignored; a vector without any
// in-vocabulary term is returned empty.
func (z *Vectorizer) Transform(tokens []string) Vector {
	tf := make(map[int]int)
	for _, token := range tokens {
		if id, ok := z.vocab.ID(token); ok {
			tf[id]++
		}
	}
	if len(tf) == 0 {
		return Vector{}
	}

	ids := make([]int, 0, len(tf))
	for id := range tf {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	weights := make([]float64, len(ids))
	var sumSq float64
	for i, id := range ids {
		w := float64(tf[id]) * z.vocab.IDF(id)
		weights[i] = w
		sumSq += w * w
	}

	if norm := math.Sqrt(sumSq); norm > 0 {
		for i := range weights {
			weights[i] /= norm
		}
	}

	return Vector{IDs: ids, Weights: weights}
}
