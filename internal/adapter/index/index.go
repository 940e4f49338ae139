// Package index holds the immutable TF-IDF index of a corpus and ranks its
// documents against query vectors by cosine similarity.
//
// An Index is built once from a tokenized corpus and is read-only from then
// on, so any number of goroutines may search it concurrently.
package index

import (
	"encoding/json"
	"fmt"
	"sort"

	"tfidf/internal/adapter/vectorizer"
	"tfidf/internal/adapter/vocab"
	"tfidf/internal/domain"
)

type Index struct {
	vocab      *vocab.Vocabulary
	vectorizer *vectorizer.Vectorizer
	vectors    []vectorizer.Vector
}

// Build fits the vocabulary on corpus and vectorizes every document in
// input order. No Index is returned unless both steps succeed.
func Build(corpus [][]string, opts vocab.Options) (*Index, error) {
	v, err := vocab.Fit(corpus, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fit vocabulary: %w", err)
	}

	z := vectorizer.New(v)
	vectors := make([]vectorizer.Vector, len(corpus))
	for i, tokens := range corpus {
		vectors[i] = z.Transform(tokens)
	}

	return &Index{vocab: v, vectorizer: z, vectors: vectors}, nil
}

// New assembles an Index from a vocabulary and precomputed document
// vectors, checking that they are consistent with each other.
func New(v *vocab.Vocabulary, vectors []vectorizer.Vector) (*Index, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil vocabulary", domain.ErrInvalidParameter)
	}
	if len(vectors) != v.DocCount() {
		return nil, fmt.Errorf("%w: %d document vectors for a vocabulary fitted on %d documents",
			domain.ErrInvalidParameter, len(vectors), v.DocCount())
	}
	owned := make([]vectorizer.Vector, len(vectors))
	for pos, vec := range vectors {
		if err := vec.Validate(); err != nil {
			return nil, fmt.Errorf("%w: document %d: %v", domain.ErrInvalidParameter, pos, err)
		}
		if vec.MaxID() >= v.Len() {
			return nil, fmt.Errorf("%w: document %d references term id %d, vocabulary has %d terms",
				domain.ErrInvalidParameter, pos, vec.MaxID(), v.Len())
		}
		owned[pos] = vec.Clone()
	}
	return &Index{
		vocab:      v,
		vectorizer: vectorizer.New(v),
		vectors:    owned,
	}, nil
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	return len(ix.vectors)
}

func (ix *Index) Vocabulary() *vocab.Vocabulary {
	return ix.vocab
}

// Vector returns a copy of the stored vector of the document at pos.
func (ix *Index) Vector(pos int) (vectorizer.Vector, error) {
	if err := ix.checkPosition(pos); err != nil {
		return vectorizer.Vector{}, err
	}
	return ix.vectors[pos].Clone(), nil
}

// Cosine returns the similarity of the stored vectors at a and b without
// copying them.
func (ix *Index) Cosine(a, b int) (float64, error) {
	if err := ix.checkPosition(a); err != nil {
		return 0, err
	}
	if err := ix.checkPosition(b); err != nil {
		return 0, err
	}
	return ix.vectors[a].Cosine(ix.vectors[b]), nil
}

func (ix *Index) checkPosition(pos int) error {
	if pos < 0 || pos >= len(ix.vectors) {
		return fmt.Errorf("%w: %d not in [0, %d)", domain.ErrOutOfRange, pos, len(ix.vectors))
	}
	return nil
}

// Transform vectorizes a token sequence against the index vocabulary.
func (ix *Index) Transform(tokens []string) vectorizer.Vector {
	return ix.vectorizer.Transform(tokens)
}

// Search scores every document against query and returns at most topK
// results with score >= threshold, by descending score then ascending
// position. Query is expected to be L2-normalized, so the dot product is the
// cosine similarity.
func (ix *Index) Search(query vectorizer.Vector, topK int, threshold float64) []domain.Result {
	return ix.rank(query, topK, threshold, -1)
}

// Similar ranks the other documents against the stored vector of the
// document at pos. The document itself is never part of the results.
func (ix *Index) Similar(pos, topK int) ([]domain.Result, error) {
	if err := ix.checkPosition(pos); err != nil {
		return nil, err
	}
	return ix.rank(ix.vectors[pos], topK, 0, pos), nil
}

func (ix *Index) rank(query vectorizer.Vector, topK int, threshold float64, exclude int) []domain.Result {
	if topK <= 0 {
		return []domain.Result{}
	}

	results := make([]domain.Result, 0, len(ix.vectors))
	for pos, vec := range ix.vectors {
		if pos == exclude {
			continue
		}
		score := query.Dot(vec)
		if score > 1 {
			score = 1
		}
		if score < threshold {
			continue
		}
		results = append(results, domain.Result{Position: pos, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Position < results[j].Position
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// Stats summarizes the index.
func (ix *Index) Stats() domain.Stats {
	nonZero := 0
	for _, vec := range ix.vectors {
		nonZero += vec.Len()
	}
	stats := domain.Stats{
		Documents:      len(ix.vectors),
		VocabularySize: ix.vocab.Len(),
		NonZero:        nonZero,
	}
	if len(ix.vectors) > 0 {
		stats.AvgTermsPerDoc = float64(nonZero) / float64(len(ix.vectors))
	}
	return stats
}

type vocabEntry struct {
	ID                int `json:"id"`
	DocumentFrequency int `json:"document_frequency"`
}

type snapshot struct {
	Vocabulary      map[string]vocabEntry `json:"vocabulary"`
	DocumentVectors []vectorizer.Vector   `json:"document_vectors"`
	DocumentCount   int                   `json:"document_count"`
}

// MarshalJSON encodes the index as
// {"vocabulary": {term: {id, document_frequency}}, "document_vectors": [...], "document_count": N}.
func (ix *Index) MarshalJSON() ([]byte, error) {
	s := snapshot{
		Vocabulary:      make(map[string]vocabEntry, ix.vocab.Len()),
		DocumentVectors: ix.vectors,
		DocumentCount:   len(ix.vectors),
	}
	for id, term := range ix.vocab.Terms() {
		s.Vocabulary[term] = vocabEntry{ID: id, DocumentFrequency: ix.vocab.DocFrequency(id)}
	}
	return json.Marshal(s)
}

// UnmarshalJSON decodes the form written by MarshalJSON and validates it.
func (ix *Index) UnmarshalJSON(data []byte) error {
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	terms := make([]string, len(s.Vocabulary))
	dfs := make([]int, len(s.Vocabulary))
	filled := make([]bool, len(s.Vocabulary))
	for term, e := range s.Vocabulary {
		if e.ID < 0 || e.ID >= len(terms) || filled[e.ID] {
			return fmt.Errorf("%w: term %q has invalid or duplicate id %d", domain.ErrInvalidParameter, term, e.ID)
		}
		terms[e.ID] = term
		dfs[e.ID] = e.DocumentFrequency
		filled[e.ID] = true
	}

	v, err := vocab.New(terms, dfs, s.DocumentCount)
	if err != nil {
		return fmt.Errorf("invalid vocabulary: %w", err)
	}
	loaded, err := New(v, s.DocumentVectors)
	if err != nil {
		return err
	}
	*ix = *loaded
	return nil
}
