package retriever

import (
	"fmt"

	"tfidf/internal/adapter/index"
	"tfidf/internal/domain"
	"tfidf/internal/port"
)

// TFIDFRetriever ranks documents of an index against free-text queries.
type TFIDFRetriever struct {
	index     *index.Index
	docs      []domain.Document
	tokenizer port.Tokenizer
	threshold float64
}

// NewTFIDFRetriever creates a retriever. docs[i] must describe the document
// at index position i.
func NewTFIDFRetriever(ix *index.Index, docs []domain.Document, tokenizer port.Tokenizer, threshold float64) (*TFIDFRetriever, error) {
	if len(docs) != ix.Len() {
		return nil, fmt.Errorf("%w: %d documents for an index of %d", domain.ErrInvalidParameter, len(docs), ix.Len())
	}
	return &TFIDFRetriever{
		index:     ix,
		docs:      docs,
		tokenizer: tokenizer,
		threshold: threshold,
	}, nil
}

func (r *TFIDFRetriever) Search(query string, k int) ([]domain.ScoredDocument, error) {
	queryTokens := r.tokenizer.Tokenize(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	results := r.index.Search(r.index.Transform(queryTokens), k, r.threshold)
	return r.join(results), nil
}

// Similar returns the k documents closest to the document at position.
func (r *TFIDFRetriever) Similar(position, k int) ([]domain.ScoredDocument, error) {
	results, err := r.index.Similar(position, k)
	if err != nil {
		return nil, err
	}
	return r.join(results), nil
}

// Document returns the document at position.
func (r *TFIDFRetriever) Document(position int) (domain.Document, error) {
	if position < 0 || position >= len(r.docs) {
		return domain.Document{}, fmt.Errorf("%w: %d not in [0, %d)", domain.ErrOutOfRange, position, len(r.docs))
	}
	return r.docs[position], nil
}

func (r *TFIDFRetriever) join(results []domain.Result) []domain.ScoredDocument {
	scored := make([]domain.ScoredDocument, len(results))
	for i, res := range results {
		scored[i] = domain.ScoredDocument{
			Document: r.docs[res.Position],
			Score:    res.Score,
		}
	}
	return scored
}
