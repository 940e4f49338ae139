package usecase

import (
	"fmt"
	"strings"

	"tfidf/internal/domain"
	"tfidf/internal/port"
)

// RetrieveUseCase handles search and similar-document lookups.
type RetrieveUseCase struct {
	retriever port.Retriever
	similar   port.SimilarFinder
	reranker  port.DiversityReranker // nil disables reranking
}

// NewRetrieveUseCase creates a new retrieve use case.
func NewRetrieveUseCase(
	retriever port.Retriever,
	similar port.SimilarFinder,
	reranker port.DiversityReranker,
) *RetrieveUseCase {
	return &RetrieveUseCase{
		retriever: retriever,
		similar:   similar,
		reranker:  reranker,
	}
}

// Retrieve searches for documents matching the query.
func (u *RetrieveUseCase) Retrieve(query string, topK int) ([]domain.ScoredDocument, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: top-k must be at least 1, got %d", domain.ErrInvalidParameter, topK)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query cannot be empty", domain.ErrInvalidParameter)
	}

	if u.reranker == nil {
		return u.retriever.Search(query, topK)
	}

	candidates, err := u.retriever.Search(query, topK*2)
	if err != nil {
		return nil, err
	}
	return u.rerank(candidates, topK), nil
}

// Similar returns the documents closest to the document at position.
func (u *RetrieveUseCase) Similar(position, topK int) ([]domain.ScoredDocument, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: top-k must be at least 1, got %d", domain.ErrInvalidParameter, topK)
	}

	if u.reranker == nil {
		return u.similar.Similar(position, topK)
	}

	candidates, err := u.similar.Similar(position, topK*2)
	if err != nil {
		return nil, err
	}
	return u.rerank(candidates, topK), nil
}

func (u *RetrieveUseCase) rerank(candidates []domain.ScoredDocument, topK int) []domain.ScoredDocument {
	if len(candidates) == 0 {
		return nil
	}
	return u.reranker.Rerank(candidates, topK)
}
