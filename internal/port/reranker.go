package port

import "tfidf/internal/domain"

type DiversityReranker interface {
	Rerank(docs []domain.ScoredDocument, k int) []domain.ScoredDocument
}
