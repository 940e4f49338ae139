package port

import "tfidf/internal/domain"

// Retriever defines the interface for searching indexed content.
type Retriever interface {
	// Search searches for documents matching the query and returns top-k results.
	Search(query string, k int) ([]domain.ScoredDocument, error)
}

// SimilarFinder finds the documents closest to an indexed document.
type SimilarFinder interface {
	Similar(position, k int) ([]domain.ScoredDocument, error)
}
