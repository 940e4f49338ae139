package port

import "tfidf/internal/domain"

type FileWalker interface {
	Walk(root string) ([]FileInfo, error)
}

type FileInfo struct {
	Path    string
	ModTime int64
	Size    int64
}

// CorpusLoader reads a corpus from path, one domain.Document per entry in
// a stable order.
type CorpusLoader interface {
	Load(path string) ([]domain.Document, error)
}
