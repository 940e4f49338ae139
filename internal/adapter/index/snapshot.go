package index

import "tfidf/internal/domain"

// Snapshot is everything needed to serve queries without re-reading the
// corpus: the index, the documents in index order and how it was built.
type Snapshot struct {
	Index *Index
	Docs  []domain.Document
	Build domain.BuildInfo
}

// RebuildCheck describes whether a stored snapshot can be reused.
type RebuildCheck struct {
	NeedsRebuild bool
	OldVersion   int
	NewVersion   int
	Reason       string
}
