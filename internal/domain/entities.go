package domain

import "time"

// Document is one corpus entry as supplied by a loader. Position is the
// identity used by the index to report results.
type Document struct {
	Position int               `json:"position"`
	Source   string            `json:"source,omitempty"`
	Text     string            `json:"text"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// Result is a ranked hit produced by the index.
type Result struct {
	Position int     `json:"position"`
	Score    float64 `json:"score"`
}

type ScoredDocument struct {
	Document Document
	Score    float64
}

type Stats struct {
	Documents      int     `json:"documents"`
	VocabularySize int     `json:"vocabulary_size"`
	NonZero        int     `json:"non_zero"`
	AvgTermsPerDoc float64 `json:"avg_terms_per_doc"`
}

// Cluster is one group of a clustering run, labelled by its heaviest
// centroid terms.
type Cluster struct {
	ID       int      `json:"id"`
	Members  []int    `json:"members"`
	TopTerms []string `json:"top_terms"`
}

type BuildInfo struct {
	Fingerprint string    `json:"fingerprint"`
	BuiltAt     time.Time `json:"built_at"`
	Analyzer    Analyzer  `json:"analyzer"`
}

// Analyzer captures the tokenizer settings an index was built with, so a
// reopened index tokenizes queries exactly like its corpus.
type Analyzer struct {
	NGramMin       int      `json:"ngram_min"`
	NGramMax       int      `json:"ngram_max"`
	MinTokenLength int      `json:"min_token_length"`
	Stemming       bool     `json:"stemming"`
	StopWords      []string `json:"stop_words,omitempty"`
}
