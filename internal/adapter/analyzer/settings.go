package analyzer

import (
	"sort"

	"tfidf/internal/domain"
)

// FromSettings rebuilds a Tokenizer from persisted analyzer settings.
func FromSettings(a domain.Analyzer) *Tokenizer {
	stops := make(map[string]struct{}, len(a.StopWords))
	for _, w := range a.StopWords {
		stops[w] = struct{}{}
	}
	return NewTokenizer(Options{
		NGramMin:       a.NGramMin,
		NGramMax:       a.NGramMax,
		MinTokenLength: a.MinTokenLength,
		StopWords:      stops,
		Stemming:       a.Stemming,
	})
}

// Settings reports the effective configuration of t, stop words sorted.
func (t *Tokenizer) Settings() domain.Analyzer {
	stops := make([]string, 0, len(t.stopwords))
	for w := range t.stopwords {
		stops = append(stops, w)
	}
	sort.Strings(stops)
	return domain.Analyzer{
		NGramMin:       t.ngramMin,
		NGramMax:       t.ngramMax,
		MinTokenLength: t.minLen,
		Stemming:       t.useStem,
		StopWords:      stops,
	}
}
