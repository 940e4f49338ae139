package analyzer

import "strings"

var englishStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "also", "am",
	"an", "and", "any", "are", "as", "at", "be", "because", "been", "before",
	"being", "below", "between", "both", "but", "by", "can", "could", "did",
	"do", "does", "doing", "down", "during", "each", "every", "few", "for",
	"from", "further", "had", "has", "have", "having", "he", "her", "here",
	"hers", "herself", "him", "himself", "his", "how", "if", "in", "into",
	"is", "it", "its", "itself", "just", "may", "me", "might", "more", "most",
	"must", "my", "myself", "no", "nor", "not", "of", "off", "on", "once",
	"only", "or", "other", "our", "ours", "ourselves", "out", "over", "own",
	"same", "shall", "she", "should", "so", "some", "such", "than", "that",
	"the", "their", "theirs", "them", "themselves", "then", "there", "these",
	"they", "this", "those", "through", "to", "too", "under", "until", "up",
	"very", "was", "we", "were", "what", "when", "where", "which", "while",
	"who", "whom", "why", "will", "with", "would", "you", "your", "yours",
	"yourself", "yourselves",
}

// EnglishStopwords returns a fresh set of common English stop words.
func EnglishStopwords() map[string]struct{} {
	m := make(map[string]struct{}, len(englishStopwords))
	for _, s := range englishStopwords {
		m[s] = struct{}{}
	}
	return m
}

// StopwordSet resolves a named list ("english" or "none") plus extra words.
// Unknown names resolve to no built-in list.
func StopwordSet(name string, extra []string) map[string]struct{} {
	var m map[string]struct{}
	switch strings.ToLower(name) {
	case "english":
		m = EnglishStopwords()
	default:
		m = make(map[string]struct{}, len(extra))
	}
	for _, w := range extra {
		m[strings.ToLower(w)] = struct{}{}
	}
	return m
}
