package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kljensen/snowball/english"
)

// Options configures a Tokenizer. The zero value tokenizes into unigrams of
// at least two runes with no stop-word removal and no stemming.
type Options struct {
	NGramMin       int
	NGramMax       int
	MinTokenLength int
	StopWords      map[string]struct{}
	Stemming       bool
}

// Tokenizer splits text into normalized terms and n-grams.
type Tokenizer struct {
	ngramMin  int
	ngramMax  int
	minLen    int
	stopwords map[string]struct{}
	useStem   bool
}

// NewTokenizer creates a new Tokenizer.
func NewTokenizer(opts Options) *Tokenizer {
	ngramMin, ngramMax := opts.NGramMin, opts.NGramMax
	if ngramMin < 1 {
		ngramMin = 1
	}
	if ngramMax < ngramMin {
		ngramMax = ngramMin
	}
	minLen := opts.MinTokenLength
	if minLen <= 0 {
		minLen = 2
	}
	stops := make(map[string]struct{}, len(opts.StopWords))
	for w := range opts.StopWords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{
		ngramMin:  ngramMin,
		ngramMax:  ngramMax,
		minLen:    minLen,
		stopwords: stops,
		useStem:   opts.Stemming,
	}
}

// Tokenize splits text into terms. Unigrams come first, then each longer
// n-gram size in turn, every group in text order.
func (t *Tokenizer) Tokenize(text string) []string {
	words := t.words(text)
	if len(words) == 0 {
		return []string{}
	}

	size := 0
	for n := t.ngramMin; n <= t.ngramMax; n++ {
		if len(words) >= n {
			size += len(words) - n + 1
		}
	}
	tokens := make([]string, 0, size)

	for n := t.ngramMin; n <= t.ngramMax; n++ {
		if n == 1 {
			tokens = append(tokens, words...)
			continue
		}
		for i := 0; i+n <= len(words); i++ {
			tokens = append(tokens, strings.Join(words[i:i+n], " "))
		}
	}
	return tokens
}

// CountTokens returns the number of terms Tokenize emits for text.
func (t *Tokenizer) CountTokens(text string) int {
	return len(t.Tokenize(text))
}

// words returns the normalized unigram sequence n-grams are built from.
func (t *Tokenizer) words(text string) []string {
	raw := splitWords(text)
	words := make([]string, 0, len(raw))

	for _, word := range raw {
		word = strings.ToLower(word)
		if utf8.RuneCountInString(word) < t.minLen {
			continue
		}
		if _, isStop := t.stopwords[word]; isStop {
			continue
		}
		if t.useStem {
			word = english.Stem(word, false)
		}
		words = append(words, word)
	}

	return words
}

// splitWords splits text into runs of letters, digits and underscores.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
