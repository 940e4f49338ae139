// Package vocab fits the term vocabulary of a corpus: dense term ids,
// per-term document frequencies and the smoothed IDF weights derived from
// them. A Vocabulary is immutable once fitted.
package vocab

import (
	"fmt"
	"math"
	"sort"

	"tfidf/internal/domain"
)

// DFBound limits document frequency either as an absolute document count
// or as a fraction of the corpus size. The zero value is unset.
type DFBound struct {
	Value    float64
	Relative bool
	set      bool
}

// Absolute returns a bound of n documents.
func Absolute(n int) DFBound {
	return DFBound{Value: float64(n), set: true}
}

// Fraction returns a bound of f*N documents.
func Fraction(f float64) DFBound {
	return DFBound{Value: f, Relative: true, set: true}
}

// IsSet reports whether the bound was configured.
func (b DFBound) IsSet() bool {
	return b.set
}

func (b DFBound) validate(name string) error {
	if !b.set {
		return nil
	}
	if b.Value < 0 || math.IsNaN(b.Value) {
		return fmt.Errorf("%w: %s must be non-negative, got %v", domain.ErrInvalidParameter, name, b.Value)
	}
	if b.Relative && b.Value > 1 {
		return fmt.Errorf("%w: %s fraction must be within [0, 1], got %v", domain.ErrInvalidParameter, name, b.Value)
	}
	return nil
}

// limit resolves the bound to a document count for a corpus of n documents.
func (b DFBound) limit(n int) float64 {
	if b.Relative {
		return b.Value * float64(n)
	}
	return b.Value
}

// Options configures vocabulary pruning.
type Options struct {
	// MaxFeatures keeps only the terms with the highest document frequency,
	// ties broken by lexical order. 0 keeps every term.
	MaxFeatures int
	MinDF       DFBound
	MaxDF       DFBound
}

func (o Options) validate() error {
	if o.MaxFeatures < 0 {
		return fmt.Errorf("%w: max features must be non-negative, got %d", domain.ErrInvalidParameter, o.MaxFeatures)
	}
	if err := o.MinDF.validate("min document frequency"); err != nil {
		return err
	}
	return o.MaxDF.validate("max document frequency")
}

// Vocabulary maps terms to dense ids in lexical order of the terms.
type Vocabulary struct {
	terms    []string
	ids      map[string]int
	df       []int
	idf      []float64
	docCount int
}

// Fit builds a Vocabulary from a tokenized corpus in a single pass.
func Fit(corpus [][]string, opts Options) (*Vocabulary, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	n := len(corpus)
	if n == 0 {
		return nil, fmt.Errorf("%w: no documents", domain.ErrEmptyCorpus)
	}

	counts := make(map[string]int)
	seen := make(map[string]struct{})
	for _, tokens := range corpus {
		clear(seen)
		for _, term := range tokens {
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}
			counts[term]++
		}
	}

	minDocs := 0.0
	if opts.MinDF.IsSet() {
		minDocs = opts.MinDF.limit(n)
	}
	maxDocs := math.Inf(1)
	if opts.MaxDF.IsSet() {
		maxDocs = opts.MaxDF.limit(n)
	}
	if minDocs > maxDocs {
		return nil, fmt.Errorf("%w: max document frequency (%v docs) is below min document frequency (%v docs)",
			domain.ErrInvalidParameter, maxDocs, minDocs)
	}

	type termDF struct {
		term string
		df   int
	}
	kept := make([]termDF, 0, len(counts))
	for term, df := range counts {
		if float64(df) < minDocs || float64(df) > maxDocs {
			continue
		}
		kept = append(kept, termDF{term: term, df: df})
	}

	if opts.MaxFeatures > 0 && len(kept) > opts.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if kept[i].df != kept[j].df {
				return kept[i].df > kept[j].df
			}
			return kept[i].term < kept[j].term
		})
		kept = kept[:opts.MaxFeatures]
	}

	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: no terms left after pruning %d documents", domain.ErrEmptyCorpus, n)
	}

	sort.Slice(kept, func(i, j int) bool {
		return kept[i].term < kept[j].term
	})

	terms := make([]string, len(kept))
	dfs := make([]int, len(kept))
	for i, k := range kept {
		terms[i] = k.term
		dfs[i] = k.df
	}
	return build(terms, dfs, n), nil
}

// New reconstructs a fitted Vocabulary, e.g. from a persisted index. Terms
// must be unique and in lexical order; terms[i] gets id i.
func New(terms []string, dfs []int, docCount int) (*Vocabulary, error) {
	if len(terms) != len(dfs) {
		return nil, fmt.Errorf("%w: %d terms but %d document frequencies", domain.ErrInvalidParameter, len(terms), len(dfs))
	}
	if docCount <= 0 || len(terms) == 0 {
		return nil, fmt.Errorf("%w: vocabulary has %d terms over %d documents", domain.ErrEmptyCorpus, len(terms), docCount)
	}
	for i, term := range terms {
		if i > 0 && terms[i-1] >= term {
			return nil, fmt.Errorf("%w: terms not in strict lexical order at id %d", domain.ErrInvalidParameter, i)
		}
		if dfs[i] < 1 || dfs[i] > docCount {
			return nil, fmt.Errorf("%w: document frequency %d of %q outside [1, %d]", domain.ErrInvalidParameter, dfs[i], term, docCount)
		}
	}
	return build(append([]string(nil), terms...), append([]int(nil), dfs...), docCount), nil
}

func build(terms []string, dfs []int, docCount int) *Vocabulary {
	v := &Vocabulary{
		terms:    terms,
		ids:      make(map[string]int, len(terms)),
		df:       dfs,
		idf:      make([]float64, len(terms)),
		docCount: docCount,
	}
	for id, term := range terms {
		v.ids[term] = id
		v.idf[id] = smoothIDF(docCount, dfs[id])
	}
	return v
}

// smoothIDF is ln((1+N)/(1+df)) + 1, strictly positive for df <= N.
func smoothIDF(n, df int) float64 {
	return math.Log(float64(1+n)/float64(1+df)) + 1
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// DocCount returns the number of documents the vocabulary was fitted on.
func (v *Vocabulary) DocCount() int {
	return v.docCount
}

// ID returns the id of term.
func (v *Vocabulary) ID(term string) (int, bool) {
	id, ok := v.ids[term]
	return id, ok
}

// Term returns the term with the given id, or "" when id is out of range.
func (v *Vocabulary) Term(id int) string {
	if id < 0 || id >= len(v.terms) {
		return ""
	}
	return v.terms[id]
}

func (v *Vocabulary) DocFrequency(id int) int {
	if id < 0 || id >= len(v.df) {
		return 0
	}
	return v.df[id]
}

func (v *Vocabulary) IDF(id int) float64 {
	if id < 0 || id >= len(v.idf) {
		return 0
	}
	return v.idf[id]
}

// Terms returns a copy of the terms ordered by id.
func (v *Vocabulary) Terms() []string {
	return append([]string(nil), v.terms...)
}

// DocFrequencies returns a copy of the document frequencies ordered by id.
func (v *Vocabulary) DocFrequencies() []int {
	return append([]int(nil), v.df...)
}
