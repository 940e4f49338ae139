// Package cluster partitions the documents of an index into topic groups
// with Lloyd's k-means over their sparse TF-IDF vectors, using cosine
// similarity as the assignment criterion.
package cluster

import (
	"fmt"
	"math/rand"
	"sort"

	"tfidf/internal/adapter/index"
	"tfidf/internal/adapter/vectorizer"
	"tfidf/internal/adapter/vocab"
	"tfidf/internal/domain"
)

// Options configures a k-means run.
type Options struct {
	K             int
	MaxIterations int
	Seed          int64
}

// Assignment is the outcome of one clustering run. Labels[pos] is the
// cluster of the document at pos.
type Assignment struct {
	Labels     []int
	Centroids  []vectorizer.Vector
	Iterations int
	Converged  bool
}

// KMeans clusters the documents of ix. Initial centroids are K distinct
// document vectors drawn with a generator seeded by opts.Seed, so equal
// inputs give equal assignments.
func KMeans(ix *index.Index, opts Options) (*Assignment, error) {
	n := ix.Len()
	if opts.K <= 0 {
		return nil, fmt.Errorf("%w: cluster count must be positive, got %d", domain.ErrInvalidParameter, opts.K)
	}
	if opts.K > n {
		return nil, fmt.Errorf("%w: cluster count %d exceeds document count %d", domain.ErrInvalidParameter, opts.K, n)
	}
	if opts.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: max iterations must be positive, got %d", domain.ErrInvalidParameter, opts.MaxIterations)
	}

	docs := make([]vectorizer.Vector, n)
	for pos := range docs {
		docs[pos], _ = ix.Vector(pos)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	centroids := make([]vectorizer.Vector, opts.K)
	for c, pos := range rng.Perm(n)[:opts.K] {
		centroids[c] = docs[pos].Clone()
	}

	labels := make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	result := &Assignment{Labels: labels, Centroids: centroids}
	for result.Iterations < opts.MaxIterations {
		result.Iterations++

		changed := false
		for pos, doc := range docs {
			best := nearest(doc, centroids)
			if labels[pos] != best {
				labels[pos] = best
				changed = true
			}
		}
		if !changed {
			result.Converged = true
			break
		}

		updateCentroids(docs, labels, centroids)
	}

	return result, nil
}

// nearest returns the centroid with maximal cosine similarity to doc, the
// lowest id on ties.
func nearest(doc vectorizer.Vector, centroids []vectorizer.Vector) int {
	best, bestSim := 0, doc.Cosine(centroids[0])
	for c := 1; c < len(centroids); c++ {
		if sim := doc.Cosine(centroids[c]); sim > bestSim {
			best, bestSim = c, sim
		}
	}
	return best
}

// updateCentroids replaces each centroid by the mean of its members. A
// cluster without members keeps its previous centroid.
func updateCentroids(docs []vectorizer.Vector, labels []int, centroids []vectorizer.Vector) {
	sums := make([]map[int]float64, len(centroids))
	counts := make([]int, len(centroids))
	for pos, doc := range docs {
		c := labels[pos]
		if sums[c] == nil {
			sums[c] = make(map[int]float64)
		}
		for i, id := range doc.IDs {
			sums[c][id] += doc.Weights[i]
		}
		counts[c]++
	}

	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for id := range sums[c] {
			sums[c][id] /= float64(counts[c])
		}
		centroids[c] = vectorizer.NewVector(sums[c])
	}
}

// Members returns the document positions of each cluster, ascending.
func (a *Assignment) Members() [][]int {
	members := make([][]int, len(a.Centroids))
	for c := range members {
		members[c] = []int{}
	}
	for pos, c := range a.Labels {
		members[c] = append(members[c], pos)
	}
	return members
}

// TopTerms returns up to n terms with the heaviest centroid weight for each
// cluster, ties broken by term id.
func (a *Assignment) TopTerms(v *vocab.Vocabulary, n int) [][]string {
	out := make([][]string, len(a.Centroids))
	for c, centroid := range a.Centroids {
		order := make([]int, centroid.Len())
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return centroid.Weights[order[i]] > centroid.Weights[order[j]]
		})
		if n >= 0 && len(order) > n {
			order = order[:n]
		}
		terms := make([]string, len(order))
		for i, k := range order {
			terms[i] = v.Term(centroid.IDs[k])
		}
		out[c] = terms
	}
	return out
}
