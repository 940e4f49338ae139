package retriever

import "math"

// PrecisionAtK is the share of retrieved positions that are relevant.
func PrecisionAtK(retrieved, relevant []int) float64 {
	if len(retrieved) == 0 {
		return 0
	}
	return float64(hits(retrieved, relevant)) / float64(len(retrieved))
}

// RecallAtK is the share of relevant positions that were retrieved.
func RecallAtK(retrieved, relevant []int) float64 {
	if len(relevant) == 0 {
		return 0
	}
	return float64(hits(retrieved, relevant)) / float64(len(relevant))
}

// ReciprocalRank is 1/rank of the first relevant position, 0 if none.
func ReciprocalRank(retrieved, relevant []int) float64 {
	relevantSet := toSet(relevant)
	for i, r := range retrieved {
		if relevantSet[r] {
			return 1.0 / float64(i+1)
		}
	}
	return 0
}

// NDCG compares the DCG of graded scores in retrieved order to the DCG of
// the ideal order.
func NDCG(scores, ideal []float64) float64 {
	dcg := calculateDCG(scores)
	idcg := calculateDCG(ideal)
	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

func calculateDCG(scores []float64) float64 {
	dcg := 0.0
	for i, score := range scores {
		dcg += score / math.Log2(float64(i+2))
	}
	return dcg
}

func hits(retrieved, relevant []int) int {
	relevantSet := toSet(relevant)
	n := 0
	for _, r := range retrieved {
		if relevantSet[r] {
			n++
		}
	}
	return n
}

func toSet(positions []int) map[int]bool {
	set := make(map[int]bool, len(positions))
	for _, p := range positions {
		set[p] = true
	}
	return set
}
