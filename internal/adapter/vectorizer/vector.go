package vectorizer

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Vector is a sparse vector keyed by term id. Ids are strictly ascending and
// Weights[i] belongs to IDs[i].
type Vector struct {
	IDs     []int
	Weights []float64
}

// NewVector builds a Vector from a term-id -> weight map, dropping zeros.
func NewVector(m map[int]float64) Vector {
	ids := make([]int, 0, len(m))
	for id, w := range m {
		if w != 0 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	weights := make([]float64, len(ids))
	for i, id := range ids {
		weights[i] = m[id]
	}
	return Vector{IDs: ids, Weights: weights}
}

// Clone returns a copy of v that shares no memory with it.
func (v Vector) Clone() Vector {
	return Vector{
		IDs:     append([]int(nil), v.IDs...),
		Weights: append([]float64(nil), v.Weights...),
	}
}

// Len returns the number of stored components.
func (v Vector) Len() int {
	return len(v.IDs)
}

func (v Vector) IsZero() bool {
	for _, w := range v.Weights {
		if w != 0 {
			return false
		}
	}
	return true
}

// Get returns the weight of id, or 0 when absent.
func (v Vector) Get(id int) float64 {
	i := sort.SearchInts(v.IDs, id)
	if i < len(v.IDs) && v.IDs[i] == id {
		return v.Weights[i]
	}
	return 0
}

// Dot returns the dot product of v and o by merging the sorted id lists.
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.IDs) && j < len(o.IDs) {
		switch {
		case v.IDs[i] == o.IDs[j]:
			sum += v.Weights[i] * o.Weights[j]
			i++
			j++
		case v.IDs[i] < o.IDs[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the Euclidean norm.
func (v Vector) Norm() float64 {
	var sum float64
	for _, w := range v.Weights {
		sum += w * w
	}
	return math.Sqrt(sum)
}

// Cosine returns the cosine similarity of v and o, 0 when either is zero.
func (v Vector) Cosine(o Vector) float64 {
	nv, no := v.Norm(), o.Norm()
	if nv == 0 || no == 0 {
		return 0
	}
	return v.Dot(o) / (nv * no)
}

// MaxID returns the largest stored id, or -1 for an empty vector.
func (v Vector) MaxID() int {
	if len(v.IDs) == 0 {
		return -1
	}
	return v.IDs[len(v.IDs)-1]
}

// Validate checks the ordering invariant and non-negative weights.
func (v Vector) Validate() error {
	if len(v.IDs) != len(v.Weights) {
		return fmt.Errorf("vector has %d ids but %d weights", len(v.IDs), len(v.Weights))
	}
	for i, id := range v.IDs {
		if id < 0 {
			return fmt.Errorf("negative term id %d", id)
		}
		if i > 0 && v.IDs[i-1] >= id {
			return fmt.Errorf("term ids not strictly ascending at %d", i)
		}
		if v.Weights[i] < 0 || math.IsNaN(v.Weights[i]) || math.IsInf(v.Weights[i], 0) {
			return fmt.Errorf("invalid weight %v for term id %d", v.Weights[i], id)
		}
	}
	return nil
}

// MarshalJSON encodes the vector as {"term_id": weight}.
func (v Vector) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, len(v.IDs))
	for i, id := range v.IDs {
		m[strconv.Itoa(id)] = v.Weights[i]
	}
	return json.Marshal(m)
}

func (v *Vector) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m := make(map[int]float64, len(raw))
	for k, w := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("invalid term id %q: %w", k, err)
		}
		m[id] = w
	}
	*v = NewVector(m)
	return nil
}
