package vectorizer

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfidf/internal/adapter/vocab"
)

func fitted(t *testing.T) *Vectorizer {
	t.Helper()
	v, err := vocab.Fit([][]string{
		{"cat", "sat"},
		{"dog", "ran"},
		{"cat", "dog", "play"},
	}, vocab.Options{})
	require.NoError(t, err)
	return New(v)
}

func TestTransform_WeightsAndNormalization(t *testing.T) {
	z := fitted(t)

	vec := z.Transform([]string{"cat", "cat", "sat"})
	require.Equal(t, 2, vec.Len())
	assert.InDelta(t, 1.0, vec.Norm(), 1e-12)

	cat, _ := z.Vocabulary().ID("cat")
	sat, _ := z.Vocabulary().ID("sat")
	wantCat := 2 * z.Vocabulary().IDF(cat)
	wantSat := z.Vocabulary().IDF(sat)
	norm := math.Sqrt(wantCat*wantCat + wantSat*wantSat)
	assert.InDelta(t, wantCat/norm, vec.Get(cat), 1e-12)
	assert.InDelta(t, wantSat/norm, vec.Get(sat), 1e-12)
}

func TestTransform_IgnoresOutOfVocabulary(t *testing.T) {
	z := fitted(t)

	vec := z.Transform([]string{"cat", "zebra"})
	require.Equal(t, 1, vec.Len())
	assert.InDelta(t, 1.0, vec.Weights[0], 1e-12)

	empty := z.Transform([]string{"zebra", "lion"})
	assert.Equal(t, 0, empty.Len())
	assert.True(t, empty.IsZero())
	assert.Equal(t, 0.0, empty.Norm())

	assert.Equal(t, 0, z.Transform(nil).Len())
}

func TestTransform_Idempotent(t *testing.T) {
	z := fitted(t)
	tokens := []string{"dog", "play", "cat", "dog", "unknown"}

	first := z.Transform(tokens)
	second := z.Transform(tokens)
	assert.Equal(t, first, second)
	for i := range first.Weights {
		assert.Equal(t, math.Float64bits(first.Weights[i]), math.Float64bits(second.Weights[i]))
	}
}

func TestTransform_SortedIDs(t *testing.T) {
	z := fitted(t)

	vec := z.Transform([]string{"sat", "play", "dog", "cat"})
	require.NoError(t, vec.Validate())
	for i := 1; i < vec.Len(); i++ {
		assert.Less(t, vec.IDs[i-1], vec.IDs[i])
	}
}

func TestVector_DotAndCosine(t *testing.T) {
	a := NewVector(map[int]float64{0: 1, 2: 2, 5: 3})
	b := NewVector(map[int]float64{2: 4, 3: 1, 5: 1})

	assert.Equal(t, 11.0, a.Dot(b))
	assert.Equal(t, a.Dot(b), b.Dot(a))
	assert.InDelta(t, 11/(math.Sqrt(14)*math.Sqrt(18)), a.Cosine(b), 1e-12)
	assert.Equal(t, 0.0, a.Cosine(Vector{}))
	assert.Equal(t, 5, a.MaxID())
	assert.Equal(t, -1, Vector{}.MaxID())
}

func TestVector_NewVectorDropsZeros(t *testing.T) {
	v := NewVector(map[int]float64{4: 0, 1: 0.5})
	assert.Equal(t, []int{1}, v.IDs)
	assert.Equal(t, 0.0, v.Get(4))
}

func TestVector_JSON(t *testing.T) {
	v := NewVector(map[int]float64{10: 0.25, 2: 0.75})

	data, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2":0.75,"10":0.25}`, string(data))

	var decoded Vector
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, v, decoded)

	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &decoded))
}

func TestVector_Validate(t *testing.T) {
	assert.Error(t, Vector{IDs: []int{2, 1}, Weights: []float64{1, 1}}.Validate())
	assert.Error(t, Vector{IDs: []int{1}, Weights: []float64{-1}}.Validate())
	assert.Error(t, Vector{IDs: []int{1}}.Validate())
	assert.NoError(t, Vector{}.Validate())
}

func TestVector_Clone(t *testing.T) {
	v := NewVector(map[int]float64{1: 0.6, 4: 0.8})
	c := v.Clone()
	c.Weights[0] = 0
	c.IDs[1] = 9

	assert.Equal(t, 0.6, v.Get(1))
	assert.Equal(t, 0.8, v.Get(4))
	assert.Zero(t, Vector{}.Clone().Len())
}
