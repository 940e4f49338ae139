package usecase

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfidf/internal/adapter/analyzer"
	"tfidf/internal/adapter/cluster"
	"tfidf/internal/adapter/memstore"
	"tfidf/internal/adapter/retriever"
	"tfidf/internal/adapter/store"
	"tfidf/internal/adapter/vocab"
	"tfidf/internal/domain"
)

var (
	_ IndexStore = (*memstore.MemoryStore)(nil)
	_ IndexStore = (*store.BoltStore)(nil)
)

func documents(texts ...string) []domain.Document {
	docs := make([]domain.Document, len(texts))
	for i, text := range texts {
		docs[i] = domain.Document{Position: i, Text: text}
	}
	return docs
}

var topics = documents(
	"football match goal striker",
	"striker scored a goal in the football final",
	"goal keeper saved the football penalty",
	"stock market shares fell",
	"investors sold shares as the market dropped",
	"market rally lifts stock prices",
)

func newIndexUseCase(t *testing.T) (*IndexUseCase, *memstore.MemoryStore, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	store := memstore.NewMemoryStore()
	tok := analyzer.NewTokenizer(analyzer.Options{StopWords: analyzer.EnglishStopwords()})
	return NewIndexUseCase(store, tok, vocab.Options{}, logger.WithField("component", "indexer")), store, hook
}

func TestIndexUseCase_BuildsAndSaves(t *testing.T) {
	u, store, _ := newIndexUseCase(t)

	var calls []int
	result, err := u.Index(topics, "fp1", false, func(done, total int) {
		assert.Equal(t, len(topics), total)
		calls = append(calls, done)
	})
	require.NoError(t, err)

	assert.False(t, result.Skipped)
	assert.Equal(t, len(topics), result.Stats.Documents)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, calls)

	snap, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "fp1", snap.Build.Fingerprint)
	assert.False(t, snap.Build.BuiltAt.IsZero())
	assert.Contains(t, snap.Build.Analyzer.StopWords, "the")
	assert.Equal(t, len(topics), snap.Index.Len())
}

func TestIndexUseCase_SkipsUpToDateIndex(t *testing.T) {
	u, _, _ := newIndexUseCase(t)

	_, err := u.Index(topics, "fp1", false, nil)
	require.NoError(t, err)

	result, err := u.Index(topics, "fp1", false, nil)
	require.NoError(t, err)
	assert.True(t, result.Skipped)

	result, err = u.Index(topics, "fp1", true, nil)
	require.NoError(t, err)
	assert.False(t, result.Skipped)

	result, err = u.Index(topics, "fp2", false, nil)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
}

func TestIndexUseCase_WarnsOnEmptyDocuments(t *testing.T) {
	u, _, hook := newIndexUseCase(t)

	result, err := u.Index(documents("the cat sat", "", "the dog ran"), "fp", false, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.EmptyDocuments)

	warned := false
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warned = true
			assert.Equal(t, 1, entry.Data["count"])
		}
	}
	assert.True(t, warned)
}

func TestIndexUseCase_EmptyCorpus(t *testing.T) {
	u, store, _ := newIndexUseCase(t)

	_, err := u.Index(documents("the and of", ""), "fp", false, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyCorpus)

	_, err = store.Load()
	assert.ErrorIs(t, err, domain.ErrIndexNotFound, "failed build must not store anything")
}

func newRetrieveUseCase(t *testing.T, mmr bool) *RetrieveUseCase {
	t.Helper()
	u, store, _ := newIndexUseCase(t)
	_, err := u.Index(topics, "fp", false, nil)
	require.NoError(t, err)

	snap, err := store.Load()
	require.NoError(t, err)
	r, err := retriever.NewTFIDFRetriever(snap.Index, snap.Docs, analyzer.FromSettings(snap.Build.Analyzer), 0)
	require.NoError(t, err)

	if !mmr {
		return NewRetrieveUseCase(r, r, nil)
	}
	return NewRetrieveUseCase(r, r, retriever.NewMMRReranker(snap.Index, 0.7, 0.95))
}

func TestRetrieveUseCase_Retrieve(t *testing.T) {
	for _, mmr := range []bool{false, true} {
		u := newRetrieveUseCase(t, mmr)

		results, err := u.Retrieve("football goal", 3)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.LessOrEqual(t, len(results), 3)
		assert.Less(t, results[0].Document.Position, 3, "mmr=%v", mmr)
	}
}

func TestRetrieveUseCase_RejectsBadInput(t *testing.T) {
	u := newRetrieveUseCase(t, false)

	_, err := u.Retrieve("football", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = u.Retrieve("   ", 3)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	_, err = u.Similar(0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestRetrieveUseCase_Similar(t *testing.T) {
	u := newRetrieveUseCase(t, false)

	results, err := u.Similar(3, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.NotEqual(t, 3, r.Document.Position)
		assert.GreaterOrEqual(t, r.Document.Position, 3, "market documents are closest to each other")
	}

	_, err = u.Similar(99, 2)
	assert.True(t, errors.Is(err, domain.ErrOutOfRange))
}

func TestClusterUseCase(t *testing.T) {
	u, store, _ := newIndexUseCase(t)
	_, err := u.Index(topics, "fp", false, nil)
	require.NoError(t, err)
	snap, err := store.Load()
	require.NoError(t, err)

	cu := NewClusterUseCase(snap.Index, nil)
	result, err := cu.Cluster(cluster.Options{K: 2, MaxIterations: 50, Seed: 7}, 3)
	require.NoError(t, err)
	require.Len(t, result.Clusters, 2)

	total := 0
	for i, c := range result.Clusters {
		assert.Equal(t, i, c.ID)
		assert.LessOrEqual(t, len(c.TopTerms), 3)
		total += len(c.Members)
	}
	assert.Equal(t, len(topics), total)

	_, err = cu.Cluster(cluster.Options{K: 10, MaxIterations: 50}, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}
