package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tfidf/internal/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// Commands share package-level flag state, so the whole workflow runs in
// one test with every command invoked in order.
func TestWorkflow(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "corpus.txt")
	require.NoError(t, os.WriteFile(corpus, []byte(
		"the cat sat on the mat\n"+
			"the dog ran in the park\n"+
			"\n"+
			"cats and dogs play together\n"+
			"stock market shares fell\n"), 0644))

	out, err := execute(t, "--dir", dir, "index", corpus, "--format", "lines")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 4 documents")
	assert.Contains(t, out, "Indexing complete")

	out, err = execute(t, "--dir", dir, "index", corpus, "--format", "lines")
	require.NoError(t, err)
	assert.Contains(t, out, "Index is up to date")

	out, err = execute(t, "--dir", dir, "query", "-q", "cat", "--json")
	require.NoError(t, err)
	var views []QueryView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "cat", views[0].Query)
	require.Len(t, views[0].Results, 4)
	assert.Equal(t, 0, views[0].Results[0].Position)
	assert.Equal(t, "the cat sat on the mat", views[0].Results[0].Text)
	assert.Equal(t, corpus+":1", views[0].Results[0].Source)

	out, err = execute(t, "--dir", dir, "similar", "--doc", "0", "--json")
	require.NoError(t, err)
	var similar []ResultView
	require.NoError(t, json.Unmarshal([]byte(out), &similar))
	assert.Len(t, similar, 3)
	for _, r := range similar {
		assert.NotEqual(t, 0, r.Position)
	}

	out, err = execute(t, "--dir", dir, "cluster", "-k", "2", "--json")
	require.NoError(t, err)
	var clusters []domain.Cluster
	require.NoError(t, json.Unmarshal([]byte(out), &clusters))
	assert.Len(t, clusters, 2)

	out, err = execute(t, "--dir", dir, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Documents:        4")

	_, err = execute(t, "--dir", dir, "similar", "--doc", "0", "--top-k", "0")
	assert.Error(t, err)

	_, err = execute(t, "--dir", dir, "similar", "--doc", "9", "--top-k", "3")
	assert.ErrorIs(t, err, domain.ErrOutOfRange)
}

func TestMissingIndex(t *testing.T) {
	_, err := execute(t, "--dir", t.TempDir(), "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no index found")
}

func TestPrintResults(t *testing.T) {
	buf := new(bytes.Buffer)
	printResults(buf, "love", []domain.ScoredDocument{{
		Document: domain.Document{
			Position: 2,
			Source:   "songs.csv:4",
			Text:     strings.Repeat("love ", 60),
			Fields:   map[string]string{"year": "1999", "title": "Summer"},
		},
		Score: 0.61234,
	}})

	out := buf.String()
	assert.Contains(t, out, "Top 1 Results for: love")
	assert.Contains(t, out, "Rank 1 | Similarity: 0.6123 | Document 2")
	assert.Less(t, strings.Index(out, "title: Summer"), strings.Index(out, "year: 1999"))
	assert.Contains(t, out, "...")
}

func TestNoRelevant(t *testing.T) {
	assert.True(t, noRelevant(nil))
	assert.True(t, noRelevant([]domain.ScoredDocument{{Score: 0}}))
	assert.False(t, noRelevant([]domain.ScoredDocument{{Score: 0.1}}))
}
