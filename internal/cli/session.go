package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"tfidf/config"
	"tfidf/internal/adapter/analyzer"
	"tfidf/internal/adapter/index"
	"tfidf/internal/adapter/retriever"
	"tfidf/internal/adapter/store"
	"tfidf/internal/domain"
	"tfidf/internal/port"
)

// session is an opened index ready to answer queries.
type session struct {
	store     *store.BoltStore
	snap      index.Snapshot
	tokenizer *analyzer.Tokenizer
	retriever *retriever.TFIDFRetriever
}

func openSession(threshold float64) (*session, error) {
	dbPath := config.IndexDBPath(GetRootDir())
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("no index found. Run 'tfidf index' first")
	}

	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	snap, err := st.Load()
	if err != nil {
		st.Close()
		if errors.Is(err, domain.ErrIndexNotFound) {
			return nil, fmt.Errorf("index is empty. Run 'tfidf index' first")
		}
		return nil, fmt.Errorf("failed to load index: %w", err)
	}

	// queries must be tokenized like the corpus was, whatever the config says now
	tokenizer := analyzer.FromSettings(snap.Build.Analyzer)
	r, err := retriever.NewTFIDFRetriever(snap.Index, snap.Docs, tokenizer, threshold)
	if err != nil {
		st.Close()
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"documents": snap.Index.Len(),
		"built_at":  snap.Build.BuiltAt,
	}).Debug("Index loaded")

	return &session{store: st, snap: snap, tokenizer: tokenizer, retriever: r}, nil
}

// reranker returns the MMR reranker configured for this session, or nil
// when reranking is off.
func (s *session) reranker(disabled bool) port.DiversityReranker {
	c := GetConfig().Search
	if disabled || c.MMRLambda <= 0 {
		return nil
	}
	return retriever.NewMMRReranker(s.snap.Index, c.MMRLambda, c.DedupCosine)
}

func (s *session) Close() error {
	return s.store.Close()
}
