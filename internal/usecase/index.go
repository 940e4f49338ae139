package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tfidf/internal/adapter/analyzer"
	"tfidf/internal/adapter/index"
	"tfidf/internal/adapter/vocab"
	"tfidf/internal/domain"
)

// IndexStore persists the snapshot built by IndexUseCase.
type IndexStore interface {
	// Save replaces any previously stored snapshot.
	Save(snap index.Snapshot) error

	// Load returns domain.ErrIndexNotFound when nothing was saved yet.
	Load() (index.Snapshot, error)

	// CheckRebuild reports whether the stored snapshot is missing or was
	// built from a different corpus or configuration.
	CheckRebuild(fingerprint string) (*index.RebuildCheck, error)

	Close() error
}

// IndexUseCase builds an index over a corpus and stores it.
type IndexUseCase struct {
	store     IndexStore
	tokenizer *analyzer.Tokenizer
	vocabOpts vocab.Options
	log       *logrus.Entry
	now       func() time.Time
}

// NewIndexUseCase creates a new index use case.
func NewIndexUseCase(
	store IndexStore,
	tokenizer *analyzer.Tokenizer,
	vocabOpts vocab.Options,
	log *logrus.Entry,
) *IndexUseCase {
	if log == nil {
		log = logrus.WithField("component", "indexer")
	}
	return &IndexUseCase{
		store:     store,
		tokenizer: tokenizer,
		vocabOpts: vocabOpts,
		log:       log,
		now:       time.Now,
	}
}

// ProgressFunc is called after each document is tokenized.
type ProgressFunc func(done, total int)

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	Skipped        bool
	Reason         string
	Documents      int
	EmptyDocuments int
	Stats          domain.Stats
	Duration       time.Duration
}

// Index tokenizes docs, builds the index and saves it. Unless force is
// set, a stored index with the same fingerprint is kept as is.
func (u *IndexUseCase) Index(docs []domain.Document, fingerprint string, force bool, progress ProgressFunc) (*IndexResult, error) {
	start := u.now()
	result := &IndexResult{Documents: len(docs)}

	if force {
		result.Reason = "rebuild forced"
	} else {
		check, err := u.store.CheckRebuild(fingerprint)
		if err != nil {
			return nil, fmt.Errorf("failed to check stored index: %w", err)
		}
		if !check.NeedsRebuild {
			result.Skipped = true
			result.Reason = "index is up to date"
			return result, nil
		}
		result.Reason = check.Reason
	}
	u.log.WithFields(logrus.Fields{"documents": len(docs), "reason": result.Reason}).Info("Building index")

	corpus := make([][]string, len(docs))
	for i, doc := range docs {
		if strings.TrimSpace(doc.Text) == "" {
			result.EmptyDocuments++
		}
		corpus[i] = u.tokenizer.Tokenize(doc.Text)
		if progress != nil {
			progress(i+1, len(docs))
		}
	}
	if result.EmptyDocuments > 0 {
		u.log.WithField("count", result.EmptyDocuments).Warn("Documents with empty text indexed as empty vectors")
	}

	ix, err := index.Build(corpus, u.vocabOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	snap := index.Snapshot{
		Index: ix,
		Docs:  docs,
		Build: domain.BuildInfo{
			Fingerprint: fingerprint,
			BuiltAt:     u.now().UTC(),
			Analyzer:    u.tokenizer.Settings(),
		},
	}
	if err := u.store.Save(snap); err != nil {
		return nil, fmt.Errorf("failed to save index: %w", err)
	}

	result.Stats = ix.Stats()
	result.Duration = u.now().Sub(start)
	u.log.WithFields(logrus.Fields{
		"documents":  result.Stats.Documents,
		"vocabulary": result.Stats.VocabularySize,
		"duration":   result.Duration,
	}).Info("Index built")

	return result, nil
}
