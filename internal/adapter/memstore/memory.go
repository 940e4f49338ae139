package memstore

import (
	"encoding/json"
	"fmt"
	"sync"

	"tfidf/internal/adapter/index"
	"tfidf/internal/domain"
)

// MemoryStore keeps a snapshot in memory as its JSON encoding, so loads
// return independent copies exactly like a persisted store.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

type storedSnapshot struct {
	Index *index.Index      `json:"index"`
	Docs  []domain.Document `json:"docs"`
	Build domain.BuildInfo  `json:"build"`
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(snap index.Snapshot) error {
	if snap.Index == nil {
		return fmt.Errorf("%w: nil index", domain.ErrInvalidParameter)
	}
	if len(snap.Docs) != snap.Index.Len() {
		return fmt.Errorf("%w: %d documents for an index of %d", domain.ErrInvalidParameter, len(snap.Docs), snap.Index.Len())
	}

	docs := make([]domain.Document, len(snap.Docs))
	for pos, doc := range snap.Docs {
		doc.Position = pos
		docs[pos] = doc
	}
	data, err := json.Marshal(storedSnapshot{Index: snap.Index, Docs: docs, Build: snap.Build})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func (s *MemoryStore) Load() (index.Snapshot, error) {
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()

	if data == nil {
		return index.Snapshot{}, domain.ErrIndexNotFound
	}

	var stored storedSnapshot
	if err := json.Unmarshal(data, &stored); err != nil {
		return index.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return index.Snapshot{Index: stored.Index, Docs: stored.Docs, Build: stored.Build}, nil
}

func (s *MemoryStore) CheckRebuild(fingerprint string) (*index.RebuildCheck, error) {
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()

	if data == nil {
		return &index.RebuildCheck{NeedsRebuild: true, Reason: "no index stored"}, nil
	}

	var stored struct {
		Build domain.BuildInfo `json:"build"`
	}
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	if stored.Build.Fingerprint != fingerprint {
		return &index.RebuildCheck{NeedsRebuild: true, Reason: "corpus or index configuration changed"}, nil
	}
	return &index.RebuildCheck{}, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
