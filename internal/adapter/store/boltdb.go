package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"tfidf/internal/adapter/index"
	"tfidf/internal/adapter/vectorizer"
	"tfidf/internal/adapter/vocab"
	"tfidf/internal/domain"
)

var (
	bucketMeta    = []byte("meta")
	bucketVocab   = []byte("vocab")
	bucketVectors = []byte("vectors")
	bucketDocs    = []byte("docs")
	keyBuildInfo  = []byte("build_info")
	keyDocCount   = []byte("document_count")
)

// BoltStore persists one index snapshot in a bbolt file.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketMeta, bucketVocab, bucketVectors, bucketDocs} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type vocabEntry struct {
	ID                int `json:"id"`
	DocumentFrequency int `json:"document_frequency"`
}

func positionKey(pos int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(pos))
	return key
}

// Save replaces the stored snapshot in a single transaction.
func (s *BoltStore) Save(snap index.Snapshot) error {
	ix := snap.Index
	if ix == nil {
		return fmt.Errorf("%w: nil index", domain.ErrInvalidParameter)
	}
	if len(snap.Docs) != ix.Len() {
		return fmt.Errorf("%w: %d documents for an index of %d", domain.ErrInvalidParameter, len(snap.Docs), ix.Len())
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketVocab, bucketVectors, bucketDocs} {
			if err := tx.DeleteBucket(name); err != nil && err != bbolt.ErrBucketNotFound {
				return fmt.Errorf("failed to clear bucket %s: %w", name, err)
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}

		v := ix.Vocabulary()
		vocabBucket := tx.Bucket(bucketVocab)
		for id, term := range v.Terms() {
			data, err := json.Marshal(vocabEntry{ID: id, DocumentFrequency: v.DocFrequency(id)})
			if err != nil {
				return err
			}
			if err := vocabBucket.Put([]byte(term), data); err != nil {
				return err
			}
		}

		vectorsBucket := tx.Bucket(bucketVectors)
		docsBucket := tx.Bucket(bucketDocs)
		for pos := 0; pos < ix.Len(); pos++ {
			vec, err := ix.Vector(pos)
			if err != nil {
				return err
			}
			data, err := json.Marshal(vec)
			if err != nil {
				return err
			}
			if err := vectorsBucket.Put(positionKey(pos), data); err != nil {
				return err
			}

			doc := snap.Docs[pos]
			doc.Position = pos
			data, err = json.Marshal(doc)
			if err != nil {
				return err
			}
			if err := docsBucket.Put(positionKey(pos), data); err != nil {
				return err
			}
		}

		meta := tx.Bucket(bucketMeta)
		build, err := json.Marshal(snap.Build)
		if err != nil {
			return err
		}
		if err := meta.Put(keyBuildInfo, build); err != nil {
			return err
		}
		count, err := json.Marshal(v.DocCount())
		if err != nil {
			return err
		}
		if err := meta.Put(keyDocCount, count); err != nil {
			return err
		}
		return putSchemaInfo(meta, &SchemaInfo{Version: CurrentSchemaVersion, Fingerprint: snap.Build.Fingerprint})
	})
}

// Load reads the stored snapshot back and validates it.
func (s *BoltStore) Load() (index.Snapshot, error) {
	var snap index.Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		countData := meta.Get(keyDocCount)
		if countData == nil {
			return domain.ErrIndexNotFound
		}
		var docCount int
		if err := json.Unmarshal(countData, &docCount); err != nil {
			return fmt.Errorf("corrupt document count: %w", err)
		}
		if data := meta.Get(keyBuildInfo); data != nil {
			if err := json.Unmarshal(data, &snap.Build); err != nil {
				return fmt.Errorf("corrupt build info: %w", err)
			}
		}

		v, err := loadVocabulary(tx.Bucket(bucketVocab), docCount)
		if err != nil {
			return err
		}

		var vectors []vectorizer.Vector
		err = forEachPosition(tx.Bucket(bucketVectors), func(pos int, data []byte) error {
			var vec vectorizer.Vector
			if err := json.Unmarshal(data, &vec); err != nil {
				return fmt.Errorf("corrupt vector %d: %w", pos, err)
			}
			vectors = append(vectors, vec)
			return nil
		})
		if err != nil {
			return err
		}

		ix, err := index.New(v, vectors)
		if err != nil {
			return err
		}

		docs := make([]domain.Document, 0, ix.Len())
		err = forEachPosition(tx.Bucket(bucketDocs), func(pos int, data []byte) error {
			var doc domain.Document
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("corrupt document %d: %w", pos, err)
			}
			docs = append(docs, doc)
			return nil
		})
		if err != nil {
			return err
		}
		if len(docs) != ix.Len() {
			return fmt.Errorf("%w: %d documents stored for %d vectors", domain.ErrInvalidParameter, len(docs), ix.Len())
		}

		snap.Index = ix
		snap.Docs = docs
		return nil
	})
	return snap, err
}

func loadVocabulary(b *bbolt.Bucket, docCount int) (*vocab.Vocabulary, error) {
	entries := make(map[string]vocabEntry)
	err := b.ForEach(func(k, data []byte) error {
		var e vocabEntry
		if err := json.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("corrupt vocabulary entry %q: %w", k, err)
		}
		entries[string(k)] = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	terms := make([]string, len(entries))
	dfs := make([]int, len(entries))
	filled := make([]bool, len(entries))
	for term, e := range entries {
		if e.ID < 0 || e.ID >= len(terms) || filled[e.ID] {
			return nil, fmt.Errorf("%w: term %q has invalid or duplicate id %d", domain.ErrInvalidParameter, term, e.ID)
		}
		terms[e.ID] = term
		dfs[e.ID] = e.DocumentFrequency
		filled[e.ID] = true
	}

	v, err := vocab.New(terms, dfs, docCount)
	if err != nil {
		return nil, fmt.Errorf("invalid vocabulary: %w", err)
	}
	return v, nil
}

// forEachPosition walks a position-keyed bucket in order and requires the
// keys to be 0, 1, 2, ...
func forEachPosition(b *bbolt.Bucket, fn func(pos int, data []byte) error) error {
	next := 0
	return b.ForEach(func(k, data []byte) error {
		if len(k) != 8 || binary.BigEndian.Uint64(k) != uint64(next) {
			return fmt.Errorf("%w: missing or unexpected position key at %d", domain.ErrInvalidParameter, next)
		}
		if err := fn(next, data); err != nil {
			return err
		}
		next++
		return nil
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
