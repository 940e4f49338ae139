package store

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"tfidf/config"
	"tfidf/internal/adapter/index"
	"tfidf/internal/domain"
)

// CurrentSchemaVersion is the current schema version.
// Increment this when making breaking changes to the storage format.
const CurrentSchemaVersion = 1

var (
	keySchemaVersion = []byte("schema_version")
	keyFingerprint   = []byte("fingerprint")
)

// SchemaInfo stores schema version and the fingerprint of the stored build.
type SchemaInfo struct {
	Version     int    `json:"version"`
	Fingerprint string `json:"fingerprint"`
}

// GetSchemaInfo retrieves the current schema info from the database.
// A store that was never written reports version 0.
func (s *BoltStore) GetSchemaInfo() (*SchemaInfo, error) {
	var info SchemaInfo
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketMeta)
		if b == nil {
			return nil
		}

		if versionData := b.Get(keySchemaVersion); versionData != nil {
			if err := json.Unmarshal(versionData, &info.Version); err != nil {
				return fmt.Errorf("corrupt schema version: %w", err)
			}
		}
		info.Fingerprint = string(b.Get(keyFingerprint))
		return nil
	})
	return &info, err
}

func putSchemaInfo(b *bbolt.Bucket, info *SchemaInfo) error {
	versionData, err := json.Marshal(info.Version)
	if err != nil {
		return err
	}
	if err := b.Put(keySchemaVersion, versionData); err != nil {
		return err
	}
	return b.Put(keyFingerprint, []byte(info.Fingerprint))
}

// ComputeFingerprint hashes index-relevant configuration together with the
// corpus. Changes to it mean the stored index no longer matches.
func ComputeFingerprint(cfg *config.Config, docs []domain.Document) (string, error) {
	relevant := struct {
		Analyzer    config.AnalyzerConfig `json:"analyzer"`
		MaxFeatures int                   `json:"max_features"`
		MinDF       config.DocFreq        `json:"min_df"`
		MaxDF       config.DocFreq        `json:"max_df"`
	}{
		Analyzer:    cfg.Analyzer,
		MaxFeatures: cfg.Vocabulary.MaxFeatures,
		MinDF:       cfg.Vocabulary.MinDF,
		MaxDF:       cfg.Vocabulary.MaxDF,
	}

	data, err := json.Marshal(relevant)
	if err != nil {
		return "", fmt.Errorf("failed to encode index configuration: %w", err)
	}
	h := sha256.New()
	h.Write(data)

	var size [8]byte
	for _, doc := range docs {
		binary.BigEndian.PutUint64(size[:], uint64(len(doc.Text)))
		h.Write(size[:])
		h.Write([]byte(doc.Text))
	}
	return hex.EncodeToString(h.Sum(nil)[:8]), nil
}

// CheckRebuild compares the stored schema and fingerprint against the
// current ones.
func (s *BoltStore) CheckRebuild(fingerprint string) (*index.RebuildCheck, error) {
	info, err := s.GetSchemaInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get schema info: %w", err)
	}

	result := &index.RebuildCheck{
		OldVersion: info.Version,
		NewVersion: CurrentSchemaVersion,
	}

	switch {
	case info.Version == 0:
		result.NeedsRebuild = true
		result.Reason = "no index stored"
	case info.Version < CurrentSchemaVersion:
		result.NeedsRebuild = true
		result.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", info.Version, CurrentSchemaVersion)
	case info.Version > CurrentSchemaVersion:
		result.NeedsRebuild = true
		result.Reason = fmt.Sprintf("database created by newer version (v%d > v%d)", info.Version, CurrentSchemaVersion)
	case info.Fingerprint != fingerprint:
		result.NeedsRebuild = true
		result.Reason = "corpus or index configuration changed"
	}

	return result, nil
}
