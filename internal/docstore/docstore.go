// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docstore persists ingested documents per project in a bbolt
// file. Each project is a bucket whose keys preserve ingestion order.
package docstore

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/pdiddy/syllabus-planner/pkg/types"
)

// ErrNoDocuments is returned by List for a project that was never ingested.
var ErrNoDocuments = errors.New("no documents found; run ingest first")

// Store wraps a bbolt database of documents.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating document store directory: %w", err)
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening document store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Replace discards the project's documents and stores docs in order.
func (s *Store) Replace(project string, docs []types.Document) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		name := []byte(project)
		if tx.Bucket(name) != nil {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		b, err := tx.CreateBucket(name)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			data, err := json.Marshal(doc)
			if err != nil {
				return fmt.Errorf("marshaling document %s: %w", doc.ID, err)
			}
			if err := b.Put(itob(seq), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns the project's documents in ingestion order.
func (s *Store) List(project string) ([]types.Document, error) {
	var docs []types.Document
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(project))
		if b == nil {
			return ErrNoDocuments
		}
		return b.ForEach(func(_, v []byte) error {
			var doc types.Document
			if err := json.Unmarshal(v, &doc); err != nil {
				return err
			}
			docs = append(docs, doc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Projects returns every project with stored documents, sorted.
func (s *Store) Projects() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	return names, err
}

// itob encodes a sequence number as a big-endian key so byte order is
// numeric order.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
