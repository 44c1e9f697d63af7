package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketDrafts = []byte("drafts")

// BoltStore keeps drafts in a BoltDB file so they survive restarts
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens or creates the database at path
func NewBoltStore(path string) (*BoltStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketDrafts)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create drafts bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Put records a draft
func (s *BoltStore) Put(ctx context.Context, path, filename string) (string, error) {
	d := &Draft{
		ID:        newID(),
		Path:      path,
		Filename:  filename,
		CreatedAt: time.Now(),
	}

	data, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("failed to marshal draft: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketDrafts).Put([]byte(d.ID), data)
	})
	if err != nil {
		return "", fmt.Errorf("failed to store draft: %w", err)
	}

	return d.ID, nil
}

// Get retrieves a draft by id
func (s *BoltStore) Get(ctx context.Context, id string) (*Draft, error) {
	var d *Draft

	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketDrafts).Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		d = &Draft{}
		return json.Unmarshal(data, d)
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Take retrieves and deletes a draft in one transaction
func (s *BoltStore) Take(ctx context.Context, id string) (*Draft, error) {
	var d *Draft

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketDrafts)
		data := bucket.Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		d = &Draft{}
		if err := json.Unmarshal(data, d); err != nil {
			return fmt.Errorf("failed to unmarshal draft: %w", err)
		}
		return bucket.Delete([]byte(id))
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Expire removes drafts older than olderThan
func (s *BoltStore) Expire(ctx context.Context, olderThan time.Duration) ([]*Draft, error) {
	var expired []*Draft
	cutoff := time.Now().Add(-olderThan)

	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketDrafts)
		c := bucket.Cursor()

		var keysToDelete [][]byte

		for k, v := c.First(); k != nil; k, v = c.Next() {
			var d Draft
			if err := json.Unmarshal(v, &d); err != nil {
				continue
			}
			if d.CreatedAt.Before(cutoff) {
				expired = append(expired, &d)
				keysToDelete = append(keysToDelete, k)
			}
		}

		for _, k := range keysToDelete {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return expired, nil
}

// DB returns the underlying database
func (s *BoltStore) DB() *bolt.DB {
	return s.db
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}
