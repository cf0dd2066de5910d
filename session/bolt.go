package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// DefaultBoltBucket is the bucket used when none is configured.
const DefaultBoltBucket = "console"

// BoltBackend keeps the slot in a single bbolt bucket on local disk.
type BoltBackend struct {
	db     *bbolt.DB
	bucket []byte
}

// OpenBolt opens (or creates) the bbolt file at path and ensures the bucket exists.
// The parent directory is created with 0700 permissions since the file holds a bearer
// token.
func OpenBolt(path, bucket string, timeout time.Duration) (*BoltBackend, error) {
	if path == "" {
		return nil, errors.New("bolt path is empty")
	}
	if bucket == "" {
		bucket = DefaultBoltBucket
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltBackend{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Close releases the file lock.
func (b *BoltBackend) Close() error {
	return b.db.Close()
}

// Get implements [Backend]. The returned slice is a copy; bbolt memory is only valid
// inside the transaction.
func (b *BoltBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		if bkt == nil {
			return ErrNotFound
		}
		v := bkt.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		out = make([]byte, len(v))
		copy(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Set implements [Backend].
func (b *BoltBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(b.bucket)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(key), value)
	})
}

// Delete implements [Backend].
func (b *BoltBackend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		if bkt == nil {
			return nil
		}
		return bkt.Delete([]byte(key))
	})
}
