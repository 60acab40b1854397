package cache

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketMirror = "mirror"

// BoltCache is the local durable mirror. It only exists so a restarted
// process can serve reads before the remote subscription's first push
// arrives; the remote store remains the source of truth.
type BoltCache struct {
	db *bolt.DB
}

func OpenBoltCache(path string) (*BoltCache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketMirror))
		if err != nil {
			return fmt.Errorf("creating mirror bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltCache{db: db}, nil
}

func (c *BoltCache) Close() error {
	return c.db.Close()
}

// Set stores the raw snapshot for a collection key.
func (c *BoltCache) Set(key string, value []byte) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketMirror)).Put([]byte(key), value)
	})
}

// Get returns the stored snapshot, or nil when the key is absent.
func (c *BoltCache) Get(key string) ([]byte, error) {
	var value []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketMirror)).Get([]byte(key))
		if data != nil {
			value = make([]byte, len(data))
			copy(value, data)
		}
		return nil
	})
	return value, err
}

func (c *BoltCache) Remove(key string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketMirror)).Delete([]byte(key))
	})
}

// Clear drops every mirrored snapshot.
func (c *BoltCache) Clear() error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketMirror)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketMirror))
		return err
	})
}
