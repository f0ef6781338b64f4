package main

import (
	"context"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

type boltBlobStorage struct {
	logger *zap.Logger
	client *bolt.DB
	config *BoltDBConfig
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *Config) (*bolt.DB, error) {
	db, err := bolt.Open(config.BoltDB.FilePath, 0o600, &bolt.Options{Timeout: config.BoltDB.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database, %v", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BoltDB.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %v", config.BoltDB.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up bucket: %v", err)
	}
	return db, nil
}

// NewBoltBlobStorage provides an instance of bolt-based blob storage. It is
// the local development backend, the whole books document lives as a single
// value under its key inside one bucket.
func NewBoltBlobStorage(logger *zap.Logger, boltConfig *BoltDBConfig, client *bolt.DB) BlobStorage {
	return &boltBlobStorage{
		logger: logger,
		client: client,
		config: boltConfig,
	}
}

// Close shuts down the bolt-based blob storage.
func (bs *boltBlobStorage) Close() error {
	return bs.client.Close()
}

// Fetch retrieves the full content of the document stored under key.
func (bs *boltBlobStorage) Fetch(_ context.Context, key string) ([]byte, error) {
	// initialize a readable transaction.
	tx, err := bs.client.Begin(false)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result := tx.Bucket([]byte(bs.config.BucketName)).Get([]byte(key))
	if result == nil {
		return nil, ErrBlobNotFound
	}
	data := make([]byte, len(result))
	copy(data, result)
	return data, nil
}

// Save overwrites the document stored under key with the given content.
func (bs *boltBlobStorage) Save(_ context.Context, key string, data []byte) error {
	return bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bs.config.BucketName)).Put([]byte(key), data)
	})
}
