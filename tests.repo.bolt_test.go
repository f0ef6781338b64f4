package main

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestBoltBlob returns a bolt-based blob storage backed by a temporary file.
func newTestBoltBlob() (*boltBlobStorage, error) {
	f, err := os.CreateTemp("", "tmp.bolt.db-")
	if err != nil {
		return nil, err
	}
	f.Close()
	testConfig := &Config{
		BoltDB: BoltDBConfig{
			FilePath:   f.Name(),
			Timeout:    5 * time.Second,
			BucketName: "test.blobs",
		},
	}

	client, err := GetBoltDBClient(testConfig)

	return &boltBlobStorage{
		logger: zap.NewNop(),
		client: client,
		config: &testConfig.BoltDB,
	}, err
}

// closeTestBoltBlob closes the temporary bolt storage and removes the underlying data file.
func (bs *boltBlobStorage) closeTestBoltBlob() error {
	defer os.Remove(bs.config.FilePath)
	return bs.Close()
}

// Ensure bolt storage can save and fetch the books document.
func TestBoltBlobStorage(t *testing.T) {
	bs, err := newTestBoltBlob()
	require.NoError(t, err, "failed in creating a test bolt storage")
	defer bs.closeTestBoltBlob()
	testKey := "test.books.json"

	t.Run("fetch missing document", func(t *testing.T) {
		data, err := bs.Fetch(context.TODO(), testKey)
		assert.ErrorIs(t, err, ErrBlobNotFound)
		assert.Nil(t, data)
	})

	t.Run("save then fetch document", func(t *testing.T) {
		doc := []byte(`[{"name":"Dune","genre":"fiction","price":9.99,"book_id":"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}]`)
		err := bs.Save(context.TODO(), testKey, doc)
		assert.NoError(t, err)

		data, err := bs.Fetch(context.TODO(), testKey)
		assert.NoError(t, err)
		assert.Equal(t, doc, data)
	})

	t.Run("save overwrites document", func(t *testing.T) {
		doc := []byte(`[]`)
		err := bs.Save(context.TODO(), testKey, doc)
		assert.NoError(t, err)

		data, err := bs.Fetch(context.TODO(), testKey)
		assert.NoError(t, err)
		assert.Equal(t, doc, data)
	})
}
