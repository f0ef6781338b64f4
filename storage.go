package main

import "context"

// BlobStorage defines possible operations on the single named
// document holding the whole books collection. Implementations
// are interchangeable backends: S3, redis or boltdb.
type BlobStorage interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}
