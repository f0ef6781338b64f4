package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

type s3BlobStorage struct {
	logger *zap.Logger
	client *s3.Client
	bucket string
}

// GetS3Client provides a ready to use client for the configured bucket.
// A custom endpoint switches the client to path style addressing so the
// same setup works against S3-compatible services like minio or R2.
func GetS3Client(ctx context.Context, config *Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(config.S3.Region),
	}
	if len(config.S3.AccessKeyID) != 0 {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(config.S3.AccessKeyID, config.S3.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if len(config.S3.Endpoint) != 0 {
			o.BaseEndpoint = aws.String(config.S3.Endpoint)
			o.UsePathStyle = true
		}
	})
	return client, nil
}

// NewS3BlobStorage provides an instance of S3-based blob storage.
func NewS3BlobStorage(logger *zap.Logger, client *s3.Client, bucket string) BlobStorage {
	return &s3BlobStorage{
		logger: logger,
		client: client,
		bucket: bucket,
	}
}

// Fetch downloads the full content of the object stored under key.
func (ss *s3BlobStorage) Fetch(ctx context.Context, key string) ([]byte, error) {
	out, err := ss.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(key),
	})
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("s3: get object %s: %w", key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// Save overwrites the object stored under key with the given content.
func (ss *s3BlobStorage) Save(ctx context.Context, key string, data []byte) error {
	_, err := ss.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(ss.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3: put object %s: %w", key, err)
	}
	return nil
}
