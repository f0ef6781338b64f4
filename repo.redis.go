package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type redisBlobStorage struct {
	logger *zap.Logger
	client *redis.Client
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Redis.Host, config.Redis.Port),
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
		PoolSize:     config.Redis.PoolSize,
		PoolTimeout:  config.Redis.PoolTimeout,
		Password:     config.Redis.Password,
		Username:     config.Redis.Username,
		DB:           config.Redis.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// NewRedisBlobStorage provides an instance of redis-based blob storage.
func NewRedisBlobStorage(logger *zap.Logger, client *redis.Client) BlobStorage {
	return &redisBlobStorage{
		logger: logger,
		client: client,
	}
}

// Fetch retrieves the full content of the document stored under key.
func (rs *redisBlobStorage) Fetch(ctx context.Context, key string) ([]byte, error) {
	data, err := rs.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save overwrites the document stored under key with the given content.
func (rs *redisBlobStorage) Save(ctx context.Context, key string, data []byte) error {
	return rs.client.Set(ctx, key, data, 0).Err()
}
