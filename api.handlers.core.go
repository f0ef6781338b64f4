package main

import (
	"time"

	"go.uber.org/zap"
)

// Statistics holds app stats for ops.
type Statistics struct {
	version   string
	container bool
	runtime   string
	platform  string
	called    uint64
	started   time.Time
}

// APIHandler defines the API handler.
type APIHandler struct {
	logger *zap.Logger
	config *Config
	stats  *Statistics
	clock  Clocker
	ids    UIDHandler
	store  BookStoreProvider
}

// NewAPIHandler provides a new instance of APIHandler.
func NewAPIHandler(logger *zap.Logger, config *Config, stats *Statistics, clock Clocker, ids UIDHandler, store BookStoreProvider) *APIHandler {
	return &APIHandler{logger: logger, config: config, stats: stats, clock: clock, ids: ids, store: store}
}
