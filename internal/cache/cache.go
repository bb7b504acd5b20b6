package cache

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Cache defines the interface for caching operations.
// A missing key is reported as (nil, nil) by Get.
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration; zero means no expiry
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error

	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// Close closes the cache connection
	Close() error

	// Health checks cache health
	Health(ctx context.Context) error
}

// CacheError represents a cache operation error
type CacheError struct {
	Operation string
	Key       string
	Err       error
}

func (e *CacheError) Error() string {
	return "cache " + e.Operation + " failed for key '" + e.Key + "': " + e.Err.Error()
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// GetJSON decodes the value under key into dst. It reports false on a miss.
func GetJSON(ctx context.Context, c Cache, key string, dst any) (bool, error) {
	data, err := c.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, &CacheError{Operation: "decode", Key: key, Err: err}
	}
	return true, nil
}

// SetJSON encodes value and stores it under key
func SetJSON(ctx context.Context, c Cache, key string, value any, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return &CacheError{Operation: "encode", Key: key, Err: fmt.Errorf("failed to marshal value: %w", err)}
	}
	return c.Set(ctx, key, data, expiration)
}
