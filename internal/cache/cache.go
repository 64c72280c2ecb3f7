// Package cache wraps the key/value collaborator. Values are plain strings;
// JSON encoding is the caller's job.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get for an absent key. A miss is an expected
// outcome, not a failure.
var ErrMiss = errors.New("cache: key not found")

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
