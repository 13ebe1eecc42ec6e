// Package ratelimit decides whether a caller may proceed. Both limiters count
// requests in fixed windows keyed by an opaque caller key.
package ratelimit

import (
	"context"
	"time"
)

const (
	DefaultLimit  = 30
	DefaultWindow = time.Minute
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
