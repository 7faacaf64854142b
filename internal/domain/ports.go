package domain

import "context"

// ReviewSource hands out the normalized dataset. Implementations memoize:
// the slice is built once and must be treated as read-only by callers.
type ReviewSource interface {
	Reviews(ctx context.Context) ([]Review, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
