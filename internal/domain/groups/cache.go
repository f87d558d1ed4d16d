package groups

import (
	"context"
	"fmt"
)

const (
	queryGroupPage    = "groups.page"
	queryGroupGet     = "groups.get"
	queryGroupMembers = "groups.members"
)

// Cache is satisfied by *querycache.Cache.
type Cache interface {
	Get(ctx context.Context, query string, deps []any, fetch func(context.Context) (any, error)) (any, error)
	Invalidate(pattern string) int
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, _ string, _ []any, fetch func(context.Context) (any, error)) (any, error) {
	return fetch(ctx)
}

func (noopCache) Invalidate(string) int {
	return 0
}

func cached[T any](ctx context.Context, cache Cache, query string, deps []any, fetch func(context.Context) (T, error)) (T, error) {
	value, err := cache.Get(ctx, query, deps, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("groups: cached %s has type %T", query, value)
	}
	return typed, nil
}
