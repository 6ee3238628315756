package cache

import (
	"context"
	"errors"

	"github.com/kibblescan/sitecache/api"
	"github.com/kibblescan/sitecache/types"
)

// Memoizer is what CachedCall needs: the cache API plus a way to collapse
// concurrent loads of the same key. *Registry implements it.
type Memoizer interface {
	api.Cache
	Do(ctx context.Context, name, key string, fn func() (any, error)) (any, error)
}

/*
CachedCall returns the value cached under (name, key), computing and storing
it on a miss.

BEHAVIOR:
---------
1. name is not registered: the *types.ConfigurationError is returned and
   compute never runs
2. Hit: the cached value is returned and compute never runs
3. Miss: compute runs once for all concurrent callers of the same key and
   they share its result
4. compute fails: its error is returned untouched and nothing is stored, so
   the next call computes again
5. ctx is done while waiting: ctx.Err() is returned to this caller only

The shared run gets a context that keeps the values of the caller who
started it but not its cancellation, so one caller giving up never fails the
others. A cached or shared value whose dynamic type is not T is treated as a
miss: compute runs for this caller and its result replaces the entry.
*/
func CachedCall[T any](ctx context.Context, m Memoizer, name, key string, compute func(context.Context) (T, error)) (T, error) {
	var zero T

	v, ok, err := m.Get(name, key)
	if err != nil {
		return zero, err
	}
	if ok {
		if typed, match := as[T](v); match {
			return typed, nil
		}
	}

	detached := context.WithoutCancel(ctx)
	shared, err := m.Do(ctx, name, key, func() (any, error) {
		// Another flight may have stored the value after our Get.
		if has, _ := m.Has(name, key); has {
			if v, ok, _ := m.Get(name, key); ok {
				if _, match := as[T](v); match {
					return v, nil
				}
			}
		}
		val, err := computeAndStore(detached, m, name, key, compute)
		if err != nil {
			return nil, err
		}
		return val, nil
	})
	if err != nil {
		return zero, err
	}

	if typed, match := as[T](shared); match {
		return typed, nil
	}

	// Joined a flight started for another type.
	return computeAndStore(ctx, m, name, key, compute)
}

func computeAndStore[T any](ctx context.Context, m Memoizer, name, key string, compute func(context.Context) (T, error)) (T, error) {
	var zero T

	val, err := compute(ctx)
	if err != nil {
		return zero, err
	}
	if err := m.Set(name, key, val); err != nil {
		return zero, err
	}
	return val, nil
}

// as asserts v to T. A nil v is a valid T only when T is an interface type.
func as[T any](v any) (T, bool) {
	var zero T
	if v == nil {
		return zero, any(zero) == nil
	}
	typed, ok := v.(T)
	return typed, ok
}

// ConfigurationError is re-exported for callers that only import this package.
type ConfigurationError = types.ConfigurationError

// IsConfigurationError reports whether err comes from a misconfiguration
// rather than from a compute function.
func IsConfigurationError(err error) bool {
	var cfgErr *types.ConfigurationError
	return errors.As(err, &cfgErr)
}
