package cache

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Query is a read-through cache over a Store. Concurrent misses for the same
// key share one fetch, and Invalidate drops keys after a mutation so the next
// read goes back to the source.
type Query struct {
	store Store
	ttl   time.Duration
	group singleflight.Group

	mu    sync.Mutex
	epoch uint64
	gen   map[string]uint64
}

func NewQuery(store Store, ttl time.Duration) *Query {
	return &Query{store: store, ttl: ttl, gen: make(map[string]uint64)}
}

type generation struct {
	epoch, key uint64
}

// flight returns the singleflight key and the current generation of key.
// Callers must hold mu.
func (q *Query) flight(key string) (string, generation) {
	return strconv.FormatUint(q.epoch, 10) + ":" + key, generation{epoch: q.epoch, key: q.gen[key]}
}

// Fetch returns the cached value for key or loads it with fetch. Cache errors
// are logged and treated as misses. A load that overlaps an Invalidate of the
// same key, or a Reset, is returned to its callers but not stored.
func Fetch[T any](ctx context.Context, q *Query, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	ok, err := q.store.GetJSON(ctx, key, &cached)
	if err != nil {
		slog.Debug("cache read failed", "key", key, "error", err)
	}
	if ok {
		return cached, nil
	}

	q.mu.Lock()
	flightKey, gen := q.flight(key)
	q.mu.Unlock()

	v, err, _ := q.group.Do(flightKey, func() (any, error) {
		value, err := fetch(ctx)
		if err != nil {
			return value, err
		}

		// mu is held across the write so an Invalidate cannot land between
		// the check and SetJSON.
		q.mu.Lock()
		defer q.mu.Unlock()
		if _, now := q.flight(key); now != gen {
			slog.Debug("cache write skipped, key invalidated during fetch", "key", key)
			return value, nil
		}
		if err := q.store.SetJSON(ctx, key, value, q.ttl); err != nil {
			slog.Debug("cache write failed", "key", key, "error", err)
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return v.(T), nil
}

// Invalidate removes keys so the next Fetch reloads them. Loads already in
// flight for these keys will not repopulate the cache.
func (q *Query) Invalidate(ctx context.Context, keys ...string) {
	q.mu.Lock()
	for _, key := range keys {
		flightKey, _ := q.flight(key)
		q.group.Forget(flightKey)
		q.gen[key]++
	}
	err := q.store.Delete(ctx, keys...)
	q.mu.Unlock()

	if err != nil {
		slog.Warn("cache invalidate failed", "keys", keys, "error", err)
	}
}

// Reset starts a new epoch and calls drop, typically Memory.Clear, so nothing
// cached or loaded before the call is served afterwards.
func (q *Query) Reset(drop func()) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.epoch++
	drop()
}
