package lock

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/fekuna/omnipos-grocery-service/pkg/cache"
	"github.com/google/uuid"
)

var ErrBusy = errors.New("system busy, please try again later (lock)")

// Locker hands out exclusive, named locks. The returned release func must be
// called exactly once.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// LockAll acquires every key in sorted order, skipping duplicates. On failure
// the keys already held are released before returning.
func LockAll(ctx context.Context, l Locker, keys []string) (func(), error) {
	sorted := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	releases := make([]func(), 0, len(sorted))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, k := range sorted {
		release, err := l.Lock(ctx, k)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

type heldKey struct{}

// AcquireAll locks the keys ctx does not already hold and returns a context
// recording the full held set. Nested calls on the returned context are
// therefore reentrant for those keys.
func AcquireAll(ctx context.Context, l Locker, keys []string) (context.Context, func(), error) {
	held, _ := ctx.Value(heldKey{}).(map[string]struct{})

	missing := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := held[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return ctx, func() {}, nil
	}

	release, err := LockAll(ctx, l, missing)
	if err != nil {
		return ctx, nil, err
	}

	next := make(map[string]struct{}, len(held)+len(missing))
	for k := range held {
		next[k] = struct{}{}
	}
	for _, k := range missing {
		next[k] = struct{}{}
	}
	return context.WithValue(ctx, heldKey{}, next), release, nil
}

// Holds reports whether ctx was returned by AcquireAll for key.
func Holds(ctx context.Context, key string) bool {
	held, _ := ctx.Value(heldKey{}).(map[string]struct{})
	_, ok := held[key]
	return ok
}

// LocalLocker is an in-process keyed mutex for single-instance deployments.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*entry
}

type entry struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*entry)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.locks[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.drop(key, e)
		})
	}, nil
}

func (l *LocalLocker) drop(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, key)
	}
}

// RedisLocker is a distributed lock shared by every service instance.
type RedisLocker struct {
	client   *cache.RedisClient
	ttl      time.Duration
	attempts int
	wait     time.Duration
}

func NewRedisLocker(client *cache.RedisClient, ttl time.Duration, attempts int, wait time.Duration) *RedisLocker {
	if attempts < 1 {
		attempts = 1
	}
	return &RedisLocker{client: client, ttl: ttl, attempts: attempts, wait: wait}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	value := uuid.New().String()

	for i := 0; i < l.attempts; i++ {
		ok, err := l.client.AcquireLock(ctx, key, value, l.ttl)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() {
				// Release on a fresh context: the caller's may already be done.
				rctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()
				_ = l.client.ReleaseLock(rctx, key, value)
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.wait):
		}
	}

	return nil, ErrBusy
}
