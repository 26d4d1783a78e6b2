package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type fakeCmdable struct {
	goredis.Cmdable
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newFakeCmdable() *fakeCmdable {
	return &fakeCmdable{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCmdable) Get(_ context.Context, key string) *goredis.StringCmd {
	if f.getErr != nil {
		return goredis.NewStringResult("", f.getErr)
	}
	v, ok := f.values[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeCmdable) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *goredis.StatusCmd {
	f.values[key] = fmt.Sprint(value)
	f.ttls[key] = ttl
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeCmdable) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func TestFavoriteCountCacheMiss(t *testing.T) {
	cache := NewFavoriteCountCache(newFakeCmdable())

	_, ok, err := cache.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected a miss on an empty cache")
	}
}

func TestFavoriteCountCacheSetGetInvalidate(t *testing.T) {
	client := newFakeCmdable()
	cache := NewFavoriteCountCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, 7, 12, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if client.ttls["storefront:favorites:count:7"] != time.Minute {
		t.Fatalf("expected ttl to be forwarded, got %v", client.ttls)
	}

	count, ok, err := cache.Get(ctx, 7)
	if err != nil || !ok || count != 12 {
		t.Fatalf("expected cached 12, got %d ok=%v err=%v", count, ok, err)
	}

	if err := cache.Invalidate(ctx, 7); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, 7); ok {
		t.Fatal("expected a miss after invalidate")
	}
}

func TestFavoriteCountCacheSurfacesErrors(t *testing.T) {
	client := newFakeCmdable()
	client.getErr = errors.New("connection refused")
	cache := NewFavoriteCountCache(client)

	if _, _, err := cache.Get(context.Background(), 7); err == nil {
		t.Fatal("expected the client error to be returned")
	}
}
