package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/olivara/storefront-backend/pkg/config"
)

type fakeStore struct {
	counts  map[string]int64
	expires map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{counts: map[string]int64{}, expires: map[string]time.Duration{}}
}

func (f *fakeStore) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (f *fakeStore) Incr(ctx context.Context, key string) *redis.IntCmd {
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func (f *fakeStore) Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd {
	f.expires[key] = ttl
	return redis.NewBoolResult(true, nil)
}

func (f *fakeStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(f.counts, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func TestIncrWithTTLSetsExpiryOnFirstIncrement(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	client := &Client{store: store}

	key := client.RateLimitKey("coupon:ip:1.2.3.4")
	if key != "olv:rate_limit:coupon:ip:1.2.3.4" {
		t.Fatalf("unexpected key %q", key)
	}

	count, err := client.IncrWithTTL(context.Background(), key, time.Minute)
	if err != nil || count != 1 {
		t.Fatalf("unexpected first increment: %d %v", count, err)
	}
	if store.expires[key] != time.Minute {
		t.Fatalf("expected TTL set on first increment, got %v", store.expires[key])
	}

	delete(store.expires, key)
	count, err = client.IncrWithTTL(context.Background(), key, time.Minute)
	if err != nil || count != 2 {
		t.Fatalf("unexpected second increment: %d %v", count, err)
	}
	if _, ok := store.expires[key]; ok {
		t.Fatal("TTL must only be set on the first increment")
	}
}

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	t.Parallel()

	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error without url or address")
	}

	opts, err := optionsFromConfig(config.RedisConfig{Address: "localhost:6379", PoolSize: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.PoolSize != 5 {
		t.Fatalf("unexpected options %+v", opts)
	}
}
