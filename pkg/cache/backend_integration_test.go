//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

// Run with a live server:
//
//	TASKER_TEST_REDIS_URL=redis://localhost:6379/15 \
//	TASKER_TEST_MONGO_URI=mongodb://localhost:27017 \
//	go test -tags integration ./pkg/cache/
func exerciseBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "it:missing"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "it:key", []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "it:key")
	if err != nil || !hit || string(data) != "value" {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}
	if err := c.Set(ctx, "it:key", []byte("updated"), time.Minute); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if data, _, _ := c.Get(ctx, "it:key"); string(data) != "updated" {
		t.Errorf("overwrite not visible: %q", data)
	}
	if err := c.Delete(ctx, "it:key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "it:key"); hit {
		t.Error("entry present after Delete")
	}

	clearer, ok := c.(Clearer)
	if !ok {
		return
	}
	for _, k := range []string{"it:a", "it:b"} {
		if err := c.Set(ctx, k, []byte(k), time.Minute); err != nil {
			t.Fatal(err)
		}
	}
	n, err := clearer.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n < 2 {
		t.Errorf("Clear removed %d entries, want at least 2", n)
	}
}

func TestRedisCacheIntegration(t *testing.T) {
	url := os.Getenv("TASKER_TEST_REDIS_URL")
	if url == "" {
		t.Skip("TASKER_TEST_REDIS_URL not set")
	}
	c, err := NewRedisCache(context.Background(), url, "tasker-test:")
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}

func TestMongoCacheIntegration(t *testing.T) {
	uri := os.Getenv("TASKER_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TASKER_TEST_MONGO_URI not set")
	}
	c, err := NewMongoCache(context.Background(), uri, "tasker_test", "cache")
	if err != nil {
		t.Fatalf("NewMongoCache: %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}
