package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/example/backoffice/internal/ports/secondary"
)

func setupCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Open(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewCache(client, "backoffice"), mr
}

func TestCacheSetGet(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, secondary.SegmentSession, "s1", []byte("v"), time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok, err := cache.Get(ctx, secondary.SegmentSession, "s1")
	if err != nil || !ok || string(got) != "v" {
		t.Fatalf("Get = %q, %v, %v", got, ok, err)
	}
	if !mr.Exists("backoffice:session-auth:s1") {
		t.Error("key not namespaced as expected")
	}

	if _, ok, _ := cache.Get(ctx, secondary.SegmentSession, "missing"); ok {
		t.Error("missing key reported present")
	}
}

func TestCacheExpiry(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	_ = cache.Set(ctx, secondary.SegmentSession, "short", []byte("v"), time.Minute)
	_ = cache.Set(ctx, secondary.SegmentAuthMode, "mode", []byte("dev"), 0)

	mr.FastForward(time.Minute)

	if _, ok, _ := cache.Get(ctx, secondary.SegmentSession, "short"); ok {
		t.Error("expired entry still returned")
	}
	if _, ok, _ := cache.Get(ctx, secondary.SegmentAuthMode, "mode"); !ok {
		t.Error("entry without ttl expired")
	}
}

func TestCacheSetIfAbsent(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	stored, err := cache.SetIfAbsent(ctx, secondary.SegmentCrumb, "k", []byte("1"), time.Hour)
	if err != nil || !stored {
		t.Fatalf("first SetIfAbsent = %v, %v", stored, err)
	}
	if stored, _ := cache.SetIfAbsent(ctx, secondary.SegmentCrumb, "k", []byte("2"), time.Hour); stored {
		t.Error("second SetIfAbsent stored")
	}

	mr.FastForward(time.Hour)
	if stored, _ := cache.SetIfAbsent(ctx, secondary.SegmentCrumb, "k", []byte("3"), time.Hour); !stored {
		t.Error("SetIfAbsent refused after expiry")
	}
}

func TestCacheDelete(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	_ = cache.Set(ctx, secondary.SegmentSession, "s1", []byte("v"), time.Hour)
	if err := cache.Delete(ctx, secondary.SegmentSession, "s1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := cache.Get(ctx, secondary.SegmentSession, "s1"); ok {
		t.Error("deleted entry still present")
	}
}

func TestOpenUnreachable(t *testing.T) {
	if _, err := Open(context.Background(), "not-a-url"); err == nil {
		t.Error("expected error for bad url")
	}
}
