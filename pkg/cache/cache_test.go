package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func init() {
	retryDelay = time.Millisecond
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "nested"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("empty cache should miss")
	}

	if err := c.Set(ctx, "a", []byte(`{"x":1}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "a")
	if err != nil || !hit {
		t.Fatalf("Get = (%v, %v), want hit", hit, err)
	}
	if string(data) != `{"x":1}` {
		t.Errorf("Get data = %s", data)
	}

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("deleted entry should miss")
	}
	if err := c.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete of missing entry: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero ttl should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "b"); hit {
		t.Error("cleared entry should miss")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	base := LayoutKeyOpts{Algorithm: "eades", Seed: 1}
	tests := []struct {
		name string
		opts LayoutKeyOpts
	}{
		{"algorithm", LayoutKeyOpts{Algorithm: "fruchterman-reingold", Seed: 1}},
		{"seed", LayoutKeyOpts{Algorithm: "eades", Seed: 2}},
		{"edges", LayoutKeyOpts{Algorithm: "eades", Seed: 1, Edges: "curved"}},
		{"curvature", LayoutKeyOpts{Algorithm: "eades", Seed: 1, Curvature: 0.15}},
		{"params", LayoutKeyOpts{Algorithm: "eades", Seed: 1, Params: map[string]int{"iterations": 5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if k.LayoutKey("g", base) == k.LayoutKey("g", tt.opts) {
				t.Errorf("changing %s should change the key", tt.name)
			}
		})
	}

	if !strings.HasPrefix(k.LayoutKey("g", base), "layout:") {
		t.Errorf("LayoutKey = %s", k.LayoutKey("g", base))
	}
	if k.LayoutKey("g", base) == k.LayoutKey("h", base) {
		t.Error("graph hash should change the key")
	}
	if got := k.DocumentKey("abc"); got != "doc:abc" {
		t.Errorf("DocumentKey = %s", got)
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "server:")
	if got := scoped.DocumentKey("id"); got != "server:doc:id" {
		t.Errorf("DocumentKey = %s", got)
	}
	if got := scoped.LayoutKey("g", LayoutKeyOpts{}); !strings.HasPrefix(got, "server:layout:") {
		t.Errorf("LayoutKey should be prefixed: %s", got)
	}

	// A nil inner keyer falls back to the default scheme.
	if got := NewScopedKeyer(nil, "p:").DocumentKey("x"); got != "p:doc:x" {
		t.Errorf("nil inner: %s", got)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Options{Backend: BackendNone})
	if err != nil {
		t.Fatalf("Open none: %v", err)
	}
	if _, ok := c.(*NullCache); !ok {
		t.Errorf("Open none = %T", c)
	}

	dir := t.TempDir()
	c, err = Open(ctx, Options{Dir: dir})
	if err != nil {
		t.Fatalf("Open file: %v", err)
	}
	if fc, ok := c.(*FileCache); !ok || fc.Dir() != dir {
		t.Errorf("Open file = %#v", c)
	}

	if _, err := Open(ctx, Options{Backend: "memcached"}); err == nil {
		t.Error("unknown backend should fail")
	}
	if _, err := Open(ctx, Options{Backend: BackendRedis}); err == nil {
		t.Error("redis without address should fail")
	}
	if _, err := Open(ctx, Options{Backend: BackendMongo}); err == nil {
		t.Error("mongo without uri should fail")
	}
}

func TestRedisCacheNetworkError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	c := NewRedisCacheFromClient(client, "test:")
	defer c.Close()

	_, _, err := c.Get(context.Background(), "k")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("Get err = %v, want ErrNetwork", err)
	}
	if err := c.Set(context.Background(), "k", []byte("v"), time.Minute); !errors.Is(err, ErrNetwork) {
		t.Errorf("Set err = %v, want ErrNetwork", err)
	}
}

// TestRedisCacheLive runs against a real server when STACKLAYOUT_TEST_REDIS
// names one.
func TestRedisCacheLive(t *testing.T) {
	addr := os.Getenv("STACKLAYOUT_TEST_REDIS")
	if addr == "" {
		t.Skip("STACKLAYOUT_TEST_REDIS not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, RedisOptions{Addr: addr, Prefix: "stacklayout-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

// TestMongoCacheLive runs against a real server when STACKLAYOUT_TEST_MONGO
// holds a connection string.
func TestMongoCacheLive(t *testing.T) {
	uri := os.Getenv("STACKLAYOUT_TEST_MONGO")
	if uri == "" {
		t.Skip("STACKLAYOUT_TEST_MONGO not set")
	}
	ctx := context.Background()
	c, err := NewMongoCache(ctx, MongoOptions{URI: uri, Database: "stacklayout_test"})
	if err != nil {
		t.Fatalf("NewMongoCache: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "exercise:" + t.Name()
	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "payload" {
		t.Fatalf("Get = (%q, %v, %v)", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("deleted key should miss")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("Retryable should unwrap to the cause")
	}
	if IsRetryable(ErrNetwork) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	errFatal := errors.New("fatal")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"not retryable", 5, errFatal, 1, errFatal},
		{"recovers", 1, Retryable(ErrNetwork), 2, nil},
		{"exhausted", 5, Retryable(ErrNetwork), 3, ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
