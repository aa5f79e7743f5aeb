package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
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
		t.Error("missing key should miss")
	}

	if err := c.Set(ctx, "wheel:abc", []byte(`{"id":"w"}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "wheel:abc")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v", hit, err)
	}
	if string(data) != `{"id":"w"}` {
		t.Errorf("data = %s", data)
	}

	if err := c.Delete(ctx, "wheel:abc"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "wheel:abc"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "wheel:abc"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed from disk")
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
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit %v err %v", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("cache dir should survive Clear: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dir has %d entries after Clear", len(entries))
	}
	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestHashJSON(t *testing.T) {
	a, err := HashJSON(map[string]float64{"sun": 1, "moon": 2})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := HashJSON(map[string]float64{"moon": 2, "sun": 1})
	if a != b {
		t.Error("map order should not change the hash")
	}
	if _, err := HashJSON(func() {}); err == nil {
		t.Error("unencodable value should fail")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{
			name:  "aspects same options",
			a:     k.AspectsKey("h1", AspectsKeyOpts{ZodiacMode: "tropical"}),
			b:     k.AspectsKey("h1", AspectsKeyOpts{ZodiacMode: "tropical"}),
			equal: true,
		},
		{
			name: "aspects orbs differ",
			a:    k.AspectsKey("h1", AspectsKeyOpts{Orbs: map[string]float64{"trine": 6}}),
			b:    k.AspectsKey("h1", AspectsKeyOpts{Orbs: map[string]float64{"trine": 8}}),
		},
		{
			name: "aspects layers differ",
			a:    k.AspectsKey("h1", AspectsKeyOpts{}),
			b:    k.AspectsKey("h2", AspectsKeyOpts{}),
		},
		{
			name: "aspects vargas differ",
			a:    k.AspectsKey("h1", AspectsKeyOpts{}),
			b:    k.AspectsKey("h1", AspectsKeyOpts{Vargas: []string{"natal:D9"}}),
		},
		{
			name: "wheel template differs",
			a:    k.WheelKey("h1", WheelKeyOpts{TemplateHash: "natal"}),
			b:    k.WheelKey("h1", WheelKeyOpts{TemplateHash: "transit"}),
		},
		{
			name: "wheel collision toggled",
			a:    k.WheelKey("h1", WheelKeyOpts{Collision: true}),
			b:    k.WheelKey("h1", WheelKeyOpts{}),
		},
		{
			name: "stage namespaces",
			a:    k.AspectsKey("h1", AspectsKeyOpts{}),
			b:    k.WheelKey("h1", WheelKeyOpts{}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if (tt.a == tt.b) != tt.equal {
				t.Errorf("keys %q and %q: equal = %v, want %v", tt.a, tt.b, tt.a == tt.b, tt.equal)
			}
		})
	}

	if key := k.WheelKey("h", WheelKeyOpts{}); !strings.HasPrefix(key, "wheel:") {
		t.Errorf("WheelKey = %q, want wheel: prefix", key)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	k := NewScopedKeyer(inner, "v1:")

	opts := AspectsKeyOpts{ZodiacMode: "sidereal", Ayanamsa: 24.1}
	if got, want := k.AspectsKey("h", opts), "v1:"+inner.AspectsKey("h", opts); got != want {
		t.Errorf("AspectsKey = %q, want %q", got, want)
	}
	if got, want := k.WheelKey("h", WheelKeyOpts{}), "v1:"+inner.WheelKey("h", WheelKeyOpts{}); got != want {
		t.Errorf("WheelKey = %q, want %q", got, want)
	}

	nilInner := NewScopedKeyer(nil, "x:")
	if got := nilInner.WheelKey("h", WheelKeyOpts{}); !strings.HasPrefix(got, "x:wheel:") {
		t.Errorf("nil inner should fall back to the default keyer, got %q", got)
	}
}

func TestRedisConfig(t *testing.T) {
	cfg := defaultRedisConfig()
	for _, opt := range []RedisOption{
		WithRedisAddr("cache:6380"),
		WithRedisPassword("secret"),
		WithRedisDB(3),
		WithRedisPool(20, 4, time.Second),
		WithRedisPrefix("tenant"),
	} {
		opt(cfg)
	}
	if cfg.Addr != "cache:6380" || cfg.Password != "secret" || cfg.DB != 3 {
		t.Errorf("connection settings not applied: %+v", cfg)
	}
	if cfg.PoolSize != 20 || cfg.MinIdleConns != 4 || cfg.PoolTimeout != time.Second {
		t.Errorf("pool settings not applied: %+v", cfg)
	}

	c := &RedisCache{prefix: cfg.Prefix}
	if got := c.wrapKey("wheel:abc"); got != "tenant:wheel:abc" {
		t.Errorf("wrapKey = %q", got)
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	plain := errors.New("WRONGTYPE")
	if err := classify(plain); IsRetryable(err) {
		t.Error("command errors should not be retryable")
	}
	err := classify(context.DeadlineExceeded)
	if !IsRetryable(err) || !errors.Is(err, ErrNetwork) {
		t.Errorf("timeouts should be retryable network errors: %v", err)
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
		t.Errorf("message not preserved: %s", err)
	}
	if IsRetryable(errors.New("plain")) {
		t.Error("plain errors are not retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()

	ctx := context.Background()
	permanent := errors.New("permanent")

	tests := []struct {
		name      string
		fail      int
		err       error
		wantCalls int
		wantErr   error
	}{
		{"success", 0, nil, 1, nil},
		{"non-retryable", 5, permanent, 1, permanent},
		{"retry then success", 1, Retryable(ErrNetwork), 2, nil},
		{"exhausted", 5, Retryable(ErrNetwork), 3, ErrNetwork},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.fail {
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
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
