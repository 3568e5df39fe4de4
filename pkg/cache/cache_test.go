package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if n, err := Clear(ctx, c); n != 0 || err != nil {
		t.Errorf("Clear = %d, %v", n, err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("Get(missing) hit")
	}

	if err := c.Set(ctx, "k1", []byte("v1"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k1")
	if err != nil || !hit || string(data) != "v1" {
		t.Errorf("Get(k1) = %q, %v, %v", data, hit, err)
	}

	// Zero TTL never expires.
	if err := c.Set(ctx, "k2", []byte("v2"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k2"); !hit {
		t.Error("Get(k2) missed")
	}

	if err := c.Delete(ctx, "k1"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k1"); hit {
		t.Error("Get after Delete hit")
	}
	if err := c.Delete(ctx, "k1"); err != nil {
		t.Errorf("Delete twice: %v", err)
	}
}

func TestFileCacheExpired(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry hit")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestFileCacheCorrupt(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get(corrupt) = %v, %v; want miss", hit, err)
	}
}

func TestFileCacheConcurrentSet(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	values := make([][]byte, 16)
	for i := range values {
		values[i] = bytes.Repeat([]byte(fmt.Sprintf("v%02d", i)), 4096)
	}
	var wg sync.WaitGroup
	for _, v := range values {
		wg.Add(1)
		go func(v []byte) {
			defer wg.Done()
			if err := c.Set(ctx, "shared", v, time.Hour); err != nil {
				t.Errorf("Set: %v", err)
			}
		}(v)
	}
	wg.Wait()

	got, ok, err := c.Get(ctx, "shared")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	found := false
	for _, v := range values {
		if bytes.Equal(got, v) {
			found = true
		}
	}
	if !found {
		t.Errorf("Get returned %d bytes matching no single writer", len(got))
	}

	leftovers, _ := filepath.Glob(filepath.Join(c.Dir(), "*", "*.tmp"))
	if len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
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
	n, err := Clear(ctx, c)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear = %d, want 3", n)
	}
	entries, _ := os.ReadDir(c.Dir())
	if len(entries) != 0 {
		t.Errorf("%d entries left after Clear", len(entries))
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash not deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("distinct inputs hashed equal")
	}
	if len(h1) != 64 {
		t.Errorf("len(Hash) = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	p1 := k.PlanKey("doc", PlanKeyOpts{Anchor: "form", Breakout: []string{"marquee", "carousel"}})
	p2 := k.PlanKey("doc", PlanKeyOpts{Anchor: "form", Breakout: []string{"carousel", "marquee"}})
	p3 := k.PlanKey("doc", PlanKeyOpts{Anchor: "signup", Breakout: []string{"carousel", "marquee"}})
	if p1 != p2 {
		t.Error("breakout order changed the plan key")
	}
	if p1 == p3 {
		t.Error("anchor did not change the plan key")
	}
	if !strings.HasPrefix(p1, "plan:") {
		t.Errorf("PlanKey = %s", p1)
	}

	a1 := k.ArtifactKey("plan", ArtifactKeyOpts{Format: "html"})
	a2 := k.ArtifactKey("plan", ArtifactKeyOpts{Format: "svg"})
	if a1 == a2 {
		t.Error("format did not change the artifact key")
	}
	if !strings.HasPrefix(a1, "artifact:") {
		t.Errorf("ArtifactKey = %s", a1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "site:docs:")

	opts := PlanKeyOpts{Anchor: "form"}
	if got, want := scoped.PlanKey("h", opts), "site:docs:"+inner.PlanKey("h", opts); got != want {
		t.Errorf("PlanKey = %s, want %s", got, want)
	}
	if got := NewScopedKeyer(nil, "p:").ArtifactKey("h", ArtifactKeyOpts{}); !strings.HasPrefix(got, "p:artifact:") {
		t.Errorf("nil inner ArtifactKey = %s", got)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable = false")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("Retryable does not unwrap")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("Error() = %s", err.Error())
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("plain error reported retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryBaseDelay
	retryBaseDelay = time.Millisecond
	defer func() { retryBaseDelay = old }()

	ctx := context.Background()
	errPlain := errors.New("plain")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, nil, 1, false},
		{"non-retryable", 5, errPlain, 1, true},
		{"recovers", 1, Retryable(ErrUnavailable), 2, false},
		{"exhausted", 5, Retryable(ErrUnavailable), 3, true},
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
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrUnavailable) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
