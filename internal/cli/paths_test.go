package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestCacheLocation(t *testing.T) {
	c, _ := newTestCLI(t)

	c.Config.Cache.Dir = "/var/cache/blockplan"
	if got := c.cacheLocation(nil); got != "/var/cache/blockplan" {
		t.Errorf("file location = %q", got)
	}

	c.Config.Cache.Backend = "redis"
	c.Config.Cache.RedisAddr = "cache:6379"
	c.Config.Cache.RedisDB = 2
	if got := c.cacheLocation(nil); got != "redis://cache:6379/2" {
		t.Errorf("redis location = %q", got)
	}

	c.Config.Cache.Backend = "mongo"
	c.Config.Cache.MongoURI = "mongodb://user:secret@db:27017"
	if got := c.cacheLocation(nil); got != "mongodb://user:xxxxx@db:27017" {
		t.Errorf("mongo location = %q, want password redacted", got)
	}
}
