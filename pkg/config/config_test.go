package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/blockplan/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Segment.Anchor != "form" {
		t.Errorf("Anchor = %q", cfg.Segment.Anchor)
	}
	if !reflect.DeepEqual(cfg.Partition.Breakout, []string{"marquee", "carousel"}) {
		t.Errorf("Breakout = %v", cfg.Partition.Breakout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestDecode(t *testing.T) {
	src := `
[segment]
anchor = "signup"

[partition]
breakout = ["hero"]

[cache]
backend = "redis"
redis_addr = "localhost:6379"
redis_db = 2
ttl = "1h"
prefix = "docs:"

[server]
addr = ":9000"
`
	cfg, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.Segment.Anchor != "signup" {
		t.Errorf("Anchor = %q", cfg.Segment.Anchor)
	}
	if !reflect.DeepEqual(cfg.Partition.Breakout, []string{"hero"}) {
		t.Errorf("Breakout = %v", cfg.Partition.Breakout)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisDB != 2 || cfg.Cache.TTL != time.Hour || cfg.Cache.Prefix != "docs:" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	// Untouched fields keep defaults.
	if cfg.Server.MaxBodySize != Default().Server.MaxBodySize {
		t.Errorf("MaxBodySize = %d", cfg.Server.MaxBodySize)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax", "[segment\n"},
		{"unknown key", "[segment]\nanchr = \"form\"\n"},
		{"bad anchor", "[segment]\nanchor = \"not valid\"\n"},
		{"dup breakout", "[partition]\nbreakout = [\"a\", \"a\"]\n"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n"},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n"},
		{"mongo without uri", "[cache]\nbackend = \"mongo\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) && !errors.Is(err, errors.ErrCodeInvalidComponent) {
				t.Errorf("code = %s", errors.GetCode(err))
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.toml")
	if err := os.WriteFile(path, []byte("[segment]\nanchor = \"lead\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, used, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used != path || cfg.Segment.Anchor != "lead" {
		t.Errorf("Load = %q, %q", used, cfg.Segment.Anchor)
	}

	if _, _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestLocate(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", dir)

	if got := Locate(); got != "" {
		t.Errorf("Locate() = %q, want empty", got)
	}
	cfg, used, err := Load("")
	if err != nil || used != "" || cfg.Segment.Anchor != "form" {
		t.Errorf("Load(\"\") = %+v, %q, %v", cfg.Segment, used, err)
	}

	p := filepath.Join(dir, "blockplan", "config.toml")
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Locate(); got != p {
		t.Errorf("Locate() = %q, want %q", got, p)
	}

	t.Setenv(EnvPath, "/explicit.toml")
	if got := Locate(); got != "/explicit.toml" {
		t.Errorf("Locate() with env = %q", got)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Segment.Anchor = "lead"
	cfg.Cache.TTL = 90 * time.Minute

	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v\n%s", err, buf.String())
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}
