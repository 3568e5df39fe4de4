// Package config loads blockplan settings from a TOML file.
//
// A config file looks like:
//
//	[segment]
//	anchor = "form"
//
//	[partition]
//	breakout = ["marquee", "carousel", "hero"]
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//
// Every field is optional; [Default] fills what the file leaves out.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/blockplan/pkg/errors"
	"github.com/matzehuels/blockplan/pkg/partition"
	"github.com/matzehuels/blockplan/pkg/segment"
)

// EnvPath names the environment variable that points at a config file.
const EnvPath = "BLOCKPLAN_CONFIG"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config is the full set of settings.
type Config struct {
	Segment   Segment   `toml:"segment"`
	Partition Partition `toml:"partition"`
	Cache     Cache     `toml:"cache"`
	Server    Server    `toml:"server"`
}

type Segment struct {
	Anchor string `toml:"anchor"`
}

type Partition struct {
	Breakout []string `toml:"breakout"`
}

type Cache struct {
	Backend         string        `toml:"backend"`
	Dir             string        `toml:"dir"`
	RedisAddr       string        `toml:"redis_addr"`
	RedisPassword   string        `toml:"redis_password"`
	RedisDB         int           `toml:"redis_db"`
	MongoURI        string        `toml:"mongo_uri"`
	MongoDatabase   string        `toml:"mongo_database"`
	MongoCollection string        `toml:"mongo_collection"`
	TTL             time.Duration `toml:"ttl"`
	// Prefix is prepended to every cache key.
	Prefix          string        `toml:"prefix"`
}

type Server struct {
	Addr        string        `toml:"addr"`
	MaxBodySize int64         `toml:"max_body_size"`
	Timeout     time.Duration `toml:"timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Segment:   Segment{Anchor: segment.DefaultAnchorComponent},
		Partition: Partition{Breakout: append([]string(nil), partition.DefaultBreakout...)},
		Cache:     Cache{Backend: BackendFile, TTL: 7 * 24 * time.Hour},
		Server:    Server{Addr: ":8080", MaxBodySize: 4 << 20, Timeout: 30 * time.Second},
	}
}

// Decode reads TOML from r on top of [Default]. Unknown keys are an error.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the config file at path. An empty path searches [Locate]; if no
// file is found the defaults are returned.
func Load(path string) (Config, string, error) {
	if path == "" {
		path = Locate()
		if path == "" {
			return Default(), "", nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, path, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return Config{}, path, err
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, path, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, path, nil
}

// Locate returns the first existing config file from $BLOCKPLAN_CONFIG and
// $XDG_CONFIG_HOME/blockplan/config.toml (falling back to ~/.config), or "".
func Locate() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	p := filepath.Join(dir, "blockplan", "config.toml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// Validate checks field values.
func (c Config) Validate() error {
	if err := errors.ValidateComponentName(c.Segment.Anchor); err != nil {
		return fmt.Errorf("segment.anchor: %w", err)
	}
	if err := errors.ValidateComponentNames(c.Partition.Breakout); err != nil {
		return fmt.Errorf("partition.breakout: %w", err)
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	case BackendMongo:
		if c.Cache.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	if c.Server.MaxBodySize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.max_body_size must be positive")
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
