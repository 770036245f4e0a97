// Package config loads tasker settings from a TOML file and the environment.
//
// Config file locations (priority order):
//  1. $TASKER_CONFIG
//  2. ./tasker.toml
//  3. $XDG_CONFIG_HOME/tasker/config.toml (or ~/.config/tasker/config.toml)
//
// A missing file is not an error: [Load] returns [Default]. Environment
// variables override file values (see [Config.ApplyEnv]); command-line flags
// override both and are applied by the caller.
//
// Numeric settings follow [pipeline.Options]: 0 means "use the default", so
// node_sep, rank_sep, node_width, base_height and line_height cannot be
// set to exactly 0. Use a small positive value such as 0.01 for cards that
// nearly touch. margin and max_height already default to 0.
//
// Example file:
//
//	[layout]
//	direction = "LR"
//	node_sep = 80
//
//	[sizing]
//	max_height = 400
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "12h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/iloginov/tasker/pkg/cache"
	"github.com/iloginov/tasker/pkg/pipeline"
)

// DefaultAddr is the HTTP listen address used when none is configured.
const DefaultAddr = ":8080"

// Config is the decoded configuration file.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Sizing SizingConfig `toml:"sizing"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// LayoutConfig mirrors the layout fields of [pipeline.Options].
type LayoutConfig struct {
	Direction string  `toml:"direction"`
	NodeSep   float64 `toml:"node_sep"`
	RankSep   float64 `toml:"rank_sep"`
	Margin    float64 `toml:"margin"`
	Align     string  `toml:"align"`
	RankAlign string  `toml:"rank_align"`
	Orderer   string  `toml:"orderer"`
	Passes    int     `toml:"passes"`
	Heuristic string  `toml:"heuristic"`
}

// SizingConfig sets the card size of tasks without an explicit size.
type SizingConfig struct {
	NodeWidth  float64 `toml:"node_width"`
	BaseHeight float64 `toml:"base_height"`
	LineHeight float64 `toml:"line_height"`
	MaxHeight  float64 `toml:"max_height"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend         string        `toml:"backend"`
	Dir             string        `toml:"dir"`
	RedisURL        string        `toml:"redis_url"`
	RedisPrefix     string        `toml:"redis_prefix"`
	MongoURI        string        `toml:"mongo_uri"`
	MongoDatabase   string        `toml:"mongo_database"`
	MongoCollection string        `toml:"mongo_collection"`
	TTL             time.Duration `toml:"ttl"`
}

// ServerConfig configures `tasker serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

// Load finds and loads the config file, or returns defaults if none is found.
// The returned path is empty when no file was read.
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		return Default(), "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, path, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, path, nil
}

// Parse decodes TOML data. Unknown keys are rejected so that typos surface.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	if _, err := cache.ParseBackend(cfg.Cache.Backend); err != nil {
		return nil, err
	}
	if cfg.Cache.TTL < 0 {
		return nil, errors.New("cache ttl must not be negative")
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills in values the pipeline does not default itself.
func (c *Config) applyDefaults() {
	if c.Cache.Backend == "" {
		c.Cache.Backend = string(cache.BackendFile)
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = DefaultCacheDir()
	}
	if c.Cache.RedisPrefix == "" {
		c.Cache.RedisPrefix = cache.DefaultRedisPrefix
	}
	if c.Cache.MongoDatabase == "" {
		c.Cache.MongoDatabase = cache.DefaultMongoDatabase
	}
	if c.Cache.MongoCollection == "" {
		c.Cache.MongoCollection = cache.DefaultMongoCollection
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
}

// PipelineOptions converts the layout and sizing sections to pipeline options.
// Zero values are left for [pipeline.Options.ValidateAndSetDefaults].
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Direction:  c.Layout.Direction,
		NodeSep:    c.Layout.NodeSep,
		RankSep:    c.Layout.RankSep,
		Margin:     c.Layout.Margin,
		Align:      c.Layout.Align,
		RankAlign:  c.Layout.RankAlign,
		Orderer:    c.Layout.Orderer,
		Passes:     c.Layout.Passes,
		Heuristic:  c.Layout.Heuristic,
		NodeWidth:  c.Sizing.NodeWidth,
		BaseHeight: c.Sizing.BaseHeight,
		LineHeight: c.Sizing.LineHeight,
		MaxHeight:  c.Sizing.MaxHeight,
	}
}

// CacheOptions converts the cache section to [cache.Open] options.
func (c *Config) CacheOptions() (cache.Options, error) {
	backend, err := cache.ParseBackend(c.Cache.Backend)
	if err != nil {
		return cache.Options{}, err
	}
	return cache.Options{
		Backend:         backend,
		Dir:             c.Cache.Dir,
		RedisURL:        c.Cache.RedisURL,
		RedisPrefix:     c.Cache.RedisPrefix,
		MongoURI:        c.Cache.MongoURI,
		MongoDatabase:   c.Cache.MongoDatabase,
		MongoCollection: c.Cache.MongoCollection,
	}, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
