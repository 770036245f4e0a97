package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvCacheBackend = "TASKER_CACHE_BACKEND"
	EnvCacheDir     = "TASKER_CACHE_DIR"
	EnvRedisURL     = "TASKER_REDIS_URL"
	EnvMongoURI     = "TASKER_MONGO_URI"
	EnvAddr         = "TASKER_ADDR"
)

// LoadEnv loads variables from the given .env files into the process
// environment, defaulting to ./.env. Variables already set are kept, and
// missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv overrides config values with non-empty environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvCacheBackend); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		c.Cache.Dir = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.Cache.RedisURL = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Cache.MongoURI = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	_, err := c.CacheOptions()
	return err
}
