package cache

import (
	"context"
	"fmt"
	"strings"
)

// Backend names a cache implementation.
type Backend string

// Supported backends.
const (
	BackendNone  Backend = "none"
	BackendFile  Backend = "file"
	BackendRedis Backend = "redis"
	BackendMongo Backend = "mongo"
)

// ParseBackend parses a backend name. The empty string selects [BackendFile].
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "":
		return BackendFile, nil
	case BackendNone, BackendFile, BackendRedis, BackendMongo:
		return b, nil
	default:
		return "", fmt.Errorf("unknown cache backend %q (valid: none, file, redis, mongo)", s)
	}
}

// Options selects and configures a backend for [Open].
type Options struct {
	Backend Backend

	// Dir is the FileCache directory.
	Dir string

	// RedisURL and RedisPrefix configure RedisCache.
	RedisURL    string
	RedisPrefix string

	// MongoURI, MongoDatabase and MongoCollection configure MongoCache.
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open creates the configured backend. Network backends are dialed with
// [RetryWithBackoff].
func Open(ctx context.Context, opts Options) (Cache, error) {
	backend := opts.Backend
	if backend == "" {
		backend = BackendFile
	}

	switch backend {
	case BackendNone:
		return NewNullCache(), nil

	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: directory not set")
		}
		return NewFileCache(opts.Dir)

	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis cache: url not set")
		}
		var c *RedisCache
		err := RetryWithBackoff(ctx, func() (err error) {
			c, err = NewRedisCache(ctx, opts.RedisURL, opts.RedisPrefix)
			return err
		})
		if err != nil {
			return nil, err
		}
		return c, nil

	case BackendMongo:
		if opts.MongoURI == "" {
			return nil, fmt.Errorf("mongo cache: uri not set")
		}
		var c *MongoCache
		err := RetryWithBackoff(ctx, func() (err error) {
			c, err = NewMongoCache(ctx, opts.MongoURI, opts.MongoDatabase, opts.MongoCollection)
			return err
		})
		if err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
