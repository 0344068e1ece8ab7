package cache

import (
	"context"
	"fmt"
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Options selects and configures a cache backend.
type Options struct {
	Backend string // file (default), redis, mongo or none
	Dir     string // file backend root; defaults to DefaultDir()
	Redis   RedisOptions
	Mongo   MongoOptions
}

// Open constructs the configured backend.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		dir := opts.Dir
		if dir == "" {
			var err error
			if dir, err = DefaultDir(); err != nil {
				return nil, fmt.Errorf("cache dir: %w", err)
			}
		}
		return NewFileCache(dir)
	case BackendRedis:
		return NewRedisCache(ctx, opts.Redis)
	case BackendMongo:
		return NewMongoCache(ctx, opts.Mongo)
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
