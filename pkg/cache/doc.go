// Package cache stores computed layouts between runs.
//
// Four backends implement [Cache]:
//
//   - [FileCache]: JSON files under the user cache directory (CLI default)
//   - [RedisCache]: a Redis server via go-redis
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: disables caching
//
// [Open] picks one from [Options]. Keys come from a [Keyer]; the default
// scheme hashes the graph document together with the layout options, and
// [ScopedKeyer] prefixes keys so the CLI and server can share a backend.
package cache
