// Package redis connects to the Redis instance that backs the draft cache.
//
// It wraps [github.com/redis/go-redis/v9] with startup retries, a
// readiness check and a shutdown hook:
//
//	client, err := redis.OpenConfig(ctx, cfg.Redis, log)
//	if err != nil {
//		return err
//	}
//	drafts, err := cache.Open[draft.Email](cfg.Cache, client, "drafts")
//
//	checks := health.Checks{"redis": redis.Healthcheck(client)}
//	err := server.Run(handler, server.ShutdownHook(redis.Shutdown(client)))
//
// Open accepts redis:// and rediss:// (TLS) URLs. A client that does not
// answer PING after the configured attempts yields ErrConnectionFailed
// joined with the last ping error.
package redis
