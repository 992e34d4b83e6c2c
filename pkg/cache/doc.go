// Package cache stores generated drafts so the same prompt is not sent to
// the text-generation model twice.
//
// Two backends share the [Cache] interface: [Memory], an LRU map with TTL
// expiration for single-process deployments, and [Redis] for deployments
// that want drafts to survive a restart. [Open] picks one from [Config].
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the cache's configured default TTL
//   - Negative: item never expires
//
// # Loader
//
// [Loader] fronts a cache with a singleflight group. Concurrent misses for
// the same key run the load function once, and load errors are never cached:
//
//	drafts := cache.NewLoader(c)
//	email, err := drafts.GetOrSet(ctx, cache.Key(prompt), func(ctx context.Context) (draft.Email, time.Duration, error) {
//	    e, err := generate(ctx, prompt)
//	    return e, 0, err
//	})
//
// [Key] hashes arbitrary strings (prompts) into fixed-length keys.
//
// # Errors
//
//   - [ErrNotFound]: key missing or expired
//   - [ErrClosed]: memory cache used after Close
//   - [ErrMarshal], [ErrUnmarshal]: Redis value encoding failed
//   - [ErrUnknownBackend]: unsupported Config.Backend
package cache
