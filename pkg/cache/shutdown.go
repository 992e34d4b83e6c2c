package cache

import (
	"context"
	"io"
)

// Shutdown returns a shutdown hook that closes c, stopping the memory
// backend's background sweep.
//
// Example:
//
//	err := server.Run(handler, server.ShutdownHook(cache.Shutdown(drafts)))
func Shutdown(c io.Closer) func(ctx context.Context) error {
	return func(context.Context) error {
		return c.Close()
	}
}
