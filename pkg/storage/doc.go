// Package storage keeps the images attached to outreach emails.
//
// Two backends implement [Storage]: [S3Storage] for S3-compatible object
// storage and [LocalStorage] for a directory on disk. [Open] picks one from
// [Config], which is parsed from the environment with caarlos0/env.
//
// # Basic Usage
//
//	store, err := storage.Open(cfg.Storage)
//	if err != nil {
//		return err
//	}
//
//	// Store a generated image under generated/{uuid}.png
//	info, err := storage.PutBytes(ctx, store, png,
//		storage.WithPrefix("generated"),
//		storage.WithImageOnly(),
//	)
//
//	// Copy a remote fallback image
//	info, err = storage.PutFromURL(ctx, store, "https://example.com/fallback.jpg", 0,
//		storage.WithPrefix("fallback"),
//	)
//
//	// Load it back for an attachment
//	data, info, err := storage.ReadAll(ctx, store, info.Key)
//
// MIME types are detected from magic bytes, never from file names.
//
// # Error Handling
//
// Errors wrap the sentinel values in this package; match them with errors.Is:
//
//	if errors.Is(err, storage.ErrNotFound) {
//		// image was removed
//	}
package storage
