// Package logger builds the service's slog logger.
//
// Records go to stdout (JSON by default, text with LOG_FORMAT=text), and
// optionally to a rotating file (LOG_FILE, rotated by lumberjack) and to
// Sentry (SENTRY_DSN). Errors become Sentry issues; warnings are kept as
// Sentry logs unless SENTRY_ERRORS_ONLY is set.
//
//	log, cleanup := logger.New(cfg.Log,
//		logger.RequestIDExtractor(),
//		logger.CampaignIDExtractor(),
//	)
//	defer cleanup()
//
// # Context extractors
//
// A ContextExtractor turns a context value into an attribute on every
// record logged with that context. The HTTP layer stores the request id
// with WithRequestID; handlers that act on a campaign add WithCampaignID:
//
//	ctx = logger.WithCampaignID(ctx, id)
//	log.InfoContext(ctx, "campaign cancelled") // carries request_id and campaign_id
//
// NewNope returns a logger that discards everything, used as the default
// by packages that accept a WithLogger option.
package logger
