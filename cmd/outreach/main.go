// Command outreach serves the email outreach API: draft previews, campaign
// scheduling over a time window and delivery through Resend.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/outreach/internal/config"
	"github.com/dmitrymomot/outreach/internal/httpapi"
	"github.com/dmitrymomot/outreach/internal/server"
	"github.com/dmitrymomot/outreach/pkg/cache"
	"github.com/dmitrymomot/outreach/pkg/campaign"
	"github.com/dmitrymomot/outreach/pkg/db"
	"github.com/dmitrymomot/outreach/pkg/draft"
	"github.com/dmitrymomot/outreach/pkg/health"
	"github.com/dmitrymomot/outreach/pkg/history"
	"github.com/dmitrymomot/outreach/pkg/job"
	"github.com/dmitrymomot/outreach/pkg/logger"
	"github.com/dmitrymomot/outreach/pkg/mailer"
	"github.com/dmitrymomot/outreach/pkg/mailer/resend"
	"github.com/dmitrymomot/outreach/pkg/metrics"
	"github.com/dmitrymomot/outreach/pkg/redis"
	"github.com/dmitrymomot/outreach/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, cleanup := logger.New(cfg.Log, logger.RequestIDExtractor(), logger.CampaignIDExtractor())

	if err := run(context.Background(), cfg, log, cleanup); err != nil {
		log.Error("application error", slog.Any("error", err))
		cleanup()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger, cleanup func()) error {
	var (
		checks   = health.Checks{}
		shutdown []server.Option
	)

	images, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	var rdb goredis.UniversalClient
	if cfg.Redis.Enabled() {
		rdb, err = redis.OpenConfig(ctx, cfg.Redis, log)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		checks["redis"] = redis.Healthcheck(rdb)
		shutdown = append(shutdown, server.ShutdownHook(redis.Shutdown(rdb)))
	}

	store, pool, err := openHistory(ctx, cfg.DB, log)
	if err != nil {
		return err
	}
	if pool != nil {
		checks["postgres"] = db.Healthcheck(pool)
		shutdown = append(shutdown, server.ShutdownHook(db.Shutdown(pool)))
	}

	deliverer, err := newMailer(cfg, images, log)
	if err != nil {
		return err
	}

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		return err
	}

	registry := campaign.NewRegistry()
	manager, err := job.NewManager(
		job.WithMaxWorkers(cfg.Scheduler.MaxWorkers),
		job.WithMisfireGrace(cfg.Scheduler.MisfireGrace),
		job.WithLocation(loc),
		job.WithLogger(log),
		job.WithScheduledTask(&reportLiveUnits{registry: registry, logger: log}),
	)
	if err != nil {
		return fmt.Errorf("create job manager: %w", err)
	}
	checks["jobs"] = job.Healthcheck(manager)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	scheduler, err := campaign.NewScheduler(manager,
		campaign.WithRegistry(registry),
		campaign.WithLogger(log),
		campaign.WithObserver(metrics.NewCollector(reg, metrics.WithLiveUnits(registry.Len))),
		campaign.WithObserver(history.NewRecorder(store, history.WithLogger(log))),
	)
	if err != nil {
		return fmt.Errorf("create scheduler: %w", err)
	}

	drafts, err := cache.Open[draft.Email](cfg.Cache, rdb, "drafts")
	if err != nil {
		return fmt.Errorf("open draft cache: %w", err)
	}
	shutdown = append(shutdown, server.ShutdownHook(cache.Shutdown(drafts)))

	drafter, err := newDrafter(ctx, cfg, drafts, log)
	if err != nil {
		return err
	}

	api := httpapi.New(httpapi.Deps{
		Scheduler: scheduler,
		Deliverer: deliverer,
		Drafter:   drafter,
		Images:    draft.NewImageGenerator(cfg.Draft, images, draft.WithImageLogger(log)),
		History:   store,
		Checks:    checks,
		Metrics:   reg,
	},
		httpapi.WithLogger(log),
		httpapi.WithMaxEmails(cfg.Scheduler.MaxEmails),
		httpapi.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
	)

	opts := []server.Option{
		server.Address(cfg.Server.Addr),
		server.Logger(log),
		server.ShutdownTimeout(cfg.Server.ShutdownTimeout),
		server.StartupHook(manager.StartFunc()),
		// Registered first so deliveries in flight finish before their
		// dependencies close.
		server.ShutdownHook(manager.Shutdown()),
	}
	opts = append(opts, shutdown...)
	opts = append(opts, server.ShutdownHook(logger.Shutdown(cleanup)))

	return server.Run(api.Router(), opts...)
}

// openHistory returns the Postgres history store when a database is
// configured and an in-memory one otherwise. The pool is nil without a database.
func openHistory(ctx context.Context, cfg db.Config, log *slog.Logger) (history.Store, *pgxpool.Pool, error) {
	if !cfg.Enabled() {
		log.Info("no database configured, delivery history is kept in memory")
		return history.NewMemory(), nil, nil
	}

	pool, err := db.Connect(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.Migrate(ctx, pool, history.Migrations(), cfg.MigrationsTable, log); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return history.NewPostgres(pool), pool, nil
}

// newMailer sends through Resend when an API key is set and logs emails
// instead of sending them otherwise.
func newMailer(cfg *config.Config, images storage.Storage, log *slog.Logger) (*mailer.Mailer, error) {
	var sender mailer.Sender = mailer.NewLogSender(log)
	if cfg.Resend.APIKey != "" {
		s, err := resend.New(cfg.Resend)
		if err != nil {
			return nil, fmt.Errorf("create resend sender: %w", err)
		}
		sender = s
	} else {
		log.Warn("RESEND_API_KEY is not set, emails are logged and not sent")
	}

	renderer, err := mailer.NewRenderer(cfg.Mailer.UnsubscribeURL)
	if err != nil {
		return nil, fmt.Errorf("create email renderer: %w", err)
	}

	return mailer.New(sender, renderer, cfg.Mailer,
		mailer.WithImages(images),
		mailer.WithLogger(log),
	), nil
}

func newDrafter(ctx context.Context, cfg *config.Config, drafts cache.Cache[draft.Email], log *slog.Logger) (*draft.Drafter, error) {
	catalogue := draft.DefaultCatalogue()
	if cfg.Draft.TemplatesFile != "" {
		f, err := os.Open(cfg.Draft.TemplatesFile)
		if err != nil {
			return nil, fmt.Errorf("open prompt templates: %w", err)
		}
		defer f.Close()
		if err := catalogue.Merge(f); err != nil {
			return nil, fmt.Errorf("load prompt templates: %w", err)
		}
	}

	var gen draft.Generator
	gemini, err := draft.NewGemini(ctx, cfg.Draft)
	switch {
	case err == nil:
		gen = gemini
	case cfg.Draft.GeminiAPIKey == "":
		log.Warn("GEMINI_API_KEY is not set, draft generation is disabled")
		gen = draft.GeneratorFunc(func(context.Context, string) (string, error) {
			return "", draft.ErrMissingAPIKey
		})
	default:
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return draft.NewDrafter(gen,
		draft.WithCatalogue(catalogue),
		draft.WithCache(drafts, cfg.Cache.TTL),
		draft.WithLogger(log),
	), nil
}
