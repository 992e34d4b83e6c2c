// Package httpapi is the JSON HTTP surface of the outreach service: prompt
// catalogue, recipient import, draft previews, campaign scheduling and
// cancellation, plus health and metrics endpoints.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/outreach/pkg/campaign"
	"github.com/dmitrymomot/outreach/pkg/draft"
	"github.com/dmitrymomot/outreach/pkg/health"
	"github.com/dmitrymomot/outreach/pkg/history"
	"github.com/dmitrymomot/outreach/pkg/metrics"
)

const (
	defaultMaxEmails      = 20
	defaultMaxUploadBytes = 5 << 20 // 5MB
)

// Drafter writes email drafts and image descriptions.
// *draft.Drafter satisfies it.
type Drafter interface {
	Catalogue() *draft.Catalogue
	Email(ctx context.Context, req draft.Request) (draft.Email, error)
	ImageDescription(ctx context.Context, topic, details, goal string) string
}

// ImageGenerator renders and stores an email image.
// *draft.ImageGenerator satisfies it.
type ImageGenerator interface {
	Generate(ctx context.Context, description string) (draft.Image, error)
}

// Deliverer builds the delivery function for a campaign.
// *mailer.Mailer satisfies it.
type Deliverer interface {
	Deliver(campaignID string) campaign.DeliveryFunc
}

// Deps are the services the API calls into.
type Deps struct {
	Scheduler *campaign.Scheduler
	Deliverer Deliverer
	Drafter   Drafter
	Images    ImageGenerator

	// History is optional; without it the history endpoint answers 404.
	History history.Store

	// Checks run on /health/ready.
	Checks health.Checks

	// Metrics is optional; with it requests are measured and /metrics is served.
	Metrics *prometheus.Registry
}

// API serves the outreach HTTP endpoints.
type API struct {
	deps           Deps
	validate       *validator.Validate
	logger         *slog.Logger
	maxEmails      int
	maxUploadBytes int64
}

// Option configures the API.
type Option func(*API)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *API) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMaxEmails caps total_emails per recipient. Defaults to 20.
func WithMaxEmails(n int) Option {
	return func(a *API) {
		if n > 0 {
			a.maxEmails = n
		}
	}
}

// WithMaxUploadBytes caps recipient file uploads. Defaults to 5MB.
func WithMaxUploadBytes(n int64) Option {
	return func(a *API) {
		if n > 0 {
			a.maxUploadBytes = n
		}
	}
}

// New creates the API.
func New(deps Deps, opts ...Option) *API {
	a := &API{
		deps:           deps,
		validate:       newValidator(),
		logger:         slog.New(slog.DiscardHandler),
		maxEmails:      defaultMaxEmails,
		maxUploadBytes: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router builds the HTTP handler.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	if a.deps.Metrics != nil {
		r.Use(metrics.NewHTTP(a.deps.Metrics).Middleware)
	}
	r.Use(a.accessLog)
	r.Use(a.recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.writeError(w, r, errNotFound("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		a.writeError(w, r, newError(http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", nil))
	})

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(a.deps.Checks,
		health.WithLogger(a.logger),
		health.WithStats(a.stats),
	))
	if a.deps.Metrics != nil {
		r.Handle("/metrics", metrics.Handler(a.deps.Metrics))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/templates", a.wrap(a.listTemplates))
		r.Get("/tones", a.wrap(a.listTones))
		r.Post("/recipients/import", a.wrap(a.importRecipients))
		r.Post("/drafts", a.wrap(a.createDrafts))

		r.Get("/campaigns", a.wrap(a.listCampaigns))
		r.Post("/campaigns", a.wrap(a.scheduleCampaigns))
		r.Delete("/campaigns/{id}", a.wrap(a.cancelCampaign))
		r.Get("/campaigns/{id}/history", a.wrap(a.campaignHistory))

		r.Get("/units", a.wrap(a.listUnits))
	})

	return r
}

// stats reports scheduler counters on the readiness endpoint.
func (a *API) stats() map[string]int {
	if a.deps.Scheduler == nil {
		return nil
	}
	return map[string]int{
		"live_units": a.deps.Scheduler.Registry().Len(),
		"campaigns":  len(a.deps.Scheduler.Campaigns()),
	}
}
