package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dmitrymomot/outreach/pkg/campaign"
)

const namespace = "outreach"

// Collector records campaign lifecycle events as Prometheus metrics.
// It implements campaign.Observer.
type Collector struct {
	scheduled prometheus.Counter
	outcomes  *prometheus.CounterVec
	cancelled prometheus.Counter
	misfires  prometheus.Counter
	duration  *prometheus.HistogramVec
}

// CollectorOption configures a Collector.
type CollectorOption func(*collectorOptions)

type collectorOptions struct {
	liveUnits func() int
	buckets   []float64
}

// WithLiveUnits exposes the number of units in the registry as a gauge.
//
// Example:
//
//	registry := campaign.NewRegistry()
//	metrics.NewCollector(reg, metrics.WithLiveUnits(registry.Len))
func WithLiveUnits(fn func() int) CollectorOption {
	return func(o *collectorOptions) {
		o.liveUnits = fn
	}
}

// WithDurationBuckets sets the delivery duration histogram buckets.
// Defaults to prometheus.DefBuckets.
func WithDurationBuckets(buckets []float64) CollectorOption {
	return func(o *collectorOptions) {
		if len(buckets) > 0 {
			o.buckets = buckets
		}
	}
}

// NewCollector registers the campaign metrics with reg.
func NewCollector(reg prometheus.Registerer, opts ...CollectorOption) *Collector {
	o := &collectorOptions{buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(o)
	}

	f := promauto.With(reg)
	c := &Collector{
		scheduled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_scheduled_total",
			Help:      "Email sends registered with the scheduler",
		}),
		outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unit_outcomes_total",
			Help:      "Finished email sends partitioned by final status",
		}, []string{"status"}),
		cancelled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_cancelled_total",
			Help:      "Email sends stopped by campaign cancellation before they started",
		}),
		misfires: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unit_misfires_total",
			Help:      "Email sends skipped because they fired past the misfire grace",
		}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "delivery_duration_seconds",
			Help:      "Time spent in the delivery function",
			Buckets:   o.buckets,
		}, []string{"status"}),
	}

	if o.liveUnits != nil {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_units",
			Help:      "Units currently tracked by the status registry",
		}, func() float64 { return float64(o.liveUnits()) })
	}

	return c
}

// Scheduled implements campaign.Observer.
func (c *Collector) Scheduled(_ context.Context, units []campaign.Unit) {
	c.scheduled.Add(float64(len(units)))
}

// Finished implements campaign.Observer.
func (c *Collector) Finished(_ context.Context, o campaign.Outcome) {
	status := string(o.Unit.Status)
	c.outcomes.WithLabelValues(status).Inc()

	if o.Misfired {
		c.misfires.Inc()
		return
	}
	if !o.StartedAt.IsZero() && !o.FinishedAt.IsZero() {
		c.duration.WithLabelValues(status).Observe(o.FinishedAt.Sub(o.StartedAt).Seconds())
	}
}

// Cancelled implements campaign.Observer.
func (c *Collector) Cancelled(_ context.Context, _ string, cancelled int) {
	c.cancelled.Add(float64(cancelled))
}

var _ campaign.Observer = (*Collector)(nil)
