// Package metrics exposes scheduler and HTTP metrics to Prometheus.
//
// Collector is a campaign.Observer; HTTP wraps the chi router:
//
//	reg := prometheus.NewRegistry()
//	collector := metrics.NewCollector(reg, metrics.WithLiveUnits(registry.Len))
//	scheduler, err := campaign.NewScheduler(manager,
//		campaign.WithRegistry(registry),
//		campaign.WithObserver(collector),
//	)
//
//	r.Use(metrics.NewHTTP(reg).Middleware)
//	r.Handle("/metrics", metrics.Handler(reg))
package metrics
