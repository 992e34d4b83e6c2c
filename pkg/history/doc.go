// Package history keeps a log of finished deliveries.
//
// The scheduler's registry forgets a campaign as soon as all of its units
// are terminal. History is the record that stays: every outcome (unit,
// campaign, recipient, final status, provider status code and response,
// timestamps) is appended by a [Recorder] registered as a campaign observer.
//
//	store := history.NewPostgres(pool)
//	scheduler, err := campaign.NewScheduler(manager,
//		campaign.WithObserver(history.NewRecorder(store, history.WithLogger(log))),
//	)
//
//	records, err := store.List(ctx, campaignID, 100) // newest first
//
// History is a reporting log, not registry persistence: nothing is read
// back into the scheduler on restart. [Memory] serves the same interface
// without a database.
package history
