// Package campaign schedules batches of outreach emails and tracks them until
// they are delivered, fail, or are cancelled.
//
// A batch spreads N copies of one email evenly across a time window. The first
// email is sent at the window start and the last at the window end:
//
//	times := campaign.SendTimes(start, end, 3) // start, start+30m, end for a 1h window
//
// Each email becomes a [Unit] in the [Registry] and a deferred job in the
// [Executor]. When the job fires it moves the unit through
// scheduled → sending → sent|failed. Once every unit of a campaign is terminal
// the whole campaign is dropped from the registry, so the registry only holds
// live work.
//
// # Usage
//
//	manager, err := job.NewManager(job.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//
//	scheduler, err := campaign.NewScheduler(manager,
//	    campaign.WithLogger(log),
//	    campaign.WithObserver(metrics.NewCollector(prometheus.DefaultRegisterer)),
//	)
//	if err != nil {
//	    return err
//	}
//
//	units, err := scheduler.ScheduleBatch(ctx, deliverer.Deliver, start, end, 5, campaignID, payload)
//
// Cancelling removes every unit of the campaign and unregisters the jobs that
// have not fired yet. A delivery already in progress is not interrupted:
//
//	removed := scheduler.CancelCampaign(ctx, campaignID)
//
// # Errors
//
// Batch parameters are validated synchronously ([ErrInvalidCount],
// [ErrInvalidWindow], [ErrInvalidCampaign], [ErrNilDelivery]). Delivery failures
// never surface as errors; they are recorded as [StatusFailed] and reported to
// observers.
package campaign
