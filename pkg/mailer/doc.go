// Package mailer composes and sends outreach emails.
//
// The package separates email sending (via providers) from composition,
// so the provider can be swapped without touching how a drafted email is
// turned into a message.
//
// # Architecture
//
//   - Sender: interface that email providers implement (see the resend subpackage)
//   - Renderer: turns a markdown body into sanitized HTML and plain text, with
//     the sender signature and an optional unsubscribe link appended
//   - Mailer: builds an Email from a campaign.Payload and hands it to the Sender
//
// # Usage
//
//	sender, err := resend.New(cfg.Resend)
//	if err != nil {
//		return err
//	}
//
//	renderer, err := mailer.NewRenderer(cfg.Mailer.UnsubscribeURL)
//	if err != nil {
//		return err
//	}
//
//	m := mailer.New(sender, renderer, cfg.Mailer,
//		mailer.WithImages(images),
//		mailer.WithLogger(log),
//	)
//
//	units, err := scheduler.ScheduleBatch(ctx, m.Deliver(campaignID),
//		start, end, total, campaignID, payload)
//
// Deliver adapts the mailer to campaign.DeliveryFunc: an accepted email
// reports 200 and {"id": "<message id>"}, any error reports 500 and
// {"error": "<message>"}. Errors never leave the delivery function.
//
// # Images
//
// When the payload carries an image key, the image is read from storage,
// embedded inline as cid:embedded_image and attached a second time as a
// regular file. An image that cannot be loaded is logged and the email is
// sent without it.
//
// # Development
//
// LogSender logs emails instead of sending them. It is used when no
// provider API key is configured.
//
// # Error Handling
//
// Sentinel errors are checked with errors.Is:
//
//	if errors.Is(err, mailer.ErrSendFailed) {
//		// provider rejected the email
//	}
package mailer
