// Package draft writes outreach emails and their images with generative models.
//
// A Catalogue holds prompt templates (YAML, Go template placeholders). The
// built-in set covers follow_up, reminder and introduction emails:
//
//	gen, err := draft.NewGemini(ctx, cfg.Draft)
//	if err != nil {
//		return err
//	}
//	d := draft.NewDrafter(gen, draft.WithCache(drafts, time.Hour))
//
//	email, err := d.Email(ctx, draft.Request{
//		Template:      "follow_up",
//		RecipientName: "Jane",
//		Topic:         "Q3 roadmap",
//		Tone:          "friendly",
//		Goal:          "book a call",
//	})
//
// The first generated line becomes the subject. ImageDescription never fails;
// it falls back to a stock description.
//
// ImageGenerator posts the description to a hosted inference endpoint and
// stores the returned PNG. When that fails it stores a configured fallback
// image instead and reports its description so the caller can tell the user.
package draft
