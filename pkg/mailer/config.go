package mailer

// Config holds mailer configuration.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	SenderEmail     string `env:"MAILER_SENDER_EMAIL"`
	UnsubscribeURL  string `env:"MAILER_UNSUBSCRIBE_URL"`
	FallbackSubject string `env:"MAILER_FALLBACK_SUBJECT" envDefault:"No Subject"`
}
