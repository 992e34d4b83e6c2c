package draft

import "time"

// Config holds text and image generation settings.
// Embed this in your app config for env parsing with caarlos0/env.
type Config struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	// YAML file with extra or replacement prompt templates.
	TemplatesFile string `env:"DRAFT_TEMPLATES_FILE"`

	HuggingFaceToken string        `env:"HUGGINGFACE_API_KEY"`
	ImageModelURL    string        `env:"DRAFT_IMAGE_MODEL_URL" envDefault:"https://api-inference.huggingface.co/models/black-forest-labs/FLUX.1-dev"`
	ImageTimeout     time.Duration `env:"DRAFT_IMAGE_TIMEOUT" envDefault:"2m"`

	// Image used when generation fails, e.g. when the inference quota is spent.
	FallbackImageURL         string `env:"DRAFT_FALLBACK_IMAGE_URL"`
	FallbackImageDescription string `env:"DRAFT_FALLBACK_IMAGE_DESCRIPTION" envDefault:"A professional business meeting in a modern office"`
}
