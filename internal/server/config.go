package server

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config is the API server configuration, loaded from the environment.
type Config struct {
	Addr string

	GeminiAPIKey string

	// DatabaseURL enables the Postgres history ledger. Empty means the
	// in-memory sink.
	DatabaseURL string

	// WorkOSAPIKey enables real identity lookups. Empty means the
	// in-memory provider, which treats every bearer token as unknown
	// unless users are seeded.
	WorkOSAPIKey string

	// StripeAPIKey enables checkout. Empty disables the billing routes.
	StripeAPIKey       string
	CheckoutSuccessURL string
	CheckoutCancelURL  string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
}

// LoadFromEnv reads configuration from the environment.
func LoadFromEnv() (Config, error) {
	cfg := Config{
		Addr:               getenv("INFLUTOOLS_ADDR", ":8080"),
		GeminiAPIKey:       strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		WorkOSAPIKey:       strings.TrimSpace(os.Getenv("WORKOS_API_KEY")),
		StripeAPIKey:       strings.TrimSpace(os.Getenv("STRIPE_API_KEY")),
		CheckoutSuccessURL: getenv("CHECKOUT_SUCCESS_URL", "https://influtools.example/checkout/success"),
		CheckoutCancelURL:  getenv("CHECKOUT_CANCEL_URL", "https://influtools.example/checkout/cancel"),
		ReadHeaderTimeout:  10 * time.Second,
		ReadTimeout:        60 * time.Second,
	}
	if cfg.GeminiAPIKey == "" {
		return Config{}, errors.New("GEMINI_API_KEY is required")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
