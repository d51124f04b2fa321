package config

import (
	"os"
)

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

type NewsConfig struct {
	ElevenLabsAPIKey string
	CronSecret       string
}

type Config struct {
	Port          string
	BaseURL       string
	DatabaseURL   string
	JWTSecret     string
	JWTIssuer     string
	AdminPassword string
	SentryDSN     string
	CatalogPath   string
	Stripe        StripeConfig
	R2            R2Config
	News          NewsConfig
}

func LoadConfig() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		BaseURL:       getEnv("BASE_URL", "http://localhost:3000"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTIssuer:     getEnv("JWT_ISSUER", "drivetimetales"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		CatalogPath:   os.Getenv("CATALOG_PATH"),
	}

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")

	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")
	cfg.R2.PublicURL = os.Getenv("R2_PUBLIC_URL")

	cfg.News.ElevenLabsAPIKey = os.Getenv("ELEVENLABS_API_KEY")
	cfg.News.CronSecret = os.Getenv("CRON_SECRET")

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
