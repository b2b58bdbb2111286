package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	LogLevel string

	DatabaseURL string

	AppSecret []byte

	FrontendURL string

	StripeURL string
	StripeKey string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment", err)
	}

	return &Config{
		Port:     EnvDefault("PORT", "4444"),
		LogLevel: EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		AppSecret: []byte(os.Getenv("APP_SECRET")),

		FrontendURL: EnvDefault("FRONTEND_URL", "http://localhost:7777"),

		StripeURL: EnvDefault("STRIPE_URL", "https://api.stripe.com/v1"),
		StripeKey: os.Getenv("STRIPE_SECRET"),

		SMTPHost: os.Getenv("MAIL_HOST"),
		SMTPPort: EnvIntDefault("MAIL_PORT", 587),
		SMTPUser: os.Getenv("MAIL_USER"),
		SMTPPass: os.Getenv("MAIL_PASS"),
		MailFrom: EnvDefault("MAIL_FROM", "no-reply@sickfits.io"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}
