package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func Config(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}

// ChapaConfig carries the gateway credentials and endpoints. It is built once
// at startup and passed to the payment client and webhook handler.
type ChapaConfig struct {
	SecretKey       string
	WebhookSecret   string
	BaseURL         string
	DefaultCurrency string
	CallbackBaseURL string
}

func LoadChapaConfig() ChapaConfig {
	cfg := ChapaConfig{
		SecretKey:       Config("CHAPA_SECRET_KEY"),
		WebhookSecret:   Config("CHAPA_WEBHOOK_SECRET"),
		BaseURL:         Config("CHAPA_API_URL"),
		DefaultCurrency: Config("DEFAULT_CURRENCY"),
		CallbackBaseURL: Config("APP_BASE_URL"),
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.chapa.co/v1"
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "ETB"
	}

	return cfg
}
