package config

import (
	"fmt"
	"os"
)

// Config holds all runtime configuration for the Lieferspatz backend.
type Config struct {
	Port         string
	DatabaseURI  string
	JWTSecret    string
	UploadFolder string
	AppEnv       string
}

// Load reads configuration from environment variables, applying defaults
// where a variable is optional. JWT_SECRET has no default.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DatabaseURI:  getEnv("DATABASE_URI", "lieferspatz.db"),
		JWTSecret:    secret,
		UploadFolder: getEnv("UPLOAD_FOLDER", "static/uploads"),
		AppEnv:       getEnv("APP_ENV", "development"),
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
