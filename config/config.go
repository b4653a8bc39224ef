package config

import (
	"os"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Push     PushConfig
	Tracking TrackingConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// AllowedOrigin restricts WebSocket handshakes to one browser origin.
	// Empty accepts any origin (local development).
	AllowedOrigin string
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// PushConfig configures the admin alert channels. An empty VapidPublicKey
// means the push endpoint channel is unavailable and subscriptions fall
// back to the in-app channel. ServiceAccountPath points at the Firebase
// credentials used by the push sender; empty disables it.
type PushConfig struct {
	VapidPublicKey     string
	ServiceAccountPath string
}

type TrackingConfig struct {
	Enabled bool
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          getenv("PORT", "8090"),
			Env:           getenv("APP_ENV", "development"),
			ReadTimeout:   10 * time.Second,
			WriteTimeout:  10 * time.Second,
			AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),
		},
		Database: DatabaseConfig{
			DSN:             getenv("DATABASE_DSN", "clamio:clamio@tcp(localhost:3306)/clamio?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getenv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getenv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "clamio",
		},
		Push: PushConfig{
			VapidPublicKey:     os.Getenv("VAPID_PUBLIC_KEY"),
			ServiceAccountPath: os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"),
		},
		Tracking: TrackingConfig{
			Enabled: getenv("ERROR_TRACKING", "on") != "off",
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
