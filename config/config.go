package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Cache   CacheConfig
	Photos  PhotoConfig
	Gateway GatewayConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins string
}

type StoreConfig struct {
	// DatabaseURL empty means the in-process store: fine for one box,
	// no cross-instance sync.
	DatabaseURL  string
	PollInterval string
}

type CacheConfig struct {
	Path string
}

type PhotoConfig struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	PublicBaseURL   string
}

type GatewayConfig struct {
	Token string
}

func LoadFromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "5300"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Store: StoreConfig{
			DatabaseURL:  os.Getenv("DATABASE_URL"),
			PollInterval: getEnv("STORE_POLL_INTERVAL", "2s"),
		},
		Cache: CacheConfig{
			Path: getEnv("CACHE_PATH", "./planner-cache.db"),
		},
		Photos: PhotoConfig{
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
			PublicBaseURL:   os.Getenv("CDN_BASE_URL"),
		},
		Gateway: GatewayConfig{
			Token: os.Getenv("GATEWAY_TOKEN"),
		},
	}
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Cache.Path == "" {
		return fmt.Errorf("cache path is required")
	}
	if _, err := time.ParseDuration(c.Store.PollInterval); err != nil {
		return fmt.Errorf("invalid store poll interval: %w", err)
	}
	if c.Photos.Enabled() {
		if c.Photos.Bucket == "" {
			return fmt.Errorf("R2_BUCKET_NAME is required when photo storage is configured")
		}
	}
	return nil
}

func (c *Config) GetPollInterval() time.Duration {
	d, _ := time.ParseDuration(c.Store.PollInterval)
	return d
}

// Enabled reports whether enough R2 settings are present to upload.
func (p PhotoConfig) Enabled() bool {
	return p.AccountID != "" && p.AccessKeyID != "" && p.AccessKeySecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
