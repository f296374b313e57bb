package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultSenderName = "Website Contact Form"
	EnvDevelopment    = "development"
)

type Config struct {
	Port string
	// SMTP Configuration
	EmailHost    string
	EmailPort    string
	EmailUser    string // Login and sender mailbox
	EmailPass    string
	EmailSecure  bool // Implicit TLS (port 465 style)
	EmailTimeout time.Duration
	SenderName   string
	// Proxies whose X-Forwarded-For is honored. Empty means the socket address is the client.
	TrustedProxies []string
	// Runtime mode, "development" exposes error details in responses
	AppEnv string
	// Rate Limiting Configuration
	RateLimitWindow      time.Duration
	RateLimitMaxRequests int
	// Redis Configuration (optional shared rate limit store)
	RedisURL      string
	RedisPassword string
}

func LoadConfig() (*Config, error) {
	// Load .env file (only present locally, ignored when missing)
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "3000"),
		// SMTP Configuration
		EmailHost:    getEnv("EMAIL_HOST", ""),
		EmailPort:    getEnv("EMAIL_PORT", "587"),
		EmailUser:    getEnv("EMAIL_USER", ""),
		EmailPass:    getEnv("EMAIL_PASS", ""),
		EmailSecure:  getEnvBool("EMAIL_SECURE", false),
		EmailTimeout: time.Duration(getEnvInt("EMAIL_TIMEOUT_SECONDS", 30)) * time.Second,
		SenderName:   strings.TrimSpace(getEnv("SENDER_NAME", "")),
		AppEnv:       getEnv("APP_ENV", ""),
		// Comma separated IPs/CIDRs, e.g. "10.0.0.0/8,127.0.0.1"
		TrustedProxies: getEnvList("TRUSTED_PROXIES"),
		// Rate Limiting Configuration: 5 accepted requests per 15 minutes
		RateLimitWindow:      time.Duration(getEnvInt("RATE_LIMIT_WINDOW_MINUTES", 15)) * time.Minute,
		RateLimitMaxRequests: getEnvInt("RATE_LIMIT_MAX_REQUESTS", 5),
		// Redis Configuration
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}

	if cfg.SenderName == "" {
		cfg.SenderName = DefaultSenderName
	}

	if cfg.EmailHost == "" || cfg.EmailUser == "" {
		log.Println("WARNING: EMAIL_HOST or EMAIL_USER is missing. Contact emails will fail to send.")
	}

	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory store.")
	}

	return cfg, nil
}

// IsDevelopment reports whether raw error details may be returned to clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == EnvDevelopment
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvList returns the non-empty comma separated items of an environment variable
func getEnvList(key string) []string {
	var items []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// getEnvInt returns a positive integer environment variable or fallback if not set/invalid
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil && intVal > 0 {
			return intVal
		}
	}
	return fallback
}

// getEnvBool returns a boolean environment variable or fallback if not set/invalid
func getEnvBool(key string, fallback bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
