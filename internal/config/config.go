package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	Environment string

	// CORS
	CORSOrigins []string

	// Assets
	TemplatesDir string
	StaticDir    string

	// Navigation
	NavConfigFile       string
	NavWatch            bool
	NavReloadDebounceMs int

	// Sessions
	SessionCookie string
	SessionTTL    time.Duration

	// Redis
	EnableRedis bool
	RedisURL    string

	// Rate Limiting
	RateLimitRequests int
	RateLimitWindow   int
	RateLimitBurst    int

	// Features
	EnableMetrics     bool
	BackgroundWorkers int

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	// Site Meta
	SiteTitle       string
	SiteDescription string
	SiteUserName    string
	SiteUserRole    string
	SiteUserAvatar  string
}

func New() *Config {
	c := &Config{
		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// CORS
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:8080")),

		// Assets
		TemplatesDir: getEnv("TEMPLATES_DIR", "./templates"),
		StaticDir:    getEnv("STATIC_DIR", "./static"),

		// Navigation
		NavConfigFile:       strings.TrimSpace(getEnv("NAV_CONFIG_FILE", "")),
		NavReloadDebounceMs: getEnvAsInt("NAV_RELOAD_DEBOUNCE_MS", 250),

		// Sessions
		SessionCookie: getEnv("SESSION_COOKIE", "dashboard_session"),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		// Redis
		EnableRedis: getEnvAsBool("ENABLE_REDIS", false),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),

		// Rate Limiting
		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", 300),
		RateLimitWindow:   getEnvAsInt("RATE_LIMIT_WINDOW", 60),
		RateLimitBurst:    getEnvAsInt("RATE_LIMIT_BURST", 0),

		// Features
		EnableMetrics:     getEnvAsBool("ENABLE_METRICS", true),
		BackgroundWorkers: getEnvAsInt("BACKGROUND_WORKERS", 2),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogFile:   getEnv("LOG_FILE", ""),

		// Site Meta
		SiteTitle:       getEnv("SITE_TITLE", "Checkit"),
		SiteDescription: getEnv("SITE_DESCRIPTION", "Operational intelligence dashboard"),
		SiteUserName:    getEnv("SITE_USER_NAME", "Checkit"),
		SiteUserRole:    getEnv("SITE_USER_ROLE", "Admin"),
		SiteUserAvatar:  getEnv("SITE_USER_AVATAR", ""),
	}

	c.SetNavConfigFile(c.NavConfigFile)

	return c
}

// SetNavConfigFile overrides the navigation file. Watching only makes sense
// for a file and is on by default while developing.
func (c *Config) SetNavConfigFile(path string) {
	c.NavConfigFile = strings.TrimSpace(path)
	c.NavWatch = getEnvAsBool("NAV_WATCH", c.IsDevelopment()) && c.NavConfigFile != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return valueStr == "true" || valueStr == "1"
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var items []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
