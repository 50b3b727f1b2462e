package config

import (
	"os"
	"strconv"
	"time"
)

// Application settings
type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Sync     SyncConfig
	Insights InsightsConfig
}

// Server settings
type ServerConfig struct {
	Port string
	Env  string
}

// Sync/scheduler settings
type SyncConfig struct {
	Interval           time.Duration
	RequestTimeout     time.Duration
	RateLimitPerSecond int
	EnableScheduler    bool
}

// Upstream Meta Ads insights proxy settings
type InsightsConfig struct {
	APIURL     string
	APIToken   string
	CampaignID string
}

// Logging settings
type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Sync: SyncConfig{
			Interval:           getDurationEnv("SYNC_INTERVAL", "1m"),
			RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT", "30s"),
			RateLimitPerSecond: getIntEnv("RATE_LIMIT_PER_SECOND", 100),
			EnableScheduler:    getBoolEnv("ENABLE_SCHEDULER", false),
		},
		Insights: InsightsConfig{
			APIURL:     getEnv("INSIGHTS_API_URL", "https://dev-api.adcopy.ai/challenge-proxy/meta"),
			APIToken:   getEnv("META_API_TOKEN", ""),
			CampaignID: getEnv("CAMPAIGN_ID", "120231398059670228"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

// AutoStartScheduler reports whether the sync scheduler should start with
// the process. Only production deployments or an explicit opt-in start it;
// everywhere else it must be started through the API.
func (c *Config) AutoStartScheduler() bool {
	return c.Server.Env == "production" || c.Sync.EnableScheduler
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
