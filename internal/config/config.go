package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	// Server
	ServerPort int

	// MongoDB (audit log, users, devices)
	MongoURI        string
	MongoDB         string
	AuditCollection string

	// InfluxDB (live telemetry)
	InfluxURL      string
	InfluxToken    string
	InfluxDatabase string

	// Monitoring
	OfflineThreshold     time.Duration // device considered offline past this
	SourceCheckInterval  time.Duration // telemetry change-detection interval
	PollFallbackInterval time.Duration // forced evaluation when no push arrived

	// Dispatch
	GatewayTimeout     time.Duration
	PushGatewayURL     string
	EmailGatewayURL    string
	SMSGatewayURL      string
	WhatsappGatewayURL string
	FeedCap            int

	// Logging
	LogLevel string
	LogDir   string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnvInt("SERVER_PORT", 8080),

		// MongoDB
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DATABASE", "aqua_monitoring"),
		AuditCollection: getEnv("MONGO_AUDIT_COLLECTION", "audit_log"),

		// InfluxDB
		InfluxURL:      getEnv("INFLUXDB_URL", "http://localhost:8086"),
		InfluxToken:    getEnv("INFLUXDB_TOKEN", ""),
		InfluxDatabase: getEnv("INFLUXDB_DATABASE", "aqua_monitoring"),

		// Monitoring
		OfflineThreshold:     time.Duration(getEnvInt("OFFLINE_THRESHOLD_MINUTES", 10)) * time.Minute,
		SourceCheckInterval:  getEnvDuration("SOURCE_CHECK_INTERVAL", 5*time.Second),
		PollFallbackInterval: getEnvDuration("POLL_FALLBACK_INTERVAL", 5*time.Minute),

		// Dispatch
		GatewayTimeout:     getEnvDuration("GATEWAY_TIMEOUT", 10*time.Second),
		PushGatewayURL:     getEnv("PUSH_GATEWAY_URL", ""),
		EmailGatewayURL:    getEnv("EMAIL_GATEWAY_URL", ""),
		SMSGatewayURL:      getEnv("SMS_GATEWAY_URL", ""),
		WhatsappGatewayURL: getEnv("WHATSAPP_GATEWAY_URL", ""),
		FeedCap:            getEnvInt("FEED_CAP", 200),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
		LogDir:   getEnv("LOG_DIRECTORY", "./logs"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return fmt.Errorf("invalid SERVER_PORT: %d", c.ServerPort)
	}

	if c.OfflineThreshold < time.Minute {
		return fmt.Errorf("invalid OFFLINE_THRESHOLD_MINUTES: must be at least 1 minute")
	}

	if c.SourceCheckInterval < time.Second {
		return fmt.Errorf("invalid SOURCE_CHECK_INTERVAL: %v (must be at least 1s)", c.SourceCheckInterval)
	}

	if c.PollFallbackInterval < c.SourceCheckInterval {
		return fmt.Errorf("POLL_FALLBACK_INTERVAL must not be shorter than SOURCE_CHECK_INTERVAL")
	}

	if c.FeedCap < 1 {
		return fmt.Errorf("invalid FEED_CAP: %d (must be positive)", c.FeedCap)
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
