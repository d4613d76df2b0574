package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/falah-io/falah/pkg/observability"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	RateLimit     RateLimitConfig
	Lookup        LookupConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL             string
	ReplicaURLs     string // comma-separated
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// RateLimitConfig holds request rate limiting settings
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerWindow int
	Window            time.Duration
	FailClosed        bool
}

// LookupConfig holds lookup seed file settings
type LookupConfig struct {
	SeedPath string
	Watch    bool
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("FALAH_HOST", "0.0.0.0"),
			Port:            getEnv("FALAH_PORT", "8080"),
			ReadTimeout:     getEnvDuration("FALAH_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("FALAH_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("FALAH_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("FALAH_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthPort:      getEnv("FALAH_HEALTH_PORT", "9090"),
		},
		Database: DatabaseConfig{
			URL:             getEnv("FALAH_POSTGRES_URL", ""),
			ReplicaURLs:     getEnv("FALAH_POSTGRES_REPLICA_URLS", ""),
			MaxOpenConns:    getEnvInt("FALAH_POSTGRES_MAX_CONNS", 25),
			MaxIdleConns:    getEnvInt("FALAH_POSTGRES_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("FALAH_POSTGRES_CONN_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("FALAH_REDIS_ADDR", ""),
			Password: getEnv("FALAH_REDIS_PASSWORD", ""),
			DB:       getEnvInt("FALAH_REDIS_DB", 0),
			PoolSize: getEnvInt("FALAH_REDIS_POOL_SIZE", 10),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvBool("FALAH_RATE_LIMIT_ENABLED", true),
			RequestsPerWindow: getEnvInt("FALAH_RATE_LIMIT_REQUESTS", 100),
			Window:            getEnvDuration("FALAH_RATE_LIMIT_WINDOW", time.Minute),
			FailClosed:        getEnvBool("FALAH_RATE_LIMIT_FAIL_CLOSED", false),
		},
		Lookup: LookupConfig{
			SeedPath: getEnv("FALAH_LOOKUP_SEED_PATH", ""),
			Watch:    getEnvBool("FALAH_LOOKUP_WATCH", true),
		},
		Observability: ObservabilityConfig{
			LogLevel:           observability.ParseLogLevel(strings.ToLower(getEnv("FALAH_LOG_LEVEL", "info"))),
			MetricsEnabled:     getEnvBool("FALAH_METRICS_ENABLED", true),
			OTelEnabled:        getEnvBool("FALAH_OTEL_ENABLED", false),
			OTelEndpoint:       getEnv("FALAH_OTEL_ENDPOINT", "localhost:4317"),
			OTelServiceName:    getEnv("FALAH_OTEL_SERVICE_NAME", "falah"),
			OTelServiceVersion: getEnv("FALAH_OTEL_SERVICE_VERSION", "1.0.0"),
			OTelInsecure:       getEnvBool("FALAH_OTEL_INSECURE", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("postgres URL is required")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("idle connection limit cannot exceed open connection limit")
	}

	if c.RateLimit.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis address is required when rate limiting is enabled")
		}
		if c.RateLimit.RequestsPerWindow <= 0 {
			return fmt.Errorf("rate limit request count must be positive")
		}
		if c.RateLimit.Window <= 0 {
			return fmt.Errorf("rate limit window must be positive")
		}
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
