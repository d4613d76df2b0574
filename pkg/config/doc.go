// Package config loads and validates application configuration from
// environment variables, with sensible defaults for all settings.
//
// Server settings:
//
//	FALAH_HOST="0.0.0.0"
//	FALAH_PORT="8080"
//	FALAH_HEALTH_PORT="9090"
//	FALAH_READ_TIMEOUT="15s"
//	FALAH_WRITE_TIMEOUT="15s"
//
// Database settings:
//
//	FALAH_POSTGRES_URL="postgres://localhost/falah"
//	FALAH_POSTGRES_REPLICA_URLS="postgres://replica1/falah,postgres://replica2/falah"
//	FALAH_POSTGRES_MAX_CONNS="25"
//
// Redis and rate limiting:
//
//	FALAH_REDIS_ADDR="localhost:6379"
//	FALAH_RATE_LIMIT_ENABLED="true"
//	FALAH_RATE_LIMIT_REQUESTS="100"
//	FALAH_RATE_LIMIT_WINDOW="1m"
//
// Observability settings:
//
//	FALAH_LOG_LEVEL="info"  # debug, info, warn, error
//	FALAH_METRICS_ENABLED="true"
//	FALAH_OTEL_ENABLED="true"
//	FALAH_OTEL_ENDPOINT="otel-collector:4317"
package config
