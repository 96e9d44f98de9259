package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full service configuration. Every backing service is
// optional; main falls back to in-memory adapters when one is unset.
type Config struct {
	Server   Server
	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
	Audit    AuditConfig
	// CatalogPath points at a YAML document catalog. Empty means the
	// built-in catalog.
	CatalogPath string
	LogLevel    string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// RedisConfig configures the local process cache.
type RedisConfig struct {
	URL          string
	TTL          time.Duration
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the remote process store.
type PostgresConfig struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	Migrate         bool
}

// KafkaConfig configures the audit event stream.
type KafkaConfig struct {
	Brokers           []string
	Topic             string
	Partitions        int32
	ReplicationFactor int16
}

// AuditConfig tunes the audit publisher.
type AuditConfig struct {
	// Buffer is the async queue size. Zero publishes synchronously.
	Buffer int
}

// FromEnv builds the configuration from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            getenv("VISAFLOW_ADDR", ":8080"),
			ShutdownTimeout: getenvDuration("VISAFLOW_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			URL:          getenv("REDIS_URL", ""),
			TTL:          getenvDuration("REDIS_PROCESS_TTL", 30*24*time.Hour),
			PoolSize:     getenvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getenvInt("REDIS_MIN_IDLE_CONNS", 1),
			DialTimeout:  getenvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getenvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getenvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL:             getenv("DATABASE_URL", ""),
			MaxConns:        int32(getenvInt("DATABASE_MAX_CONNS", 10)),
			MinConns:        int32(getenvInt("DATABASE_MIN_CONNS", 1)),
			MaxConnLifetime: getenvDuration("DATABASE_MAX_CONN_LIFETIME", 30*time.Minute),
			Migrate:         getenv("DATABASE_MIGRATE", "true") == "true",
		},
		Kafka: KafkaConfig{
			Brokers:           splitList(getenv("KAFKA_BROKERS", "")),
			Topic:             getenv("KAFKA_AUDIT_TOPIC", "visaflow.audit"),
			Partitions:        int32(getenvInt("KAFKA_AUDIT_PARTITIONS", 3)),
			ReplicationFactor: int16(getenvInt("KAFKA_AUDIT_REPLICATION", 1)),
		},
		Audit: AuditConfig{
			Buffer: getenvInt("AUDIT_BUFFER", 256),
		},
		CatalogPath: getenv("VISAFLOW_CATALOG", ""),
		LogLevel:    getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	parsed, err := strconv.Atoi(getenv(key, ""))
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	parsed, err := time.ParseDuration(getenv(key, ""))
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
