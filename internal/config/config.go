package config

import (
	"os"
	"strconv"
	"time"

	"github.com/boddenberg/collections-bfa-go/internal/domain"
	"github.com/boddenberg/collections-bfa-go/internal/infra/resilience"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// Backend adapter selection and transport
	Backend Backend

	// Observability
	OTLPEndpoint string
	OTelEnabled  bool
}

// Backend is everything the client factory needs to build an adapter.
type Backend struct {
	// Mode is the raw API_MODE value; the factory parses it (aliases allowed).
	Mode string

	// External REST
	BaseURL              string
	RESTDisabledCapsList string

	// Embedded store
	SupabaseURL     string
	SupabaseAnonKey string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	Resilience resilience.Config

	// Cache
	CacheTTL time.Duration

	// Object storage (uploads, invoice PDFs, GDPR exports)
	Storage Storage
}

// Storage configures the S3-compatible object store. Empty Endpoint disables it.
type Storage struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	UseSSL    bool
	URLTTL    time.Duration
}

// Enabled reports whether an object store is configured.
func (s Storage) Enabled() bool {
	return s.Endpoint != "" && s.Bucket != ""
}

// DefaultBaseURL is the external REST API used when API_BASE_URL is unset.
const DefaultBaseURL = "https://api.debtcollection.com/v1"

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		Backend: Backend{
			Mode: getEnv("API_MODE", string(domain.ModeEmbeddedStore)),

			BaseURL:              getEnv("API_BASE_URL", DefaultBaseURL),
			RESTDisabledCapsList: getEnv("REST_DISABLED_CAPABILITIES", ""),

			SupabaseURL:     getEnv("SUPABASE_URL", ""),
			SupabaseAnonKey: getEnv("SUPABASE_ANON_KEY", ""),

			HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),

			Resilience: resilience.Config{
				MaxRetries:     getEnvInt("MAX_RETRIES", 3),
				InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 200*time.Millisecond),
				MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 16),
			},

			CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),

			Storage: Storage{
				Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
				AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
				SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
				Region:    getEnv("STORAGE_REGION", "us-east-1"),
				Bucket:    getEnv("STORAGE_BUCKET", "collections"),
				UseSSL:    getEnvBool("STORAGE_USE_SSL", true),
				URLTTL:    getEnvDuration("STORAGE_URL_TTL", 15*time.Minute),
			},
		},

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelEnabled:  getEnvBool("OTEL_ENABLED", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
