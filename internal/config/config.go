package config

import (
	"os"
	"strconv"
	"strings"

	"go.uber.org/fx"
)

// Config carries process-wide settings loaded from the environment.
type Config struct {
	Environment string
	HTTPAddr    string
	DatabaseDSN string

	// EscalationWebhookURL, when set, routes operator tickets to an
	// external ticketing endpoint instead of the log.
	EscalationWebhookURL string

	Billing BillingConfig
	Tracing TracingConfig

	Bootstrap BootstrapConfig
}

// BillingConfig controls the collection engine.
type BillingConfig struct {
	// MaxAttempts bounds a single charge sequence, first try included.
	MaxAttempts int
	// Concurrency bounds how many invoices are processed at once.
	Concurrency int
	BatchSize   int
	// TickSchedule is the cron expression for the daily billing trigger.
	TickSchedule string
}

// TracingConfig mirrors the OTLP exporter settings.
type TracingConfig struct {
	Enabled          bool
	ServiceName      string
	ServiceVersion   string
	ExporterEndpoint string
	ExporterProtocol string
	SamplingRatio    float64
}

// BootstrapConfig controls dev-mode seeding.
type BootstrapConfig struct {
	SeedDemoData bool
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads configuration from the environment with dev defaults.
func Load() Config {
	return Config{
		Environment:          getenv("ANTAEUS_ENV", "development"),
		HTTPAddr:             getenv("ANTAEUS_HTTP_ADDR", ":7000"),
		DatabaseDSN:          getenv("ANTAEUS_DB_DSN", "file:antaeus.db?cache=shared"),
		EscalationWebhookURL: getenv("ANTAEUS_ESCALATION_WEBHOOK_URL", ""),
		Billing: BillingConfig{
			MaxAttempts:  getInt("ANTAEUS_CHARGE_MAX_ATTEMPTS", 3),
			Concurrency:  getInt("ANTAEUS_BILLING_CONCURRENCY", 4),
			BatchSize:    getInt("ANTAEUS_BILLING_BATCH_SIZE", 500),
			TickSchedule: getenv("ANTAEUS_BILLING_SCHEDULE", "@midnight"),
		},
		Tracing: TracingConfig{
			Enabled:          getBool("ANTAEUS_TRACING_ENABLED", false),
			ServiceName:      getenv("ANTAEUS_SERVICE_NAME", "antaeus"),
			ServiceVersion:   getenv("ANTAEUS_SERVICE_VERSION", "dev"),
			ExporterEndpoint: getenv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ExporterProtocol: getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"),
			SamplingRatio:    getFloat("ANTAEUS_TRACING_SAMPLING_RATIO", 0.1),
		},
		Bootstrap: BootstrapConfig{
			SeedDemoData: getBool("ANTAEUS_SEED_DEMO_DATA", true),
		},
	}
}

var Module = fx.Module("config",
	fx.Provide(Load),
	fx.Provide(func(cfg Config) BillingConfig { return cfg.Billing }),
	fx.Provide(func(cfg Config) TracingConfig { return cfg.Tracing }),
)

func (c BillingConfig) WithDefaults() BillingConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 500
	}
	if strings.TrimSpace(c.TickSchedule) == "" {
		c.TickSchedule = "@midnight"
	}
	return c
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
