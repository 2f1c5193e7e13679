package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Output formats accepted by OUTPUT_FORMAT.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	BaseDir      string
	OutputFormat string
	LogLevel     string
	LogFormat    string

	// MetricsTextfile, when set, receives the run's Prometheus metrics in
	// text exposition format.
	MetricsTextfile string

	// Kafka summary publishing is enabled when brokers are configured.
	KafkaBrokers      []string
	KafkaSummaryTopic string
	PublishTimeout    time.Duration
}

// PublishEnabled reports whether station summaries should go to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	publishTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("PUBLISH_TIMEOUT", "10s"))
	if err != nil || publishTimeout <= 0 {
		return nil, errors.New("invalid PUBLISH_TIMEOUT")
	}

	cfg := &Config{
		BaseDir:           sharedcfg.EnvOrDefault("CLIMATE_BASE_DIR", "."),
		OutputFormat:      strings.ToLower(sharedcfg.EnvOrDefault("OUTPUT_FORMAT", FormatXLSX)),
		LogLevel:          sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:         sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		MetricsTextfile:   os.Getenv("METRICS_TEXTFILE"),
		KafkaSummaryTopic: sharedcfg.EnvOrDefault("KAFKA_SUMMARY_TOPIC", "climate-station-summaries"),
		PublishTimeout:    publishTimeout,
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokers)
	}

	if cfg.BaseDir == "" {
		return nil, errors.New("CLIMATE_BASE_DIR is required")
	}
	switch cfg.OutputFormat {
	case FormatXLSX, FormatCSV:
	default:
		return nil, fmt.Errorf("invalid OUTPUT_FORMAT %q", cfg.OutputFormat)
	}
	if cfg.PublishEnabled() && cfg.KafkaSummaryTopic == "" {
		return nil, errors.New("KAFKA_SUMMARY_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}
