package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/namitjain73/IPEC-Hackethon/pkg/tlsutil"
)

// Config holds all configuration for the vegetation ML service.
type Config struct {
	Port         string
	ModelsDir    string
	LogLevel     string
	LogFormat    string
	Environment  string
	KafkaBrokers string
	KafkaTopic   string
	// KafkaTLSCAFile enables TLS to the brokers, trusting this CA bundle.
	KafkaTLSCAFile   string
	KafkaTLSInsecure bool
	OTLPEndpoint     string
	TLSCertFile      string
	TLSKeyFile       string
	DatabaseURL      string
	// RateLimitRPS caps prediction requests per second. Zero disables it.
	RateLimitRPS int
	Debug        bool
	Tracing      bool
}

// Load reads an optional .env file and then the environment, falling back to
// defaults. Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	return FromEnv(), nil
}

// LoadDotEnv loads the named files when they exist.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

// FromEnv reads configuration from environment variables only.
func FromEnv() *Config {
	return &Config{
		Port:             getEnv("ML_PORT", "5001"),
		ModelsDir:        getEnv("MODELS_DIR", "models"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "json"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "vegetation.events"),
		KafkaTLSCAFile:   getEnv("KAFKA_TLS_CA_FILE", ""),
		KafkaTLSInsecure: getEnvBool("KAFKA_TLS_INSECURE_SKIP_VERIFY", false),
		OTLPEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		TLSCertFile:      getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:       getEnv("TLS_KEY_FILE", ""),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RateLimitRPS:     getEnvInt("RATE_LIMIT_RPS", 0),
		Debug:            getEnvBool("DEBUG", false),
		Tracing:          getEnvBool("TRACING_ENABLED", false),
	}
}

// HTTPAddress returns the full HTTP listen address.
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// TLSEnabled reports whether both a certificate and a key are configured.
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// KafkaTLS returns the broker client TLS config, or nil when neither a CA
// bundle nor insecure mode is configured.
func (c *Config) KafkaTLS() (*tls.Config, error) {
	if c.KafkaTLSCAFile == "" && !c.KafkaTLSInsecure {
		return nil, nil
	}
	tlsCfg, err := tlsutil.ClientConfig(c.KafkaTLSCAFile, c.KafkaTLSInsecure)
	if err != nil {
		return nil, fmt.Errorf("config: KAFKA_TLS_CA_FILE: %w", err)
	}
	return tlsCfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("config: invalid ML_PORT %q", c.Port)
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		return errors.New("config: TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("config: invalid RATE_LIMIT_RPS %d", c.RateLimitRPS)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvBool accepts the strconv.ParseBool spellings; anything else is the
// default.
func getEnvBool(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return n
}
