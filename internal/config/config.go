package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Storage backend selection values.
const (
	BackendPostgres = "postgres"
	BackendDocument = "document"
)

// Config holds all configuration for the bookings service.
type Config struct {
	Port   string `mapstructure:"PORT"`
	AppEnv string `mapstructure:"APP_ENV"`

	// StorageBackend selects the persistence variant: "postgres" or
	// "document".
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	DocumentPath   string `mapstructure:"DOCUMENT_PATH"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	DefaultPageSize int `mapstructure:"DEFAULT_PAGE_SIZE"`
	MaxPageSize     int `mapstructure:"MAX_PAGE_SIZE"`

	AdminAPIKey string `mapstructure:"ADMIN_API_KEY"`

	// KafkaBrokers is a comma-separated broker list; empty disables the
	// cross-instance change relay.
	KafkaBrokers     string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic       string `mapstructure:"KAFKA_TOPIC"`
	KafkaGroupPrefix string `mapstructure:"KAFKA_GROUP_PREFIX"`
}

// Load reads configuration from the environment with BOOKINGS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKINGS")
	v.AutomaticEnv()

	v.SetDefault("PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STORAGE_BACKEND", BackendDocument)
	v.SetDefault("DOCUMENT_PATH", "data/bookings.json")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "bookings")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "bookings")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DEFAULT_PAGE_SIZE", 10)
	v.SetDefault("MAX_PAGE_SIZE", 100)
	v.SetDefault("ADMIN_API_KEY", "")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "bookings.changed")
	v.SetDefault("KAFKA_GROUP_PREFIX", "bookings-")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	switch cfg.StorageBackend {
	case BackendPostgres, BackendDocument:
	default:
		return nil, fmt.Errorf("invalid storage backend: %q", cfg.StorageBackend)
	}

	return &cfg, nil
}

// DatabaseDSN returns the keyword/value Postgres connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// DatabaseURL returns the URL-style connection string used by migrations.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// Brokers returns the parsed Kafka broker list, empty when the relay is
// disabled.
func (c *Config) Brokers() []string {
	if strings.TrimSpace(c.KafkaBrokers) == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if b := strings.TrimSpace(p); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
