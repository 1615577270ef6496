package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type PostgresConfig struct {
	User           string
	Password       string
	Host           string
	Port           string
	Name           string
	SSLMode        string
	MigrationsPath string
}

// DSN builds the pgx connection string, including pool hints the way the
// services configure them.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&pool_max_conns=25&pool_min_conns=5",
		p.User, p.Password, p.Host, p.Port, p.Name, p.SSLMode,
	)
}

// MigrateDSN builds the database/sql connection string used by the migration
// runner (lib/pq driver).
func (p PostgresConfig) MigrateDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Name, p.SSLMode,
	)
}

type WompiConfig struct {
	BaseURL      string
	PublicKey    string
	PrivateKey   string
	IntegrityKey string
	Timeout      time.Duration
	SettleDelay  time.Duration
}

type Config struct {
	ServiceName    string
	HTTPPort       string
	OTLPEndpoint   string
	TaxRatePercent float64
	SagaTimeout    time.Duration
	Postgres       PostgresConfig
	Wompi          WompiConfig
}

// Load reads an optional .env file and resolves every setting from the
// environment with sensible defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	taxRate, err := getEnvFloat("TAX_RATE_PERCENT", 19)
	if err != nil {
		return nil, err
	}
	sagaTimeout, err := getEnvDuration("SAGA_TX_TIMEOUT", 100*time.Second)
	if err != nil {
		return nil, err
	}
	wompiTimeout, err := getEnvDuration("WOMPI_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	settleDelay, err := getEnvDuration("WOMPI_SETTLE_DELAY", 2*time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServiceName:    getEnv("SERVICE_NAME", "checkout-api"),
		HTTPPort:       getEnv("PORT", "8080"),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		TaxRatePercent: taxRate,
		SagaTimeout:    sagaTimeout,
		Postgres: PostgresConfig{
			User:           getEnv("DATABASE_USER", "root"),
			Password:       getEnv("DATABASE_PASSWORD", "pass"),
			Host:           getEnv("DATABASE_HOST", "localhost"),
			Port:           getEnv("DATABASE_PORT", "5432"),
			Name:           getEnv("DATABASE_NAME", "checkout_db"),
			SSLMode:        getEnv("DATABASE_SSLMODE", "disable"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "migrations"),
		},
		Wompi: WompiConfig{
			BaseURL:      getEnv("WOMPI_URL", "https://api-sandbox.co.uat.wompi.dev/v1"),
			PublicKey:    getEnv("WOMPI_PUBLIC_KEY", ""),
			PrivateKey:   getEnv("WOMPI_PRIVATE_KEY", ""),
			IntegrityKey: getEnv("WOMPI_INTEGRITY_KEY", ""),
			Timeout:      wompiTimeout,
			SettleDelay:  settleDelay,
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return v, nil
}
