package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Database DatabaseConfig
	Vipps    VippsConfig
	Lock     LockConfig
	Poll     PollConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	ConnMaxLifetime time.Duration
	MaxOpenConns    int
	MaxIdleConns    int
}

// VippsConfig holds the remote processor credentials and the gateway's
// public identity.
type VippsConfig struct {
	BaseURL                      string
	ClientID                     string
	ClientSecret                 string
	SubscriptionKeyAuthorization string
	SubscriptionKeyPayment       string
	SerialNumber                 string
	GatewayID                    string
	OrderIDPrefix                string
	PublicBaseURL                string
	Express                      bool
}

// LockConfig holds the reconciliation lock settings.
type LockConfig struct {
	WaitTimeout time.Duration
	Backoff     time.Duration
	MaxAttempts int
}

// PollConfig bounds the return-path INITIATE polling.
type PollConfig struct {
	Interval    time.Duration
	MaxAttempts int
}

// RedisConfig holds the optional distributed-lock backend. An empty
// address selects the in-process lock.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds the optional event broker. Empty brokers select the
// no-op publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level string // debug, info, warn, error
}

// Load loads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvAsDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout: getEnvAsDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:  getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			DBName:          getEnv("DB_NAME", "vipps_gateway"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "5m"),
		},
		Vipps: VippsConfig{
			BaseURL:                      getEnv("VIPPS_BASE_URL", "https://apitest.vipps.no"),
			ClientID:                     os.Getenv("VIPPS_CLIENT_ID"),
			ClientSecret:                 os.Getenv("VIPPS_CLIENT_SECRET"),
			SubscriptionKeyAuthorization: os.Getenv("VIPPS_SUBSCRIPTION_KEY_AUTH"),
			SubscriptionKeyPayment:       os.Getenv("VIPPS_SUBSCRIPTION_KEY_PAYMENT"),
			SerialNumber:                 os.Getenv("VIPPS_SERIAL_NUMBER"),
			GatewayID:                    getEnv("GATEWAY_ID", "vipps"),
			OrderIDPrefix:                os.Getenv("ORDER_ID_PREFIX"),
			PublicBaseURL:                getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
			Express:                      getEnvAsBool("VIPPS_EXPRESS", false),
		},
		Lock: LockConfig{
			WaitTimeout: getEnvAsDuration("LOCK_WAIT_TIMEOUT", "5s"),
			Backoff:     getEnvAsDuration("LOCK_BACKOFF", "1s"),
			MaxAttempts: getEnvAsInt("LOCK_MAX_ATTEMPTS", 30),
		},
		Poll: PollConfig{
			Interval:    getEnvAsDuration("POLL_INTERVAL", "10s"),
			MaxAttempts: getEnvAsInt("POLL_MAX_ATTEMPTS", 90),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "payment-events"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host cannot be empty")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database name cannot be empty")
	}

	if c.Vipps.GatewayID == "" {
		return fmt.Errorf("gateway id cannot be empty")
	}
	if c.Vipps.PublicBaseURL == "" {
		return fmt.Errorf("public base URL cannot be empty")
	}

	if c.Lock.MaxAttempts <= 0 {
		return fmt.Errorf("lock max attempts must be positive, got %d", c.Lock.MaxAttempts)
	}
	if c.Poll.MaxAttempts <= 0 {
		return fmt.Errorf("poll max attempts must be positive, got %d", c.Poll.MaxAttempts)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	return nil
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to parsing the default if provided value is invalid
		duration, err = time.ParseDuration(defaultValue)
		if err != nil {
			return 0
		}
	}
	return duration
}

func splitNonEmpty(value string) []string {
	if value == "" {
		return nil
	}
	var parts []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}
