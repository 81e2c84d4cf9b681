package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Kafka    KafkaConfig
	Slack    SlackConfig
	Schedule ScheduleConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Name           string
	Version        string
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
	// SeedDefaultSettings writes the default work hours into an empty settings store
	SeedDefaultSettings bool
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type SlackConfig struct {
	BotToken  string
	ChannelID string
}

type ScheduleConfig struct {
	// CloseInterval is how often the close_previous_day job checks for work
	CloseInterval time.Duration
	// CloseHour is the local hour from which yesterday is closed
	CloseHour int
	// HolidaysFile is an optional YAML calendar imported at startup
	HolidaysFile string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}
	var err error

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	seed, err := strconv.ParseBool(getEnv("SEED_DEFAULT_SETTINGS", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEFAULT_SETTINGS: %w", err)
	}

	config.App = AppConfig{
		Name:                getEnv("APP_NAME", "hourbank"),
		Version:             getEnv("APP_VERSION", "v1.0.0"),
		Port:                appPort,
		Env:                 getEnv("APP_ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:      getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		SeedDefaultSettings: seed,
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       dbPort,
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", ""),
		Name:       getEnv("DB_NAME", "hourbank"),
		SSLMode:    getEnv("DB_SSL_MODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "hourbank.db"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Kafka configuration
	kafkaEnabled, err := strconv.ParseBool(getEnv("KAFKA_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid KAFKA_ENABLED: %w", err)
	}

	config.Kafka = KafkaConfig{
		Enabled: kafkaEnabled,
		Brokers: getEnvSlice("KAFKA_BROKERS", []string{}),
		Topic:   getEnv("KAFKA_TOPIC", "hourbank.events"),
	}

	// Slack configuration
	config.Slack = SlackConfig{
		BotToken:  getEnv("SLACK_BOT_TOKEN", ""),
		ChannelID: getEnv("SLACK_CHANNEL_ID", ""),
	}

	// Schedule configuration
	closeInterval, err := time.ParseDuration(getEnv("CLOSE_DAY_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOSE_DAY_INTERVAL: %w", err)
	}

	closeHour, err := strconv.Atoi(getEnv("CLOSE_DAY_HOUR", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOSE_DAY_HOUR: %w", err)
	}

	config.Schedule = ScheduleConfig{
		CloseInterval: closeInterval,
		CloseHour:     closeHour,
		HolidaysFile:  getEnv("HOLIDAYS_FILE", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Database.Driver)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if c.Schedule.CloseInterval <= 0 {
		return fmt.Errorf("CLOSE_DAY_INTERVAL must be positive")
	}
	if c.Schedule.CloseHour < 0 || c.Schedule.CloseHour > 23 {
		return fmt.Errorf("CLOSE_DAY_HOUR must be between 0 and 23")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.PathEscape(c.Database.User),
		url.PathEscape(c.Database.Password),
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
