package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the directory service
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Email     EmailConfig
	Directory DirectoryConfig
	Retention RetentionConfig
	App       AppConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds Postgres configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration for caching
type RedisConfig struct {
	URL          string
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
}

// NATSConfig holds NATS configuration for domain event publishing
type NATSConfig struct {
	URL           string
	Enabled       bool
	MaxReconnects int
	ReconnectWait int // In seconds
}

// EmailConfig holds outbound email configuration
type EmailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	BaseURL        string // Base URL for links embedded in emails
}

// DirectoryConfig holds directory search behavior configuration
type DirectoryConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	// AccurateRatingSort switches rating/reviews sorts to a database-side
	// aggregate ordering instead of re-sorting the already-limited page.
	AccurateRatingSort bool
	CategoryCacheTTL   int // In seconds
}

// RetentionConfig holds audit-trail retention configuration
type RetentionConfig struct {
	ActionLogDays   int
	ReportDays      int
	CleanupEnabled  bool
	CleanupSchedule string // Cron schedule for the cleanup job
	BatchSize       int
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Environment string
	LogLevel    string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "directory_db"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:          getEnv("REDIS_URL", ""),
			MaxRetries:   getEnvAsInt("REDIS_MAX_RETRIES", 3),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
		},
		NATS: NATSConfig{
			URL:           getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled:       getEnvAsBool("NATS_ENABLED", true),
			MaxReconnects: getEnvAsInt("NATS_MAX_RECONNECTS", -1),
			ReconnectWait: getEnvAsInt("NATS_RECONNECT_WAIT", 2),
		},
		Email: EmailConfig{
			SendGridAPIKey: getEnv("SENDGRID_API_KEY", ""),
			FromEmail:      getEnv("EMAIL_FROM_ADDRESS", "noreply@directory.local"),
			FromName:       getEnv("EMAIL_FROM_NAME", "Business Directory"),
			BaseURL:        getEnv("APP_BASE_URL", "http://localhost:3000"),
		},
		Directory: DirectoryConfig{
			DefaultPageSize:    getEnvAsInt("DIRECTORY_DEFAULT_PAGE_SIZE", 12),
			MaxPageSize:        getEnvAsInt("DIRECTORY_MAX_PAGE_SIZE", 100),
			AccurateRatingSort: getEnvAsBool("DIRECTORY_ACCURATE_RATING_SORT", false),
			CategoryCacheTTL:   getEnvAsInt("DIRECTORY_CATEGORY_CACHE_TTL", 300),
		},
		Retention: RetentionConfig{
			ActionLogDays:   getEnvAsInt("RETENTION_ACTION_LOG_DAYS", 365),
			ReportDays:      getEnvAsInt("RETENTION_REPORT_DAYS", 180),
			CleanupEnabled:  getEnvAsBool("RETENTION_CLEANUP_ENABLED", true),
			CleanupSchedule: getEnv("RETENTION_CLEANUP_SCHEDULE", "0 3 * * *"), // 3 AM daily
			BatchSize:       getEnvAsInt("RETENTION_BATCH_SIZE", 500),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
	}

	return config, nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.App.Environment) == "production"
}

// IsDevelopment returns true if running in development
func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.App.Environment) == "development"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}
