package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database       DatabaseConfig
	Redis          RedisConfig
	JWT            JWTConfig
	App            AppConfig
	CallAttendance CallAttendanceConfig
	Incentive      IncentiveConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig holds the connection settings for the submission guard cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	IngestRateLimit    string
}

// CallAttendanceConfig holds scheduling and retention knobs for the attendance engine
type CallAttendanceConfig struct {
	CalendarFile           string
	WeeklyOffDays          []time.Weekday
	ReconcileInterval      time.Duration
	ReconcileHour          int
	AuditRetentionDays     int
	DuplicateSubmissionTTL time.Duration
}

type IncentiveConfig struct {
	DefaultWaiverPercentage float64
}

func Load() (*Config, error) {
	// .env is optional; real deployments inject the environment directly
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "callforce"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration
	redisPort, err := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     redisPort,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		IngestRateLimit:    getEnv("INGEST_RATE_LIMIT", "120-M"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Call attendance configuration
	weeklyOff, err := parseWeekdays(getEnvSlice("WEEKLY_OFF_DAYS", "Sunday"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEEKLY_OFF_DAYS: %w", err)
	}

	reconcileInterval, err := time.ParseDuration(getEnv("RECONCILE_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_INTERVAL: %w", err)
	}

	reconcileHour, err := strconv.Atoi(getEnv("RECONCILE_HOUR", "23"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_HOUR: %w", err)
	}

	retentionDays, err := strconv.Atoi(getEnv("AUDIT_RETENTION_DAYS", "90"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIT_RETENTION_DAYS: %w", err)
	}

	duplicateTTL, err := time.ParseDuration(getEnv("DUPLICATE_SUBMISSION_TTL", "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DUPLICATE_SUBMISSION_TTL: %w", err)
	}

	config.CallAttendance = CallAttendanceConfig{
		CalendarFile:           getEnv("CALENDAR_FILE", ""),
		WeeklyOffDays:          weeklyOff,
		ReconcileInterval:      reconcileInterval,
		ReconcileHour:          reconcileHour,
		AuditRetentionDays:     retentionDays,
		DuplicateSubmissionTTL: duplicateTTL,
	}

	// Incentive configuration
	waiver, err := strconv.ParseFloat(getEnv("DEFAULT_WAIVER_PERCENTAGE", "30"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_WAIVER_PERCENTAGE: %w", err)
	}
	config.Incentive = IncentiveConfig{DefaultWaiverPercentage: waiver}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.CallAttendance.ReconcileHour < 0 || c.CallAttendance.ReconcileHour > 23 {
		return fmt.Errorf("RECONCILE_HOUR must be between 0 and 23")
	}
	if c.CallAttendance.AuditRetentionDays < 1 {
		return fmt.Errorf("AUDIT_RETENTION_DAYS must be at least 1")
	}
	if c.Incentive.DefaultWaiverPercentage < 0 || c.Incentive.DefaultWaiverPercentage > 100 {
		return fmt.Errorf("DEFAULT_WAIVER_PERCENTAGE must be between 0 and 100")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// RedisAddr returns host:port for the redis client
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		found := false
		for d := time.Sunday; d <= time.Saturday; d++ {
			if strings.EqualFold(d.String(), name) {
				days = append(days, d)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
	}
	return days, nil
}
