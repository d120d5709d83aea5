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
	"github.com/shopspring/decimal"
)

type Config struct {
	App         AppConfig
	UpstreamAPI UpstreamAPIConfig
	JWT         JWTConfig
	Payroll     PayrollConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	Audit       AuditConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// UpstreamAPIConfig points at the HR REST API that owns every record.
type UpstreamAPIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
	SSEExpiration    string
}

type PayrollConfig struct {
	// SocialSecurityRate is only used to explain deductions, never to compute them.
	SocialSecurityRate decimal.Decimal
	BulkConcurrency    int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// RateLimitConfig is requests per minute per client IP.
type RateLimitConfig struct {
	Punch int
	Bulk  int
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AuditConfig enables the postgres log of bulk payroll operations.
type AuditConfig struct {
	Enabled  bool
	Database DatabaseConfig
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
		slog.Info("No .env file found, using environment")
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Upstream HR API
	upstreamTimeout, err := time.ParseDuration(getEnv("HR_API_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HR_API_TIMEOUT: %w", err)
	}

	config.UpstreamAPI = UpstreamAPIConfig{
		BaseURL: strings.TrimRight(getEnv("HR_API_BASE_URL", ""), "/"),
		Timeout: upstreamTimeout,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
		SSEExpiration:    getEnv("JWT_SSE_EXPIRATION_TIME", "5m"),
	}

	// Payroll configuration
	rate, err := decimal.NewFromString(getEnv("SOCIAL_SECURITY_RATE", "0.1667"))
	if err != nil {
		return nil, fmt.Errorf("invalid SOCIAL_SECURITY_RATE: %w", err)
	}
	concurrency, err := strconv.Atoi(getEnv("PAYROLL_BULK_CONCURRENCY", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_BULK_CONCURRENCY: %w", err)
	}

	config.Payroll = PayrollConfig{
		SocialSecurityRate: rate,
		BulkConcurrency:    concurrency,
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
	}

	punchLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_PUNCH", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PUNCH: %w", err)
	}
	bulkLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_BULK", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BULK: %w", err)
	}

	config.RateLimit = RateLimitConfig{
		Punch: punchLimit,
		Bulk:  bulkLimit,
	}

	// Audit database configuration
	auditEnabled, err := strconv.ParseBool(getEnv("AUDIT_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUDIT_ENABLED: %w", err)
	}
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Audit = AuditConfig{
		Enabled: auditEnabled,
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "planilla_portal"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.UpstreamAPI.BaseURL == "" {
		return fmt.Errorf("HR_API_BASE_URL is required")
	}
	if u, err := url.Parse(c.UpstreamAPI.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("HR_API_BASE_URL must be an absolute URL")
	}
	if c.UpstreamAPI.Timeout <= 0 {
		return fmt.Errorf("HR_API_TIMEOUT must be positive")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Payroll.SocialSecurityRate.IsNegative() || c.Payroll.SocialSecurityRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("SOCIAL_SECURITY_RATE must be between 0 and 1")
	}
	if c.Payroll.BulkConcurrency < 1 {
		return fmt.Errorf("PAYROLL_BULK_CONCURRENCY must be at least 1")
	}
	if c.RateLimit.Punch < 1 || c.RateLimit.Bulk < 1 {
		return fmt.Errorf("RATE_LIMIT_PUNCH and RATE_LIMIT_BULK must be at least 1")
	}
	if c.Audit.Enabled && c.Audit.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required when AUDIT_ENABLED is set")
	}
	return nil
}

// AuditDatabaseURL returns the PostgreSQL connection string
func (c *Config) AuditDatabaseURL() string {
	db := c.Audit.Database
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.SSLMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	value := getEnv(key, fallback)
	if value == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
