package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr                 string
	DatabaseURL          string
	JWTSecret            string
	Environment          string
	OTPTTL               time.Duration
	OTPMaxAttempts       int
	CoolingOff           time.Duration
	GeoProviderURL       string
	VerdictProviderURL   string
	CollaboratorTimeout  time.Duration
	AMQPURL              string
	AMQPExchange         string
	EmailFrom            string
	EmailEnabled         bool
	SMTPHost             string
	SMTPPort             int
	SMTPUser             string
	SMTPPassword         string
	SMTPUseTLS           bool
	PayrollCycleInterval time.Duration
	DefaultPayAmount     float64
	PayrollWorkers       int
	RunMigrations        bool
	MaxBodyBytes         int64
	RateLimitPerMinute   int
	MetricsEnabled       bool
}

func Load() Config {
	return Config{
		Addr:                 getEnv("APP_ADDR", ":8080"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		Environment:          getEnv("APP_ENV", "development"),
		OTPTTL:               getEnvDuration("OTP_TTL", 10*time.Minute),
		OTPMaxAttempts:       getEnvInt("OTP_MAX_ATTEMPTS", 2),
		CoolingOff:           getEnvDuration("COOLING_OFF", 24*time.Hour),
		GeoProviderURL:       getEnv("GEO_PROVIDER_URL", ""),
		VerdictProviderURL:   getEnv("VERDICT_PROVIDER_URL", ""),
		CollaboratorTimeout:  getEnvDuration("COLLABORATOR_TIMEOUT", 3*time.Second),
		AMQPURL:              getEnv("AMQP_URL", ""),
		AMQPExchange:         getEnv("AMQP_EXCHANGE", "payguard.decisions"),
		EmailFrom:            getEnv("EMAIL_FROM", "no-reply@example.com"),
		EmailEnabled:         getEnvBool("EMAIL_ENABLED", false),
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             getEnvInt("SMTP_PORT", 587),
		SMTPUser:             getEnv("SMTP_USER", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:           getEnvBool("SMTP_USE_TLS", true),
		PayrollCycleInterval: getEnvDuration("PAYROLL_CYCLE_INTERVAL", 0),
		DefaultPayAmount:     getEnvFloat("DEFAULT_PAY_AMOUNT", 0),
		PayrollWorkers:       getEnvInt("PAYROLL_WORKERS", 4),
		RunMigrations:        getEnvBool("RUN_MIGRATIONS", true),
		MaxBodyBytes:         int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		MetricsEnabled:       getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
	}
	if c.OTPTTL <= 0 {
		return fmt.Errorf("OTP_TTL must be positive")
	}
	if c.OTPMaxAttempts < 1 {
		return fmt.Errorf("OTP_MAX_ATTEMPTS must be at least 1")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	if c.PayrollWorkers < 1 {
		return fmt.Errorf("PAYROLL_WORKERS must be at least 1")
	}
	return nil
}
