package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Load()
	cfg.DatabaseURL = "postgres://localhost/payguard"
	return cfg
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = " "
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("err = %v, want DATABASE_URL error", err)
	}
}

func TestValidateRequiresJWTSecretInProduction(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"
	cfg.JWTSecret = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("err = %v, want JWT_SECRET error", err)
	}
}

func TestValidateOTPSettings(t *testing.T) {
	cfg := validConfig()
	cfg.OTPTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero OTP ttl")
	}

	cfg = validConfig()
	cfg.OTPMaxAttempts = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero max attempts")
	}
}

func TestValidateEmailNeedsHost(t *testing.T) {
	cfg := validConfig()
	cfg.EmailEnabled = true
	cfg.SMTPHost = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "SMTP_HOST") {
		t.Fatalf("err = %v, want SMTP_HOST error", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.OTPTTL != 10*time.Minute {
		t.Fatalf("OTPTTL = %v, want 10m", cfg.OTPTTL)
	}
	if cfg.OTPMaxAttempts != 2 {
		t.Fatalf("OTPMaxAttempts = %d, want 2", cfg.OTPMaxAttempts)
	}
	if cfg.CoolingOff != 24*time.Hour {
		t.Fatalf("CoolingOff = %v, want 24h", cfg.CoolingOff)
	}
}
