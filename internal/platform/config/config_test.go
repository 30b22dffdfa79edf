package config

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Addr:               ":8080",
		Environment:        "development",
		UpstreamBaseURL:    "http://localhost:9000",
		SessionBackend:     SessionBackendMemory,
		SessionTTL:         time.Hour,
		LoginRatePerMinute: 10,
		MaxBodyBytes:       1048576,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateRequiresUpstream(t *testing.T) {
	cfg := validConfig()
	cfg.UpstreamBaseURL = " "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing upstream base URL")
	}
}

func TestValidateBackendRequirements(t *testing.T) {
	cfg := validConfig()
	cfg.SessionBackend = SessionBackendRedis
	cfg.RedisAddr = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for redis backend without address")
	}

	cfg = validConfig()
	cfg.SessionBackend = SessionBackendPostgres
	cfg.DatabaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for postgres backend without database URL")
	}

	cfg = validConfig()
	cfg.SessionBackend = "etcd"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestValidateProductionRequiresSecureCookies(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"
	cfg.CookieSecure = false
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for insecure cookies in production")
	}
	cfg.CookieSecure = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid production config, got %v", err)
	}
}
