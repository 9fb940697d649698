package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected default access TTL 15m, got %s", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 30*24*time.Hour {
		t.Fatalf("expected default refresh TTL 30d, got %s", cfg.RefreshTokenTTL)
	}
	if cfg.SuperAdminSignupKey != "" {
		t.Fatalf("superadmin signup should be disabled by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "18080")
	t.Setenv("DB_NAME", "lms_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "30")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
	t.Setenv("SENDGRID_API_KEY", "SG.test")

	cfg := Load()
	if cfg.Port != "18080" {
		t.Fatalf("expected PORT override, got %s", cfg.Port)
	}
	if cfg.DBName != "lms_test" {
		t.Fatalf("expected DB_NAME override, got %s", cfg.DBName)
	}
	if cfg.JWTSecret != "test-secret" {
		t.Fatalf("expected JWT_SECRET override, got %s", cfg.JWTSecret)
	}
	if cfg.RefreshJWTSecret != "test-secret" {
		t.Fatalf("refresh secret should default to JWT_SECRET, got %s", cfg.RefreshJWTSecret)
	}
	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("expected access TTL 30m, got %s", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("expected refresh TTL 7d, got %s", cfg.RefreshTokenTTL)
	}
	if cfg.SendGridKey != "SG.test" {
		t.Fatalf("expected SENDGRID_API_KEY override, got %s", cfg.SendGridKey)
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "not-a-number")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "-3")

	cfg := Load()
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("bad access TTL should fall back to 15m, got %s", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 30*24*time.Hour {
		t.Fatalf("negative refresh TTL should fall back to 30d, got %s", cfg.RefreshTokenTTL)
	}
}
