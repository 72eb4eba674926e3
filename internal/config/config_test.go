package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_MissingSecretFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("NEXTAUTH_SECRET", "")

	_, err := Load()

	if !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestLoad_JWTSecretWinsOverNextAuthSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "primary")
	t.Setenv("NEXTAUTH_SECRET", "fallback")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.JWTSecret != "primary" {
		t.Fatalf("expected JWT_SECRET to win, got %q", cfg.JWTSecret)
	}
}

func TestLoad_NextAuthSecretFallback(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("NEXTAUTH_SECRET", "fallback")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.JWTSecret != "fallback" {
		t.Fatalf("expected NEXTAUTH_SECRET fallback, got %q", cfg.JWTSecret)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("TOKEN_TTL_DAYS", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.TokenTTL != 7*24*time.Hour {
		t.Fatalf("expected 7 day token ttl, got %v", cfg.TokenTTL)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
}
