package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.PostgresURL == "" {
		t.Fatalf("expected default postgres url")
	}
	if cfg.CollaboratorTimeout != 2*time.Second {
		t.Fatalf("expected 2s collaborator timeout, got %v", cfg.CollaboratorTimeout)
	}
	if cfg.GuidanceCacheTTL != time.Hour {
		t.Fatalf("expected 1h guidance cache ttl, got %v", cfg.GuidanceCacheTTL)
	}
	if !cfg.AutoMigrate {
		t.Fatalf("expected auto migrate by default")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PUBLIC_BASE_URL", "https://run.example")
	t.Setenv("COLLABORATOR_TIMEOUT", "500ms")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected override redis")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected override log level")
	}
	if cfg.PublicBaseURL != "https://run.example" {
		t.Fatalf("expected override base url")
	}
	if cfg.CollaboratorTimeout != 500*time.Millisecond {
		t.Fatalf("expected override timeout, got %v", cfg.CollaboratorTimeout)
	}
	if cfg.AutoMigrate {
		t.Fatalf("expected auto migrate disabled")
	}
}
