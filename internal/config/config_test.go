package config

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/deposits")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ServerPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.DefaultPageSize != 10 {
		t.Fatalf("expected default page size 10, got %d", cfg.DefaultPageSize)
	}
	if cfg.MutationRateLimitPerMinute != 60 {
		t.Fatalf("expected default mutation limit 60, got %d", cfg.MutationRateLimitPerMinute)
	}
	if cfg.RedisRateLimitPrefix != "paydesk:rate_limit" {
		t.Fatalf("expected default limiter prefix, got %q", cfg.RedisRateLimitPrefix)
	}
	if cfg.DatabaseURL != "postgres://localhost:5432/deposits" {
		t.Fatalf("expected database url from environment, got %q", cfg.DatabaseURL)
	}
}

func TestLoadConfigPortOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9001")
	t.Setenv("PORT", "9002")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Platform-injected PORT wins over SERVER_PORT.
	if cfg.ServerPort != "9002" {
		t.Fatalf("expected PORT to take precedence, got %q", cfg.ServerPort)
	}
}
