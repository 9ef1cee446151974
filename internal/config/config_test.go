package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("APP_NAME", "campus-link")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
	t.Setenv("GEMINI_API_KEY", "test-key")
}

func TestLoad(t *testing.T) {
	setRequired(t)
	t.Setenv("MATCH_AI_TIMEOUT", "10s")
	t.Setenv("MATCH_THRESHOLD", "0.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.AppName != "campus-link" {
		t.Fatalf("unexpected app name: %q", cfg.App.AppName)
	}
	if cfg.Match.AITimeout != 10*time.Second {
		t.Fatalf("unexpected ai timeout: %v", cfg.Match.AITimeout)
	}
	if cfg.Match.Threshold != 0.5 {
		t.Fatalf("unexpected threshold: %v", cfg.Match.Threshold)
	}
}

func TestLoad_MissingKeysAggregated(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_SECRET", "a")
	t.Setenv("JWT_REFRESH_SECRET", "r")
	t.Setenv("GEMINI_API_KEY", "k")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, key := range []string{"APP_NAME", "APP_ENV"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error does not name %s: %v", key, err)
		}
	}
}

func TestLoad_GeminiKeyRequiredWhenAIEnabled(t *testing.T) {
	setRequired(t)
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("expected missing GEMINI_API_KEY error, got %v", err)
	}

	t.Setenv("MATCH_AI_ENABLED", "false")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error with AI disabled: %v", err)
	}
	if cfg.Match.AIEnabled {
		t.Fatalf("expected AI disabled")
	}
}
