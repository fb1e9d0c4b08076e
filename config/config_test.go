package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Token != "test-token" {
		t.Fatalf("token = %q", cfg.Token)
	}
	if cfg.PollInterval != 40*time.Second {
		t.Fatalf("poll interval = %v", cfg.PollInterval)
	}
	if cfg.ConfirmationTTL != 24*time.Hour {
		t.Fatalf("confirmation ttl = %v", cfg.ConfirmationTTL)
	}
	if cfg.TextCategoryName != "group-text" || cfg.VoiceCategoryName != "group-voice" {
		t.Fatalf("categories = %q / %q", cfg.TextCategoryName, cfg.VoiceCategoryName)
	}
	if cfg.PollWorkers != 4 {
		t.Fatalf("poll workers = %d", cfg.PollWorkers)
	}
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "test-token")
	t.Setenv("CONFIRMATION_POLL_INTERVAL", "not-a-duration")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
