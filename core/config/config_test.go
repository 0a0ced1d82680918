package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			Token:    "123:abc",
			AdminIDs: []int64{42},
		},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode = %q, want longpoll", cfg.Telegram.RunMode)
	}
	if cfg.Schedule.StatusSweepSpec != "@every 10m" {
		t.Errorf("sweep spec = %q", cfg.Schedule.StatusSweepSpec)
	}
	if cfg.Schedule.StaleAfterHours != 24 {
		t.Errorf("stale hours = %d", cfg.Schedule.StaleAfterHours)
	}
	if cfg.Database.SSLMode != "disable" || cfg.Database.MaxConnections != 10 {
		t.Errorf("database defaults not applied: %+v", cfg.Database)
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestNormalizeRequiresAdminIDs(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.AdminIDs = nil
	if err := Normalize(cfg); err == nil || !strings.Contains(err.Error(), "admin_ids") {
		t.Fatalf("expected admin_ids error, got %v", err)
	}

	cfg = validConfig()
	cfg.Telegram.AdminIDs = []int64{0}
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for non-positive admin id")
	}
}

func TestNormalizeWebhookMode(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "webhook"
	if err := Normalize(cfg); err == nil {
		t.Fatal("expected error for webhook mode without url")
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = "webhook"
	cfg.Webhook = WebhookConfig{URL: "https://example.org/hook", Listen: "0.0.0.0", Port: 8443}
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize webhook: %v", err)
	}
}

func TestNormalizeRunModeAlias(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "Polling"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("alias not normalized: %q", cfg.Telegram.RunMode)
	}
}

func TestNormalizeRateLimitWindowDefault(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.MaxRequests = 20
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.RateLimit.WindowSeconds != 60 {
		t.Errorf("window = %d, want 60", cfg.RateLimit.WindowSeconds)
	}
}

func TestIsAdmin(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.AdminIDs = []int64{1, 2, 3}
	if !cfg.IsAdmin(2) {
		t.Error("expected 2 to be admin")
	}
	if cfg.IsAdmin(4) {
		t.Error("expected 4 not to be admin")
	}
}
