package config

import (
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("API_SECRET", "s3cret")
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Port != 5000 || cfg.HoneypotPath != "/hcs_A0001" {
		t.Fatalf("unexpected http defaults: %+v", cfg)
	}
	if cfg.LLMProvider != ProviderGemini || cfg.SessionBackend != BackendMemory {
		t.Fatalf("unexpected provider/backend: %s/%s", cfg.LLMProvider, cfg.SessionBackend)
	}
	if cfg.GatewayTimeout != 9*time.Second || cfg.ReportTimeout != 10*time.Second || cfg.SessionTTL != 0 {
		t.Fatalf("unexpected timeouts: %v %v %v", cfg.GatewayTimeout, cfg.ReportTimeout, cfg.SessionTTL)
	}
	if cfg.DailySummaryCron != "0 21 * * *" {
		t.Fatalf("unexpected cron: %q", cfg.DailySummaryCron)
	}
}

func TestParseRequiresSecret(t *testing.T) {
	t.Setenv("API_SECRET", "")
	if _, err := Parse(); err == nil {
		t.Fatalf("expected error without API_SECRET")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			APISecret:      "s",
			LLMProvider:    ProviderGemini,
			GeminiAPIKey:   "k",
			SessionBackend: BackendMemory,
			GatewayTimeout: time.Second,
			ReportTimeout:  time.Second,
		}
	}

	ok := base()
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]func(*Config){
		"gemini without key":    func(c *Config) { c.GeminiAPIKey = "" },
		"openai without key":    func(c *Config) { c.LLMProvider = ProviderOpenAI },
		"yandex without token":  func(c *Config) { c.LLMProvider = ProviderYandex; c.YandexFolderID = "f" },
		"unknown provider":      func(c *Config) { c.LLMProvider = "claude" },
		"unknown backend":       func(c *Config) { c.SessionBackend = "etcd" },
		"redis without url":     func(c *Config) { c.SessionBackend = BackendRedis },
		"zero gateway timeout":  func(c *Config) { c.GatewayTimeout = 0 },
		"negative ttl":          func(c *Config) { c.SessionTTL = -time.Second },
		"telegram without chat": func(c *Config) { c.TelegramBotToken = "t" },
	}
	for name, mutate := range cases {
		c := base()
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}
