package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderGemini LLMProvider = "gemini"
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type SessionBackend string

const (
	BackendMemory SessionBackend = "memory"
	BackendRedis  SessionBackend = "redis"
)

type Config struct {
	// HTTP
	Port         int    `env:"PORT" envDefault:"5000"`
	APISecret    string `env:"API_SECRET,required"`
	HoneypotPath string `env:"HONEYPOT_PATH" envDefault:"/hcs_A0001"`

	// LLM settings
	LLMProvider    LLMProvider   `env:"LLM_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey   string        `env:"GEMINI_API_KEY"`
	GeminiModel    string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiBaseURL  string        `env:"GEMINI_BASE_URL"`
	OpenAIAPIKey   string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string        `env:"OPENAI_BASE_URL"`
	OpenAIModel    string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	GatewayTimeout time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"9s"`

	YandexOAuthToken string `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Final report callback
	ReportURL     string        `env:"REPORT_URL"`
	ReportTimeout time.Duration `env:"REPORT_TIMEOUT" envDefault:"10s"`

	// Sessions
	SessionBackend   SessionBackend `env:"SESSION_BACKEND" envDefault:"memory"`
	RedisURL         string         `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SessionKeyPrefix string         `env:"SESSION_KEY_PREFIX" envDefault:"honeypot:session:"`
	SessionTTL       time.Duration  `env:"SESSION_TTL" envDefault:"0s"`

	// Storage
	JournalFilePath string `env:"JOURNAL_FILE_PATH" envDefault:"logs/engagements.jsonl"`

	// Operator notifications (optional)
	TelegramBotToken  string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAdminChat int64  `env:"TELEGRAM_ADMIN_CHAT"`
	DailySummaryCron  string `env:"DAILY_SUMMARY_CRON" envDefault:"0 21 * * *"`
}

func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// Parse reads the environment without exiting on failure.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected provider and backend have what they need.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini provider")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderYandex:
		if c.YandexOAuthToken == "" || c.YandexFolderID == "" {
			return errors.New("YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID are required for the yandex provider")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}

	switch c.SessionBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL is required for the redis session backend")
		}
	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend)
	}

	if c.GatewayTimeout <= 0 {
		return errors.New("GATEWAY_TIMEOUT must be positive")
	}
	if c.ReportTimeout <= 0 {
		return errors.New("REPORT_TIMEOUT must be positive")
	}
	if c.SessionTTL < 0 {
		return errors.New("SESSION_TTL must not be negative")
	}
	if c.TelegramBotToken != "" && c.TelegramAdminChat == 0 {
		return errors.New("TELEGRAM_ADMIN_CHAT is required when TELEGRAM_BOT_TOKEN is set")
	}
	return nil
}
