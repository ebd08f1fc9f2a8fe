package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"scam-honeypot/internal/analytics"
	"scam-honeypot/internal/api"
	"scam-honeypot/internal/auth"
	"scam-honeypot/internal/config"
	"scam-honeypot/internal/llm"
	"scam-honeypot/internal/orchestrator"
	"scam-honeypot/internal/report"
	"scam-honeypot/internal/scheduler"
	"scam-honeypot/internal/session"
	"scam-honeypot/internal/storage"
	"scam-honeypot/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory := &llm.Factory{
		GeminiAPIKey:       cfg.GeminiAPIKey,
		GeminiBaseURL:      cfg.GeminiBaseURL,
		GeminiModel:        cfg.GeminiModel,
		OpenaiAPIKey:       cfg.OpenAIAPIKey,
		OpenaiBaseURL:      cfg.OpenAIBaseURL,
		OpenaiModel:        cfg.OpenAIModel,
		OpenRouterReferrer: cfg.OpenRouterReferrer,
		OpenRouterTitle:    cfg.OpenRouterTitle,
		YandexOAuthToken:   cfg.YandexOAuthToken,
		YandexFolderID:     cfg.YandexFolderID,
		Timeout:            cfg.GatewayTimeout,
	}
	gateway, err := factory.CreateGateway(string(cfg.LLMProvider))
	if err != nil {
		log.Fatalf("failed to create llm gateway: %v", err)
	}

	store, closeStore := newStore(ctx, cfg)
	defer closeStore()

	var rec storage.Recorder
	if cfg.JournalFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.JournalFilePath)
		if err != nil {
			log.Printf("failed to init engagement journal: %v", err)
		} else {
			rec = fr
		}
	}

	var notifier *telegram.Notifier
	if cfg.TelegramBotToken != "" {
		n, err := telegram.New(cfg.TelegramBotToken, cfg.TelegramAdminChat)
		if err != nil {
			log.Printf("telegram notifications disabled: %v", err)
		} else {
			notifier = n
		}
	}

	observers := report.Observers{}
	if rec != nil {
		observers = append(observers, report.JournalObserver{Recorder: rec})
	}
	if notifier != nil {
		observers = append(observers, notifier)
	}
	if cfg.ReportURL == "" {
		log.Println("⚠️ REPORT_URL not set, final reports will not be sent")
	}
	dispatcher := report.NewHTTPDispatcher(cfg.ReportURL, cfg.ReportTimeout, nil, observers)

	opts := []orchestrator.Option{}
	if rec != nil {
		opts = append(opts, orchestrator.WithRecorder(rec))
	}
	orch := orchestrator.New(gateway, store, dispatcher, opts...)

	handler := &api.Handler{
		Auth:  auth.NewAPIKeyAuthenticator(cfg.APISecret),
		Turns: orch,
	}
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.NewRouter(handler, cfg.HoneypotPath),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var sched *scheduler.Scheduler
	if rec != nil {
		sched = scheduler.New(cfg.DailySummaryCron)
		sched.SetReportFunction(func(ctx context.Context) error {
			return sendDailySummary(rec, notifier)
		})
		if err := sched.Start(); err != nil {
			log.Printf("failed to start scheduler: %v", err)
			sched = nil
		}
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		shutdownCtx, stop := context.WithTimeout(context.Background(), 15*time.Second)
		defer stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("graceful shutdown failed: %v", err)
			_ = server.Close()
		}
		cancel()
	}()

	log.Printf("Honeypot listening on :%d%s (provider %s, sessions %s)", cfg.Port, cfg.HoneypotPath, cfg.LLMProvider, cfg.SessionBackend)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server error: %v", err)
	}

	<-ctx.Done()
	if sched != nil {
		sched.Stop()
	}
	if notifier != nil {
		notifier.Wait()
	}
}

// newStore returns the configured session store and a func releasing it.
func newStore(ctx context.Context, cfg *config.Config) (session.Store, func()) {
	if cfg.SessionBackend != config.BackendRedis {
		return session.NewMemoryStore(), func() {}
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis")
	if cfg.SessionTTL == 0 {
		log.Println("⚠️ SESSION_TTL is 0, abandoned sessions are kept forever")
	}
	return session.NewRedisStore(rdb, cfg.SessionKeyPrefix, cfg.SessionTTL), func() {
		if err := rdb.Close(); err != nil {
			log.Printf("failed to close redis client: %v", err)
		}
	}
}

func sendDailySummary(rec storage.Recorder, notifier *telegram.Notifier) error {
	stats, err := analytics.LoadDaily(rec, time.Now().UTC())
	if err != nil {
		return err
	}
	summary := stats.GenerateReportSummary()
	if notifier == nil {
		log.Printf("daily summary:\n%s", summary)
		return nil
	}
	return notifier.SendText(summary)
}
