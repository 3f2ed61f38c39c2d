package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"line-calendar-bot/config"
	lineDelivery "line-calendar-bot/internal/assistant/delivery/line"
	"line-calendar-bot/internal/assistant/repository/contextmem"
	googleRepo "line-calendar-bot/internal/assistant/repository/google"
	"line-calendar-bot/internal/assistant/usecase"
	"line-calendar-bot/internal/dispatcher"
	"line-calendar-bot/internal/httpserver"
	"line-calendar-bot/internal/interpreter"
	"line-calendar-bot/internal/notifier"
	"line-calendar-bot/internal/reward"
	"line-calendar-bot/pkg/dateparse"
	"line-calendar-bot/pkg/gcalendar"
	"line-calendar-bot/pkg/gemini"
	"line-calendar-bot/pkg/gtasks"
	"line-calendar-bot/pkg/line"
	"line-calendar-bot/pkg/log"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting LINE Calendar Bot...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Shared clients
	dates, err := dateparse.NewResolver(cfg.Google.Timezone)
	if err != nil {
		logger.Warnf(ctx, "Invalid timezone %q, falling back to UTC: %v", cfg.Google.Timezone, err)
		dates, _ = dateparse.NewResolver("UTC")
	}

	geminiClient := gemini.NewClient(cfg.Gemini.APIKey)
	if cfg.Gemini.Model != "" {
		geminiClient.SetModel(cfg.Gemini.Model)
	}

	lineClient := line.NewClient(cfg.Line.ChannelAccessToken)

	if cfg.Google.CredentialsPath == "" {
		logger.Error(ctx, "google.credentials_path is required")
		return
	}
	calendarClient, err := gcalendar.NewClientFromCredentialsFile(ctx, cfg.Google.CredentialsPath)
	if err != nil {
		logger.Error(ctx, "Failed to initialize Google Calendar: ", err)
		return
	}
	tasksClient, err := gtasks.NewClientFromCredentialsFile(ctx, cfg.Google.CredentialsPath)
	if err != nil {
		logger.Error(ctx, "Failed to initialize Google Tasks: ", err)
		return
	}
	logger.Info(ctx, "✅ Google Calendar and Tasks initialized")

	// 4. Assistant domain
	entityRepo, err := googleRepo.New(logger, calendarClient, tasksClient, cfg.Google.CalendarID, cfg.Google.Timezone)
	if err != nil {
		logger.Error(ctx, "Failed to initialize entity repository: ", err)
		return
	}

	contextRepo := contextmem.New()
	interp := interpreter.New(logger, geminiClient, dates)
	disp := dispatcher.New(logger)
	recorder := reward.NewRecorder(logger, cfg.Reward.CollectorURL)
	if cfg.Reward.CollectorURL == "" {
		logger.Info(ctx, "Reward collector not configured, interaction recording disabled")
	}

	assistantUC := usecase.New(logger, interp, disp, entityRepo, contextRepo, recorder, dates, cfg.Interpreter.FallbackEnabled)

	// 5. Reminder notifier
	registry := notifier.NewRegistry()
	if cfg.Notifier.Enabled {
		reminder, nErr := notifier.New(logger, entityRepo, lineClient, registry, cfg.Google.Timezone, cfg.Notifier.Interval)
		if nErr != nil {
			logger.Error(ctx, "Failed to initialize notifier: ", nErr)
			return
		}
		go reminder.Run(ctx)
		logger.Infof(ctx, "Reminder notifier running every %s", cfg.Notifier.Interval)
	} else {
		logger.Info(ctx, "Reminder notifier disabled")
	}

	// 6. LINE webhook delivery
	lineHandler := lineDelivery.New(logger, assistantUC, lineClient, cfg.Line.ChannelSecret, registry)

	// 7. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:                   logger,
		Port:                     cfg.HTTPServer.Port,
		Mode:                     cfg.HTTPServer.Mode,
		LineHandler:              lineHandler,
		WebhookRequestsPerMinute: cfg.HTTPServer.WebhookRequestsPerMinute,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 8. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}
