package main

import (
	"context"
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"analyticsbot/config"
	"analyticsbot/internal/client/google"
	"analyticsbot/internal/client/telegram"
	"analyticsbot/internal/cron"
	"analyticsbot/internal/report"
	"analyticsbot/internal/worker"
)

func main() {
	// Конфиг
	cfg := config.Read()

	// Логгер
	zapLogger, err := buildLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zapLogger.Sync()
	ctx := context.Background()

	// Креды и клиент отчётов
	store := google.NewFileCredentialStore(zapLogger, cfg.CredentialsFile)
	issuer := google.NewTokenIssuer(zapLogger, store, google.ScopeAnalyticsReadonly)
	reportClient := google.NewReportClient(zapLogger, issuer, cfg.PropertyID)

	// Telegram клиент
	proxyURL := ""
	if cfg.Telegram.ProxyEnabled {
		proxyURL = cfg.Telegram.ProxyURL
	}
	tgClient, err := telegram.NewClient(zapLogger, cfg.Telegram.BotToken, cfg.Telegram.ChatID, proxyURL)
	if err != nil {
		zapLogger.Fatal("failed to create telegram client", zap.Error(err))
	}
	if err := tgClient.TestConnection(ctx); err != nil {
		zapLogger.Warn("telegram connection check failed", zap.Error(err))
	}

	// Получатели отчётов
	sinks := []report.Sink{report.NewTelegramSink(zapLogger, tgClient)}
	if cfg.Sheet.ID != "" {
		sheetsIssuer := google.NewTokenIssuer(zapLogger, store, google.ScopeSpreadsheets)
		sheetsSink, err := report.NewSheetsSink(ctx, zapLogger, sheetsIssuer, cfg.Sheet.ID, cfg.Sheet.Range)
		if err != nil {
			zapLogger.Fatal("failed to create sheets sink", zap.Error(err))
		}
		sinks = append(sinks, sheetsSink)
	}

	service := report.NewService(zapLogger, sinks...)

	// Worker
	w := worker.NewWorker(zapLogger, reportClient, service)

	// Cron scheduler
	s := cron.NewScheduler(zapLogger, w, cfg.SummaryCron)
	if err = s.Start(ctx); err != nil {
		zapLogger.Fatal("failed to start cron scheduler", zap.Error(err))
	}
	defer s.Stop()

	select {}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
