package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/isou-search-bot/internal/config"
	"github.com/kitbuilder587/isou-search-bot/internal/metrics"
	"github.com/kitbuilder587/isou-search-bot/internal/search"
	"github.com/kitbuilder587/isou-search-bot/internal/search/isou"
	"github.com/kitbuilder587/isou-search-bot/internal/service"
	"github.com/kitbuilder587/isou-search-bot/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	m := metrics.New()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	metricsSrv := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux}
	go func() {
		logger.Info("metrics server listening", zap.String("addr", cfg.Metrics.Addr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	clients, err := buildSearchClients(cfg, logger)
	if err != nil {
		logger.Fatal("create search clients", zap.Error(err))
	}

	searchSvc := service.NewSearchService(service.SearchServiceDeps{
		Clients: clients,
		Logger:  logger,
		Metrics: m,
		Config: service.SearchConfig{
			QueryTimeout: cfg.Timeouts.Query,
		},
	})

	bot, err := telegram.New(telegram.BotConfig{
		Token:             cfg.Telegram.Token,
		Debug:             cfg.Telegram.Debug,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		DefaultMode:       search.Mode(cfg.Isou.Mode),
	}, searchSvc, logger, m)
	if err != nil {
		logger.Fatal("create telegram bot", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := bot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("bot stopped with error", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", zap.Error(err))
	}

	logger.Info("bot stopped")
}

// buildSearchClients создает по клиенту на каждый режим, категория и
// таймаут общие из конфигурации.
func buildSearchClients(cfg *config.Config, logger *zap.Logger) (map[search.Mode]search.SearchClient, error) {
	clients := make(map[search.Mode]search.SearchClient)
	for _, mode := range []search.Mode{search.ModeSimple, search.ModeDeep} {
		client, err := isou.New(isou.Config{
			Mode:     mode,
			Category: search.Category(cfg.Isou.Category),
			BaseURL:  cfg.Isou.BaseURL,
			Timeout:  cfg.Isou.Timeout,
			Stream:   cfg.Isou.Stream,
			Model:    cfg.Isou.Model,
			Provider: cfg.Isou.Provider,
			Engine:   cfg.Isou.Engine,
			Language: cfg.Isou.Language,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("mode %s: %w", mode, err)
		}
		clients[client.Mode()] = client
	}
	return clients, nil
}
