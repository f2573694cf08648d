package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/octobees/complaint-helper/api/internal/config"
	"github.com/octobees/complaint-helper/api/internal/dataset"
	"github.com/octobees/complaint-helper/api/internal/handler"
	"github.com/octobees/complaint-helper/api/internal/llm"
	middlewarepkg "github.com/octobees/complaint-helper/api/internal/middleware"
	"github.com/octobees/complaint-helper/api/internal/router"
	"github.com/octobees/complaint-helper/api/internal/service"
	"github.com/octobees/complaint-helper/api/internal/service/lookup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := config.InitLogger(cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	records, err := dataset.Load(ctx, dataset.Options{
		Path:        cfg.Dataset.Path,
		DatabaseURL: cfg.Dataset.DatabaseURL,
		Table:       cfg.Dataset.Table,
	})
	if err != nil {
		logger.Fatal("failed to load company directory", zap.Error(err))
	}
	for _, warning := range dataset.Lint(records) {
		logger.Warn("dataset lint", zap.String("warning", warning))
	}

	resolver := lookup.NewResolver(records)
	logger.Info("company directory ready", zap.Int("companies", resolver.Len()))

	var completer llm.Completer
	if cfg.Tidy.Enabled() {
		completer = llm.NewAnthropicClient(cfg.Tidy.APIKey, cfg.Tidy.Timeout)
	} else {
		logger.Warn("ANTHROPIC_API_KEY not set, complaint tidying disabled")
	}
	tidyService := service.NewTidyService(completer, cfg.Tidy.Model, cfg.Tidy.MaxTokens)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, resolver.Len(), router.Handlers{
		Lookup: handler.NewLookupHandler(resolver),
		Tidy:   handler.NewTidyHandler(tidyService),
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
