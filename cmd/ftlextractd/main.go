package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freightctl/ftl-extractor/internal/common"
	"github.com/freightctl/ftl-extractor/internal/docparse"
	"github.com/freightctl/ftl-extractor/internal/export"
	"github.com/freightctl/ftl-extractor/internal/extract"
	"github.com/freightctl/ftl-extractor/internal/llm/openai"
	"github.com/freightctl/ftl-extractor/internal/pipeline"
	"github.com/freightctl/ftl-extractor/internal/repository"
	"github.com/freightctl/ftl-extractor/internal/route"
	"github.com/freightctl/ftl-extractor/internal/server"
	"github.com/freightctl/ftl-extractor/internal/validate"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	accepted := route.NewStore(cfg.Store.AcceptedPath, logger)
	review := route.NewStore(cfg.Store.ReviewPath, logger)

	// The SQL archive is an optional side channel; the JSON collections
	// remain the source of truth either way.
	var archive route.ArchiveSink
	if cfg.Store.ArchiveDSN != "" {
		a, err := repository.OpenArchive(ctx, cfg.Store.ArchiveDSN, logger)
		if err != nil {
			logger.Error("archive open failed", "error", err)
			os.Exit(1)
		}
		defer a.Close()
		if err := a.HealthCheck(ctx, 3*time.Second); err != nil {
			logger.Error("archive health failed", "error", err)
			os.Exit(1)
		}
		logger.Info("archive ready", "dsn", cfg.Store.ArchiveDSN)
		archive = a
	}

	processor := pipeline.NewProcessor(
		logger,
		docparse.NewFileParser(logger),
		extract.NewGateway(client, logger, cfg.LLM.MaxAttempts),
		validate.NewEngine(logger),
		route.NewFinalizer(accepted, review, archive, logger),
	)

	exporter := export.NewService(accepted, logger)
	srv := server.New(logger, processor, accepted, review, exporter, cfg.Server.MaxUploadSize)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}
