package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/freightctl/ftl-extractor/constants"
	"github.com/freightctl/ftl-extractor/internal/common"
	"github.com/freightctl/ftl-extractor/internal/docparse"
	"github.com/freightctl/ftl-extractor/internal/export"
	"github.com/freightctl/ftl-extractor/internal/extract"
	"github.com/freightctl/ftl-extractor/internal/llm/openai"
	"github.com/freightctl/ftl-extractor/internal/pipeline"
	"github.com/freightctl/ftl-extractor/internal/repository"
	"github.com/freightctl/ftl-extractor/internal/route"
	"github.com/freightctl/ftl-extractor/internal/validate"
)

// printError prints to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir = flag.String("dir", "", "directory of order documents to process (required)")
		out = flag.String("out", "", "output XLSX path for accepted orders (optional)")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	accepted := route.NewStore(cfg.Store.AcceptedPath, logger)
	review := route.NewStore(cfg.Store.ReviewPath, logger)

	var archive route.ArchiveSink
	if cfg.Store.ArchiveDSN != "" {
		a, err := repository.OpenArchive(ctx, cfg.Store.ArchiveDSN, logger)
		if err != nil {
			logger.Error("archive open failed", "error", err)
			os.Exit(1)
		}
		defer a.Close()
		archive = a
	}

	processor := pipeline.NewProcessor(
		logger,
		docparse.NewFileParser(logger),
		extract.NewGateway(client, logger, cfg.LLM.MaxAttempts),
		validate.NewEngine(logger),
		route.NewFinalizer(accepted, review, archive, logger),
	)

	files, err := collectDocuments(*dir)
	if err != nil {
		logger.Error("scan directory failed", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		logger.Warn("no supported documents found", "dir", *dir)
		return
	}
	logger.Info("batch starting", "dir", *dir, "files", len(files))

	start := time.Now()
	var acceptedTotal, reviewTotal, failed int
	for _, path := range files {
		result, err := processor.ProcessFile(ctx, path)
		if err != nil {
			logger.Error("document failed", "file", filepath.Base(path), "error", err)
			failed++
			continue
		}
		acceptedTotal += len(result.Accepted)
		reviewTotal += result.NeedsReview
	}

	logger.Info("batch finished",
		"files", len(files),
		"accepted", acceptedTotal,
		"needs_review", reviewTotal,
		"failed", failed,
		"duration", time.Since(start).String(),
	)

	if *out != "" {
		data, err := export.NewService(accepted, logger).AcceptedXLSX()
		if err != nil {
			logger.Error("export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*out, data, 0o644); err != nil {
			logger.Error("write export failed", "path", *out, "error", err)
			os.Exit(1)
		}
		logger.Info("export written", "path", *out)
	}
}

// collectDocuments lists supported files directly under dir, in name order.
func collectDocuments(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !constants.SupportedExt(filepath.Ext(e.Name())) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
