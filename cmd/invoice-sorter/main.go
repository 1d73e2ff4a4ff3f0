package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/paddyocr/invoice-sorter/internal/batch"
	"github.com/paddyocr/invoice-sorter/internal/common"
	"github.com/paddyocr/invoice-sorter/internal/history"
	"github.com/paddyocr/invoice-sorter/internal/mailstore"
	"github.com/paddyocr/invoice-sorter/internal/match"
	"github.com/paddyocr/invoice-sorter/internal/ocr"
	"github.com/paddyocr/invoice-sorter/internal/report"
	"github.com/paddyocr/invoice-sorter/internal/route"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		configPath  = flag.String("config", "", "JSON config file path (env vars override)")
		aliasesPath = flag.String("aliases", "", "supplier alias JSON file path")
		reportPath  = flag.String("report", "", "write an XLSX run report to this path")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	_ = godotenv.Load()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// The run log goes to stdout; structured logging stays on stderr.
	sink := common.NewWriterSink(os.Stdout)

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	aliases := match.NewAliasTable(nil)
	if *aliasesPath != "" {
		aliases, err = match.LoadAliasFile(*aliasesPath)
		if err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
	}
	logger.Info("aliases loaded", "count", aliases.Len())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Capability checks happen once, before any item is touched.
	store := mailstore.NewDirStore(cfg.Mail.Root)
	if err := store.CheckCapability(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	extractor := ocr.NewExtractor(ocr.Options{
		Language: cfg.OCR.Language,
		DPI:      cfg.OCR.DPI,
		MaxPages: cfg.OCR.MaxPages,
	}, logger)
	if err := extractor.CheckCapability(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	scan, err := store.ResolveFolder(cfg.Mail.ScanFolder)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}
	processed, err := store.ResolveFolder(cfg.Mail.ProcessedFolder)
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Paths.TempFolder, 0o755); err != nil {
		printError("Error: create temp folder: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.Paths.DestRoot, 0o755); err != nil {
		printError("Error: create destination root: %v\n", err)
		os.Exit(1)
	}

	processor := batch.NewProcessor(
		logger,
		sink,
		extractor,
		match.NewMatcher(cfg.Match.DocPrefix),
		aliases,
		route.NewRouter(cfg.Paths.DestRoot),
		cfg.Paths.TempFolder,
		cfg.Paths.RenameFiles,
	)

	startedAt := time.Now()
	results, stats, runErr := processor.Run(ctx, scan, processed)
	finishedAt := time.Now()
	if runErr != nil {
		logger.Error("run ended early", "error", runErr)
	}

	logger.Info("run complete",
		"total", stats.Total,
		"routed", stats.Routed,
		"skipped", stats.Skipped,
		"unresolved", stats.Unresolved,
		"failed", stats.Failed,
		"elapsed_ms", finishedAt.Sub(startedAt).Milliseconds(),
	)

	if cfg.History.DSN != "" {
		// Recording must survive an interrupt, so it does not use the
		// signal context.
		hs, err := history.Open(context.Background(), cfg.History.DSN, logger)
		if err != nil {
			logger.Error("history store unavailable", "error", err)
		} else {
			run := history.Run{
				ID:         uuid.New(),
				StartedAt:  startedAt,
				FinishedAt: finishedAt,
				Stats:      stats,
				Items:      results,
			}
			if err := hs.RecordRun(context.Background(), run); err != nil {
				logger.Error("failed to record run", "error", err)
			}
			if err := hs.Close(); err != nil {
				logger.Error("failed to close history store", "error", err)
			}
		}
	}

	if *reportPath != "" {
		xlsx, err := report.NewService(logger).WriteXLSX(results, stats)
		if err != nil {
			logger.Error("failed to build report", "error", err)
		} else if err := os.WriteFile(*reportPath, xlsx, 0o644); err != nil {
			logger.Error("failed to write report", "path", *reportPath, "error", err)
		} else {
			logger.Info("report written", "path", *reportPath)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
}
