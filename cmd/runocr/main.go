package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/paddyocr/invoice-sorter/internal/ocr"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runocr <document.pdf>")
		os.Exit(2)
	}
	path := os.Args[1]

	extractor := ocr.NewExtractor(ocr.Options{
		Language: envOr("SORTER_OCR_LANGUAGE", "eng"),
	}, logger)
	if err := extractor.CheckCapability(); err != nil {
		logger.Error("ocr toolchain missing", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	text, err := extractor.Extract(ctx, []string{path})
	if err != nil {
		logger.Error("extract failed", "path", path, "error", err)
		os.Exit(1)
	}
	logger.Info("extract ok", "path", path, "bytes", len(text), "elapsed_ms", time.Since(start).Milliseconds())
	fmt.Println(text)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
