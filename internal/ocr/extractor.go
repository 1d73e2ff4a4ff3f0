package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paddyocr/invoice-sorter/internal/common"
)

// Options configures the document extractor.
type Options struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Language string // tesseract language code, default "eng"
	DPI      int    // rasterization DPI, default 300
	MaxPages int    // 0 = no limit
}

// Extractor turns documents into recognized text. It tries the embedded
// PDF text layer first and falls back to rasterized OCR through the
// external pdftoppm/tesseract toolchain.
type Extractor struct {
	opts   Options
	runner Runner
	logger *slog.Logger
}

func NewExtractor(opts Options, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Pdftoppm == "" {
		opts.Pdftoppm = "pdftoppm"
	}
	if opts.Tesseract == "" {
		opts.Tesseract = "tesseract"
	}
	if opts.Language == "" {
		opts.Language = "eng"
	}
	if opts.DPI <= 0 {
		opts.DPI = 300
	}
	return &Extractor{opts: opts, runner: execRunner{}, logger: logger}
}

// CheckCapability probes the external OCR toolchain once, cheaply,
// without attempting an extraction. Absence is fatal to a run and is
// surfaced at startup, never mid-batch.
func (e *Extractor) CheckCapability() error {
	for _, bin := range []string{e.opts.Pdftoppm, e.opts.Tesseract} {
		if _, err := exec.LookPath(bin); err != nil {
			return common.NewAppError("OCR_UNAVAILABLE",
				fmt.Sprintf("%s not found on PATH", bin), common.ErrCapabilityUnavailable)
		}
	}
	return nil
}

// Extract recognizes text across all pages of all given documents,
// joined by single newlines. A failure on any one document fails the
// whole call; the batch processor absorbs it at the item boundary.
func (e *Extractor) Extract(ctx context.Context, paths []string) (string, error) {
	var docs []string
	for _, path := range paths {
		text, err := e.extractDocument(ctx, path)
		if err != nil {
			return "", common.NewAppError("EXTRACT_FAILED",
				fmt.Sprintf("document %q", filepath.Base(path)),
				fmt.Errorf("%w: %v", common.ErrExtraction, err))
		}
		if text != "" {
			docs = append(docs, text)
		}
	}
	return strings.Join(docs, "\n"), nil
}

func (e *Extractor) extractDocument(ctx context.Context, path string) (string, error) {
	if pages, err := textLayerPages(path); err == nil && isReadableText(pages) {
		e.logger.Debug("text layer used", "path", path, "pages", len(pages))
		return strings.Join(pages, "\n"), nil
	}
	e.logger.Debug("text layer unusable, rasterizing", "path", path)
	return e.ocrDocument(ctx, path)
}

// ocrDocument renders pages with pdftoppm and recognizes each page with
// tesseract.
func (e *Extractor) ocrDocument(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "sorter-pp-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove render dir", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	if _, errb, err := e.runner.Run(ctx, e.opts.Pdftoppm, "-r", fmt.Sprintf("%d", e.opts.DPI), "-png", path, prefix); err != nil {
		return "", fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.opts.MaxPages > 0 && len(matches) > e.opts.MaxPages {
		matches = matches[:e.opts.MaxPages]
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("pdftoppm produced no images")
	}

	var b strings.Builder
	for _, img := range matches {
		txt, err := e.recognizePage(ctx, img)
		if err != nil {
			return "", err
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(txt)
	}
	return b.String(), nil
}

// recognizePage runs tesseract on one rendered page image.
func (e *Extractor) recognizePage(ctx context.Context, imgPath string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.opts.Tesseract, imgPath, "stdout", "-l", e.opts.Language)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
