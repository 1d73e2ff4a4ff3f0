// Package batch runs one sequential pass over the items of a scan
// folder. Per-item isolation is the load-bearing contract here: every
// failure inside an item converts into that item's result at the
// processItem boundary, and the loop moves on.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/paddyocr/invoice-sorter/constants"
	"github.com/paddyocr/invoice-sorter/internal/common"
	"github.com/paddyocr/invoice-sorter/internal/mailstore"
	"github.com/paddyocr/invoice-sorter/internal/match"
	"github.com/paddyocr/invoice-sorter/internal/route"
)

// TextExtractor recognizes text across all pages of the given
// documents. Stubbed in tests.
type TextExtractor interface {
	Extract(ctx context.Context, paths []string) (string, error)
}

// Processor orchestrates one run: save attachments, extract text, match
// fields, route, move, advance the source item. Strictly sequential;
// the message-store binding is not safe for concurrent sessions and OCR
// already saturates a core per page.
type Processor struct {
	logger    *slog.Logger
	sink      common.LogSink
	extractor TextExtractor
	matcher   *match.Matcher
	aliases   *match.AliasTable
	router    *route.Router
	tempRoot  string
	rename    bool
}

func NewProcessor(
	logger *slog.Logger,
	sink common.LogSink,
	extractor TextExtractor,
	matcher *match.Matcher,
	aliases *match.AliasTable,
	router *route.Router,
	tempRoot string,
	rename bool,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		sink:      sink,
		extractor: extractor,
		matcher:   matcher,
		aliases:   aliases,
		router:    router,
		tempRoot:  tempRoot,
		rename:    rename,
	}
}

// Run processes every item the scan folder enumerates, in enumeration
// order. Cancellation is honored between items only: the in-flight item
// always finishes. The returned error is non-nil only for run-level
// conditions (enumeration failure, cancellation); item failures are
// reported in their results, never as an error, and the sink always
// receives a final "Done." line.
func (p *Processor) Run(ctx context.Context, scan, processed mailstore.Folder) ([]ItemResult, Stats, error) {
	var results []ItemResult
	var stats Stats

	defer p.sink.Append("Done.")

	items, err := scan.Items()
	if err != nil {
		p.sink.Append(fmt.Sprintf("ERROR: cannot list items in %s: %v", scan.Name(), err))
		return nil, stats, fmt.Errorf("enumerate scan folder: %w", err)
	}
	if len(items) == 0 {
		p.sink.Append("No items in scan folder.")
		return nil, stats, nil
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			p.sink.Append("Run cancelled.")
			return results, stats, err
		}
		res := p.processItem(ctx, item, processed)
		results = append(results, res)
		stats.count(res.Status)
	}
	return results, stats, nil
}

// processItem is the isolation boundary: it always returns a result and
// never lets an error escape to the run loop.
func (p *Processor) processItem(ctx context.Context, item mailstore.Item, processed mailstore.Folder) ItemResult {
	res := ItemResult{ItemID: item.ID()}

	atts, err := item.Attachments()
	if err != nil {
		return p.fail(res, "list attachments", err)
	}
	if len(atts) == 0 {
		res.Status = constants.StatusSkippedNoAtt
		p.sink.Append(fmt.Sprintf("Skipped %s: no attachments.", item.ID()))
		return res
	}

	var pdfs []mailstore.Attachment
	for _, a := range atts {
		if constants.IsRoutedExt(filepath.Ext(a.Filename())) {
			pdfs = append(pdfs, a)
		}
	}
	if len(pdfs) == 0 {
		res.Status = constants.StatusSkippedNoPDF
		p.sink.Append(fmt.Sprintf("Skipped %s: no PDF attachments.", item.ID()))
		return res
	}
	res.Attachments = len(pdfs)

	// Everything below saves files; the item temp dir must not survive
	// the item whatever happens next.
	tempDir := filepath.Join(p.tempRoot, item.ID())
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil {
			p.logger.Warn("temp cleanup failed", "item_id", item.ID(), "dir", tempDir, "error", err)
		}
	}()

	saved := make([]string, 0, len(pdfs))
	for _, a := range pdfs {
		dst := filepath.Join(tempDir, a.Filename())
		if err := a.SaveTo(dst); err != nil {
			return p.fail(res, "save attachment", err)
		}
		saved = append(saved, dst)
	}

	for _, path := range saved {
		p.sink.Append(fmt.Sprintf("OCR: %s", filepath.Base(path)))
	}
	text, err := p.extractor.Extract(ctx, saved)
	if err != nil {
		return p.fail(res, "extract text", err)
	}

	fields := p.matcher.Parse(text, p.aliases)
	res.Supplier = fields.Supplier
	res.DocNumber = fields.DocNumber
	res.DocDate = fields.DocDate

	if fields.DocNumber == "" {
		res.Status = constants.StatusUnresolved
		p.sink.Append(fmt.Sprintf("Invoice number not found in %s. Leaving item in scan folder.", item.ID()))
		return res
	}

	label := fields.Supplier
	if label == "" {
		label = constants.UnknownSupplier
	}
	res.Supplier = label

	// Moves are not rolled back: a failure on the second attachment
	// leaves the first one placed. Documented partial-completion risk.
	for _, path := range saved {
		decision := p.router.Route(filepath.Base(path), label, fields.DocNumber, fields.DocDate, p.rename)
		if err := os.MkdirAll(decision.Dir, 0o755); err != nil {
			return p.fail(res, "create destination", fmt.Errorf("%w: %v", common.ErrPlacement, err))
		}
		if err := moveFile(path, filepath.Join(decision.Dir, decision.Filename)); err != nil {
			return p.fail(res, "place attachment", fmt.Errorf("%w: %v", common.ErrPlacement, err))
		}
	}

	// Advance the source item only after every attachment is placed.
	if err := item.Move(processed); err != nil {
		return p.fail(res, "advance item", err)
	}

	res.Status = constants.StatusRouted
	p.sink.Append(fmt.Sprintf("Processed %s: supplier=%s, invoice=%s, date=%s",
		item.ID(), label, fields.DocNumber, fields.DocDate))
	return res
}

func (p *Processor) fail(res ItemResult, step string, err error) ItemResult {
	res.Status = constants.StatusFailed
	res.Err = fmt.Sprintf("%s: %v", step, err)
	p.logger.Error("batch.item.failed", "item_id", res.ItemID, "step", step, "error", err)
	p.sink.Append(fmt.Sprintf("ERROR processing %s: %s: %v", res.ItemID, step, err))
	return res
}

// moveFile renames src to dst, falling back to copy-and-delete when the
// temp root and destination sit on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
