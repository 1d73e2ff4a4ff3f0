// Package report renders a run as an XLSX workbook for whoever audits
// the sorted invoices.
package report

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/paddyocr/invoice-sorter/internal/batch"
)

// Service produces XLSX bytes for run reports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// WriteXLSX returns a workbook with one row per processed item and a
// totals block underneath.
func (s *Service) WriteXLSX(results []batch.ItemResult, stats batch.Stats) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Run"
	// Rename the default sheet so the workbook holds exactly one.
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	headers := []string{
		"Item",
		"Status",
		"Supplier",
		"Invoice Number",
		"Invoice Date",
		"Attachments",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range results {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.ItemID)
		write(2, string(r.Status))
		write(3, r.Supplier)
		write(4, r.DocNumber)
		write(5, r.DocDate)
		write(6, r.Attachments)
		write(7, r.Err)
		row++
	}

	// Totals block under the items
	row++
	totals := [][2]any{
		{"Total", stats.Total},
		{"Routed", stats.Routed},
		{"Skipped", stats.Skipped},
		{"Unresolved", stats.Unresolved},
		{"Failed", stats.Failed},
	}
	for _, t := range totals {
		labelCell, _ := excelize.CoordinatesToCellName(1, row)
		valueCell, _ := excelize.CoordinatesToCellName(2, row)
		_ = f.SetCellValue(sheet, labelCell, t[0])
		_ = f.SetCellValue(sheet, valueCell, t[1])
		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 28) // item id
	_ = f.SetColWidth(sheet, "B", "B", 16) // status
	_ = f.SetColWidth(sheet, "C", "C", 28) // supplier
	_ = f.SetColWidth(sheet, "D", "E", 18) // number, date
	_ = f.SetColWidth(sheet, "G", "G", 60) // error

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("report.xlsx.ok",
		"rows", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
