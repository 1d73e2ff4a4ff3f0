package report

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/paddyocr/invoice-sorter/constants"
	"github.com/paddyocr/invoice-sorter/internal/batch"
)

func TestWriteXLSX(t *testing.T) {
	results := []batch.ItemResult{
		{ItemID: "item-a", Status: constants.StatusRouted, Supplier: "Globex Corporation", DocNumber: "MSP-100", DocDate: "01/01/2026", Attachments: 1},
		{ItemID: "item-b", Status: constants.StatusFailed, Err: "extract text: exit status 1"},
	}
	stats := batch.Stats{Total: 2, Routed: 1, Failed: 1}

	data, err := NewService(nil).WriteXLSX(results, stats)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	const sheet = "Run"
	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != sheet {
		t.Errorf("sheets = %v, want just %q", sheets, sheet)
	}
	cell := func(ref string) string {
		t.Helper()
		v, err := f.GetCellValue(sheet, ref)
		if err != nil {
			t.Fatalf("read %s: %v", ref, err)
		}
		return v
	}

	if got := cell("A1"); got != "Item" {
		t.Errorf("A1 = %q", got)
	}
	if got := cell("D1"); got != "Invoice Number" {
		t.Errorf("D1 = %q", got)
	}
	if got := cell("A2"); got != "item-a" {
		t.Errorf("A2 = %q", got)
	}
	if got := cell("B2"); got != string(constants.StatusRouted) {
		t.Errorf("B2 = %q", got)
	}
	if got := cell("D2"); got != "MSP-100" {
		t.Errorf("D2 = %q", got)
	}
	if got := cell("G3"); got != "extract text: exit status 1" {
		t.Errorf("G3 = %q", got)
	}

	// Totals block starts one blank row under the items.
	if got := cell("A5"); got != "Total" {
		t.Errorf("A5 = %q", got)
	}
	if got := cell("B5"); got != "2" {
		t.Errorf("B5 = %q", got)
	}
	if got := cell("A6"); got != "Routed" {
		t.Errorf("A6 = %q", got)
	}
	if got := cell("B9"); got != "1" {
		t.Errorf("B9 = %q (Failed count)", got)
	}
}

func TestWriteXLSXEmptyRun(t *testing.T) {
	data, err := NewService(nil).WriteXLSX(nil, batch.Stats{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Run", "A3"); got != "Total" {
		t.Errorf("A3 = %q, want Total", got)
	}
}
