package ocr

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// textLayerPages reads the embedded text layer of a PDF with
// ledongthuc/pdf. The library panics on some malformed files, so the
// panic is converted into an error here.
func textLayerPages(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf library crashed: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		txt, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if s := strings.TrimSpace(txt); s != "" {
			pages = append(pages, s)
		}
	}
	return pages, nil
}

// isReadableText gates the text layer: scanned PDFs either have no text
// layer or decode to font-table garbage, and garbage must never reach
// the field matcher. Requires >50 chars and >60% plain-ASCII content.
func isReadableText(pages []string) bool {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(`.,-/:;()'"#&@%`, r) {
				readable++
			}
		}
	}
	if total <= 50 {
		return false
	}
	return float64(readable)/float64(total) > 0.6
}
