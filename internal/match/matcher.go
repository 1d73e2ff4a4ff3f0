package match

import (
	"regexp"
	"strings"
)

// FieldResult holds the fields inferred from recognized text. An empty
// string means the field is absent; absence is a value, not an error.
// An absent DocNumber is the terminal routing signal (the item is left
// unprocessed); an absent Supplier maps to a fallback label downstream.
type FieldResult struct {
	Supplier  string
	DocNumber string
	DocDate   string
}

// Matcher infers (supplier, document number, date) from recognized
// text. Pure and total: Parse never fails and holds no hidden state, so
// parsing the same text twice yields identical results.
type Matcher struct {
	docRules         ruleChain
	supplierFallback *regexp.Regexp
	labeledDate      *regexp.Regexp
	bareDate         *regexp.Regexp
}

// supplierFallbackRE matches a capitalized phrase ending in a
// legal-entity suffix, e.g. "Acme Widgets Ltd".
var supplierFallbackRE = regexp.MustCompile(`([A-Z][A-Za-z0-9&\-., ]+\b(?:Ltd|Limited|LLC|Inc|PLC|Corp|GmbH))`)

var (
	labeledDateRE = regexp.MustCompile(`(?i)\b(?:invoice|bill)\s*date\s*:?\s*([0-9]{1,2}\s[A-Za-z]{3}\s[0-9]{4})`)
	bareDateRE    = regexp.MustCompile(`\b([0-9]{2}/[0-9]{2}/[0-9]{4})\b`)
)

// NewMatcher builds a matcher whose document-number chain is keyed to
// the given organizational prefix (e.g. "MSP").
func NewMatcher(docPrefix string) *Matcher {
	return &Matcher{
		docRules:         newDocNumberRules(docPrefix),
		supplierFallback: supplierFallbackRE,
		labeledDate:      labeledDateRE,
		bareDate:         bareDateRE,
	}
}

// Parse resolves all three fields from text. The alias table (may be
// nil) outranks the legal-entity-suffix heuristic for the supplier.
func (m *Matcher) Parse(text string, aliases *AliasTable) FieldResult {
	return FieldResult{
		Supplier:  m.parseSupplier(text, aliases),
		DocNumber: m.parseDocNumber(text),
		DocDate:   m.parseDate(text),
	}
}

func (m *Matcher) parseSupplier(text string, aliases *AliasTable) string {
	if s, ok := aliases.Resolve(text); ok {
		return s
	}
	if g := m.supplierFallback.FindStringSubmatch(text); g != nil {
		return strings.TrimSpace(g[1])
	}
	return ""
}

func (m *Matcher) parseDocNumber(text string) string {
	_, token, ok := m.docRules.firstMatch(text)
	if !ok {
		return ""
	}
	return cleanDocNumber(token)
}

func (m *Matcher) parseDate(text string) string {
	if g := m.labeledDate.FindStringSubmatch(text); g != nil {
		return strings.TrimSpace(g[1])
	}
	if g := m.bareDate.FindStringSubmatch(text); g != nil {
		return strings.TrimSpace(g[1])
	}
	return ""
}
