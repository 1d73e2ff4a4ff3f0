package match

import (
	"regexp"
	"strings"
)

// rule is one named document-number pattern. Rules are held in an
// ordered chain and evaluated first-match-wins, so renaming or
// reordering a rule is an explicit, reviewable change.
type rule struct {
	name string
	re   *regexp.Regexp
}

type ruleChain []rule

// firstMatch evaluates the chain in order and returns the first
// captured token. Never "longest match", never "last match".
func (c ruleChain) firstMatch(text string) (ruleName, token string, ok bool) {
	for _, r := range c {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		tok := m[0]
		if len(m) > 1 && m[1] != "" {
			tok = m[1]
		}
		return r.name, tok, true
	}
	return "", "", false
}

// newDocNumberRules builds the document-number chain for one
// organizational prefix (e.g. "MSP"). Priority order:
//
//  1. Invoice/Inv immediately followed by an optional separator and a
//     prefixed token.
//  2. Invoice/Inv, then No./Number/#, then a prefixed token.
//  3. A bare prefixed token (prefix + at least 3 digits) anywhere.
//  4. Generic fallback: Invoice/Inv followed by any token of at least
//     3 characters.
func newDocNumberRules(prefix string) ruleChain {
	p := regexp.QuoteMeta(prefix)
	return ruleChain{
		{
			name: "inv-prefixed",
			re:   regexp.MustCompile(`(?i)\b(?:invoice|inv)\b[-.\s:#]*(` + p + `[A-Za-z0-9/-]*)`),
		},
		{
			name: "inv-labeled-prefixed",
			re:   regexp.MustCompile(`(?i)\b(?:invoice|inv)\b[.\s]*(?:number|no\.?|#)\s*[:#-]?\s*(` + p + `[A-Za-z0-9/-]*)`),
		},
		{
			name: "bare-prefixed",
			re:   regexp.MustCompile(`(?i)\b` + p + `[-/]?\d{3,}[A-Za-z0-9/-]*\b`),
		},
		{
			name: "inv-generic",
			// "number" before "no" so the shorter alternative cannot
			// swallow the first two letters and shift the token capture.
			re:   regexp.MustCompile(`(?i)\b(?:invoice|inv)\b\s*(?:number|no\.?|#)?\s*[:#-]?\s*([A-Za-z0-9][A-Za-z0-9._/-]{2,})`),
		},
	}
}

// trailingKeywords marks page content that OCR sometimes glues onto the
// document number ("MSP-12345Date:..."). Everything from the first
// keyword onward is dropped.
var trailingKeywords = regexp.MustCompile(`(?i)(?:date|total|amount|due|page).*$`)

// cleanDocNumber bounds a winning token to just the document number:
// truncate at the first trailing keyword, then trim separator
// punctuation left behind.
func cleanDocNumber(token string) string {
	token = trailingKeywords.ReplaceAllString(token, "")
	token = strings.TrimRight(token, ":;,")
	return strings.TrimSpace(token)
}
