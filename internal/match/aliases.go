package match

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/paddyocr/invoice-sorter/internal/common"
)

// AliasTable maps raw text fragments to canonical supplier names.
// Insertion order is priority: the first key whose lowercase form is a
// substring of the lowercased document text wins. The table is loaded
// once per run and is read-only afterwards.
type AliasTable struct {
	entries []aliasEntry
}

type aliasEntry struct {
	key      string // as configured
	lowerKey string
	supplier string
}

// NewAliasTable builds a table from ordered (fragment, supplier) pairs.
func NewAliasTable(pairs [][2]string) *AliasTable {
	t := &AliasTable{}
	for _, p := range pairs {
		t.entries = append(t.entries, aliasEntry{
			key:      p[0],
			lowerKey: strings.ToLower(p[0]),
			supplier: p[1],
		})
	}
	return t
}

// Len returns the number of configured aliases.
func (t *AliasTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Resolve scans the table in insertion order and returns the canonical
// supplier for the first fragment contained in text (case-insensitive).
func (t *AliasTable) Resolve(text string) (string, bool) {
	if t == nil {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, e := range t.entries {
		if strings.Contains(lower, e.lowerKey) {
			return e.supplier, true
		}
	}
	return "", false
}

// LoadAliasFile reads an alias JSON object from path, preserving key
// order. encoding/json maps would lose insertion order, so the object
// is walked token by token instead.
func LoadAliasFile(path string) (*AliasTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, common.WrapError(err, fmt.Sprintf("read alias file %q", path))
	}
	if err := common.ValidateAliasJSON(raw); err != nil {
		return nil, common.WrapError(err, fmt.Sprintf("alias file %q", path))
	}
	return ParseAliasJSON(raw)
}

// ParseAliasJSON decodes an alias object in document order.
func ParseAliasJSON(raw []byte) (*AliasTable, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode aliases: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("decode aliases: expected object, got %v", tok)
	}

	t := &AliasTable{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode aliases: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("decode aliases: non-string key %v", keyTok)
		}
		var supplier string
		if err := dec.Decode(&supplier); err != nil {
			return nil, fmt.Errorf("decode aliases: value for %q: %w", key, err)
		}
		t.entries = append(t.entries, aliasEntry{
			key:      key,
			lowerKey: strings.ToLower(key),
			supplier: supplier,
		})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode aliases: %w", err)
	}
	return t, nil
}
