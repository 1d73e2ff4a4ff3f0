package match

import "testing"

func newTestAliases() *AliasTable {
	return NewAliasTable([][2]string{
		{"acme widgets", "Acme Widgets Ltd"},
		{"globex", "Globex Corporation"},
		{"acme", "Acme Holdings"},
	})
}

func TestParseSupplier(t *testing.T) {
	m := NewMatcher("MSP")

	tests := []struct {
		name      string
		text      string
		noAliases bool
		want      string
	}{
		{
			name: "alias match wins over fallback",
			text: "Billed by ACME WIDGETS trading as Something Else Ltd",
			want: "Acme Widgets Ltd",
		},
		{
			name: "first configured alias wins over later ones",
			text: "acme widgets and globex on the same page",
			want: "Acme Widgets Ltd",
		},
		{
			name: "earlier specific alias beats later general alias",
			text: "invoice from Acme Widgets",
			want: "Acme Widgets Ltd",
		},
		{
			name:      "fallback company suffix heuristic",
			text:      "remit to Northern Tools Limited, 4 Dock Road",
			noAliases: true,
			want:      "Northern Tools Limited",
		},
		{
			name:      "fallback matches GmbH",
			text:      "Lieferant: Bauer Technik GmbH",
			noAliases: true,
			want:      "Bauer Technik GmbH",
		},
		{
			name:      "no alias and no suffix phrase yields absent",
			text:      "handwritten note with no company name at all",
			noAliases: true,
			want:      "",
		},
		{
			name:      "lowercase suffix phrase does not match fallback",
			text:      "paid to acme widgets ltd by cheque",
			noAliases: true,
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aliases := newTestAliases()
			if tt.noAliases {
				aliases = nil
			}
			got := m.Parse(tt.text, aliases)
			if got.Supplier != tt.want {
				t.Errorf("supplier = %q, want %q", got.Supplier, tt.want)
			}
		})
	}
}

func TestParseDocNumber(t *testing.T) {
	m := NewMatcher("MSP")

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "prefixed token right after Invoice outranks everything",
			text: "Invoice- MSP-12345",
			want: "MSP-12345",
		},
		{
			name: "labeled prefixed token",
			text: "Invoice Number: MSP-777/A",
			want: "MSP-777/A",
		},
		{
			name: "inv shorthand with hash",
			text: "Inv # MSP-2201",
			want: "MSP-2201",
		},
		{
			name: "bare prefixed token anywhere",
			text: "Payment reference MSP-90210 enclosed",
			want: "MSP-90210",
		},
		{
			name: "bare prefix needs at least three digits",
			text: "MSP-12 is not a document number",
			want: "",
		},
		{
			name: "generic fallback without prefix",
			text: "Invoice No: AB-9931",
			want: "AB-9931",
		},
		{
			name: "trailing keyword stripped without separator",
			text: "Ref MSP-12345Date:01/02/2026",
			want: "MSP-12345",
		},
		{
			name: "trailing keyword with space",
			text: "Invoice- MSP-12345 Date: 01/01/2026",
			want: "MSP-12345",
		},
		{
			name: "trailing punctuation trimmed",
			text: "Invoice MSP-4410:",
			want: "MSP-4410",
		},
		{
			name: "label word alone is not a number",
			text: "Invoice Date: 13 Feb 2026",
			want: "",
		},
		{
			name: "nothing invoice-like",
			text: "delivery note only",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Parse(tt.text, nil)
			if got.DocNumber != tt.want {
				t.Errorf("doc number = %q, want %q", got.DocNumber, tt.want)
			}
		})
	}
}

func TestParseDocNumberPriorityOrder(t *testing.T) {
	m := NewMatcher("MSP")

	// A later rule's candidate appears earlier in the text: priority
	// order must still win, not text order and not longest match.
	text := "Reference AB-1111\nInvoice- MSP-12345\nalso MSP-99999 appears later"
	got := m.Parse(text, nil)
	if got.DocNumber != "MSP-12345" {
		t.Fatalf("doc number = %q, want %q", got.DocNumber, "MSP-12345")
	}
}

func TestParseDate(t *testing.T) {
	m := NewMatcher("MSP")

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "labeled abbreviated date wins",
			text: "Invoice Date: 13 Feb 2026\nDelivered 01/01/2020",
			want: "13 Feb 2026",
		},
		{
			name: "bill date label",
			text: "Bill Date 9 Jan 2025",
			want: "9 Jan 2025",
		},
		{
			name: "slash date fallback",
			text: "Due by 13/02/2026",
			want: "13/02/2026",
		},
		{
			name: "no date at all",
			text: "no dates here",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Parse(tt.text, nil)
			if got.DocDate != tt.want {
				t.Errorf("date = %q, want %q", got.DocDate, tt.want)
			}
		})
	}
}

func TestParseIsPure(t *testing.T) {
	m := NewMatcher("MSP")
	aliases := newTestAliases()
	text := "Globex Invoice- MSP-555 Date: 01/01/2026"

	first := m.Parse(text, aliases)
	second := m.Parse(text, aliases)
	if first != second {
		t.Fatalf("parse not idempotent: %+v vs %+v", first, second)
	}
}

func TestParseNeverPanicsOnGarbage(t *testing.T) {
	m := NewMatcher("MSP")
	inputs := []string{"", "\x00\xff\xfe", "invoice", "MSP", "Inv\nInv\nInv"}
	for _, in := range inputs {
		got := m.Parse(in, nil)
		_ = got
	}
}
