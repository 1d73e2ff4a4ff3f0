package constants

// ItemStatus is the terminal classification of one source item after a run.
type ItemStatus string

// Stable values (history rows store these exact strings).
const (
	StatusRouted       ItemStatus = "ROUTED"         // attachments placed, item advanced
	StatusSkippedNoAtt ItemStatus = "SKIPPED_NO_ATT" // item carried no attachments
	StatusSkippedNoPDF ItemStatus = "SKIPPED_NO_PDF" // attachments present, none were PDFs
	StatusUnresolved   ItemStatus = "UNRESOLVED"     // no document number found, item left in place
	StatusFailed       ItemStatus = "FAILED"         // per-item error, item left in place
)

// Advances reports whether the status moves the source item to the
// processed folder. Only routed items advance.
func (s ItemStatus) Advances() bool {
	return s == StatusRouted
}
