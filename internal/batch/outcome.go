package batch

import "github.com/paddyocr/invoice-sorter/constants"

// ItemResult is the terminal outcome of one source item. Every item in
// a run produces exactly one result, whatever happened inside it.
type ItemResult struct {
	ItemID      string
	Status      constants.ItemStatus
	Supplier    string
	DocNumber   string
	DocDate     string
	Attachments int    // PDF attachments routed (or attempted)
	Err         string // per-item failure detail, empty unless Failed
}

// Stats aggregates one run.
type Stats struct {
	Total      uint32
	Routed     uint32
	Skipped    uint32
	Unresolved uint32
	Failed     uint32
}

func (s *Stats) count(status constants.ItemStatus) {
	s.Total++
	switch status {
	case constants.StatusRouted:
		s.Routed++
	case constants.StatusSkippedNoAtt, constants.StatusSkippedNoPDF:
		s.Skipped++
	case constants.StatusUnresolved:
		s.Unresolved++
	case constants.StatusFailed:
		s.Failed++
	}
}
