// Package mailstore defines the message-store collaborator boundary:
// folder resolution, item enumeration, attachment retrieval, and item
// movement. The batch processor only ever sees these interfaces.
package mailstore

import (
	"fmt"
	"strings"

	"github.com/paddyocr/invoice-sorter/internal/common"
)

// Store resolves folders by a backslash-delimited path string rooted at
// the store's well-known default folder, e.g. `Inbox\Scannedpdfs`.
type Store interface {
	ResolveFolder(path string) (Folder, error)
}

// Folder enumerates the items it currently holds. Enumeration order is
// stable for a single run; nothing more is guaranteed.
type Folder interface {
	Name() string
	Items() ([]Item, error)
}

// Item is one inbound message. Its attachments are read-only; its only
// mutation is Move, which the batch processor invokes at most once.
type Item interface {
	ID() string
	Attachments() ([]Attachment, error)
	Move(dest Folder) error
}

// Attachment is one file carried by an item.
type Attachment interface {
	Filename() string
	SaveTo(path string) error
}

// FolderError reports a failed folder resolution. Siblings holds the
// folder names found at the failing level so a mistyped configuration
// can be corrected from the error text alone.
type FolderError struct {
	Path        string   // full configured path
	Missing     string   // segment that could not be found
	RootMissing bool     // the missing segment is the root folder itself
	Siblings    []string // folder names present where Missing was expected
}

func (e *FolderError) Error() string {
	kind := "subfolder"
	if e.RootMissing {
		kind = "root folder"
	}
	if len(e.Siblings) == 0 {
		return fmt.Sprintf("resolve %q: %s %q not found", e.Path, kind, e.Missing)
	}
	return fmt.Sprintf("resolve %q: %s %q not found (found: %s)",
		e.Path, kind, e.Missing, strings.Join(e.Siblings, ", "))
}

func (e *FolderError) Unwrap() error {
	return common.ErrFolderResolution
}
