package mailstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/paddyocr/invoice-sorter/internal/common"
)

// DirStore implements the message-store interfaces over a local
// directory tree. Under the store root, directories are folders; each
// immediate subdirectory of a folder is one item (its name is the item
// ID) and the regular files inside it are the item's attachments.
// Moving an item renames its directory into the target folder.
type DirStore struct {
	root string
}

func NewDirStore(root string) *DirStore {
	return &DirStore{root: root}
}

// CheckCapability verifies the store root exists before a run starts.
func (s *DirStore) CheckCapability() error {
	info, err := os.Stat(s.root)
	if err != nil || !info.IsDir() {
		return common.NewAppError("STORE_UNAVAILABLE",
			fmt.Sprintf("store root %q is not a directory", s.root), common.ErrCapabilityUnavailable)
	}
	return nil
}

// ResolveFolder walks a backslash-delimited path segment by segment.
// Failures name the missing segment and list the sibling folders found,
// distinguishing a missing root from a missing subfolder.
func (s *DirStore) ResolveFolder(path string) (Folder, error) {
	segments := strings.Split(path, `\`)
	cur := s.root
	for i, seg := range segments {
		next := filepath.Join(cur, seg)
		info, err := os.Stat(next)
		if err != nil || !info.IsDir() {
			return nil, &FolderError{
				Path:        path,
				Missing:     seg,
				RootMissing: i == 0,
				Siblings:    subdirNames(cur),
			}
		}
		cur = next
	}
	return &dirFolder{path: cur, name: segments[len(segments)-1]}, nil
}

type dirFolder struct {
	path string
	name string
}

func (f *dirFolder) Name() string {
	return f.name
}

// Items enumerates item directories in name order (stable for a run).
func (f *dirFolder) Items() ([]Item, error) {
	entries, err := os.ReadDir(f.path)
	if err != nil {
		return nil, fmt.Errorf("list items in %q: %w", f.path, err)
	}
	var items []Item
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		items = append(items, &dirItem{path: filepath.Join(f.path, e.Name()), id: e.Name()})
	}
	return items, nil
}

type dirItem struct {
	path string
	id   string
}

func (it *dirItem) ID() string {
	return it.id
}

func (it *dirItem) Attachments() ([]Attachment, error) {
	entries, err := os.ReadDir(it.path)
	if err != nil {
		return nil, fmt.Errorf("list attachments of %q: %w", it.id, err)
	}
	var atts []Attachment
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		atts = append(atts, &dirAttachment{path: filepath.Join(it.path, e.Name()), name: e.Name()})
	}
	return atts, nil
}

func (it *dirItem) Move(dest Folder) error {
	df, ok := dest.(*dirFolder)
	if !ok {
		return fmt.Errorf("move %q: destination is not a directory folder", it.id)
	}
	target := filepath.Join(df.path, it.id)
	if err := os.Rename(it.path, target); err != nil {
		return fmt.Errorf("move %q to %q: %w", it.id, df.name, err)
	}
	it.path = target
	return nil
}

type dirAttachment struct {
	path string
	name string
}

func (a *dirAttachment) Filename() string {
	return a.name
}

// SaveTo copies the attachment bytes to path, creating parent
// directories as needed.
func (a *dirAttachment) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save %q: %w", a.name, err)
	}
	src, err := os.Open(a.path)
	if err != nil {
		return fmt.Errorf("save %q: %w", a.name, err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %q: %w", a.name, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("save %q: %w", a.name, err)
	}
	return dst.Close()
}

func subdirNames(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
