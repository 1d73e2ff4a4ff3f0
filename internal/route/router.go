// Package route computes where a processed attachment lands. It is
// pure: no filesystem access, no state beyond the destination root.
package route

import (
	"path/filepath"
	"strings"
)

// Decision is the final placement instruction for one attachment.
// The destination directory is created by the caller if absent;
// filename collisions are not auto-resolved (last write wins).
type Decision struct {
	Dir      string
	Filename string
}

// Router derives placement decisions from extracted fields.
type Router struct {
	destRoot string
}

func NewRouter(destRoot string) *Router {
	return &Router{destRoot: destRoot}
}

// Route computes the destination directory and final filename for one
// attachment. supplierLabel must be non-empty; the caller substitutes
// the fallback label before routing. With rename enabled the name is
// {stem}__{docNumber}__{date-with-hyphens}{ext}; empty segments
// collapse with no leftover separators.
func (r *Router) Route(original, supplierLabel, docNumber, date string, rename bool) Decision {
	dir := filepath.Join(r.destRoot, supplierLabel)
	if !rename {
		return Decision{Dir: dir, Filename: original}
	}

	ext := filepath.Ext(original)
	stem := strings.TrimSuffix(original, ext)

	segments := []string{stem}
	if docNumber != "" {
		segments = append(segments, docNumber)
	}
	if date != "" {
		// path-unsafe date separators become hyphens in filenames
		segments = append(segments, strings.ReplaceAll(date, "/", "-"))
	}

	name := strings.Join(segments, "__")
	name = strings.ReplaceAll(name, "  ", " ")
	name = strings.Trim(name, "_")
	return Decision{Dir: dir, Filename: name + ext}
}
