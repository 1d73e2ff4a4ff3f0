package constants

import "strings"

// UnknownSupplier is the destination folder label used when no supplier
// could be resolved from the recognized text.
const UnknownSupplier = "Unknown Supplier"

// RoutedExtensions holds the attachment extensions the batch processor
// routes. Everything else is left on the source item.
var RoutedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsRoutedExt reports whether a filename extension is routed.
func IsRoutedExt(ext string) bool {
	_, ok := RoutedExtensions[NormalizeExt(ext)]
	return ok
}
