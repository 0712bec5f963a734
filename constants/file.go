package constants

import "strings"

// PayloadKind tags the parsed document payload handed to the extraction
// stage: plain text or a base64-encoded image for the vision turn.
type PayloadKind string

const (
	PayloadText  PayloadKind = "text"
	PayloadImage PayloadKind = "image"
)

// TextExtensions are handled by direct file reads.
var TextExtensions = map[string]struct{}{
	"txt": {},
	"md":  {},
	"csv": {},
}

// ImageExtensions are base64-encoded for the vision model.
var ImageExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// SupportedExt reports whether the docparse stage can handle the extension.
func SupportedExt(ext string) bool {
	e := NormalizeExt(ext)
	if e == "pdf" {
		return true
	}
	if _, ok := TextExtensions[e]; ok {
		return true
	}
	_, ok := ImageExtensions[e]
	return ok
}
