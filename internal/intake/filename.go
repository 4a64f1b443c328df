package intake

import (
	"net/url"
	"path"
	"strings"

	"github.com/goliatone/go-slug"
)

// DefaultRemoteFileName names remote imports whose URL has no usable file name.
const DefaultRemoteFileName = "linked-image"

// DefaultInlineFileName names images pasted or dropped as raw bytes.
const DefaultInlineFileName = "Unnamed"

// RemoteFileName derives a file name from the last path segment of rawURL.
// The stem is slugged and the extension lowercased.
func RemoteFileName(rawURL, fallback string) string {
	if fallback == "" {
		fallback = DefaultRemoteFileName
	}
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return fallback
	}
	base := path.Base(parsed.Path)
	if base == "." || base == "/" || base == "" {
		return fallback
	}
	ext := path.Ext(base)
	stem, err := slug.Normalize(strings.TrimSuffix(base, ext))
	if err != nil || stem == "" {
		return fallback
	}
	if len(ext) <= 1 {
		return stem
	}
	return stem + strings.ToLower(ext)
}
