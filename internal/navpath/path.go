// Package navpath holds the path and route helpers shared by the browser views.
//
// A Path is a "/"-delimited location under a storage root. It never starts or
// ends with a slash and the root is the empty string.
package navpath

import (
	"strings"
)

// ParentName is the display name of the synthetic upward entry.
const ParentName = ".."

// Clean canonicalises user supplied paths: surrounding slashes are trimmed and
// empty segments are collapsed, so "/docs//sub/" becomes "docs/sub".
func Clean(p string) string {
	if p == "" {
		return ""
	}
	parts := Split(p)
	return strings.Join(parts, "/")
}

// Split returns the non-empty segments of p.
func Split(p string) []string {
	raw := strings.Split(p, "/")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// Parent removes the last segment of p together with its separator.
// The parent of a single segment path is the root.
func Parent(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

// Base returns the last segment of p.
func Base(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return p
	}
	return p[idx+1:]
}

// Join appends name to dir, treating "" as the root.
func Join(dir, name string) string {
	dir = Clean(dir)
	name = Clean(name)
	switch {
	case dir == "":
		return name
	case name == "":
		return dir
	default:
		return dir + "/" + name
	}
}

// IsRoot reports whether p denotes the storage root.
func IsRoot(p string) bool {
	return Clean(p) == ""
}
