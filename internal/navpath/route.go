package navpath

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Route prefixes of the user facing URL scheme.
const (
	BrowsePrefix = "/download"
	FilePrefix   = "/files"
)

// ErrUnknownRoute is returned by ParseRoute for locations outside the scheme.
var ErrUnknownRoute = errors.New("unknown route")

// Kind tells which view a location belongs to.
type Kind int

const (
	KindUnknown Kind = iota
	KindBrowse
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindBrowse:
		return "browse"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

// Route is a parsed location.
type Route struct {
	Kind      Kind
	StorageID string
	Path      string
}

// Location renders the route back into a location string.
func (r Route) Location() string {
	if r.Kind == KindFile {
		return FileURL(r.StorageID, r.Path)
	}
	return BrowseURL(r.StorageID, r.Path)
}

// BrowseBase is the base location of the directory browser for storageID.
func BrowseBase(storageID string) string {
	return BrowsePrefix + "/" + url.PathEscape(storageID)
}

// BrowseURL is the location of directory p under storageID.
func BrowseURL(storageID, p string) string {
	base := BrowseBase(storageID)
	if p = Clean(p); p != "" {
		return base + "/" + EscapePath(p)
	}
	return base
}

// FileURL is the location of the file view for p under storageID.
func FileURL(storageID, p string) string {
	return FilePrefix + "/" + url.PathEscape(storageID) + "/" + EscapePath(Clean(p))
}

// EscapePath percent-escapes every segment of p and keeps the separators.
func EscapePath(p string) string {
	parts := Split(p)
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// LocationPath strips scheme, host, query and fragment from location and
// returns the escaped path component.
func LocationPath(location string) string {
	if strings.Contains(location, "://") {
		if u, err := url.Parse(location); err == nil {
			location = u.EscapedPath()
		}
	}
	if idx := strings.IndexAny(location, "?#"); idx >= 0 {
		location = location[:idx]
	}
	if !strings.HasPrefix(location, "/") {
		location = "/" + location
	}
	return location
}

// Relative returns the path of location below base. The second result is
// false when location is not base itself or one of its descendants.
func Relative(base, location string) (string, bool) {
	loc := LocationPath(location)
	if loc == base {
		return "", true
	}
	if !strings.HasPrefix(loc, base+"/") {
		return "", false
	}
	return unescapePath(loc[len(base)+1:]), true
}

// ParseRoute recognises /download/{storageId}[/{path...}] and
// /files/{storageId}/{path...}.
func ParseRoute(location string) (Route, error) {
	segments := Split(LocationPath(location))
	if len(segments) < 2 {
		return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, location)
	}

	storageID, err := url.PathUnescape(segments[1])
	if err != nil {
		return Route{}, fmt.Errorf("invalid storage id in %s: %w", location, err)
	}
	p := unescapePath(strings.Join(segments[2:], "/"))

	switch "/" + segments[0] {
	case BrowsePrefix:
		return Route{Kind: KindBrowse, StorageID: storageID, Path: p}, nil
	case FilePrefix:
		if p == "" {
			return Route{}, fmt.Errorf("%w: file route without path: %s", ErrUnknownRoute, location)
		}
		return Route{Kind: KindFile, StorageID: storageID, Path: p}, nil
	default:
		return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, location)
	}
}

func unescapePath(p string) string {
	parts := Split(p)
	for i, part := range parts {
		if unescaped, err := url.PathUnescape(part); err == nil {
			parts[i] = unescaped
		}
	}
	return strings.Join(parts, "/")
}

// Resolve interprets user input as a location. Besides the two route forms
// and full URLs it accepts "storageId" and "storageId/path", both of which
// open the directory browser.
func Resolve(input string) (Route, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Route{}, fmt.Errorf("%w: empty location", ErrUnknownRoute)
	}
	if strings.HasPrefix(input, "/") || strings.Contains(input, "://") {
		return ParseRoute(input)
	}

	segments := Split(input)
	return Route{
		Kind:      KindBrowse,
		StorageID: segments[0],
		Path:      strings.Join(segments[1:], "/"),
	}, nil
}
