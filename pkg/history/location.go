package history

import (
	"path"
	"strings"
)

// Location is a snapshot of a URL plus navigation state.
type Location struct {
	Pathname string `json:"pathname"`
	Search   string `json:"search,omitempty"`
	Hash     string `json:"hash,omitempty"`
	State    any    `json:"state,omitempty"`
	Key      string `json:"key,omitempty"`
}

// String returns the location as a path.
func (l Location) String() string {
	return CreatePath(l)
}

// ParsePath splits a path into pathname, search and hash.
// An empty pathname becomes "/".
func ParsePath(p string) Location {
	pathname, search, hash := splitPath(p)
	if pathname == "" {
		pathname = "/"
	}
	return Location{Pathname: pathname, Search: search, Hash: hash}
}

func splitPath(p string) (pathname, search, hash string) {
	if i := strings.IndexByte(p, '#'); i >= 0 {
		hash = p[i:]
		p = p[:i]
	}
	if i := strings.IndexByte(p, '?'); i >= 0 {
		search = p[i:]
		p = p[:i]
	}
	if search == "?" {
		search = ""
	}
	if hash == "#" {
		hash = ""
	}
	return p, search, hash
}

// CreatePath joins a location back into a path.
func CreatePath(l Location) string {
	var b strings.Builder
	b.WriteString(l.Pathname)
	if l.Search != "" && l.Search != "?" {
		if l.Search[0] != '?' {
			b.WriteByte('?')
		}
		b.WriteString(l.Search)
	}
	if l.Hash != "" && l.Hash != "#" {
		if l.Hash[0] != '#' {
			b.WriteByte('#')
		}
		b.WriteString(l.Hash)
	}
	return b.String()
}

// CreateLocation builds a Location from a path. A relative pathname is
// resolved against current and an empty one keeps current's pathname.
func CreateLocation(p string, state any, key string, current *Location) Location {
	pathname, search, hash := splitPath(p)
	loc := Location{
		Pathname: pathname,
		Search:   search,
		Hash:     hash,
		State:    state,
		Key:      key,
	}

	switch {
	case current == nil:
		loc.Pathname = AddLeadingSlash(loc.Pathname)
	case loc.Pathname == "":
		loc.Pathname = current.Pathname
	case loc.Pathname[0] != '/':
		loc.Pathname = resolvePathname(loc.Pathname, current.Pathname)
	}

	return loc
}

// resolvePathname resolves to against the directory of from.
func resolvePathname(to, from string) string {
	dir := from[:strings.LastIndexByte(from, '/')+1]
	resolved := AddLeadingSlash(path.Clean(dir + to))
	if strings.HasSuffix(to, "/") && resolved != "/" {
		resolved += "/"
	}
	return resolved
}

// Equal reports whether two locations address the same entry.
// State is not compared.
func (l Location) Equal(other Location) bool {
	return l.Pathname == other.Pathname &&
		l.Search == other.Search &&
		l.Hash == other.Hash &&
		l.Key == other.Key
}

// AddLeadingSlash prefixes p with "/" when missing.
func AddLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

// StripTrailingSlash removes one trailing "/".
func StripTrailingSlash(p string) string {
	return strings.TrimSuffix(p, "/")
}

// HasBasename reports whether p lies under basename, case-insensitively.
func HasBasename(p, basename string) bool {
	if len(p) < len(basename) || !strings.EqualFold(p[:len(basename)], basename) {
		return false
	}
	if len(p) == len(basename) {
		return true
	}
	switch p[len(basename)] {
	case '/', '?', '#':
		return true
	}
	return false
}

// StripBasename removes basename from the front of p.
func StripBasename(p, basename string) string {
	if basename == "" || !HasBasename(p, basename) {
		return p
	}
	stripped := p[len(basename):]
	if stripped == "" || stripped[0] != '/' {
		stripped = "/" + stripped
	}
	return stripped
}
