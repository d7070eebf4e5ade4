package history

import (
	"github.com/vango-dev/vroute/internal/errors"
)

// Static is a History that never moves. It serves a single request: Push and
// Replace are reported to the record callback and Go fails.
type Static struct {
	basename string
	location Location
	record   func(action Action, loc Location, url string)
}

// NewStatic creates a Static history at location, which may include basename.
// record may be nil.
func NewStatic(location, basename string, record func(action Action, loc Location, url string)) *Static {
	basename = AddLeadingSlash(StripTrailingSlash(basename))
	if basename == "/" {
		basename = ""
	}

	loc := CreateLocation(location, nil, "", nil)
	loc.Pathname = StripBasename(loc.Pathname, basename)

	return &Static{
		basename: basename,
		location: loc,
		record:   record,
	}
}

// NewStaticLocation is like NewStatic for an already parsed location.
func NewStaticLocation(loc Location, basename string, record func(action Action, loc Location, url string)) *Static {
	s := NewStatic("/", basename, record)
	loc.Pathname = StripBasename(AddLeadingSlash(loc.Pathname), s.basename)
	s.location = loc
	return s
}

// Basename is the normalized basename, "" when none.
func (s *Static) Basename() string { return s.basename }

func (s *Static) Length() int        { return 1 }
func (s *Static) Action() Action     { return Pop }
func (s *Static) Location() Location { return s.location }

// CreateHref prefixes the basename.
func (s *Static) CreateHref(loc Location) string {
	return AddLeadingSlash(s.basename + CreatePath(loc))
}

// Push records a PUSH to path without moving.
func (s *Static) Push(path string, state any) error {
	s.navigate(Push, path, state)
	return nil
}

// Replace records a REPLACE to path without moving.
func (s *Static) Replace(path string, state any) error {
	s.navigate(Replace, path, state)
	return nil
}

func (s *Static) navigate(action Action, path string, state any) {
	if s.record == nil {
		return
	}
	loc := CreateLocation(path, state, "", &s.location)
	loc.Pathname = s.basename + loc.Pathname
	s.record(action, loc, CreatePath(loc))
}

func (s *Static) Go(n int) error {
	return errors.New("R005").WithDetail("You cannot go with a static history.")
}

func (s *Static) GoBack() error {
	return errors.New("R005").WithDetail("You cannot go back with a static history.")
}

func (s *Static) GoForward() error {
	return errors.New("R005").WithDetail("You cannot go forward with a static history.")
}

// Listen registers nothing: a static location never changes.
func (s *Static) Listen(fn Listener) func() {
	return func() {}
}
