package pathmatch

// Options configures a single match.
type Options struct {
	// Path is the pattern. An empty Path matches every pathname by
	// returning the parent match.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Exact requires the pattern to consume the whole pathname.
	Exact bool `json:"exact,omitempty" yaml:"exact,omitempty"`

	// Strict makes a trailing slash significant.
	Strict bool `json:"strict,omitempty" yaml:"strict,omitempty"`

	// Sensitive makes matching case-sensitive.
	Sensitive bool `json:"sensitive,omitempty" yaml:"sensitive,omitempty"`
}

// Match is the result of matching a pathname against a pattern.
// A nil *Match means no match.
type Match struct {
	// Path is the pattern that matched.
	Path string `json:"path"`

	// URL is the matched prefix of the pathname.
	URL string `json:"url"`

	// IsExact reports whether the pattern consumed the whole pathname.
	IsExact bool `json:"isExact"`

	// Params holds the named parameter values.
	Params map[string]string `json:"params"`
}

// Param returns a parameter value, or "" when absent.
func (m *Match) Param(name string) string {
	if m == nil {
		return ""
	}
	return m.Params[name]
}

// Equal reports whether two matches are structurally equal.
func (m *Match) Equal(other *Match) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Path != other.Path || m.URL != other.URL || m.IsExact != other.IsExact {
		return false
	}
	if len(m.Params) != len(other.Params) {
		return false
	}
	for k, v := range m.Params {
		if ov, ok := other.Params[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// RootMatch is the match a router publishes for the top of the tree.
func RootMatch(pathname string) *Match {
	return &Match{
		Path:    "/",
		URL:     "/",
		Params:  map[string]string{},
		IsExact: pathname == "/",
	}
}

// MatchPath matches pathname against opts.Path using the default Matcher.
// When opts.Path is empty the parent match is returned unchanged.
func MatchPath(pathname string, opts Options, parent *Match) (*Match, error) {
	return defaultMatcher.Match(pathname, opts, parent)
}

// Generate builds a pathname from a pattern and parameter values using the
// default Matcher.
func Generate(pattern string, params map[string]string) (string, error) {
	return defaultMatcher.Generate(pattern, params)
}

// Match matches pathname against opts.Path, compiling the pattern through
// the cache.
func (mt *Matcher) Match(pathname string, opts Options, parent *Match) (*Match, error) {
	if opts.Path == "" {
		return parent, nil
	}

	p, err := mt.Compile(opts.Path, CompileOptions{
		End:       opts.Exact,
		Strict:    opts.Strict,
		Sensitive: opts.Sensitive,
	})
	if err != nil {
		return nil, err
	}

	url, params, ok := p.Exec(pathname)
	if !ok {
		return nil, nil
	}

	isExact := pathname == url
	if opts.Exact && !isExact {
		return nil, nil
	}

	if opts.Path == "/" && url == "" {
		url = "/"
	}

	return &Match{
		Path:    opts.Path,
		URL:     url,
		IsExact: isExact,
		Params:  params,
	}, nil
}
