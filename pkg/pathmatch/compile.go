package pathmatch

import (
	"regexp"
	"strings"

	"github.com/vango-dev/vroute/internal/errors"
)

// CompileOptions controls how a pattern is turned into a regular expression.
type CompileOptions struct {
	// End anchors the expression at the end of the pathname.
	End bool

	// Strict makes a trailing slash significant.
	Strict bool

	// Sensitive makes matching case-sensitive.
	Sensitive bool
}

// Pattern is a compiled route pattern.
type Pattern struct {
	source string
	opts   CompileOptions
	re     *regexp.Regexp
	keys   []Token

	// boundary is set when the expression ends with a capture group that
	// stands in for a lookahead: the character it consumed is not part of
	// the matched URL.
	boundary bool
}

// Compile parses a pattern and builds its regular expression.
//
// Go regular expressions have no lookahead, so where path-to-regexp would
// assert "followed by / or end of input" the expression instead consumes the
// "/" into a trailing group, and Exec trims it from the URL.
func Compile(pattern string, opts CompileOptions) (*Pattern, error) {
	tokens := Parse(pattern)

	var route strings.Builder
	keys := make([]Token, 0, len(tokens))

	for _, tok := range tokens {
		if !tok.IsParam() {
			route.WriteString(regexp.QuoteMeta(tok.Literal))
			continue
		}

		prefix := regexp.QuoteMeta(tok.Prefix)
		capture := "(?:" + tok.Pattern + ")"
		keys = append(keys, tok)

		if tok.Repeat {
			capture += "(?:" + prefix + capture + ")*"
		}

		if tok.Optional {
			if !tok.Partial {
				capture = "(?:" + prefix + "(" + capture + "))?"
			} else {
				capture = prefix + "(" + capture + ")?"
			}
		} else {
			capture = prefix + "(" + capture + ")"
		}

		route.WriteString(capture)
	}

	expr := route.String()
	endsWithDelimiter := strings.HasSuffix(expr, "/")

	boundary := false
	switch {
	case !opts.Strict && opts.End:
		expr = strings.TrimSuffix(expr, "/") + "/?$"
	case !opts.Strict:
		expr = strings.TrimSuffix(expr, "/") + "(?:/?$|(/))"
		boundary = true
	case opts.End:
		expr += "$"
	case !endsWithDelimiter:
		expr += "(?:$|(/))"
		boundary = true
	}

	flags := ""
	if !opts.Sensitive {
		flags = "(?i)"
	}

	re, err := regexp.Compile(flags + "^" + expr)
	if err != nil {
		return nil, errors.New("R010").WithRoute(pattern).Wrap(err)
	}

	return &Pattern{
		source:   pattern,
		opts:     opts,
		re:       re,
		keys:     keys,
		boundary: boundary,
	}, nil
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
func MustCompile(pattern string, opts CompileOptions) *Pattern {
	p, err := Compile(pattern, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source pattern.
func (p *Pattern) String() string {
	return p.source
}

// Keys returns the parameter tokens in capture order.
func (p *Pattern) Keys() []Token {
	return p.keys
}

// Regexp returns the compiled expression.
func (p *Pattern) Regexp() *regexp.Regexp {
	return p.re
}

// Exec matches pathname against the pattern. It returns the matched URL
// prefix and the parameters that took part in the match.
func (p *Pattern) Exec(pathname string) (url string, params map[string]string, ok bool) {
	m := p.re.FindStringSubmatchIndex(pathname)
	if m == nil {
		return "", nil, false
	}

	end := m[1]
	if p.boundary {
		last := len(p.keys) + 1
		if m[2*last] >= 0 {
			end = m[2*last]
		}
	}

	params = make(map[string]string, len(p.keys))
	for i, key := range p.keys {
		g := i + 1
		if m[2*g] < 0 {
			continue
		}
		params[key.Name] = pathname[m[2*g]:m[2*g+1]]
	}

	return pathname[m[0]:end], params, true
}
