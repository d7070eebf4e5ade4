package pathmatch

import (
	"regexp"
	"strconv"
	"strings"
)

// Token is one piece of a parsed pattern: either literal text or a parameter.
type Token struct {
	// Literal is the static text of a literal token.
	Literal string

	// Name is the parameter name. Unnamed groups get numeric names.
	Name string

	// Prefix is the "/" or "." preceding the parameter, if any.
	Prefix string

	// Delimiter is the character a parameter segment may not contain.
	Delimiter string

	// Optional is set by the "?" and "*" modifiers.
	Optional bool

	// Repeat is set by the "+" and "*" modifiers.
	Repeat bool

	// Partial marks a parameter followed by text other than its prefix,
	// e.g. ":name" in "/:name.json".
	Partial bool

	// Asterisk marks a bare "*" parameter.
	Asterisk bool

	// Pattern is the regular expression a parameter value must match.
	Pattern string
}

// IsParam reports whether the token is a parameter.
func (t Token) IsParam() bool {
	return t.Name != ""
}

// tokenRegexp finds escapes, parameters, groups and asterisks in a pattern.
var tokenRegexp = regexp.MustCompile(
	`(\\.)|([/.])?(?:(?:\:(\w+)(?:\(((?:\\.|[^\\()])+)\))?|\(((?:\\.|[^\\()])+)\))([+*?])?|(\*))`,
)

// Parse splits a pattern into tokens.
func Parse(pattern string) []Token {
	var (
		tokens []Token
		key    int
		index  int
		path   strings.Builder
	)

	for _, m := range tokenRegexp.FindAllStringSubmatchIndex(pattern, -1) {
		group := func(i int) (string, bool) {
			if m[2*i] < 0 {
				return "", false
			}
			return pattern[m[2*i]:m[2*i+1]], true
		}

		path.WriteString(pattern[index:m[0]])
		index = m[1]

		if escaped, ok := group(1); ok {
			path.WriteString(escaped[1:])
			continue
		}

		prefix, hasPrefix := group(2)
		name, _ := group(3)
		capture, _ := group(4)
		unnamed, _ := group(5)
		modifier, _ := group(6)
		_, asterisk := group(7)

		if path.Len() > 0 {
			tokens = append(tokens, Token{Literal: path.String()})
			path.Reset()
		}

		hasNext := index < len(pattern)
		partial := hasPrefix && hasNext && pattern[index:index+1] != prefix

		delimiter := "/"
		if hasPrefix {
			delimiter = prefix
		}

		if name == "" {
			name = strconv.Itoa(key)
			key++
		}

		tok := Token{
			Name:      name,
			Prefix:    prefix,
			Delimiter: delimiter,
			Optional:  modifier == "?" || modifier == "*",
			Repeat:    modifier == "+" || modifier == "*",
			Partial:   partial,
			Asterisk:  asterisk,
		}

		switch {
		case capture != "":
			tok.Pattern = escapeGroup(capture)
		case unnamed != "":
			tok.Pattern = escapeGroup(unnamed)
		case asterisk:
			tok.Pattern = ".*"
		default:
			tok.Pattern = "[^" + regexp.QuoteMeta(delimiter) + "]+?"
		}

		tokens = append(tokens, tok)
	}

	if index < len(pattern) {
		path.WriteString(pattern[index:])
	}
	if path.Len() > 0 {
		tokens = append(tokens, Token{Literal: path.String()})
	}

	return tokens
}

// escapeGroup escapes the characters a custom parameter pattern may not use
// as metacharacters.
func escapeGroup(group string) string {
	var b strings.Builder
	b.Grow(len(group))
	for i := 0; i < len(group); i++ {
		switch c := group[i]; c {
		case '=', '!', ':', '$', '/', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
