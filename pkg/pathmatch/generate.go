package pathmatch

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/vango-dev/vroute/internal/errors"
)

// Generate builds a pathname from pattern by substituting params.
//
// Values are path-escaped. Repeated parameters and asterisks may contain "/",
// which separates segments that are escaped one by one. A missing required
// parameter yields R011 and a value that does not satisfy the parameter's
// pattern yields R012.
func (m *Matcher) Generate(pattern string, params map[string]string) (string, error) {
	if pattern == "/" {
		return "/", nil
	}

	var b strings.Builder
	for _, tok := range Parse(pattern) {
		if !tok.IsParam() {
			b.WriteString(tok.Literal)
			continue
		}

		value, ok := params[tok.Name]
		if !ok || value == "" {
			if tok.Optional {
				if tok.Partial {
					b.WriteString(tok.Prefix)
				}
				continue
			}
			return "", errors.New("R011").
				WithRoute(pattern).
				WithDetail("Expected \"" + tok.Name + "\" to be defined.")
		}

		segments := []string{value}
		if tok.Repeat || tok.Asterisk {
			segments = strings.Split(value, "/")
		}

		check, err := regexp.Compile("^(?:" + tok.Pattern + ")$")
		if err != nil {
			return "", errors.New("R010").WithRoute(pattern).Wrap(err)
		}

		for i, seg := range segments {
			seg = url.PathEscape(seg)
			if !tok.Asterisk && !check.MatchString(seg) {
				return "", errors.New("R012").
					WithRoute(pattern).
					WithDetail("Expected \"" + tok.Name + "\" to match \"" + tok.Pattern + "\", got \"" + seg + "\".")
			}
			if i == 0 {
				b.WriteString(tok.Prefix)
			} else if tok.Asterisk {
				b.WriteString("/")
			} else {
				b.WriteString(tok.Delimiter)
			}
			b.WriteString(seg)
		}
	}

	return b.String(), nil
}
