package pathmatch

import (
	"testing"

	"github.com/vango-dev/vroute/internal/errors"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		params  map[string]string
		want    string
		code    string
	}{
		{name: "root", pattern: "/", want: "/"},
		{name: "static", pattern: "/about", want: "/about"},
		{name: "param", pattern: "/users/:id", params: map[string]string{"id": "42"}, want: "/users/42"},
		{name: "escaped value", pattern: "/users/:id", params: map[string]string{"id": "a b/c"}, want: "/users/a%20b%2Fc"},
		{name: "optional absent", pattern: "/users/:id?", want: "/users"},
		{name: "repeat", pattern: "/files/:path*", params: map[string]string{"path": "a/b"}, want: "/files/a/b"},
		{name: "dot delimited", pattern: "/icons/:name.:ext", params: map[string]string{"name": "logo", "ext": "png"}, want: "/icons/logo.png"},
		{name: "asterisk", pattern: "/assets/*", params: map[string]string{"0": "js/app.js"}, want: "/assets/js/app.js"},
		{name: "missing", pattern: "/users/:id", code: "R011"},
		{name: "pattern mismatch", pattern: `/users/:id(\d+)`, params: map[string]string{"id": "abc"}, code: "R012"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.pattern, tt.params)
			if tt.code != "" {
				if !errors.HasCode(err, tt.code) {
					t.Errorf("Generate() error = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Generate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerate_RoundTrip(t *testing.T) {
	pattern := "/orgs/:org/repos/:repo"
	path, err := Generate(pattern, map[string]string{"org": "acme", "repo": "web"})
	if err != nil {
		t.Fatal(err)
	}
	m, err := MatchPath(path, Options{Path: pattern, Exact: true}, nil)
	if err != nil || m == nil {
		t.Fatalf("MatchPath(%q) = %v, %v", path, m, err)
	}
	if m.Param("org") != "acme" || m.Param("repo") != "web" {
		t.Errorf("Params = %v", m.Params)
	}
}
