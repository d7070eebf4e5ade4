package assets

import "testing"

func TestResolver(t *testing.T) {
	m := NewManifest()
	m.Set("app.js", "app.abc12345.js")

	tests := []struct {
		name   string
		r      Resolver
		source string
		want   string
	}{
		{"prefixed", NewResolver(m, "/assets/"), "app.js", "/assets/app.abc12345.js"},
		{"prefix without slash", NewResolver(m, "/assets"), "app.js", "/assets/app.abc12345.js"},
		{"leading slash source", NewResolver(m, "/assets/"), "/app.js", "/assets/app.abc12345.js"},
		{"missing keeps name", NewResolver(m, "/assets/"), "other.js", "/assets/other.js"},
		{"no prefix", NewResolver(m, ""), "app.js", "app.abc12345.js"},
		{"nil manifest", NewResolver(nil, "/"), "app.js", "/app.js"},
		{"passthrough", NewPassthroughResolver("/static"), "images/logo.png", "/static/images/logo.png"},
		{"passthrough no prefix", NewPassthroughResolver(""), "app.js", "app.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Asset(tt.source); got != tt.want {
				t.Errorf("Asset(%q) = %q, want %q", tt.source, got, tt.want)
			}
		})
	}
}
