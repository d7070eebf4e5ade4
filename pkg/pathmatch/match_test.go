package pathmatch

import (
	"sync"
	"testing"

	"github.com/vango-dev/vroute/internal/errors"
)

func TestMatchPath(t *testing.T) {
	tests := []struct {
		name     string
		pathname string
		opts     Options
		want     *Match
	}{
		{
			name:     "param exact by accident",
			pathname: "/users/42",
			opts:     Options{Path: "/users/:id"},
			want:     &Match{Path: "/users/:id", URL: "/users/42", IsExact: true, Params: map[string]string{"id": "42"}},
		},
		{
			name:     "prefix match",
			pathname: "/users/42",
			opts:     Options{Path: "/users"},
			want:     &Match{Path: "/users", URL: "/users", IsExact: false, Params: map[string]string{}},
		},
		{
			name:     "exact rejects prefix",
			pathname: "/users/42",
			opts:     Options{Path: "/users", Exact: true},
			want:     nil,
		},
		{
			name:     "segment boundary",
			pathname: "/usersettings",
			opts:     Options{Path: "/users"},
			want:     nil,
		},
		{
			name:     "trailing slash tolerated",
			pathname: "/users/",
			opts:     Options{Path: "/users", Exact: true},
			want:     &Match{Path: "/users", URL: "/users/", IsExact: true, Params: map[string]string{}},
		},
		{
			name:     "trailing slash in pathname with param",
			pathname: "/users/42/",
			opts:     Options{Path: "/users/:id"},
			want:     &Match{Path: "/users/:id", URL: "/users/42/", IsExact: true, Params: map[string]string{"id": "42"}},
		},
		{
			name:     "strict requires trailing slash",
			pathname: "/users",
			opts:     Options{Path: "/users/", Strict: true},
			want:     nil,
		},
		{
			name:     "strict exact rejects trailing slash",
			pathname: "/users/",
			opts:     Options{Path: "/users", Exact: true, Strict: true},
			want:     nil,
		},
		{
			name:     "strict prefix",
			pathname: "/users/42",
			opts:     Options{Path: "/users", Strict: true},
			want:     &Match{Path: "/users", URL: "/users", IsExact: false, Params: map[string]string{}},
		},
		{
			name:     "case insensitive by default",
			pathname: "/users",
			opts:     Options{Path: "/Users"},
			want:     &Match{Path: "/Users", URL: "/users", IsExact: true, Params: map[string]string{}},
		},
		{
			name:     "sensitive",
			pathname: "/users",
			opts:     Options{Path: "/Users", Sensitive: true},
			want:     nil,
		},
		{
			name:     "optional param absent",
			pathname: "/users",
			opts:     Options{Path: "/users/:id?"},
			want:     &Match{Path: "/users/:id?", URL: "/users", IsExact: true, Params: map[string]string{}},
		},
		{
			name:     "one or more segments",
			pathname: "/files/a/b/c",
			opts:     Options{Path: "/files/:path+", Exact: true},
			want:     &Match{Path: "/files/:path+", URL: "/files/a/b/c", IsExact: true, Params: map[string]string{"path": "a/b/c"}},
		},
		{
			name:     "zero or more segments",
			pathname: "/files",
			opts:     Options{Path: "/files/:path*", Exact: true},
			want:     &Match{Path: "/files/:path*", URL: "/files", IsExact: true, Params: map[string]string{}},
		},
		{
			name:     "asterisk",
			pathname: "/assets/js/app.js",
			opts:     Options{Path: "/assets/*"},
			want:     &Match{Path: "/assets/*", URL: "/assets/js/app.js", IsExact: true, Params: map[string]string{"0": "js/app.js"}},
		},
		{
			name:     "custom pattern rejects",
			pathname: "/users/abc",
			opts:     Options{Path: `/users/:id(\d+)`},
			want:     nil,
		},
		{
			name:     "custom pattern accepts",
			pathname: "/users/12",
			opts:     Options{Path: `/users/:id(\d+)`},
			want:     &Match{Path: `/users/:id(\d+)`, URL: "/users/12", IsExact: true, Params: map[string]string{"id": "12"}},
		},
		{
			name:     "dot delimited params",
			pathname: "/icons/logo.png",
			opts:     Options{Path: "/icons/:name.:ext"},
			want:     &Match{Path: "/icons/:name.:ext", URL: "/icons/logo.png", IsExact: true, Params: map[string]string{"name": "logo", "ext": "png"}},
		},
		{
			name:     "root against nested",
			pathname: "/users",
			opts:     Options{Path: "/"},
			want:     &Match{Path: "/", URL: "/", IsExact: false, Params: map[string]string{}},
		},
		{
			name:     "root against root",
			pathname: "/",
			opts:     Options{Path: "/"},
			want:     &Match{Path: "/", URL: "/", IsExact: true, Params: map[string]string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchPath(tt.pathname, tt.opts, nil)
			if err != nil {
				t.Fatalf("MatchPath() error = %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("MatchPath(%q, %+v) = %+v, want %+v", tt.pathname, tt.opts, got, tt.want)
			}
		})
	}
}

func TestMatchPath_EmptyPathReturnsParent(t *testing.T) {
	parent := RootMatch("/anything")
	got, err := MatchPath("/anything", Options{}, parent)
	if err != nil {
		t.Fatalf("MatchPath() error = %v", err)
	}
	if got != parent {
		t.Errorf("MatchPath() = %p, want parent %p", got, parent)
	}

	got, err = MatchPath("/anything", Options{Exact: true}, nil)
	if err != nil || got != nil {
		t.Errorf("MatchPath() with no parent = %v, %v, want nil, nil", got, err)
	}
}

func TestMatchPath_InvalidPattern(t *testing.T) {
	_, err := MatchPath("/users/1", Options{Path: "/users/:id([)"}, nil)
	if err == nil {
		t.Fatal("expected an error for an invalid parameter pattern")
	}
	if !errors.HasCode(err, "R010") {
		t.Errorf("error = %v, want R010", err)
	}
}

func TestRootMatch(t *testing.T) {
	m := RootMatch("/")
	if !m.IsExact || m.URL != "/" || m.Path != "/" {
		t.Errorf("RootMatch(\"/\") = %+v", m)
	}
	if m.Params == nil || len(m.Params) != 0 {
		t.Errorf("Params = %v, want empty map", m.Params)
	}
	if RootMatch("/users").IsExact {
		t.Error("RootMatch(\"/users\").IsExact should be false")
	}
}

func TestMatch_Param(t *testing.T) {
	var nilMatch *Match
	if nilMatch.Param("id") != "" {
		t.Error("Param on nil match should be empty")
	}
	m := &Match{Params: map[string]string{"id": "7"}}
	if m.Param("id") != "7" {
		t.Errorf("Param(id) = %q, want 7", m.Param("id"))
	}
}

func TestParse(t *testing.T) {
	tokens := Parse("/users/:id/posts/:slug?")
	if len(tokens) != 4 {
		t.Fatalf("len(tokens) = %d, want 4", len(tokens))
	}
	if tokens[0].Literal != "/users" {
		t.Errorf("tokens[0].Literal = %q", tokens[0].Literal)
	}
	if tokens[1].Name != "id" || tokens[1].Prefix != "/" || tokens[1].Optional {
		t.Errorf("tokens[1] = %+v", tokens[1])
	}
	if tokens[2].Literal != "/posts" {
		t.Errorf("tokens[2].Literal = %q", tokens[2].Literal)
	}
	if tokens[3].Name != "slug" || !tokens[3].Optional {
		t.Errorf("tokens[3] = %+v", tokens[3])
	}

	unnamed := Parse(`/(\d+)/(\w+)`)
	if unnamed[0].Name != "0" || unnamed[1].Name != "1" {
		t.Errorf("unnamed groups = %q, %q, want 0, 1", unnamed[0].Name, unnamed[1].Name)
	}

	escaped := Parse(`/literal\:colon`)
	if len(escaped) != 1 || escaped[0].Literal != "/literal:colon" {
		t.Errorf("escaped = %+v", escaped)
	}
}

type countingObserver struct {
	mu     sync.Mutex
	hits   int
	misses int
}

func (o *countingObserver) ObservePatternCompile(pattern string, cached bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if cached {
		o.hits++
	} else {
		o.misses++
	}
}

func TestMatcher_Cache(t *testing.T) {
	obs := &countingObserver{}
	m := NewMatcher(WithCacheLimit(2), WithCacheObserver(obs))

	for _, p := range []string{"/a", "/a", "/b", "/c", "/c"} {
		if _, err := m.Compile(p, CompileOptions{}); err != nil {
			t.Fatalf("Compile(%q) error = %v", p, err)
		}
	}

	if m.Len() != 2 {
		t.Errorf("Len() = %d, want 2", m.Len())
	}
	if obs.hits != 1 || obs.misses != 4 {
		t.Errorf("hits/misses = %d/%d, want 1/4", obs.hits, obs.misses)
	}

	if _, err := m.Compile("/a", CompileOptions{End: true}); err != nil {
		t.Fatal(err)
	}
	if obs.misses != 5 {
		t.Errorf("different options should miss the cache, misses = %d", obs.misses)
	}

	m.Reset()
	if m.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", m.Len())
	}
}

func TestMatcher_CacheDisabled(t *testing.T) {
	m := NewMatcher(WithCacheLimit(0))
	if _, err := m.Match("/users/1", Options{Path: "/users/:id"}, nil); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestMatcher_Concurrent(t *testing.T) {
	m := NewMatcher()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := m.Match("/users/42", Options{Path: "/users/:id"}, nil)
				if err != nil || got.Param("id") != "42" {
					t.Errorf("Match() = %+v, %v", got, err)
					return
				}
			}
		}()
	}
	wg.Wait()
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestDefault(t *testing.T) {
	if Default() != defaultMatcher {
		t.Error("Default() should return the shared matcher")
	}
}
