// Package assets resolves asset names to the fingerprinted files a build
// step produced.
//
// A manifest maps source names to fingerprinted names:
//
//	{
//	  "app.js": "app.a1b2c3d4.js",
//	  "styles.css": "styles.e5f6a7b8.css"
//	}
//
// It is read from a manifest.json or derived by scanning the static
// directory:
//
//	m, _ := assets.Scan(os.DirFS("public"))
//	r := assets.NewResolver(m, "/assets/")
//	r.Asset("app.js") // "/assets/app.a1b2c3d4.js"
//
// Site page bodies call it through the asset template function.
package assets

import (
	"encoding/json"
	"io/fs"
	"maps"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/vango-dev/vroute/internal/errors"
)

// Manifest maps source asset names to fingerprinted names. It is safe for
// concurrent use.
type Manifest struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewManifest creates an empty manifest.
func NewManifest() *Manifest {
	return &Manifest{entries: make(map[string]string)}
}

// Load reads a manifest.json file.
func Load(file string) (*Manifest, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.New("R020").WithDetail("Cannot read asset manifest " + file).Wrap(err)
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.New("R020").
			WithDetail("Failed to parse asset manifest " + file + ": " + err.Error()).
			WithSuggestion("The manifest must be a JSON object of strings")
	}
	if entries == nil {
		entries = make(map[string]string)
	}
	return &Manifest{entries: entries}, nil
}

// Scan builds a manifest from the fingerprinted files in fsys. Each
// "name.<hash>.ext" is recorded under "name.ext". When several files share a
// source name the lexically last wins.
func Scan(fsys fs.FS) (*Manifest, error) {
	m := NewManifest()
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsFingerprinted(p) {
			return nil
		}
		m.entries[SourceName(p)] = p
		return nil
	})
	if err != nil {
		return nil, errors.New("R020").WithDetail("Cannot scan assets").Wrap(err)
	}
	return m, nil
}

// Resolve returns the fingerprinted name for source, or source when the
// manifest has no entry.
func (m *Manifest) Resolve(source string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if resolved, ok := m.entries[source]; ok {
		return resolved
	}
	return source
}

// Has reports whether the manifest has an entry for source.
func (m *Manifest) Has(source string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[source]
	return ok
}

// Set adds or replaces an entry.
func (m *Manifest) Set(source, resolved string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[source] = resolved
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// All returns a copy of the entries.
func (m *Manifest) All() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return maps.Clone(m.entries)
}

// IsFingerprinted reports whether a file name carries a content hash of at
// least eight hex digits before its extension, e.g. "app.a1b2c3d4.css".
func IsFingerprinted(name string) bool {
	parts := strings.Split(path.Base(name), ".")
	if len(parts) < 3 {
		return false
	}
	hash := parts[len(parts)-2]
	if len(hash) < 8 {
		return false
	}
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// SourceName strips the hash from a fingerprinted name:
// "css/app.a1b2c3d4.css" is "css/app.css". Other names are returned as is.
func SourceName(name string) string {
	if !IsFingerprinted(name) {
		return name
	}
	dir, base := path.Split(name)
	parts := strings.Split(base, ".")
	parts = append(parts[:len(parts)-2], parts[len(parts)-1])
	return dir + strings.Join(parts, ".")
}
