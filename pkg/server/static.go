package server

import (
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vango-dev/vroute/pkg/assets"
)

// CacheControl selects the Cache-Control policy for static files.
type CacheControl int

const (
	// CacheControlNone sets no Cache-Control header.
	CacheControlNone CacheControl = iota

	// CacheControlNoStore disables caching, for development.
	CacheControlNoStore

	// CacheControlProduction caches fingerprinted files for a year and
	// everything else for an hour.
	CacheControlProduction
)

// StaticConfig serves files from a directory next to the routed pages.
type StaticConfig struct {
	// Dir is the directory files are served from. Empty disables static
	// serving.
	Dir string

	// Prefix is the URL prefix files are served under. Default: "/".
	// With the root prefix a request is served from Dir when a file
	// exists there, and rendered otherwise.
	Prefix string

	CacheControl CacheControl

	// Headers are set on every static response.
	Headers map[string]string
}

// staticFiles serves a StaticConfig.
type staticFiles struct {
	fsys    fs.FS
	prefix  string
	cache   CacheControl
	headers map[string]string
}

func newStaticFiles(c StaticConfig) *staticFiles {
	if c.Dir == "" {
		return nil
	}
	prefix := c.Prefix
	if prefix == "" {
		prefix = "/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &staticFiles{
		fsys:    os.DirFS(c.Dir),
		prefix:  prefix,
		cache:   c.CacheControl,
		headers: c.Headers,
	}
}

// relPath returns the file a request path names, relative to the static
// directory. It rejects traversal and absolute-path tricks.
func (sf *staticFiles) relPath(urlPath string) (string, bool) {
	if !strings.HasPrefix(urlPath, sf.prefix) {
		return "", false
	}
	rel := strings.TrimPrefix(urlPath, sf.prefix)
	if rel == "" {
		return "", false
	}

	// %00 decodes to NUL.
	if strings.IndexByte(rel, 0) != -1 || strings.Contains(rel, "\\") {
		return "", false
	}

	// "/static//etc/passwd" leaves "/etc/passwd".
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	// Dot segments are rejected before cleaning so traversal is not cleaned
	// into a different, valid path.
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if !fs.ValidPath(clean) {
		return "", false
	}
	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}
	return clean, true
}

// open returns the regular file urlPath names, or false.
func (sf *staticFiles) open(urlPath string) (fs.File, fs.FileInfo, string, bool) {
	rel, ok := sf.relPath(urlPath)
	if !ok {
		return nil, nil, "", false
	}
	f, err := sf.fsys.Open(rel)
	if err != nil {
		return nil, nil, "", false
	}
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		return nil, nil, "", false
	}
	return f, info, rel, true
}

// serve writes the file urlPath names and reports whether one existed.
func (sf *staticFiles) serve(w http.ResponseWriter, r *http.Request) bool {
	f, info, rel, ok := sf.open(r.URL.Path)
	if !ok {
		return false
	}
	defer f.Close()

	sf.applyCacheHeaders(w, rel)
	for key, value := range sf.headers {
		w.Header().Set(key, value)
	}

	if rs, ok := f.(readSeekFile); ok {
		http.ServeContent(w, r, rel, info.ModTime(), rs)
		return true
	}
	// os.DirFS files are always seekable; other filesystems are streamed.
	http.ServeFileFS(w, r, sf.fsys, rel)
	return true
}

type readSeekFile interface {
	fs.File
	Seek(offset int64, whence int) (int64, error)
}

func (sf *staticFiles) applyCacheHeaders(w http.ResponseWriter, rel string) {
	switch sf.cache {
	case CacheControlNoStore:
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	case CacheControlProduction:
		if assets.IsFingerprinted(rel) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600, must-revalidate")
		}
	}
}
