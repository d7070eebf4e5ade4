package dev

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vango-dev/vroute/internal/config"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	ChangeConfig ChangeType = iota
	ChangeTemplate
	ChangeAsset
)

// String returns the change type name.
func (t ChangeType) String() string {
	switch t {
	case ChangeConfig:
		return "config"
	case ChangeTemplate:
		return "template"
	default:
		return "asset"
	}
}

// Change represents a detected file change.
type Change struct {
	Path    string
	Type    ChangeType
	Removed bool
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the files and directories to watch. Directories are watched
	// recursively, including ones created later.
	Paths []string

	// Ignore patterns to skip (names, path segments or globs).
	Ignore []string

	// Debounce is how long the tree must stay quiet before changes are
	// reported.
	Debounce time.Duration
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"dist",
	"tmp",
	"*.tmp",
	"*.swp",
	"*~",
	".export-*",
}

// Watcher reports batches of file changes.
type Watcher struct {
	config   WatcherConfig
	logger   *slog.Logger
	onChange func([]Change)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}

	// files holds watched single files; fileDirs are directories watched
	// only on their behalf. roots are the directories ignore patterns are
	// matched relative to.
	files    map[string]bool
	fileDirs map[string]bool
	trees    map[string]bool
	roots    []string
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig, logger *slog.Logger) *Watcher {
	if config.Debounce <= 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		config:   config,
		logger:   logger,
		files:    make(map[string]bool),
		fileDirs: make(map[string]bool),
		trees:    make(map[string]bool),
	}
}

// OnChange sets the callback for file changes. Each call receives the
// changes of one quiet period, sorted by path.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start watches until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	for _, p := range w.config.Paths {
		if err := w.add(fw, p); err != nil {
			w.logger.Warn("cannot watch path", "path", p, "error", err)
		}
	}

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = make(map[string]Change)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			change, ok := w.accept(fw, event)
			if !ok {
				continue
			}
			pending[change.Path] = change
			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
			} else {
				timer.Reset(w.config.Debounce)
			}
			timerC = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", "error", err)
		case <-timerC:
			timerC = nil
			changes := make([]Change, 0, len(pending))
			for _, c := range pending {
				changes = append(changes, c)
			}
			clear(pending)
			slices.SortFunc(changes, func(a, b Change) int {
				return strings.Compare(a.Path, b.Path)
			})
			w.emit(changes)
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) emit(changes []Change) {
	w.mu.Lock()
	callback := w.onChange
	w.mu.Unlock()
	if callback != nil && len(changes) > 0 {
		callback(changes)
	}
}

// add watches a file through its directory, or a directory tree.
func (w *Watcher) add(fw *fsnotify.Watcher, p string) error {
	p = filepath.Clean(p)
	info, err := os.Stat(p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		dir := filepath.Dir(p)
		w.files[p] = true
		w.roots = append(w.roots, dir)
		if w.trees[dir] {
			return nil
		}
		w.fileDirs[dir] = true
		return fw.Add(dir)
	}
	w.roots = append(w.roots, p)
	return w.addTree(fw, p)
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && w.shouldIgnore(p) {
			return filepath.SkipDir
		}
		delete(w.fileDirs, p)
		w.trees[p] = true
		return fw.Add(p)
	})
}

func (w *Watcher) accept(fw *fsnotify.Watcher, event fsnotify.Event) (Change, bool) {
	if event.Op == fsnotify.Chmod {
		return Change{}, false
	}
	p := filepath.Clean(event.Name)
	if w.shouldIgnore(p) {
		return Change{}, false
	}
	if w.fileDirs[filepath.Dir(p)] && !w.files[p] {
		return Change{}, false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if err := w.addTree(fw, p); err != nil {
				w.logger.Warn("cannot watch directory", "path", p, "error", err)
			}
			return Change{}, false
		}
	}

	return Change{
		Path:    p,
		Type:    classifyChange(p),
		Removed: event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename),
	}, true
}

// relative returns p relative to the closest watched root containing it.
func (w *Watcher) relative(p string) string {
	best := p
	for _, root := range w.roots {
		rel, err := filepath.Rel(root, p)
		if err == nil && filepath.IsLocal(rel) && len(rel) < len(best) {
			best = rel
		}
	}
	return best
}

// shouldIgnore checks if a path should be ignored. Patterns see the path
// relative to its watched root, so a root inside an ignored directory still
// works.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	rel := w.relative(fullPath)
	name := filepath.Base(rel)
	normalized := filepath.ToSlash(rel)

	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}

		if name == pattern {
			return true
		}

		hasPathSep := strings.Contains(pattern, "/") || strings.Contains(pattern, "\\")
		hasGlob := strings.ContainsAny(pattern, "*?[")

		if hasGlob {
			if hasPathSep {
				if matched, _ := path.Match(filepath.ToSlash(pattern), normalized); matched {
					return true
				}
			} else if matched, _ := filepath.Match(pattern, name); matched {
				return true
			}
			continue
		}

		if hasPathSep {
			if pathMatchesSegments(normalized, filepath.ToSlash(pattern)) {
				return true
			}
			continue
		}

		if pathHasSegment(normalized, pattern) {
			return true
		}
	}

	return false
}

func pathHasSegment(path, segment string) bool {
	if segment == "" {
		return false
	}
	return slices.Contains(splitPathSegments(path), segment)
}

func pathMatchesSegments(path, pattern string) bool {
	pathParts := splitPathSegments(path)
	patternParts := splitPathSegments(pattern)
	if len(patternParts) == 0 || len(patternParts) > len(pathParts) {
		return false
	}

	for i := 0; i <= len(pathParts)-len(patternParts); i++ {
		if slices.Equal(pathParts[i:i+len(patternParts)], patternParts) {
			return true
		}
	}
	return false
}

func splitPathSegments(path string) []string {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, "/")
	result := parts[:0]
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}

// classifyChange determines the type of change from the file name.
func classifyChange(p string) ChangeType {
	if slices.Contains(config.FileNames, filepath.Base(p)) {
		return ChangeConfig
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".html", ".gohtml", ".tmpl":
		return ChangeTemplate
	default:
		return ChangeAsset
	}
}
