package dev

import (
	"path/filepath"

	"github.com/vango-dev/vroute/internal/config"
)

// WatchPaths returns the config file plus the dev.watch entries, resolved
// against the config directory and deduplicated.
func WatchPaths(cfg *config.Config) []string {
	projectDir := cfg.Dir()
	paths := []string{cfg.Path()}
	for _, path := range cfg.Dev.Watch {
		paths = append(paths, resolvePath(projectDir, path))
	}

	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		unique = append(unique, clean)
	}

	return unique
}

// IgnorePatterns returns DefaultIgnore plus the export directory.
func IgnorePatterns(cfg *config.Config) []string {
	patterns := append([]string(nil), DefaultIgnore...)
	if dir := cfg.Export.Dir; dir != "" && !filepath.IsAbs(dir) {
		patterns = append(patterns, filepath.ToSlash(filepath.Clean(dir)))
	}
	return patterns
}

func resolvePath(projectDir, path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectDir, path)
}
