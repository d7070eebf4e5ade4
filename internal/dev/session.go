package dev

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vango-dev/vroute/internal/config"
	"github.com/vango-dev/vroute/internal/errors"
	"github.com/vango-dev/vroute/pkg/router"
	"github.com/vango-dev/vroute/pkg/vdom"
)

// BuildFunc turns a configuration into the element to serve.
type BuildFunc func(*config.Config) (router.Element, error)

// Session serves an element rebuilt whenever the configuration changes.
// It is itself a router.Element, so a server holds one Session for its
// whole life while the tree behind it is swapped.
type Session struct {
	build  BuildFunc
	logger *slog.Logger
	hub    *ReloadServer

	mu        sync.RWMutex
	cfg       *config.Config
	app       router.Element
	callbacks []func(*config.Config)
}

// NewSession builds the initial element. cfg must have been loaded from a
// file so it can be reloaded.
func NewSession(cfg *config.Config, build BuildFunc, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	app, err := build(cfg)
	if err != nil {
		return nil, err
	}
	return &Session{
		build:  build,
		logger: logger,
		hub:    NewReloadServer(),
		cfg:    cfg,
		app:    app,
	}, nil
}

// Render implements router.Element with the current element.
func (s *Session) Render(rc *router.Context) (*vdom.VNode, error) {
	s.mu.RLock()
	app := s.app
	s.mu.RUnlock()
	return rc.Render(app)
}

// Config returns the active configuration.
func (s *Session) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Hub returns the reload server browsers connect to.
func (s *Session) Hub() *ReloadServer {
	return s.hub
}

// OnReload registers a callback invoked with the new configuration after a
// successful reload.
func (s *Session) OnReload(fn func(*config.Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, fn)
}

// Reload loads the configuration from disk, validates it and rebuilds the
// element. On failure the current element stays and browsers are shown the
// error. Returns true if the reload succeeded.
func (s *Session) Reload() bool {
	path := s.Config().Path()
	s.logger.Info("reloading configuration", "path", path)

	cfg, err := config.LoadFile(path)
	if err == nil {
		err = cfg.Validate()
	}
	var app router.Element
	if err == nil {
		app, err = s.build(cfg)
	}
	if err != nil {
		s.logger.Error("config reload failed, keeping current", "path", path, "error", err)
		s.hub.NotifyError(errors.FromError(err, "R020").FormatCompact())
		return false
	}

	s.mu.Lock()
	old := s.cfg
	s.cfg = cfg
	s.app = app
	callbacks := append(([]func(*config.Config))(nil), s.callbacks...)
	s.mu.Unlock()

	s.logChanges(old, cfg)
	for _, cb := range callbacks {
		cb(cfg)
	}

	s.hub.ClearError()
	s.logger.Info("configuration reloaded", "routes", len(cfg.Site.Routes))
	return true
}

// HandleChanges rebuilds the site when the configuration or an asset
// changed and tells browsers to refresh.
func (s *Session) HandleChanges(changes []Change) {
	var file string
	for _, c := range changes {
		if c.Type == ChangeConfig || c.Type == ChangeAsset {
			if !s.Reload() {
				return
			}
			file = c.Path
			break
		}
		if file == "" {
			file = c.Path
		}
	}
	if file != "" {
		s.hub.NotifyReload(file)
	}
}

// Watch watches the configured paths until ctx is done.
func (s *Session) Watch(ctx context.Context) error {
	cfg := s.Config()
	w := NewWatcher(WatcherConfig{
		Paths:    WatchPaths(cfg),
		Ignore:   IgnorePatterns(cfg),
		Debounce: cfg.Dev.Debounce.Std(),
	}, s.logger)
	w.OnChange(s.HandleChanges)

	s.logger.Info("watching for changes", "paths", WatchPaths(cfg))
	if err := w.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// Close disconnects all browsers.
func (s *Session) Close() {
	s.hub.Close()
}

// logChanges logs settings that a reload cannot apply to a running server.
func (s *Session) logChanges(old, new *config.Config) {
	if old.Server.Addr != new.Server.Addr || old.Server.Basename != new.Server.Basename {
		s.logger.Warn("server settings changed, restart to apply",
			"old_addr", old.Server.Addr,
			"new_addr", new.Server.Addr,
			"old_basename", old.Server.Basename,
			"new_basename", new.Server.Basename,
		)
	}
	if len(old.Site.Routes) != len(new.Site.Routes) {
		s.logger.Info("route count changed",
			"old", len(old.Site.Routes),
			"new", len(new.Site.Routes),
		)
	}
}
