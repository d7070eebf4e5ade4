// Package dev provides live reload for the render server.
//
// A Session holds the element built from the current configuration and
// rebuilds it when the config file changes. The server serves the Session
// itself, so a reload never restarts the listener:
//
//	session, err := dev.NewSession(cfg, build, logger)
//	srv := server.New(session, serverConfig,
//	    server.WithReloadHandler(session.Hub()))
//	go session.Watch(ctx)
//
// # Watching
//
// Watcher uses fsnotify. Directories are watched recursively, single files
// through their directory. Events are coalesced until the tree has been
// quiet for the debounce period and then reported as one sorted batch.
//
// # Hot Reload Protocol
//
// Pages include ScriptTag, which connects to server.ReloadPath over a
// WebSocket. Messages are JSON-encoded:
//
//	{"type": "reload", "file": "..."}  // Triggers full page reload
//	{"type": "error", "error": "..."}  // Shows error overlay
//	{"type": "clear"}                  // Clears error overlay
package dev
