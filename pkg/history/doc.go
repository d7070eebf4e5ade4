// Package history models the navigation service routes read their location
// from.
//
// A History holds a stack of Locations and the Action that produced the
// current one. Two implementations are provided:
//
//   - Memory keeps the stack in memory. It backs tests, the CLI and any
//     router that navigates without a browser.
//   - Static never moves. Push and Replace are recorded through a callback so
//     a server renderer can turn them into HTTP redirects.
//
// Locations are immutable snapshots: navigation always produces a new value.
package history
