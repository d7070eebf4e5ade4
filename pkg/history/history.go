package history

import (
	"math/rand/v2"
	"strconv"
)

// Action is the kind of navigation that produced the current location.
type Action string

const (
	Pop     Action = "POP"
	Push    Action = "PUSH"
	Replace Action = "REPLACE"
)

// Listener is called after the current location changes.
type Listener func(loc Location, action Action)

// History is a navigation service. Implementations are safe for concurrent
// use.
type History interface {
	// Length is the number of entries in the stack.
	Length() int

	// Action is the action that produced the current location.
	Action() Action

	// Location is the current location.
	Location() Location

	// CreateHref turns a location into an href for links.
	CreateHref(loc Location) string

	// Push adds a new entry for path.
	Push(path string, state any) error

	// Replace swaps the current entry for path.
	Replace(path string, state any) error

	// Go moves n entries through the stack.
	Go(n int) error

	// GoBack is Go(-1).
	GoBack() error

	// GoForward is Go(1).
	GoForward() error

	// Listen registers fn and returns a function removing it.
	Listen(fn Listener) (unlisten func())
}

const keyLength = 6

// createKey returns a short random key identifying a history entry.
func createKey() string {
	k := strconv.FormatUint(rand.Uint64(), 36)
	if len(k) > keyLength {
		k = k[:keyLength]
	}
	return k
}
