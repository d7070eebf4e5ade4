package history

import "sync"

// Memory is a History kept in memory.
type Memory struct {
	mu        sync.Mutex
	entries   []Location
	index     int
	action    Action
	listeners map[int]Listener
	nextID    int
}

// NewMemory creates a Memory history from initial entries. With no entries the
// stack holds "/". initialIndex is clamped into range.
func NewMemory(initialEntries []string, initialIndex int) *Memory {
	if len(initialEntries) == 0 {
		initialEntries = []string{"/"}
	}

	entries := make([]Location, len(initialEntries))
	for i, e := range initialEntries {
		entries[i] = CreateLocation(e, nil, createKey(), nil)
	}

	return &Memory{
		entries:   entries,
		index:     clamp(initialIndex, 0, len(entries)-1),
		action:    Pop,
		listeners: make(map[int]Listener),
	}
}

func (m *Memory) Length() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) Action() Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.action
}

func (m *Memory) Location() Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index]
}

// Index is the position of the current entry.
func (m *Memory) Index() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// Entries returns a copy of the stack.
func (m *Memory) Entries() []Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Location, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *Memory) CreateHref(loc Location) string {
	return CreatePath(loc)
}

// Push drops any forward entries and appends path.
func (m *Memory) Push(path string, state any) error {
	m.mu.Lock()
	current := m.entries[m.index]
	loc := CreateLocation(path, state, createKey(), &current)

	next := m.index + 1
	entries := make([]Location, next, next+1)
	copy(entries, m.entries[:next])
	m.entries = append(entries, loc)
	m.index = next
	m.action = Push
	m.mu.Unlock()

	m.notify(loc, Push)
	return nil
}

func (m *Memory) Replace(path string, state any) error {
	m.mu.Lock()
	current := m.entries[m.index]
	loc := CreateLocation(path, state, createKey(), &current)
	m.entries[m.index] = loc
	m.action = Replace
	m.mu.Unlock()

	m.notify(loc, Replace)
	return nil
}

// Go moves n entries, stopping at either end of the stack.
func (m *Memory) Go(n int) error {
	m.mu.Lock()
	m.index = clamp(m.index+n, 0, len(m.entries)-1)
	m.action = Pop
	loc := m.entries[m.index]
	m.mu.Unlock()

	m.notify(loc, Pop)
	return nil
}

func (m *Memory) GoBack() error    { return m.Go(-1) }
func (m *Memory) GoForward() error { return m.Go(1) }

// CanGo reports whether Go(n) would stay inside the stack.
func (m *Memory) CanGo(n int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.index + n
	return next >= 0 && next < len(m.entries)
}

func (m *Memory) Listen(fn Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// notify calls listeners in registration order, outside the lock.
func (m *Memory) notify(loc Location, action Action) {
	m.mu.Lock()
	fns := make([]Listener, 0, len(m.listeners))
	for id := 0; id < m.nextID; id++ {
		if fn, ok := m.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(loc, action)
	}
}

func clamp(n, lo, hi int) int {
	return min(max(n, lo), hi)
}
