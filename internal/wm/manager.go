// Package wm implements the desktop window state machine: open, minimized,
// and focused windows for apps and folders, z-order stacking, and the stage
// manager overview derived from that state.
package wm

import (
	"fmt"
	"sort"
	"sync"
)

// Kind is the window domain. Apps and folders share one state machine but
// keep separate focus slots with cross-domain exclusivity.
type Kind string

const (
	KindApp    Kind = "app"
	KindFolder Kind = "folder"
)

// Key identifies a window.
type Key struct {
	Kind Kind
	ID   string
}

// AppKey builds the key of an app window.
func AppKey(id string) Key { return Key{Kind: KindApp, ID: id} }

// FolderKey builds the key of a folder window.
func FolderKey(id string) Key { return Key{Kind: KindFolder, ID: id} }

// String renders the tagged window key, e.g. "app-vault" or "folder-abc123".
func (k Key) String() string { return fmt.Sprintf("%s-%s", k.Kind, k.ID) }

// Manager is the synchronous window state machine. All methods are safe for
// concurrent use; each transition is atomic.
//
// Lifecycle per window: Closed -> Open+Focused -> {Open+Unfocused, Minimized}
// -> Closed. A minimized window is never the focused window, and focusing a
// window in one domain clears the focus slot of the other domain.
type Manager struct {
	mu        sync.Mutex
	open      map[Key]struct{}
	minimized map[Key]struct{}
	focused   map[Kind]Key
	zCounter  int
	z         map[Key]int
}

// NewManager creates an empty window manager.
func NewManager() *Manager {
	return &Manager{
		open:      make(map[Key]struct{}),
		minimized: make(map[Key]struct{}),
		focused:   make(map[Kind]Key),
		z:         make(map[Key]int),
	}
}

// Open opens the window (un-minimizing it if needed) and focuses it.
func (m *Manager) Open(k Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open[k] = struct{}{}
	delete(m.minimized, k)
	m.focusLocked(k)
}

// Close removes the window entirely. Closing the focused window clears its
// domain's focus slot.
func (m *Manager) Close(k Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.open, k)
	delete(m.minimized, k)
	delete(m.z, k)
	if m.focused[k.Kind] == k {
		delete(m.focused, k.Kind)
	}
}

// Minimize hides an open window. Minimizing the focused window clears its
// domain's focus slot.
func (m *Manager) Minimize(k Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.open[k]; !ok {
		return
	}
	m.minimized[k] = struct{}{}
	if m.focused[k.Kind] == k {
		delete(m.focused, k.Kind)
	}
}

// Restore un-minimizes a window and focuses it.
func (m *Manager) Restore(k Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.open[k]; !ok {
		return
	}
	delete(m.minimized, k)
	m.focusLocked(k)
}

// Focus makes the window the focused one of its domain, clears the other
// domain's focus slot, and raises the window to the top of the z-order.
func (m *Manager) Focus(k Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.open[k]; !ok {
		return
	}
	if _, ok := m.minimized[k]; ok {
		return
	}
	m.focusLocked(k)
}

func (m *Manager) focusLocked(k Key) {
	other := KindFolder
	if k.Kind == KindFolder {
		other = KindApp
	}
	delete(m.focused, other)
	m.focused[k.Kind] = k
	m.zCounter++
	m.z[k] = m.zCounter
}

// IsOpen reports whether the window is open (minimized counts as open).
func (m *Manager) IsOpen(k Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.open[k]
	return ok
}

// IsMinimized reports whether the window is minimized.
func (m *Manager) IsMinimized(k Key) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.minimized[k]
	return ok
}

// Focused returns the focused window of the given domain, if any.
func (m *Manager) Focused(kind Kind) (Key, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.focused[kind]
	return k, ok
}

// ZIndex returns the window's assigned z-index, if it has one.
func (m *Manager) ZIndex(k Key) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	z, ok := m.z[k]
	return z, ok
}

// OverviewItem is one entry of the stage manager projection.
type OverviewItem struct {
	Key       Key
	Minimized bool
	Focused   bool
	Z         int
}

// Overview derives the stage manager list: every open window with its
// minimized/focused rendering state, bottom of the stack first. The
// projection holds no state of its own.
func (m *Manager) Overview() []OverviewItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]OverviewItem, 0, len(m.open))
	for k := range m.open {
		_, minimized := m.minimized[k]
		items = append(items, OverviewItem{
			Key:       k,
			Minimized: minimized,
			Focused:   m.focused[k.Kind] == k,
			Z:         m.z[k],
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Z != items[j].Z {
			return items[i].Z < items[j].Z
		}
		return items[i].Key.String() < items[j].Key.String()
	})
	return items
}
