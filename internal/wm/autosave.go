package wm

import (
	"sync"
	"time"
)

// SaveFunc persists a note's content.
type SaveFunc func(itemID, content string)

// AutoSaver debounces note edits: an edit is flushed after a fixed idle
// period, a newer edit to the same note supersedes (not queues behind) a
// pending one, and Flush forces the write on explicit save or window close.
type AutoSaver struct {
	delay time.Duration
	save  SaveFunc

	mu      sync.Mutex
	pending map[string]*pendingEdit
}

type pendingEdit struct {
	timer   *time.Timer
	content string
}

// NewAutoSaver creates an auto-saver with the given idle delay. A delay of
// zero or less defaults to one second.
func NewAutoSaver(delay time.Duration, save SaveFunc) *AutoSaver {
	if delay <= 0 {
		delay = time.Second
	}
	return &AutoSaver{
		delay:   delay,
		save:    save,
		pending: make(map[string]*pendingEdit),
	}
}

// Edit buffers new content for the note, restarting its idle timer.
func (a *AutoSaver) Edit(itemID, content string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if p, ok := a.pending[itemID]; ok {
		p.timer.Stop()
		p.content = content
		p.timer.Reset(a.delay)
		return
	}
	p := &pendingEdit{content: content}
	p.timer = time.AfterFunc(a.delay, func() { a.fire(itemID) })
	a.pending[itemID] = p
}

func (a *AutoSaver) fire(itemID string) {
	a.mu.Lock()
	p, ok := a.pending[itemID]
	if !ok {
		a.mu.Unlock()
		return
	}
	delete(a.pending, itemID)
	content := p.content
	a.mu.Unlock()
	a.save(itemID, content)
}

// Flush writes the note's pending edit immediately, if any.
func (a *AutoSaver) Flush(itemID string) {
	a.mu.Lock()
	p, ok := a.pending[itemID]
	if ok {
		p.timer.Stop()
		delete(a.pending, itemID)
	}
	a.mu.Unlock()
	if ok {
		a.save(itemID, p.content)
	}
}

// FlushAll writes every pending edit, for shutdown.
func (a *AutoSaver) FlushAll() {
	a.mu.Lock()
	edits := make(map[string]string, len(a.pending))
	for id, p := range a.pending {
		p.timer.Stop()
		edits[id] = p.content
	}
	a.pending = make(map[string]*pendingEdit)
	a.mu.Unlock()
	for id, content := range edits {
		a.save(id, content)
	}
}
