package sync

import (
	"log"
	stdsync "sync"
	"time"
)

// DefaultDebounce is the idle window before a local edit is persisted.
const DefaultDebounce = 900 * time.Millisecond

// Editor reconciles optimistic local edits with the persisted document.
// Edits apply to local state immediately and are written out after the
// debounce window, but only if the value still differs from the last known
// persisted one. While an edit is dirty, remote echoes of our own write are
// not allowed to clobber it.
type Editor struct {
	mu            stdsync.Mutex
	content       string
	lastPersisted string
	dirty         bool
	timer         *time.Timer
	delay         time.Duration
	persist       func(html string) error
	closed        bool
}

// NewEditor starts from the persisted content. persist is called off the
// caller's goroutine when the debounce fires.
func NewEditor(initial string, delay time.Duration, persist func(html string) error) *Editor {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Editor{
		content:       initial,
		lastPersisted: initial,
		delay:         delay,
		persist:       persist,
	}
}

// SetContent applies a local edit optimistically and (re)arms the debounce
// timer.
func (e *Editor) SetContent(html string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.content = html
	e.dirty = html != e.lastPersisted
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.delay, e.flush)
}

// ApplyRemote merges a server-pushed value. While a local edit is dirty
// inside the debounce window the remote value is skipped: it is either an
// echo of our own write or will be resolved by the next flush
// (last-write-wins).
func (e *Editor) ApplyRemote(html string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.dirty {
		return
	}
	e.content = html
	e.lastPersisted = html
}

// Content returns the current local value.
func (e *Editor) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.content
}

// Dirty reports whether a local edit has not reached the store yet.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// Flush persists immediately if the content differs from the last persisted
// value. Used by the debounce timer and available for explicit saves.
func (e *Editor) Flush() error {
	e.mu.Lock()
	if e.closed || e.content == e.lastPersisted {
		e.dirty = false
		e.mu.Unlock()
		return nil
	}
	snapshot := e.content
	e.mu.Unlock()

	if err := e.persist(snapshot); err != nil {
		return err
	}

	e.mu.Lock()
	e.lastPersisted = snapshot
	e.dirty = e.content != snapshot
	e.mu.Unlock()
	return nil
}

func (e *Editor) flush() {
	if err := e.Flush(); err != nil {
		log.Printf("⚠️ Debounced document save failed: %v", err)
	}
}

// Close cancels any pending debounce without persisting. Navigating away
// must not cause side effects.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}
