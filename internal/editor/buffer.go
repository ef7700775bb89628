// Package editor mirrors the browser editing widget on the host side.
//
// The browser widget sends its full text with every change; the Buffer
// keeps the latest copy so the workspace can read the live value
// synchronously. Loads pushed from the host bump a version number, and
// updates tagged with an older version are dropped: they were typed into
// a file that is no longer loaded.
package editor

import "sync"

// Hooks forward host-side changes to the widget. They run while the
// workspace is mid-transition and must not call back into it.
type Hooks struct {
	OnLoad     func(text string, version uint64)
	OnLanguage func(language string)
}

// Buffer implements workspace.Editor.
type Buffer struct {
	mu       sync.RWMutex
	value    string
	language string
	version  uint64
	hooks    Hooks
}

func NewBuffer(h Hooks) *Buffer {
	return &Buffer{hooks: h}
}

// Value returns the live text.
func (b *Buffer) Value() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value
}

// SetValue loads text into the widget.
func (b *Buffer) SetValue(text string) {
	b.mu.Lock()
	b.value = text
	b.version++
	v := b.version
	b.mu.Unlock()

	if b.hooks.OnLoad != nil {
		b.hooks.OnLoad(text, v)
	}
}

// SetLanguage switches the widget mode.
func (b *Buffer) SetLanguage(language string) {
	b.mu.Lock()
	b.language = language
	b.mu.Unlock()

	if b.hooks.OnLanguage != nil {
		b.hooks.OnLanguage(language)
	}
}

// Language returns the current widget mode.
func (b *Buffer) Language() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.language
}

// Version returns the current load version.
func (b *Buffer) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// Update records text typed into the widget. It reports false, and keeps
// the current value, when version is not the current load version.
func (b *Buffer) Update(version uint64, text string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if version != b.version {
		return false
	}
	b.value = text
	return true
}
