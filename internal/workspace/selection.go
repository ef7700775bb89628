package workspace

import (
	"fmt"

	"github.com/petervdpas/codestudio/internal/lang"
)

// Position is a 1-based cursor location reported by the widget.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Selection is a widget selection. Chars is the selected text length.
type Selection struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
	Chars       int `json:"chars"`
}

// Empty reports whether the selection is collapsed to a caret.
func (s Selection) Empty() bool {
	return s.StartLine == s.EndLine && s.StartColumn == s.EndColumn
}

// Select makes id the active file. The live widget value of the current
// active file is committed first, then id's content and language are
// loaded into the widget. Unknown ids are ignored.
func (w *Workspace) Select(id FileID) bool {
	w.mu.Lock()
	f, ok := w.files[id]
	if !ok {
		w.mu.Unlock()
		return false
	}

	w.commitLocked()
	w.active = id
	if w.editor != nil {
		w.editor.SetValue(f.Content)
		w.editor.SetLanguage(f.Language)
	}
	w.status = StatusBar{
		Cursor:   cursorLabel(Position{Line: 1, Column: 1}),
		Language: lang.DisplayName(f.Language),
	}
	w.publishLocked(Event{Kind: ActiveChanged, File: id})
	return true
}

// commitLocked writes the widget value into the active record.
func (w *Workspace) commitLocked() {
	if w.active == 0 || w.editor == nil {
		return
	}
	if cur, ok := w.files[w.active]; ok {
		cur.Content = w.editor.Value()
	}
}

// Active returns the active file, with its stored (not live) content.
func (w *Workspace) Active() (FileRecord, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	f, ok := w.files[w.active]
	if !ok {
		return FileRecord{}, false
	}
	return *f, true
}

// LiveContent returns the widget value for the active file and the stored
// content for any other.
func (w *Workspace) LiveContent(id FileID) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	f, ok := w.files[id]
	if !ok {
		return "", false
	}
	if id == w.active && w.editor != nil {
		return w.editor.Value(), true
	}
	return f.Content, true
}

// Save commits the widget value into the active file and clears its dirty
// flag.
func (w *Workspace) Save() (FileRecord, bool) {
	w.mu.Lock()
	f, ok := w.files[w.active]
	if !ok {
		w.mu.Unlock()
		return FileRecord{}, false
	}
	w.commitLocked()
	f.Modified = false
	rec := *f
	w.publishLocked(Event{Kind: FileSaved, File: rec.ID})
	return rec, true
}

// ContentChanged is the widget's change notification. It marks the active
// file dirty without copying the content.
func (w *Workspace) ContentChanged() {
	w.mu.Lock()
	f, ok := w.files[w.active]
	if !ok {
		w.mu.Unlock()
		return
	}
	f.Modified = true
	w.publishLocked(Event{Kind: ContentChanged, File: f.ID})
}

// ApplyEdit runs update and, when it reports true, marks the active file
// dirty. Both happen under the workspace lock, so a switch cannot land in
// between and have the edit flag the newly loaded file.
func (w *Workspace) ApplyEdit(update func() bool) bool {
	w.mu.Lock()
	if !update() {
		w.mu.Unlock()
		return false
	}
	f, ok := w.files[w.active]
	if !ok {
		w.mu.Unlock()
		return true
	}
	f.Modified = true
	w.publishLocked(Event{Kind: ContentChanged, File: f.ID})
	return true
}

// CursorMoved updates the status bar cursor label.
func (w *Workspace) CursorMoved(p Position) {
	w.mu.Lock()
	w.status.Cursor = cursorLabel(p)
	w.publishLocked(Event{Kind: CursorMoved, File: w.active})
}

// SelectionChanged updates the status bar selection label.
func (w *Workspace) SelectionChanged(s Selection) {
	w.mu.Lock()
	if s.Empty() {
		w.status.Selection = ""
	} else {
		w.status.Selection = fmt.Sprintf("(%d selected)", s.Chars)
	}
	w.publishLocked(Event{Kind: SelectionChanged, File: w.active})
}

func cursorLabel(p Position) string {
	return fmt.Sprintf("Ln %d, Col %d", p.Line, p.Column)
}
