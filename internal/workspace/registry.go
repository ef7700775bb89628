package workspace

import (
	"strings"

	"github.com/petervdpas/codestudio/internal/lang"
)

// AddFile creates a file and records its name. An empty language is
// inferred from the name. Names are not required to be unique; a blank
// name creates nothing.
func (w *Workspace) AddFile(name, content, language string) (FileRecord, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FileRecord{}, false
	}

	w.mu.Lock()
	f := w.addLocked(name, content, language)
	rec := *f
	w.publishLocked(Event{Kind: FileAdded, File: rec.ID})
	return rec, true
}

// Open activates the first resident file named name, or creates an empty
// one and activates it. The name is recorded either way.
func (w *Workspace) Open(name string) (FileRecord, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return FileRecord{}, false
	}

	f, ok := w.FindByName(name)
	if ok {
		if w.recorder != nil {
			w.recorder.Record(name)
		}
	} else if f, ok = w.AddFile(name, "", ""); !ok {
		return FileRecord{}, false
	}
	if !w.Select(f.ID) {
		return FileRecord{}, false
	}
	return w.File(f.ID)
}

func (w *Workspace) addLocked(name, content, language string) *FileRecord {
	if language == "" {
		language = lang.Infer(name)
	}
	w.nextID++
	f := &FileRecord{
		ID:       w.nextID,
		Name:     name,
		Path:     name,
		Content:  content,
		Language: language,
	}
	w.files[f.ID] = f
	w.order = append(w.order, f.ID)

	if w.recorder != nil {
		w.recorder.Record(name)
	}
	log.Debugf("added file %d %q (%s)", f.ID, name, language)
	return f
}

// DeleteFile removes a file. Deleting the active file returns the
// workspace to idle without committing the widget content. Unknown ids
// are ignored.
func (w *Workspace) DeleteFile(id FileID) bool {
	w.mu.Lock()
	if _, ok := w.files[id]; !ok {
		w.mu.Unlock()
		return false
	}

	delete(w.files, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	if w.active == id {
		w.active = 0
		w.status = StatusBar{}
	}
	log.Debugf("deleted file %d", id)
	w.publishLocked(Event{Kind: FileDeleted, File: id})
	return true
}

// CloseTab closes a tab. Closing discards the file.
func (w *Workspace) CloseTab(id FileID) bool {
	return w.DeleteFile(id)
}

// RenameFile changes a file's name and re-derives its language. An empty
// name or unknown id is ignored. When the file is active the widget mode
// follows the new language.
func (w *Workspace) RenameFile(id FileID, newName string) bool {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return false
	}

	w.mu.Lock()
	f, ok := w.files[id]
	if !ok {
		w.mu.Unlock()
		return false
	}
	f.Name = newName
	f.Language = lang.Infer(newName)

	if w.active == id {
		if w.editor != nil {
			w.editor.SetLanguage(f.Language)
		}
		w.status.Language = lang.DisplayName(f.Language)
	}
	w.publishLocked(Event{Kind: FileRenamed, File: id})
	return true
}

// DuplicateFile adds a copy named "<base>_copy<ext>" with the same content
// and language. The copy of the active file takes the live widget value.
// The copy is not activated.
func (w *Workspace) DuplicateFile(id FileID) (FileRecord, bool) {
	w.mu.Lock()
	src, ok := w.files[id]
	if !ok {
		w.mu.Unlock()
		return FileRecord{}, false
	}

	content := src.Content
	if id == w.active && w.editor != nil {
		content = w.editor.Value()
	}
	f := w.addLocked(lang.CopyName(src.Name), content, src.Language)
	rec := *f
	w.publishLocked(Event{Kind: FileAdded, File: rec.ID})
	return rec, true
}

// Files returns all files in insertion order.
func (w *Workspace) Files() []FileRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.filesLocked()
}

// File returns the stored record for id.
func (w *Workspace) File(id FileID) (FileRecord, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	f, ok := w.files[id]
	if !ok {
		return FileRecord{}, false
	}
	return *f, true
}

// FindByName returns the first file, in insertion order, with the exact
// name.
func (w *Workspace) FindByName(name string) (FileRecord, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range w.order {
		if f := w.files[id]; f.Name == name {
			return *f, true
		}
	}
	return FileRecord{}, false
}

// Len returns the number of resident files.
func (w *Workspace) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.order)
}
