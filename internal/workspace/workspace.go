// Package workspace holds the IDE state: the file registry, the single
// active selection, and the view derived from both.
//
// All mutations go through a Workspace. Each one runs under a single
// mutex, so transitions never interleave, and ends by publishing an Event
// together with a freshly derived View to every subscribed Observer.
package workspace

import (
	"sync"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("codestudio/workspace")

// FileID identifies a FileRecord. IDs come from a per-workspace counter
// and are never reused. The zero value means "no file".
type FileID uint64

// FileRecord is one open file.
type FileRecord struct {
	ID       FileID `json:"id"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"`
	Modified bool   `json:"modified"`
}

// Editor is the editing widget boundary. While a file is active the
// widget holds its live content.
type Editor interface {
	Value() string
	SetValue(text string)
	SetLanguage(language string)
}

// Recorder is told about every file name that is created.
type Recorder interface {
	Record(name string)
}

// EventKind names the mutation that produced an Event.
type EventKind string

const (
	FileAdded        EventKind = "file.added"
	FileDeleted      EventKind = "file.deleted"
	FileRenamed      EventKind = "file.renamed"
	FileSaved        EventKind = "file.saved"
	ActiveChanged    EventKind = "active.changed"
	ContentChanged   EventKind = "content.changed"
	CursorMoved      EventKind = "cursor.moved"
	SelectionChanged EventKind = "selection.changed"
)

// Event describes a completed mutation.
type Event struct {
	Kind EventKind `json:"kind"`
	File FileID    `json:"file,omitempty"`
}

// Observer receives every Event with the View derived right after it.
// Observers run synchronously and must not call back into the Workspace.
type Observer func(Event, View)

// Workspace owns the registry and the active selection.
type Workspace struct {
	mu       sync.Mutex
	files    map[FileID]*FileRecord
	order    []FileID
	nextID   FileID
	active   FileID
	editor   Editor
	recorder Recorder
	status   StatusBar

	observers map[int]Observer
	nextObs   int

	// held while observers run so deliveries keep mutation order
	deliver sync.Mutex
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithEditor attaches the editing widget.
func WithEditor(e Editor) Option {
	return func(w *Workspace) { w.editor = e }
}

// WithRecorder attaches the recent-files hook.
func WithRecorder(r Recorder) Option {
	return func(w *Workspace) { w.recorder = r }
}

// New creates an empty workspace in the idle state.
func New(opts ...Option) *Workspace {
	w := &Workspace{
		files:     make(map[FileID]*FileRecord),
		observers: make(map[int]Observer),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Subscribe registers an observer and returns a function that removes it.
func (w *Workspace) Subscribe(o Observer) (cancel func()) {
	w.mu.Lock()
	id := w.nextObs
	w.nextObs++
	w.observers[id] = o
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.observers, id)
		w.mu.Unlock()
	}
}

// publishLocked derives the view, releases w.mu and delivers ev.
// Callers must hold w.mu and must not touch state afterwards.
func (w *Workspace) publishLocked(ev Event) {
	view := w.viewLocked()
	obs := make([]Observer, 0, len(w.observers))
	for i := 0; i < w.nextObs; i++ {
		if o, ok := w.observers[i]; ok {
			obs = append(obs, o)
		}
	}

	w.deliver.Lock()
	w.mu.Unlock()
	defer w.deliver.Unlock()

	for _, o := range obs {
		o(ev, view)
	}
}

// Snapshot returns the current view.
func (w *Workspace) Snapshot() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewLocked()
}

func (w *Workspace) viewLocked() View {
	return Derive(w.filesLocked(), w.active, w.status)
}

func (w *Workspace) filesLocked() []FileRecord {
	out := make([]FileRecord, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, *w.files[id])
	}
	return out
}
