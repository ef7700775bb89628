package recent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/petervdpas/codestudio/internal/util"
)

// Key is the storage key holding the JSON array of names.
const Key = "recentFiles"

// MemoryStore keeps the ledger for the lifetime of the process.
type MemoryStore struct {
	mu    sync.Mutex
	names []string
}

func NewMemoryStore(names ...string) *MemoryStore {
	return &MemoryStore{names: names}
}

func (m *MemoryStore) Load() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.names...), nil
}

func (m *MemoryStore) Save(names []string) error {
	m.mu.Lock()
	m.names = append([]string(nil), names...)
	m.mu.Unlock()
	return nil
}

// FileStore keeps the ledger as a JSON array in a file.
type FileStore struct {
	path string

	mu   sync.Mutex
	last []string // what this store last wrote
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the ledger file path.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load() ([]string, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.path, err)
	}
	return names, nil
}

func (f *FileStore) Save(names []string) error {
	if names == nil {
		names = []string{}
	}
	if err := util.WriteJSONFile(f.path, names); err != nil {
		return err
	}
	f.mu.Lock()
	f.last = append([]string(nil), names...)
	f.mu.Unlock()
	return nil
}

// ownWrite reports whether names is what this store last wrote.
func (f *FileStore) ownWrite(names []string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last != nil && equal(f.last, names)
}

// reload applies a change made by another writer. Content this store
// wrote itself is skipped: reading it back can race a newer Record whose
// save has not landed yet.
func (f *FileStore) reload(l *Ledger) {
	names, err := f.Load()
	if err != nil {
		log.Warnf("reload recent files: %v", err)
		return
	}
	if f.ownWrite(names) {
		return
	}
	l.replace(normalize(names))
}

// Watch reloads l whenever another writer changes the ledger file, until
// ctx is done.
func (f *FileStore) Watch(ctx context.Context, l *Ledger) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	// The file is replaced by rename on save, so watch the directory.
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	base := filepath.Base(f.path)
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
					f.reload(l)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("ledger watcher error: %v", err)
			}
		}
	}()
	return nil
}

// MetaStore is the key/value surface of the SQLite database.
type MetaStore interface {
	GetMeta(key string) (string, bool, error)
	SetMeta(key, value string) error
}

// DBStore keeps the ledger under Key in the database meta table.
type DBStore struct {
	db MetaStore
}

func NewDBStore(db MetaStore) *DBStore {
	return &DBStore{db: db}
}

func (d *DBStore) Load() ([]string, error) {
	v, ok, err := d.db.GetMeta(Key)
	if err != nil || !ok {
		return nil, err
	}
	var names []string
	if err := json.Unmarshal([]byte(v), &names); err != nil {
		return nil, fmt.Errorf("parse %s: %w", Key, err)
	}
	return names, nil
}

func (d *DBStore) Save(names []string) error {
	if names == nil {
		names = []string{}
	}
	b, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return d.db.SetMeta(Key, string(b))
}
