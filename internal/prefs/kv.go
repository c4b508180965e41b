package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/mitchellh/go-homedir"
)

// KV is a durable string slot store, keyed by name.
type KV interface {
	// Get returns the value stored under key.
	Get(key string) (string, bool)

	// Set stores value under key.
	Set(key, value string) error
}

// MemoryKV keeps slots in memory. It is used in tests and when no data
// directory is available.
type MemoryKV struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemoryKV creates an empty in-memory slot store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{slots: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.slots[key]
	return v, ok
}

// Set stores value under key.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
	return nil
}

// FileKV stores every slot in a single JSON object on disk. Writes replace
// the file atomically.
type FileKV struct {
	path string
	mu   sync.Mutex
}

// NewFileKV creates a slot store backed by the file at path. A leading "~"
// is expanded to the user's home directory.
func NewFileKV(path string) (*FileKV, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("unable to expand path %q: %w", path, err)
	}
	return &FileKV{path: expanded}, nil
}

// DefaultPath returns the preference file location in the user data dir.
func DefaultPath() (string, error) {
	scope := gap.NewScope(gap.User, "inclove")
	p, err := scope.DataPath("preferences.json")
	if err != nil {
		return "", fmt.Errorf("unable to resolve data path: %w", err)
	}
	return p, nil
}

// Path returns the backing file path.
func (f *FileKV) Path() string {
	return f.path
}

// Get returns the value stored under key.
func (f *FileKV) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.read()
	if err != nil {
		log.Warn("Could not read preference file", "path", f.path, "error", err)
		return "", false
	}
	v, ok := slots[key]
	return v, ok
}

// Set stores value under key.
func (f *FileKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	slots, err := f.read()
	if err != nil {
		// a corrupt file is replaced rather than blocking every save
		log.Warn("Replacing unreadable preference file", "path", f.path, "error", err)
		slots = make(map[string]string)
	}
	slots[key] = value

	b, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode slots: %w", err)
	}
	return writeFileAtomic(f.path, b)
}

func (f *FileKV) read() (map[string]string, error) {
	slots := make(map[string]string)
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return slots, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read file: %w", err)
	}
	if len(b) == 0 {
		return slots, nil
	}
	if err := json.Unmarshal(b, &slots); err != nil {
		return nil, fmt.Errorf("unable to decode file: %w", err)
	}
	return slots, nil
}

func writeFileAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("unable to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".preferences-*")
	if err != nil {
		return fmt.Errorf("unable to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("unable to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("unable to replace file: %w", err)
	}
	return nil
}
