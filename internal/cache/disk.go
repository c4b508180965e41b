package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
	gap "github.com/muesli/go-app-paths"
)

// ErrItemTooLarge is returned when an item exceeds the cache capacity.
var ErrItemTooLarge = errors.New("item too large for cache")

const fileExt = ".zst"

// Stats holds cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int64 // bytes on disk
	Items     int
}

type entry struct {
	path       string
	size       int64
	lastAccess time.Time
}

// Disk stores compressed values as one file per key and evicts the least
// recently used files when the capacity is exceeded.
type Disk struct {
	dir      string
	capacity int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu    sync.Mutex
	index map[string]*entry
	size  int64
	stats Stats
}

// DefaultDir returns the cache directory in the user cache dir.
func DefaultDir() (string, error) {
	scope := gap.NewScope(gap.User, "inclove")
	dir, err := scope.CacheDir()
	if err != nil {
		return "", fmt.Errorf("unable to resolve cache dir: %w", err)
	}
	return filepath.Join(dir, "utterances"), nil
}

// NewDisk opens (or creates) a cache in dir holding at most capacity bytes.
func NewDisk(dir string, capacity int64) (*Disk, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d", capacity)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	d := &Disk{
		dir:      dir,
		capacity: capacity,
		encoder:  encoder,
		decoder:  decoder,
		index:    make(map[string]*entry),
	}
	if err := d.scan(); err != nil {
		log.Warn("Could not index utterance cache", "dir", dir, "error", err)
	}
	return d, nil
}

// scan rebuilds the index from the files already on disk.
func (d *Disk) scan() error {
	return filepath.WalkDir(d.dir, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() || !strings.HasSuffix(de.Name(), fileExt) {
			return nil
		}
		info, err := de.Info()
		if err != nil {
			return nil
		}
		key := strings.TrimSuffix(de.Name(), fileExt)
		d.index[key] = &entry{path: path, size: info.Size(), lastAccess: info.ModTime()}
		d.size += info.Size()
		return nil
	})
}

// Get returns the decompressed value for key.
func (d *Disk) Get(key string) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.index[key]
	if !ok {
		d.stats.Misses++
		return nil, false
	}

	data, err := os.ReadFile(e.path)
	if err == nil {
		data, err = d.decoder.DecodeAll(data, nil)
	}
	if err != nil {
		// missing or corrupted: forget it
		d.remove(key, e)
		d.stats.Misses++
		return nil, false
	}

	now := time.Now()
	e.lastAccess = now
	_ = os.Chtimes(e.path, now, now)
	d.stats.Hits++
	return data, true
}

// Put compresses and stores value under key.
func (d *Disk) Put(key string, value []byte) error {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid cache key %q", key)
	}

	compressed := d.encoder.EncodeAll(value, nil)
	size := int64(len(compressed))
	if size > d.capacity {
		return ErrItemTooLarge
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if old, ok := d.index[key]; ok {
		d.remove(key, old)
	}
	for d.size+size > d.capacity && len(d.index) > 0 {
		d.evictOldest()
	}

	path := filepath.Join(d.dir, key+fileExt)
	if err := os.WriteFile(path, compressed, 0o600); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	d.index[key] = &entry{path: path, size: size, lastAccess: time.Now()}
	d.size += size
	return nil
}

// Stats returns a snapshot of the cache counters.
func (d *Disk) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.stats
	s.Size = d.size
	s.Items = len(d.index)
	return s
}

// Close releases the compression resources.
func (d *Disk) Close() error {
	d.decoder.Close()
	return d.encoder.Close()
}

func (d *Disk) evictOldest() {
	keys := make([]string, 0, len(d.index))
	for k := range d.index {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return d.index[keys[i]].lastAccess.Before(d.index[keys[j]].lastAccess)
	})
	oldest := keys[0]
	d.remove(oldest, d.index[oldest])
	d.stats.Evictions++
}

func (d *Disk) remove(key string, e *entry) {
	_ = os.Remove(e.path)
	delete(d.index, key)
	d.size -= e.size
}
