package internal

import (
	"crypto/md5"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	tt "github.com/gnolang/tdup/internal/types"
)

const (
	cacheFileName   = "statement_cache.gob"
	defaultCacheAge = 24 * time.Hour
)

type fileMetadata struct {
	Hash         string
	LastModified time.Time
}

// CacheEntry is one cached report. Fingerprint identifies the language
// profile and policy the report was produced with.
type CacheEntry struct {
	Metadata     fileMetadata
	Fingerprint  string
	Report       tt.FileReport
	CreatedAt    time.Time
	LastAccessed time.Time
}

// cacheFile is the on-disk layout. Dependency hashes are stored next to
// the entries so that a later run can tell whether the configuration
// changed in between.
type cacheFile struct {
	Dependencies map[string]string
	Entries      map[string]CacheEntry
}

// Cache keeps the statements of previously processed files on disk.
// An entry is dropped when the file content changes, when it is older than
// the max age, when it was produced under another fingerprint, or when one
// of the dependency files (such as the configuration) changes, including
// between runs.
type Cache struct {
	CacheDir         string
	entries          map[string]CacheEntry
	mutex            sync.RWMutex
	maxAge           time.Duration
	dependencyFiles  []string
	dependencyHashes map[string]string
	// dependency hashes read from the cache file
	storedHashes map[string]string
}

func NewCache(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir:         cacheDir,
		entries:          make(map[string]CacheEntry),
		maxAge:           defaultCacheAge,
		dependencyHashes: make(map[string]string),
		storedHashes:     make(map[string]string),
	}

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	return cache, nil
}

func (c *Cache) load() error {
	cachePath := filepath.Join(c.CacheDir, cacheFileName)
	file, err := os.Open(cachePath)
	if os.IsNotExist(err) {
		return nil // first run
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	var stored cacheFile
	if err := gob.NewDecoder(file).Decode(&stored); err != nil {
		// unreadable or older layout, start over
		return nil
	}
	if stored.Entries != nil {
		c.entries = stored.Entries
	}
	if stored.Dependencies != nil {
		c.storedHashes = stored.Dependencies
	}

	return nil
}

func (c *Cache) save() error {
	cachePath := filepath.Join(c.CacheDir, cacheFileName)
	file, err := os.Create(cachePath)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	encoder := gob.NewEncoder(file)
	stored := cacheFile{Dependencies: c.dependencyHashes, Entries: c.entries}
	if err := encoder.Encode(stored); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}

	return nil
}

// Set stores the report of filename produced under fingerprint. The file
// must exist, its hash is recorded to detect later changes.
func (c *Cache) Set(filename, fingerprint string, report tt.FileReport) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	metadata, err := getFileMetadata(filename)
	if err != nil {
		return fmt.Errorf("failed to get file metadata: %w", err)
	}

	now := time.Now()
	c.entries[filename] = CacheEntry{
		Metadata:     metadata,
		Fingerprint:  fingerprint,
		Report:       report,
		CreatedAt:    now,
		LastAccessed: now,
	}

	return c.save()
}

// Get returns the cached report of filename if it is still valid and was
// produced under fingerprint.
func (c *Cache) Get(filename, fingerprint string) (tt.FileReport, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return tt.FileReport{}, false
	}

	if entry.Fingerprint != fingerprint {
		return tt.FileReport{}, false
	}

	if c.isEntryInvalid(filename, entry) {
		delete(c.entries, filename)
		return tt.FileReport{}, false
	}

	entry.LastAccessed = time.Now()
	c.entries[filename] = entry

	return entry.Report, true
}

func (c *Cache) isEntryInvalid(filename string, entry CacheEntry) bool {
	if c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}

	currentMetadata, err := getFileMetadata(filename)
	if err != nil || currentMetadata.Hash != entry.Metadata.Hash ||
		!currentMetadata.LastModified.Equal(entry.Metadata.LastModified) {
		return true
	}

	return c.haveDependenciesChanged()
}

// AddDependency registers a file whose change invalidates every entry.
// Entries loaded from disk are dropped when the file differs from the
// version recorded by the run that wrote them.
func (c *Cache) AddDependency(filename string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	hash, err := getFileHash(filename)
	if err != nil {
		return fmt.Errorf("failed to get hash for %s: %w", filename, err)
	}
	c.dependencyFiles = append(c.dependencyFiles, filename)
	c.dependencyHashes[filename] = hash

	if stored, ok := c.storedHashes[filename]; (!ok || stored != hash) && len(c.entries) > 0 {
		c.entries = make(map[string]CacheEntry)
	}
	c.storedHashes[filename] = hash
	return c.save()
}

func (c *Cache) haveDependenciesChanged() bool {
	for _, file := range c.dependencyFiles {
		hash, err := getFileHash(file)
		if err != nil {
			return true
		}

		if hash != c.dependencyHashes[file] {
			return true
		}
	}

	return false
}

// SetMaxAge sets how long entries stay valid. Zero disables expiry.
func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

func (c *Cache) InvalidateAll() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]CacheEntry)
	_ = c.save() // manual operation, a stale file is reloaded as empty next time anyway
}

// Len returns the number of entries currently held.
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

func getFileMetadata(filename string) (fileMetadata, error) {
	file, err := os.Open(filename)
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return fileMetadata{}, fmt.Errorf("failed to calculate hash: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to get file info: %w", err)
	}

	return fileMetadata{
		Hash:         fmt.Sprintf("%x", hash.Sum(nil)),
		LastModified: info.ModTime(),
	}, nil
}

func getFileHash(filename string) (string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
