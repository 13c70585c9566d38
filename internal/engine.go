package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnolang/tdup/internal/lang"
	"github.com/gnolang/tdup/internal/token"
	tt "github.com/gnolang/tdup/internal/types"
)

// Engine runs source files through the language profiles and produces one
// FileReport per file. Files are independent: each run builds its own
// token queue, so Run may be called from several goroutines.
type Engine struct {
	rootDir  string
	registry *lang.Registry
	cache    *Cache
	logger   *zap.Logger

	mu           sync.RWMutex
	ignoredPaths []string

	// watch mode
	watcher    *fsnotify.Watcher
	onReport   func(tt.FileReport, error)
	isWatching bool
	done       chan struct{}
}

// NewEngine creates an engine resolving languages through registry.
// A nil logger disables logging.
func NewEngine(rootDir string, registry *lang.Registry, logger *zap.Logger) (*Engine, error) {
	if registry == nil {
		return nil, fmt.Errorf("engine requires a language registry")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		rootDir:  rootDir,
		registry: registry,
		logger:   logger,
	}, nil
}

// EnableCache stores reports under cacheDir. Changes to any of the
// dependency files invalidate the whole cache.
func (e *Engine) EnableCache(cacheDir string, dependencies ...string) error {
	cache, err := NewCache(cacheDir)
	if err != nil {
		return err
	}
	for _, dep := range dependencies {
		if err := cache.AddDependency(dep); err != nil {
			return err
		}
	}
	e.cache = cache
	return nil
}

// Cache returns the report cache, nil when caching is disabled.
func (e *Engine) Cache() *Cache { return e.cache }

// Registry returns the languages known to the engine.
func (e *Engine) Registry() *lang.Registry { return e.registry }

// Supports reports whether a language is registered for the file extension.
func (e *Engine) Supports(filename string) bool {
	_, ok := e.registry.ForFile(filename)
	return ok
}

// IgnorePath excludes files matching pattern. The pattern is matched with
// filepath.Match against the path relative to the root directory and
// against the base name; a pattern naming a directory excludes everything
// below it.
func (e *Engine) IgnorePath(pattern string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ignoredPaths = append(e.ignoredPaths, filepath.Clean(pattern))
}

// IsIgnored reports whether filename matches one of the ignored patterns.
func (e *Engine) IsIgnored(filename string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rel := filename
	if r, err := filepath.Rel(e.rootDir, filename); err == nil && !strings.HasPrefix(r, "..") {
		rel = r
	}
	base := filepath.Base(filename)
	for _, pattern := range e.ignoredPaths {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if rel == pattern || strings.HasPrefix(rel, pattern+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run tokenizes the file into statements.
func (e *Engine) Run(filename string) (tt.FileReport, error) {
	if e.IsIgnored(filename) {
		return tt.FileReport{Filename: filename}, nil
	}

	profile, ok := e.registry.ForFile(filename)
	if !ok {
		return tt.FileReport{}, fmt.Errorf("no language registered for %s", filename)
	}

	if e.cache != nil {
		if report, ok := e.cache.Get(filename, profile.Fingerprint()); ok {
			e.logger.Debug("cache hit", zap.String("file", filename))
			return report, nil
		}
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return tt.FileReport{}, fmt.Errorf("error reading file: %w", err)
	}

	report, err := e.run(profile, filename, src)
	if err != nil {
		return tt.FileReport{}, fmt.Errorf("error processing %s: %w", filename, err)
	}

	if e.cache != nil {
		if err := e.cache.Set(filename, profile.Fingerprint(), report); err != nil {
			// a cache failure never fails the run
			e.logger.Warn("failed to cache report", zap.String("file", filename), zap.Error(err))
		}
	}

	return report, nil
}

// RunSource tokenizes src with the profile called language.
func (e *Engine) RunSource(language string, src []byte) (tt.FileReport, error) {
	profile, ok := e.registry.ByName(language)
	if !ok {
		return tt.FileReport{}, fmt.Errorf("unknown language %q", language)
	}
	return e.run(profile, "", src)
}

func (e *Engine) run(profile *lang.Profile, filename string, src []byte) (tt.FileReport, error) {
	toks, err := profile.Tokens(src)
	if err != nil {
		return tt.FileReport{}, err
	}

	res, err := profile.Chunker.Chunk(token.NewQueue(toks))
	if err != nil {
		return tt.FileReport{}, fmt.Errorf("%s statements: %w", profile.Name, err)
	}

	if len(res.Unmatched) > 0 {
		e.logger.Debug("skipped unmatched tokens",
			zap.String("file", filename),
			zap.Int("count", len(res.Unmatched)))
	}

	return tt.FileReport{
		Filename:   filename,
		Language:   profile.Name,
		Tokens:     len(toks),
		Statements: res.Statements,
		Unmatched:  res.Unmatched,
	}, nil
}

// Tokens returns the raw tokens of the file, before statement chunking.
func (e *Engine) Tokens(filename string) ([]token.Token, error) {
	profile, ok := e.registry.ForFile(filename)
	if !ok {
		return nil, fmt.Errorf("no language registered for %s", filename)
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return profile.Tokens(src)
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(content), "\n")
	return &SourceCode{Lines: lines}, nil
}
